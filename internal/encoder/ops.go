package encoder

import (
	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/corerr"
	"github.com/hdlformal/ircheck/internal/biteval"
	"github.com/hdlformal/ircheck/internal/bvbuilder"
	"github.com/hdlformal/ircheck/internal/sortadapt"
	"github.com/hdlformal/ircheck/ir"
)

// visit dispatches a single node (other than Param, handled in
// encoder.go) to its per-opcode lowering. Every branch is bit-exact
// against the IR's semantics.
func (h *Handle) visit(n *ir.Node) (sortadapt.Term, error) {
	switch n.Op {
	case ir.OpLiteral:
		return h.visitLiteral(n)
	case ir.OpAdd:
		return h.bv(n, 0).Add(h.bv(n, 1)), nil
	case ir.OpSub:
		return h.bv(n, 0).Sub(h.bv(n, 1)), nil
	case ir.OpAnd:
		return h.bv(n, 0).And(h.bv(n, 1)), nil
	case ir.OpOr:
		return h.bv(n, 0).Or(h.bv(n, 1)), nil
	case ir.OpXor:
		return h.bv(n, 0).Xor(h.bv(n, 1)), nil
	case ir.OpNand:
		return h.bv(n, 0).And(h.bv(n, 1)).Not(), nil
	case ir.OpNor:
		return h.bv(n, 0).Or(h.bv(n, 1)).Not(), nil
	case ir.OpNot:
		return h.bv(n, 0).Not(), nil
	case ir.OpNeg:
		return h.bv(n, 0).Neg(), nil
	case ir.OpIdentity:
		return h.GetTranslation(n.Operands[0]), nil

	case ir.OpAndReduce:
		return h.reduce(n, biteval.AndReduce[z3.BV]), nil
	case ir.OpOrReduce:
		return h.reduce(n, biteval.OrReduce[z3.BV]), nil
	case ir.OpXorReduce:
		return h.reduce(n, biteval.XorReduce[z3.BV]), nil

	case ir.OpULt, ir.OpULe, ir.OpUGt, ir.OpUGe,
		ir.OpSLt, ir.OpSLe, ir.OpSGt, ir.OpSGe,
		ir.OpEq, ir.OpNe:
		return h.visitCompare(n)

	case ir.OpShll, ir.OpShrl, ir.OpShra:
		return h.visitShift(n)

	case ir.OpConcat:
		ops := make([]z3.BV, len(n.Operands))
		for i := range n.Operands {
			ops[i] = h.bv(n, i)
		}
		return bvbuilder.ConcatN(ops), nil

	case ir.OpZeroExt:
		in := h.bv(n, 0)
		return in.ZeroExtend(n.Attrs.NewBitWidth - in.Sort().BVSize()), nil
	case ir.OpSignExt:
		in := h.bv(n, 0)
		return in.SignExtend(n.Attrs.NewBitWidth - in.Sort().BVSize()), nil
	case ir.OpBitSlice:
		in := h.bv(n, 0)
		return in.Extract(n.Attrs.SliceStart+n.Attrs.SliceWidth-1, n.Attrs.SliceStart), nil

	case ir.OpEncode:
		return h.visitEncode(n)
	case ir.OpOneHot:
		return h.visitOneHot(n)
	case ir.OpReverse:
		return h.visitReverse(n)

	case ir.OpArrayIndex:
		return h.visitArrayIndex(n)
	case ir.OpArray:
		return h.visitArrayCtor(n)
	case ir.OpTuple:
		return h.visitTupleCtor(n)
	case ir.OpTupleIndex:
		return h.adaptor.TupleField(n.Operands[0].Type, h.GetTranslation(n.Operands[0]), n.Attrs.TupleIndexIdx), nil

	case ir.OpUMul:
		return h.visitMul(n, false)
	case ir.OpSMul:
		return h.visitMul(n, true)

	case ir.OpSelect:
		return h.visitSelect(n)
	case ir.OpOneHotSel:
		return h.visitOneHotSel(n)

	default:
		return nil, corerr.Unimplementedf("opcode %s not supported by the encoder (node %s)", n.Op, n)
	}
}

// bv is a convenience accessor for an already-encoded bit-vector operand.
func (h *Handle) bv(n *ir.Node, operand int) z3.BV {
	return h.GetTranslation(n.Operands[operand]).(z3.BV)
}

func (h *Handle) visitLiteral(n *ir.Node) (sortadapt.Term, error) {
	bits := n.Attrs.LiteralBits
	if len(bits) == 0 {
		return h.ctx.Z3.FromInt(0, h.ctx.Z3.BVSort(n.Type.BitWidth)), nil
	}
	// LSb-first bit pattern -> build via Fill-per-bit concatenation
	// (MSb-first for ConcatN), which is just Reverse+ConcatN.
	parts := make([]z3.BV, len(bits))
	for i, b := range bits {
		v := int64(0)
		if b {
			v = 1
		}
		parts[len(bits)-1-i] = bvbuilder.Fill(h.ctx.Z3, v, 1)
	}
	return bvbuilder.ConcatN(parts), nil
}

func (h *Handle) reduce(n *ir.Node, fn func(biteval.Algebra[z3.BV], []z3.BV) []z3.BV) sortadapt.Term {
	bits := bvbuilder.ExplodeBits(h.bv(n, 0))
	return fn(z3BitAlgebra{h.ctx.Z3}, bits)[0]
}

func (h *Handle) visitShift(n *ir.Node) (sortadapt.Term, error) {
	val := h.bv(n, 0)
	amt := h.bv(n, 1)
	valWidth := val.Sort().BVSize()
	amtWidth := amt.Sort().BVSize()
	if amtWidth > valWidth {
		return nil, corerr.InvalidArgumentf("shift amount width %d exceeds value width %d in node %s", amtWidth, valWidth, n)
	}
	if amtWidth < valWidth {
		amt = amt.ZeroExtend(valWidth - amtWidth)
	}
	switch n.Op {
	case ir.OpShll:
		return val.Lsh(amt), nil
	case ir.OpShrl:
		return val.URsh(amt), nil
	default: // OpShra
		return val.SRsh(amt), nil
	}
}

func (h *Handle) visitArrayIndex(n *ir.Node) (sortadapt.Term, error) {
	arr := h.GetTranslation(n.Operands[0]).(z3.Array)
	idx := h.bv(n, 1)
	arrType := n.Operands[0].Type
	idxWidth := ir.MinBitCountUnsigned(arrType.ArraySize - 1)
	w := idx.Sort().BVSize()
	if w < idxWidth {
		idx = idx.ZeroExtend(idxWidth - w)
		w = idxWidth
	}
	// Clamp at the incoming width before narrowing, so an out-of-range
	// index whose low bits happen to be in range still selects the last
	// element.
	clampVal := bvbuilder.Fill(h.ctx.Z3, int64(arrType.ArraySize-1), w)
	idx = bvbuilder.Min(idx, clampVal)
	if w > idxWidth {
		idx = idx.Extract(idxWidth-1, 0)
	}
	return arr.Select(idx), nil
}

func (h *Handle) visitArrayCtor(n *ir.Node) (sortadapt.Term, error) {
	elems := make([]sortadapt.Term, len(n.Operands))
	for i, op := range n.Operands {
		elems[i] = h.GetTranslation(op)
	}
	return h.adaptor.MakeArray(n.Type, elems), nil
}

func (h *Handle) visitTupleCtor(n *ir.Node) (sortadapt.Term, error) {
	fields := make([]sortadapt.Term, len(n.Operands))
	for i, op := range n.Operands {
		fields[i] = h.GetTranslation(op)
	}
	return h.adaptor.MakeTuple(n.Type, fields), nil
}

func extendTo(x z3.BV, w int, signed bool) z3.BV {
	cur := x.Sort().BVSize()
	if cur == w {
		return x
	}
	if signed {
		return x.SignExtend(w - cur)
	}
	return x.ZeroExtend(w - cur)
}

func (h *Handle) visitMul(n *ir.Node, signed bool) (sortadapt.Term, error) {
	lhs := h.bv(n, 0)
	rhs := h.bv(n, 1)
	resultWidth := n.Type.BitWidth
	w := maxInt(lhs.Sort().BVSize(), rhs.Sort().BVSize(), resultWidth)
	if !signed {
		w++
	}
	product := extendTo(lhs, w, signed).Mul(extendTo(rhs, w, signed))
	return product.Extract(resultWidth-1, 0), nil
}

func maxInt(xs ...int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func (h *Handle) visitEncode(n *ir.Node) (sortadapt.Term, error) {
	bits := bvbuilder.ExplodeBits(h.bv(n, 0))
	result := biteval.Encode(z3BitAlgebra{h.ctx.Z3}, bits, n.Type.BitWidth)
	return bvbuilder.ConcatN(biteval.Reverse(result)), nil
}

func (h *Handle) visitOneHot(n *ir.Node) (sortadapt.Term, error) {
	bits := bvbuilder.ExplodeBits(h.bv(n, 0))
	result := biteval.OneHot(z3BitAlgebra{h.ctx.Z3}, bits, n.Attrs.OneHotPriority == ir.PriorityLSb)
	return bvbuilder.ConcatN(biteval.Reverse(result)), nil
}

func (h *Handle) visitReverse(n *ir.Node) (sortadapt.Term, error) {
	bits := bvbuilder.ExplodeBits(h.bv(n, 0))
	result := biteval.Reverse(bits)
	return bvbuilder.ConcatN(biteval.Reverse(result)), nil
}

func (h *Handle) flattenOperand(n *ir.Node, idx int) []sortadapt.Term {
	op := n.Operands[idx]
	return h.adaptor.FlattenValue(op.Type, h.GetTranslation(op))
}

func (h *Handle) visitSelect(n *ir.Node) (sortadapt.Term, error) {
	selBits := bvbuilder.ExplodeBits(h.bv(n, 0))
	numCaseOperands := len(n.Operands) - 1
	if n.Attrs.SelectHasDefault {
		numCaseOperands--
	}
	cases := make([][]z3.BV, numCaseOperands)
	for i := 0; i < numCaseOperands; i++ {
		cases[i] = asBVs(h.flattenOperand(n, 1+i))
	}
	var def []z3.BV
	if n.Attrs.SelectHasDefault {
		def = asBVs(h.flattenOperand(n, len(n.Operands)-1))
	}
	result := biteval.Select(z3BitAlgebra{h.ctx.Z3}, selBits, cases, def)
	reversed := asTerms(biteval.Reverse(result))
	return h.adaptor.UnflattenZ3Ast(n.Type, reversed), nil
}

func (h *Handle) visitOneHotSel(n *ir.Node) (sortadapt.Term, error) {
	selBits := bvbuilder.ExplodeBits(h.bv(n, 0))
	numCases := len(n.Operands) - 1
	cases := make([][]z3.BV, numCases)
	for i := 0; i < numCases; i++ {
		cases[i] = asBVs(h.flattenOperand(n, 1+i))
	}
	result := biteval.OneHotSelect(z3BitAlgebra{h.ctx.Z3}, selBits, cases)
	reversed := asTerms(biteval.Reverse(result))
	return h.adaptor.UnflattenZ3Ast(n.Type, reversed), nil
}

func asBVs(ts []sortadapt.Term) []z3.BV {
	out := make([]z3.BV, len(ts))
	for i, t := range ts {
		out[i] = t.(z3.BV)
	}
	return out
}

func asTerms(bs []z3.BV) []sortadapt.Term {
	out := make([]sortadapt.Term, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}
