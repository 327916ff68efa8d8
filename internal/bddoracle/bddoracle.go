// Package bddoracle bridges an IR function into a binary decision
// diagram, one BDD variable per flattened input bit, instantiating the
// shared per-bit evaluator over rudd.Node the same way internal/encoder
// instantiates it over z3.BV. The simplifier queries this oracle to
// decide whether a node is constant, or whether one node's value can be
// proven equal to another's, independent of solver calls.
package bddoracle

import (
	"github.com/dalzilio/rudd"

	"github.com/hdlformal/ircheck/internal/biteval"
	"github.com/hdlformal/ircheck/ir"
)

// Oracle owns a BDD universe sized to a function's flattened input bits
// and a cache of every node's per-bit BDD encoding.
type Oracle struct {
	set     rudd.Set
	bits    map[*ir.Node][]rudd.Node
	nextVar int
}

// bitAlgebra instantiates biteval.Algebra[rudd.Node] over a BDD set.
type bitAlgebra struct {
	set rudd.Set
}

func (a bitAlgebra) One() rudd.Node          { return a.set.True() }
func (a bitAlgebra) Zero() rudd.Node         { return a.set.False() }
func (a bitAlgebra) Not(x rudd.Node) rudd.Node     { return a.set.Not(x) }
func (a bitAlgebra) And(x, y rudd.Node) rudd.Node  { return a.set.And(x, y) }
func (a bitAlgebra) Or(x, y rudd.Node) rudd.Node   { return a.set.Or(x, y) }

// Build walks fn in topological order, assigning one fresh BDD variable
// per parameter bit (LSb-first, per the flattening convention shared
// with the encoder) and propagating each handled opcode's per-bit
// semantics through the same biteval primitives the solver-backed
// encoder uses; any other opcode gets fresh opaque variables.
func Build(fn *ir.Function) (*Oracle, error) {
	total := 0
	for _, p := range fn.Params {
		total += p.Type.FlatBitCount()
	}
	if total == 0 {
		total = 1
	}
	set := rudd.Hudd(total, 4*total+2)
	o := &Oracle{set: set, bits: make(map[*ir.Node][]rudd.Node, len(fn.Nodes)), nextVar: total}

	varIdx := 0
	for _, p := range fn.Params {
		n := p.Type.FlatBitCount()
		bits := make([]rudd.Node, n)
		for i := 0; i < n; i++ {
			bits[i] = set.Ithvar(varIdx)
			varIdx++
		}
		o.bits[p] = bits
	}
	alg := bitAlgebra{set}
	for _, n := range fn.Nodes {
		if n.Op == ir.OpParam {
			continue
		}
		o.bits[n] = o.evalNode(alg, n)
	}
	return o, nil
}

// Bits returns the cached per-bit BDD encoding (LSb-first) of n.
func (o *Oracle) Bits(n *ir.Node) []rudd.Node {
	return o.bits[n]
}

// IsConstant reports whether every bit of n's BDD encoding is a
// constant (true or false) node, and if so, returns the constant bits.
func (o *Oracle) IsConstant(n *ir.Node) ([]bool, bool) {
	bits := o.bits[n]
	out := make([]bool, len(bits))
	for i, b := range bits {
		switch b {
		case o.set.True():
			out[i] = true
		case o.set.False():
			out[i] = false
		default:
			return nil, false
		}
	}
	return out, true
}

// ConstTrue and ConstFalse expose the BDD set's constant nodes so
// callers can compare a bit against a known value without reaching
// into the underlying rudd.Set themselves.
func (o *Oracle) ConstTrue() rudd.Node  { return o.set.True() }
func (o *Oracle) ConstFalse() rudd.Node { return o.set.False() }

// IsKnownBit reports whether b is the constant true or false node.
func (o *Oracle) IsKnownBit(b rudd.Node) bool {
	return b == o.set.True() || b == o.set.False()
}

// BoolOf returns the concrete value of a bit known via IsKnownBit.
func (o *Oracle) BoolOf(b rudd.Node) bool {
	return b == o.set.True()
}

// ConstBoolsOf converts a slice of known bits to their boolean values;
// it panics if any bit is not constant, since callers only invoke it
// after confirming knownness via IsKnownBit.
func (o *Oracle) ConstBoolsOf(bits []rudd.Node) []bool {
	out := make([]bool, len(bits))
	for i, b := range bits {
		if !o.IsKnownBit(b) {
			panic("bddoracle: ConstBoolsOf called on a non-constant bit")
		}
		out[i] = o.BoolOf(b)
	}
	return out
}

// ImpliesFalse reports whether bit AND mask is the constant false,
// i.e. bit can never be true while mask holds.
func (o *Oracle) ImpliesFalse(bit, mask rudd.Node) bool {
	return o.set.And(bit, mask) == o.set.False()
}

// AndNot returns mask AND NOT(bit).
func (o *Oracle) AndNot(mask, bit rudd.Node) rudd.Node {
	return o.set.And(mask, o.set.Not(bit))
}

// Or returns the disjunction of two bits.
func (o *Oracle) Or(a, b rudd.Node) rudd.Node { return o.set.Or(a, b) }

// IsTrue reports whether a bit is provably the constant true.
func (o *Oracle) IsTrue(a rudd.Node) bool { return a == o.set.True() }

// Equivalent reports whether a and b are provably equal bit-for-bit
// under the BDD.
func (o *Oracle) Equivalent(a, b []rudd.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !o.set.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (o *Oracle) evalNode(alg bitAlgebra, n *ir.Node) []rudd.Node {
	operandBits := func(i int) []rudd.Node { return o.bits[n.Operands[i]] }

	switch n.Op {
	case ir.OpLiteral:
		out := make([]rudd.Node, len(n.Attrs.LiteralBits))
		for i, b := range n.Attrs.LiteralBits {
			if b {
				out[i] = alg.One()
			} else {
				out[i] = alg.Zero()
			}
		}
		return out
	case ir.OpNot:
		return mapBits(operandBits(0), alg.Not)
	case ir.OpAnd:
		return zipBits(operandBits(0), operandBits(1), alg.And)
	case ir.OpOr:
		return zipBits(operandBits(0), operandBits(1), alg.Or)
	case ir.OpNand:
		return mapBits(zipBits(operandBits(0), operandBits(1), alg.And), alg.Not)
	case ir.OpNor:
		return mapBits(zipBits(operandBits(0), operandBits(1), alg.Or), alg.Not)
	case ir.OpNeg:
		zero := make([]rudd.Node, len(operandBits(0)))
		for i := range zero {
			zero[i] = alg.Zero()
		}
		return biteval.Sub(alg, zero, operandBits(0))
	case ir.OpXor:
		return zipBits(operandBits(0), operandBits(1), func(x, y rudd.Node) rudd.Node {
			return alg.Or(alg.And(x, alg.Not(y)), alg.And(alg.Not(x), y))
		})
	case ir.OpIdentity:
		return operandBits(0)
	case ir.OpAndReduce:
		return []rudd.Node{biteval.AndReduce[rudd.Node](alg, operandBits(0))[0]}
	case ir.OpOrReduce:
		return []rudd.Node{biteval.OrReduce[rudd.Node](alg, operandBits(0))[0]}
	case ir.OpXorReduce:
		return []rudd.Node{biteval.XorReduce[rudd.Node](alg, operandBits(0))[0]}
	case ir.OpReverse:
		return biteval.Reverse(operandBits(0))
	case ir.OpConcat:
		// MSb-first operand order per the IR's concat convention;
		// the per-bit cache stores LSb-first, so append in reverse.
		var out []rudd.Node
		for i := len(n.Operands) - 1; i >= 0; i-- {
			out = append(out, operandBits(i)...)
		}
		return out
	case ir.OpBitSlice:
		full := operandBits(0)
		return append([]rudd.Node{}, full[n.Attrs.SliceStart:n.Attrs.SliceStart+n.Attrs.SliceWidth]...)
	case ir.OpZeroExt:
		full := operandBits(0)
		out := append([]rudd.Node{}, full...)
		for len(out) < n.Attrs.NewBitWidth {
			out = append(out, alg.Zero())
		}
		return out
	case ir.OpSignExt:
		full := operandBits(0)
		sign := full[len(full)-1]
		out := append([]rudd.Node{}, full...)
		for len(out) < n.Attrs.NewBitWidth {
			out = append(out, sign)
		}
		return out
	case ir.OpOneHot:
		return biteval.OneHot(alg, operandBits(0), n.Attrs.OneHotPriority == ir.PriorityLSb)
	case ir.OpEncode:
		return biteval.Encode(alg, operandBits(0), n.Type.BitWidth)
	case ir.OpAdd:
		return biteval.Add(alg, operandBits(0), operandBits(1))
	case ir.OpSub:
		return biteval.Sub(alg, operandBits(0), operandBits(1))
	case ir.OpEq:
		return []rudd.Node{biteval.Eq(alg, operandBits(0), operandBits(1))}
	case ir.OpNe:
		return []rudd.Node{alg.Not(biteval.Eq(alg, operandBits(0), operandBits(1)))}
	case ir.OpULt:
		return []rudd.Node{biteval.ULt(alg, operandBits(0), operandBits(1))}
	case ir.OpUGe:
		return []rudd.Node{alg.Not(biteval.ULt(alg, operandBits(0), operandBits(1)))}
	case ir.OpULe:
		lt := biteval.ULt(alg, operandBits(0), operandBits(1))
		eq := biteval.Eq(alg, operandBits(0), operandBits(1))
		return []rudd.Node{alg.Or(lt, eq)}
	case ir.OpUGt:
		lt := biteval.ULt(alg, operandBits(0), operandBits(1))
		eq := biteval.Eq(alg, operandBits(0), operandBits(1))
		return []rudd.Node{alg.Not(alg.Or(lt, eq))}
	case ir.OpSLt:
		return []rudd.Node{biteval.SLt(alg, operandBits(0), operandBits(1))}
	case ir.OpSGe:
		return []rudd.Node{alg.Not(biteval.SLt(alg, operandBits(0), operandBits(1)))}
	case ir.OpSLe:
		lt := biteval.SLt(alg, operandBits(0), operandBits(1))
		eq := biteval.Eq(alg, operandBits(0), operandBits(1))
		return []rudd.Node{alg.Or(lt, eq)}
	case ir.OpSGt:
		// SGt(a,b) = not(or(SLt(a,b), Eq(a,b))), matching the same
		// derivation used in internal/encoder/compare.go.
		lt := biteval.SLt(alg, operandBits(0), operandBits(1))
		eq := biteval.Eq(alg, operandBits(0), operandBits(1))
		return []rudd.Node{alg.Not(alg.Or(lt, eq))}
	case ir.OpSelect:
		return o.evalSelect(alg, n)
	case ir.OpOneHotSel:
		return o.evalOneHotSel(alg, n)
	default:
		// Operations not handled above (multiplies, shifts, tuples,
		// arrays) are treated as opaque: each gets its own
		// fresh BDD variables so the oracle never reports a false
		// equivalence between unrelated opaque values.
		width := n.Type.FlatBitCount()
		out := make([]rudd.Node, width)
		if width > 0 {
			o.set.SetVarnum(o.nextVar + width)
		}
		for i := range out {
			out[i] = o.set.Ithvar(o.nextVar)
			o.nextVar++
		}
		return out
	}
}

// evalSelect mirrors encoder.visitSelect but over BDD bits: flatten
// every case (and optional default) LSb-first and fold through
// biteval.Select, the same shared primitive the Z3 encoder uses.
func (o *Oracle) evalSelect(alg bitAlgebra, n *ir.Node) []rudd.Node {
	sel := o.bits[n.Operands[0]]
	numCases := len(n.Operands) - 1
	if n.Attrs.SelectHasDefault {
		numCases--
	}
	cases := make([][]rudd.Node, numCases)
	for i := 0; i < numCases; i++ {
		cases[i] = o.bits[n.Operands[1+i]]
	}
	var def []rudd.Node
	if n.Attrs.SelectHasDefault {
		def = o.bits[n.Operands[len(n.Operands)-1]]
	}
	return biteval.Select(alg, sel, cases, def)
}

// evalOneHotSel mirrors encoder.visitOneHotSel over BDD bits.
func (o *Oracle) evalOneHotSel(alg bitAlgebra, n *ir.Node) []rudd.Node {
	sel := o.bits[n.Operands[0]]
	cases := make([][]rudd.Node, len(n.Operands)-1)
	for i := range cases {
		cases[i] = o.bits[n.Operands[1+i]]
	}
	return biteval.OneHotSelect(alg, sel, cases)
}

func mapBits(xs []rudd.Node, f func(rudd.Node) rudd.Node) []rudd.Node {
	out := make([]rudd.Node, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

func zipBits(a, b []rudd.Node, f func(x, y rudd.Node) rudd.Node) []rudd.Node {
	out := make([]rudd.Node, len(a))
	for i := range a {
		out[i] = f(a[i], b[i])
	}
	return out
}
