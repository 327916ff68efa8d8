package ir

import "fmt"

// NewFunction topologically sorts the DAG reachable from ret, rooted at
// the given params (which must already be exactly the function's
// parameter set, in parameter order), and returns a Function ready for
// encoding or simplification.
//
// Computes the walk order once, up front, the same way a circuit
// validator walks its instructions in stored order; here the order is
// not given, it is derived, since this IR is a DAG of pointers rather
// than a pre-sequenced instruction list.
func NewFunction(name string, params []*Node, ret *Node) *Function {
	order := make([]*Node, 0)
	visited := make(map[*Node]bool)
	var visit func(n *Node)
	visit = func(n *Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, op := range n.Operands {
			visit(op)
		}
		order = append(order, n)
	}
	for _, p := range params {
		visit(p)
	}
	visit(ret)
	return &Function{Name: name, Params: params, Nodes: order, Return: ret}
}

func mkBinary(op Opcode, t Type, a, b *Node) *Node {
	return &Node{Op: op, Operands: []*Node{a, b}, Type: t}
}

func Add(a, b *Node) *Node  { return mkBinary(OpAdd, a.Type, a, b) }
func Sub(a, b *Node) *Node  { return mkBinary(OpSub, a.Type, a, b) }
func And(a, b *Node) *Node  { return mkBinary(OpAnd, a.Type, a, b) }
func Or(a, b *Node) *Node   { return mkBinary(OpOr, a.Type, a, b) }
func Xor(a, b *Node) *Node  { return mkBinary(OpXor, a.Type, a, b) }
func Nand(a, b *Node) *Node { return mkBinary(OpNand, a.Type, a, b) }
func Nor(a, b *Node) *Node  { return mkBinary(OpNor, a.Type, a, b) }

func Not(a *Node) *Node      { return &Node{Op: OpNot, Operands: []*Node{a}, Type: a.Type} }
func Neg(a *Node) *Node      { return &Node{Op: OpNeg, Operands: []*Node{a}, Type: a.Type} }
func Identity(a *Node) *Node { return &Node{Op: OpIdentity, Operands: []*Node{a}, Type: a.Type} }

func cmp(op Opcode, a, b *Node) *Node {
	return &Node{Op: op, Operands: []*Node{a, b}, Type: BitsType(1)}
}

func ULt(a, b *Node) *Node { return cmp(OpULt, a, b) }
func ULe(a, b *Node) *Node { return cmp(OpULe, a, b) }
func UGt(a, b *Node) *Node { return cmp(OpUGt, a, b) }
func UGe(a, b *Node) *Node { return cmp(OpUGe, a, b) }
func SLt(a, b *Node) *Node { return cmp(OpSLt, a, b) }
func SLe(a, b *Node) *Node { return cmp(OpSLe, a, b) }
func SGt(a, b *Node) *Node { return cmp(OpSGt, a, b) }
func SGe(a, b *Node) *Node { return cmp(OpSGe, a, b) }
func Eq(a, b *Node) *Node  { return cmp(OpEq, a, b) }
func Ne(a, b *Node) *Node  { return cmp(OpNe, a, b) }

func Concat(parts ...*Node) *Node {
	total := 0
	for _, p := range parts {
		total += p.Type.FlatBitCount()
	}
	return &Node{Op: OpConcat, Operands: parts, Type: BitsType(total)}
}

func BitSlice(a *Node, start, width int) *Node {
	return &Node{
		Op:       OpBitSlice,
		Operands: []*Node{a},
		Type:     BitsType(width),
		Attrs:    Attrs{SliceStart: start, SliceWidth: width},
	}
}

func ZeroExt(a *Node, newWidth int) *Node {
	return &Node{Op: OpZeroExt, Operands: []*Node{a}, Type: BitsType(newWidth), Attrs: Attrs{NewBitWidth: newWidth}}
}

func SignExt(a *Node, newWidth int) *Node {
	return &Node{Op: OpSignExt, Operands: []*Node{a}, Type: BitsType(newWidth), Attrs: Attrs{NewBitWidth: newWidth}}
}

func OneHot(a *Node, priority Priority) *Node {
	return &Node{
		Op:       OpOneHot,
		Operands: []*Node{a},
		Type:     BitsType(a.Type.FlatBitCount() + 1),
		Attrs:    Attrs{OneHotPriority: priority},
	}
}

func Reverse(a *Node) *Node {
	return &Node{Op: OpReverse, Operands: []*Node{a}, Type: a.Type}
}

func Encode(a *Node) *Node {
	return &Node{Op: OpEncode, Operands: []*Node{a}, Type: BitsType(MinBitCountUnsigned(a.Type.FlatBitCount() - 1))}
}

func ArrayIndex(arr, idx *Node) *Node {
	if arr.Type.Kind != Array {
		panic(fmt.Sprintf("ir.ArrayIndex: operand is not an array: %s", arr.Type))
	}
	return &Node{Op: OpArrayIndex, Operands: []*Node{arr, idx}, Type: *arr.Type.Elem}
}

func MakeArray(elem Type, elems ...*Node) *Node {
	return &Node{Op: OpArray, Operands: elems, Type: ArrayType(elem, len(elems))}
}

func MakeTuple(fields ...*Node) *Node {
	types := make([]Type, len(fields))
	for i, f := range fields {
		types[i] = f.Type
	}
	return &Node{Op: OpTuple, Operands: fields, Type: TupleType(types...)}
}

func TupleIndex(t *Node, idx int) *Node {
	if t.Type.Kind != Tuple {
		panic(fmt.Sprintf("ir.TupleIndex: operand is not a tuple: %s", t.Type))
	}
	return &Node{Op: OpTupleIndex, Operands: []*Node{t}, Type: t.Type.Children[idx], Attrs: Attrs{TupleIndexIdx: idx}}
}

// Select builds a Select node; cases[0] is chosen when sel == 0. def, if
// non-nil, is appended as the final operand and Attrs.SelectHasDefault is set.
func Select(sel *Node, cases []*Node, def *Node) *Node {
	ops := append([]*Node{sel}, cases...)
	hasDefault := def != nil
	if hasDefault {
		ops = append(ops, def)
	}
	return &Node{Op: OpSelect, Operands: ops, Type: cases[0].Type, Attrs: Attrs{SelectHasDefault: hasDefault}}
}

// OneHotSel builds a OneHotSel node; sel must be one-hot (exactly one bit set).
func OneHotSel(sel *Node, cases []*Node) *Node {
	ops := append([]*Node{sel}, cases...)
	return &Node{Op: OpOneHotSel, Operands: ops, Type: cases[0].Type}
}

func UMul(a, b *Node, resultWidth int) *Node {
	return &Node{Op: OpUMul, Operands: []*Node{a, b}, Type: BitsType(resultWidth)}
}

func SMul(a, b *Node, resultWidth int) *Node {
	return &Node{Op: OpSMul, Operands: []*Node{a, b}, Type: BitsType(resultWidth)}
}

func Shll(a, amt *Node) *Node { return mkBinary(OpShll, a.Type, a, amt) }
func Shrl(a, amt *Node) *Node { return mkBinary(OpShrl, a.Type, a, amt) }
func Shra(a, amt *Node) *Node { return mkBinary(OpShra, a.Type, a, amt) }

// AndReduce/OrReduce/XorReduce left-fold their single operand's bits.
func AndReduce(a *Node) *Node { return &Node{Op: OpAndReduce, Operands: []*Node{a}, Type: BitsType(1)} }
func OrReduce(a *Node) *Node  { return &Node{Op: OpOrReduce, Operands: []*Node{a}, Type: BitsType(1)} }
func XorReduce(a *Node) *Node { return &Node{Op: OpXorReduce, Operands: []*Node{a}, Type: BitsType(1)} }
