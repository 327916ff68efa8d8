package ir

// Priority selects which end of a bit vector OneHot treats as
// highest-priority when more than one input bit is set.
type Priority int

const (
	PriorityLSb Priority = iota
	PriorityMSb
)

// Opcode enumerates every IR operation the encoder and simplifier support.
type Opcode int

const (
	OpParam Opcode = iota
	OpLiteral

	OpAdd
	OpSub
	OpUMul
	OpSMul
	OpNeg
	OpIdentity

	OpAnd
	OpOr
	OpXor
	OpNand
	OpNor
	OpNot

	OpAndReduce
	OpOrReduce
	OpXorReduce

	OpULt
	OpULe
	OpUGt
	OpUGe
	OpSLt
	OpSLe
	OpSGt
	OpSGe
	OpEq
	OpNe

	OpShll
	OpShrl
	OpShra

	OpConcat
	OpZeroExt
	OpSignExt
	OpBitSlice

	OpEncode
	OpOneHot
	OpReverse

	OpArrayIndex
	OpArray
	OpTuple
	OpTupleIndex

	OpSelect
	OpOneHotSel
)

func (op Opcode) String() string {
	names := [...]string{
		"param", "literal",
		"add", "sub", "umul", "smul", "neg", "identity",
		"and", "or", "xor", "nand", "nor", "not",
		"and_reduce", "or_reduce", "xor_reduce",
		"ult", "ule", "ugt", "uge", "slt", "sle", "sgt", "sge", "eq", "ne",
		"shll", "shrl", "shra",
		"concat", "zero_ext", "sign_ext", "bit_slice",
		"encode", "one_hot", "reverse",
		"array_index", "array", "tuple", "tuple_index",
		"select", "one_hot_sel",
	}
	if int(op) < 0 || int(op) >= len(names) {
		return "unknown_op"
	}
	return names[op]
}

// Attrs carries the opcode-specific attributes for every Node. Exactly
// the fields relevant to Node.Op are meaningful; the rest are zero.
type Attrs struct {
	// Param
	ParamName string

	// Literal: an LSb-first bit pattern for a Bits-typed literal.
	LiteralBits []bool

	// BitSlice
	SliceStart int
	SliceWidth int

	// ZeroExt / SignExt: the target (post-extension) width.
	NewBitWidth int

	// TupleIndex
	TupleIndexIdx int

	// Select: whether the last operand after cases is a default value.
	SelectHasDefault bool

	// OneHot / OneHot priority ordering
	OneHotPriority Priority
}

// Node is one value in the IR DAG. Nodes are referenced by pointer
// identity for the lifetime of their Function.
type Node struct {
	Op       Opcode
	Operands []*Node
	Type     Type
	Attrs    Attrs

	// Name is used only for diagnostics (error messages, debug prints).
	Name string
}

func (n *Node) String() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Op.String()
}

// Function is a fully-built IR function: a DAG of Nodes in
// data-dependency (topological) order, a distinguished Params prefix,
// and one Return node.
type Function struct {
	Name   string
	Params []*Node
	// Nodes holds every node reachable from Return, in an order where
	// every operand precedes its user. Params appear first, in
	// parameter order.
	Nodes  []*Node
	Return *Node
}

// NewLiteral builds a Bits(n) literal node from an LSb-first bit pattern.
func NewLiteral(bits []bool) *Node {
	return &Node{
		Op:    OpLiteral,
		Type:  BitsType(len(bits)),
		Attrs: Attrs{LiteralBits: append([]bool(nil), bits...)},
	}
}

// NewParam builds a parameter node of the given name and type. It is
// the caller's responsibility to append it to Function.Params in order.
func NewParam(name string, t Type) *Node {
	return &Node{Op: OpParam, Type: t, Attrs: Attrs{ParamName: name}, Name: name}
}
