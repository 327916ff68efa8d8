package encoder

import (
	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/internal/bvbuilder"
	"github.com/hdlformal/ircheck/internal/sortadapt"
	"github.com/hdlformal/ircheck/ir"
)

// visitCompare lowers the ten comparison opcodes to 1-bit bit-vector
// results, reusing bvbuilder's ULt/SLt/Eq primitives.
// SGt and SGe are derived from SLt and Eq rather than from a
// mirror-image SLt(b,a), since lhs/rhs are not interchangeable once
// either operand can be a solver-side free variable under borrowed
// encoding.
func (h *Handle) visitCompare(n *ir.Node) (sortadapt.Term, error) {
	lhs := h.bv(n, 0)
	rhs := h.bv(n, 1)
	switch n.Op {
	case ir.OpULt:
		return bvbuilder.ULt(lhs, rhs), nil
	case ir.OpUGe:
		return bvbuilder.ULt(lhs, rhs).Not(), nil
	case ir.OpULe:
		return bvOr(bvbuilder.ULt(lhs, rhs), bvbuilder.Eq(lhs, rhs)), nil
	case ir.OpUGt:
		return bvOr(bvbuilder.ULt(lhs, rhs), bvbuilder.Eq(lhs, rhs)).Not(), nil
	case ir.OpSLt:
		return bvbuilder.SLt(lhs, rhs), nil
	case ir.OpSGe:
		return bvbuilder.SLt(lhs, rhs).Not(), nil
	case ir.OpSLe:
		return bvOr(bvbuilder.SLt(lhs, rhs), bvbuilder.Eq(lhs, rhs)), nil
	case ir.OpSGt:
		return bvOr(bvbuilder.SLt(lhs, rhs), bvbuilder.Eq(lhs, rhs)).Not(), nil
	case ir.OpEq:
		return bvbuilder.Eq(lhs, rhs), nil
	default: // OpNe
		return bvbuilder.Eq(lhs, rhs).Not(), nil
	}
}

func bvOr(a, b z3.BV) z3.BV {
	return a.Or(b)
}
