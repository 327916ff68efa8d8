package encoder

import (
	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/corerr"
	"github.com/hdlformal/ircheck/internal/bvbuilder"
	"github.com/hdlformal/ircheck/ir"
)

// Predicate is a boolean objective over an encoded function's nodes,
// built by one of EqualToZero, NotEqualToZero, or EqualToNode. It is
// consumed by TryProve.
type Predicate struct {
	formula z3.Bool
}

// EqualToZero builds the predicate "subject's encoded value equals the
// all-zero bit-vector of its width".
func (h *Handle) EqualToZero(subject *ir.Node) (*Predicate, error) {
	bv, err := h.requireBV(subject, "EqualToZero")
	if err != nil {
		return nil, err
	}
	return &Predicate{formula: bvbuilder.EqZeroBool(bv)}, nil
}

// NotEqualToZero builds the negation of EqualToZero.
func (h *Handle) NotEqualToZero(subject *ir.Node) (*Predicate, error) {
	p, err := h.EqualToZero(subject)
	if err != nil {
		return nil, err
	}
	return &Predicate{formula: p.formula.Not()}, nil
}

// EqualToNode builds the predicate "subject's encoded value equals
// other's encoded value". Both operands must carry a Bits-sorted
// translation; anything else is an invalid-argument error, since tuple
// and array equality is not part of this predicate surface.
func (h *Handle) EqualToNode(subject, other *ir.Node) (*Predicate, error) {
	a, err := h.requireBV(subject, "EqualToNode")
	if err != nil {
		return nil, err
	}
	b, err := h.requireBV(other, "EqualToNode")
	if err != nil {
		return nil, err
	}
	if a.Sort().BVSize() != b.Sort().BVSize() {
		return nil, corerr.InvalidArgumentf("EqualToNode: width mismatch %d vs %d", a.Sort().BVSize(), b.Sort().BVSize())
	}
	return &Predicate{formula: bvbuilder.EqBool(a, b)}, nil
}

func (h *Handle) requireBV(n *ir.Node, who string) (z3.BV, error) {
	term := h.GetTranslation(n)
	bv, ok := term.(z3.BV)
	if !ok {
		return z3.BV{}, corerr.InvalidArgumentf("%s: operand %s has sort %s, want bit-vector", who, n, h.GetValueKind(term))
	}
	return bv, nil
}
