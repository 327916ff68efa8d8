package encoder

import (
	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/corerr"
	"github.com/hdlformal/ircheck/internal/bvbuilder"
	"github.com/hdlformal/ircheck/ir"
)

// The floating-point helpers are narrowly scoped to IEEE-754 binary32
// composition and subnormal flushing: there is no
// dedicated solver floating-point sort in play here, only a 32-bit
// bit-vector laid out as sign(1):exponent(8):mantissa(23), built the
// same way ConcatN composes any other structured bit-vector value.

const (
	fpSignWidth = 1
	fpExpWidth  = 8
	fpManWidth  = 23
	fpWidth     = fpSignWidth + fpExpWidth + fpManWidth
)

// FloatZero returns the all-zero binary32 bit pattern (positive zero).
func (h *Handle) FloatZero() z3.BV {
	return bvbuilder.Fill(h.ctx.Z3, 0, fpWidth)
}

// FloatFlushSubnormal zeroes the mantissa of term if its exponent field
// is all-zero (a subnormal or zero value), leaving the sign bit
// untouched. term must be a 32-bit bit-vector laid out as produced by
// ToFloat32; any other width is a sort error.
func (h *Handle) FloatFlushSubnormal(term z3.BV) (z3.BV, error) {
	w := term.Sort().BVSize()
	if w != fpWidth {
		return z3.BV{}, corerr.InvalidArgumentf("Wrong sort for floating-point operations: bit-vector of width %d", w)
	}
	sign := term.Extract(fpWidth-1, fpWidth-1)
	exp := term.Extract(fpManWidth+fpExpWidth-1, fpManWidth)
	isSubnormal := bvbuilder.EqZero(exp)
	zeroMantissa := bvbuilder.Fill(h.ctx.Z3, 0, fpManWidth)
	mantissa := term.Extract(fpManWidth-1, 0)
	keepMantissa := isSubnormal.Eq(bvbuilder.Fill(h.ctx.Z3, 0, 1)).IfThenElse(mantissa, zeroMantissa).(z3.BV)
	return bvbuilder.ConcatN([]z3.BV{sign, exp, keepMantissa}), nil
}

// ToFloat32 composes a binary32 value from three bit-vector nodes of
// widths 1 (sign), 8 (exponent), 23 (mantissa).
func (h *Handle) ToFloat32(nodes [3]*ir.Node) (z3.BV, error) {
	want := [3]int{fpSignWidth, fpExpWidth, fpManWidth}
	parts := make([]z3.BV, 3)
	for i, n := range nodes {
		bv, ok := h.GetTranslation(n).(z3.BV)
		if !ok {
			return z3.BV{}, corerr.InvalidArgumentf("Wrong sort for floating-point operations: %s", h.GetValueKind(h.GetTranslation(n)))
		}
		got := bv.Sort().BVSize()
		if got != want[i] {
			return z3.BV{}, corerr.InvalidArgumentf("Invalid width for FP component %d: got %d, need %d", i, got, want[i])
		}
		parts[i] = bv
	}
	return bvbuilder.ConcatN(parts), nil
}

// ToFloat32Tuple extracts the three bit-vector fields of a sign/
// exponent/mantissa tuple node and delegates to ToFloat32.
func (h *Handle) ToFloat32Tuple(tupleNode *ir.Node) (z3.BV, error) {
	if tupleNode.Type.Kind != ir.Tuple || len(tupleNode.Type.Children) != 3 {
		return z3.BV{}, corerr.InvalidArgumentf("Wrong sort for floating-point operations: %s", tupleNode.Type)
	}
	term := h.GetTranslation(tupleNode)
	want := [3]int{fpSignWidth, fpExpWidth, fpManWidth}
	parts := make([]z3.BV, 3)
	for i, c := range tupleNode.Type.Children {
		if c.Kind != ir.Bits || c.BitWidth != want[i] {
			return z3.BV{}, corerr.InvalidArgumentf("Invalid width for FP component %d: got %d, need %d", i, c.BitWidth, want[i])
		}
		parts[i] = h.adaptor.TupleField(tupleNode.Type, term, i).(z3.BV)
	}
	return bvbuilder.ConcatN(parts), nil
}
