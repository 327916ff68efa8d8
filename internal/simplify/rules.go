package simplify

import (
	"github.com/hdlformal/ircheck/internal/bddoracle"
	"github.com/hdlformal/ircheck/ir"
)

// fullReplacement implements rule 1: if every output bit of n is a
// known constant, n is replaced outright with that literal.
func fullReplacement(oracle *bddoracle.Oracle, n *ir.Node) (*ir.Node, bool) {
	if n.Type.Kind != ir.Bits || n.Op == ir.OpLiteral {
		return nil, false
	}
	bits, ok := oracle.IsConstant(n)
	if !ok {
		return nil, false
	}
	return ir.NewLiteral(bits), true
}

// knownPrefixSuffix implements rule 2: splice out a statically-known
// contiguous run of most- or least-significant bits, leaving the
// unknown middle to be recomputed from n itself via a bit-slice. The
// fixed-point guard refuses to re-fire on a node that is
// already the concat this rule would produce.
func knownPrefixSuffix(oracle *bddoracle.Oracle, n *ir.Node) (*ir.Node, bool) {
	if n.Type.Kind != ir.Bits {
		return nil, false
	}
	w := n.Type.BitWidth
	bits := oracle.Bits(n) // LSb-first
	if len(bits) != w {
		return nil, false
	}

	khi := 0
	for i := w - 1; i >= 0 && oracle.IsKnownBit(bits[i]); i-- {
		khi++
	}
	klo := 0
	for i := 0; i < w && oracle.IsKnownBit(bits[i]); i++ {
		klo++
	}
	if khi+klo >= w {
		return nil, false // rule 1 already covers full replacement
	}
	if khi == 0 && klo == 0 {
		return nil, false
	}
	if isFixedPointConcat(n, khi, klo) {
		return nil, false
	}

	if khi > 0 {
		lit := ir.NewLiteral(oracle.ConstBoolsOf(bits[w-khi:]))
		mid := ir.BitSlice(n, 0, w-khi)
		return ir.Concat(lit, mid), true
	}
	lit := ir.NewLiteral(oracle.ConstBoolsOf(bits[:klo]))
	mid := ir.BitSlice(n, klo, w-klo)
	return ir.Concat(mid, lit), true
}

// isFixedPointConcat detects that n is already shaped exactly like the
// rewrite this rule would produce, so re-simplifying a previous output
// does not loop forever.
func isFixedPointConcat(n *ir.Node, khi, klo int) bool {
	if n.Op != ir.OpConcat || len(n.Operands) != 2 {
		return false
	}
	if khi > 0 {
		return n.Operands[0].Op == ir.OpLiteral && n.Operands[0].Type.BitWidth == khi
	}
	return n.Operands[1].Op == ir.OpLiteral && n.Operands[1].Type.BitWidth == klo
}

// redundantOneHotInputs implements rule 3: zero any input bit whose
// BDD, conjoined with "no higher-priority bit is set", is the constant
// false — such a bit can never actually be selected.
func redundantOneHotInputs(oracle *bddoracle.Oracle, n *ir.Node) (*ir.Node, bool) {
	in := n.Operands[0]
	bits := oracle.Bits(in)
	lsbPriority := n.Attrs.OneHotPriority == ir.PriorityLSb

	order := make([]int, len(bits))
	for i := range order {
		if lsbPriority {
			order[i] = i
		} else {
			order[i] = len(bits) - 1 - i
		}
	}

	anyRedundant := false
	redundant := make([]bool, len(bits))
	noHigherSet := oracle.ConstTrue()
	for _, idx := range order {
		if oracle.ImpliesFalse(bits[idx], noHigherSet) {
			redundant[idx] = true
			anyRedundant = true
		}
		noHigherSet = oracle.AndNot(noHigherSet, bits[idx])
	}
	if !anyRedundant {
		return nil, false
	}

	newParts := make([]*ir.Node, len(bits))
	for i := range bits {
		if redundant[i] {
			newParts[i] = ir.NewLiteral([]bool{false})
		} else {
			newParts[i] = ir.BitSlice(in, i, 1)
		}
	}
	// Concat is MSb-first; bits/newParts are LSb-first.
	msbFirst := make([]*ir.Node, len(newParts))
	for i, p := range newParts {
		msbFirst[len(newParts)-1-i] = p
	}
	newIn := ir.Concat(msbFirst...)
	return ir.OneHot(newIn, n.Attrs.OneHotPriority), true
}
