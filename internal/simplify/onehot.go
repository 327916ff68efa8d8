package simplify

import (
	"github.com/hdlformal/ircheck/internal/bddoracle"
	"github.com/hdlformal/ircheck/ir"
)

// oneHotSelectChain implements rule 4: a chain of binary Select nodes
// whose predicates are pairwise disjoint is flattened into a single
// OneHotSelect, with the chain's predicates concatenated MSb-first
// (outermost predicate at the MSb) and the case list built
// lowest-priority-first. maxDepth bounds how many links the chain walk
// follows before stopping; a non-positive value means unbounded (the
// split_ops behavior).
func oneHotSelectChain(oracle *bddoracle.Oracle, n *ir.Node, maxDepth int) (*ir.Node, bool) {
	var predicates []*ir.Node
	var cases []*ir.Node

	cur := n
	for {
		pred, elseBranch, thenCase, ok := asBinaryLink(cur)
		if !ok {
			break
		}
		predicates = append(predicates, pred)
		cases = append(cases, thenCase)
		cur = elseBranch
		if maxDepth > 0 && len(predicates) >= maxDepth {
			break
		}
	}
	if len(predicates) == 0 {
		return nil, false
	}
	base := cur

	if !pairwiseDisjoint(oracle, predicates) {
		return nil, false
	}

	// cases/predicates were collected outermost-first; the lowest
	// priority case (base, or the innermost x_0) comes first.
	orderedCases := make([]*ir.Node, 0, len(cases)+1)
	orderedPreds := make([]*ir.Node, 0, len(predicates)+1)
	for i := len(cases) - 1; i >= 0; i-- {
		orderedCases = append(orderedCases, cases[i])
		orderedPreds = append(orderedPreds, predicates[i])
	}

	exhaustive := isExhaustive(oracle, predicates)
	if !exhaustive {
		orderedCases = append([]*ir.Node{base}, orderedCases...)
		noneSet := norAll(predicates)
		orderedPreds = append([]*ir.Node{noneSet}, orderedPreds...)
	}

	// Concat places the first operand at the MSb; orderedPreds is
	// lowest-priority-first, so reverse it: the outermost predicate
	// (first collected) lands at the MSb, and the lowest-priority entry
	// (the innermost predicate when exhaustive, the synthetic "none set"
	// guard otherwise) lands at the LSb.
	msbFirst := make([]*ir.Node, len(orderedPreds))
	for i, p := range orderedPreds {
		msbFirst[len(orderedPreds)-1-i] = p
	}
	sel := ir.Concat(msbFirst...)
	return ir.OneHotSel(sel, orderedCases), true
}

// asBinaryLink recognizes a Select node shaped as a single chain link:
// 1-bit selector, exactly one non-default case (taken when sel == 0),
// and a default (taken when sel == 1). Returns (predicate, else
// branch, then case, ok).
func asBinaryLink(n *ir.Node) (pred, elseBranch, thenCase *ir.Node, ok bool) {
	if n.Op != ir.OpSelect || !n.Attrs.SelectHasDefault || len(n.Operands) != 3 {
		return nil, nil, nil, false
	}
	sel := n.Operands[0]
	if sel.Type.Kind != ir.Bits || sel.Type.BitWidth != 1 {
		return nil, nil, nil, false
	}
	return sel, n.Operands[1], n.Operands[2], true
}

func pairwiseDisjoint(oracle *bddoracle.Oracle, preds []*ir.Node) bool {
	for i := 0; i < len(preds); i++ {
		for j := i + 1; j < len(preds); j++ {
			bi := oracle.Bits(preds[i])[0]
			bj := oracle.Bits(preds[j])[0]
			if !oracle.ImpliesFalse(bi, bj) {
				return false
			}
		}
	}
	return true
}

func isExhaustive(oracle *bddoracle.Oracle, preds []*ir.Node) bool {
	acc := oracle.ConstFalse()
	for _, p := range preds {
		acc = oracle.Or(acc, oracle.Bits(p)[0])
	}
	return oracle.IsTrue(acc)
}

// norAll builds the n-ary NOR of preds: true iff none of them is true.
func norAll(preds []*ir.Node) *ir.Node {
	acc := preds[0]
	for _, p := range preds[1:] {
		acc = ir.Or(acc, p)
	}
	return ir.Not(acc)
}

// twoWayOneHotToSelect implements the companion conversion exercised by
// the two-way one-hot-select scenario: a OneHotSel over an exactly
// complementary 2-bit selector (concat(p, not p)) collapses to a plain
// Select on the single predicate bit, since a 2-way one-hot encoding
// carries no information the predicate itself doesn't.
func twoWayOneHotToSelect(oracle *bddoracle.Oracle, n *ir.Node) (*ir.Node, bool) {
	if n.Op != ir.OpOneHotSel || len(n.Operands) != 3 {
		return nil, false
	}
	sel := n.Operands[0]
	if sel.Op != ir.OpConcat || len(sel.Operands) != 2 {
		return nil, false
	}
	hi, lo := sel.Operands[0], sel.Operands[1]
	hiBit := oracle.Bits(hi)[0]
	loBit := oracle.Bits(lo)[0]
	if oracle.ConstTrue() != oracle.Or(hiBit, loBit) {
		return nil, false // not proven exhaustive
	}
	if !oracle.ImpliesFalse(hiBit, loBit) {
		return nil, false // not proven mutually exclusive
	}
	xCase, yCase := n.Operands[1], n.Operands[2]
	// concat(p, not p): hi == p, lo == not p. A binary Select's cases[0]
	// fires when sel == 0 and its default fires when sel == 1, so using
	// lo (== not p) as the selector: lo == 0 (p true) picks cases[0] =
	// y, and lo == 1 (p false) picks the default, x. That is exactly
	// one_hot_sel(concat(p, not p), [x, y])'s behavior: p true -> y,
	// p false -> x.
	return ir.Select(lo, []*ir.Node{yCase}, xCase), true
}
