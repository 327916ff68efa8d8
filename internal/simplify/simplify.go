// Package simplify implements a BDD-assisted simplification pass: a
// single topological-order sweep over a function that rewrites nodes
// whose output bits are provably constant, provably share a known
// prefix/suffix, or are reachable through a redundant one-hot input or
// a one-hot-convertible select chain.
package simplify

import (
	"github.com/hdlformal/ircheck/internal/bddoracle"
	"github.com/hdlformal/ircheck/ir"
)

// BddSimplify rewrites fn in place and reports whether any rewrite fired (the
// logical OR of every rewrite applied in this pass). splitOps gates how
// deep the one-hot-select
// chain search (rule 4) looks: a single link when false, an unbounded
// chain when true, per the original pass's split_ops flag.
func BddSimplify(fn *ir.Function, splitOps bool) (bool, error) {
	oracle, err := bddoracle.Build(fn)
	if err != nil {
		return false, err
	}

	changed := false
	rewritten := make(map[*ir.Node]*ir.Node, len(fn.Nodes))
	resolve := func(n *ir.Node) *ir.Node {
		if r, ok := rewritten[n]; ok {
			return r
		}
		return n
	}

	for _, n := range fn.Nodes {
		if n.Op == ir.OpParam {
			continue
		}
		remapOperands(n, resolve)

		if repl, ok := fullReplacement(oracle, n); ok {
			rewritten[n] = repl
			changed = true
			continue
		}
		if repl, ok := knownPrefixSuffix(oracle, n); ok {
			rewritten[n] = repl
			changed = true
			continue
		}
		if n.Op == ir.OpOneHot {
			if repl, ok := redundantOneHotInputs(oracle, n); ok {
				rewritten[n] = repl
				changed = true
				continue
			}
		}
		if n.Op == ir.OpSelect {
			maxDepth := 1
			if splitOps {
				maxDepth = -1 // unbounded
			}
			if repl, ok := oneHotSelectChain(oracle, n, maxDepth); ok {
				rewritten[n] = repl
				changed = true
				continue
			}
		}
		if n.Op == ir.OpOneHotSel {
			if repl, ok := twoWayOneHotToSelect(oracle, n); ok {
				rewritten[n] = repl
				changed = true
				continue
			}
		}
	}

	if fn.Return != nil {
		fn.Return = resolve(fn.Return)
	}

	if changed {
		// Rewrites splice in fresh literal/concat/bitslice/select nodes
		// that never appear in the pre-pass fn.Nodes; re-derive the
		// topological order from the new graph so a subsequent pass
		// walks the function it actually got, not the one it started
		// with.
		*fn = *ir.NewFunction(fn.Name, fn.Params, fn.Return)
	}
	return changed, nil
}

func remapOperands(n *ir.Node, resolve func(*ir.Node) *ir.Node) {
	for i, op := range n.Operands {
		n.Operands[i] = resolve(op)
	}
}
