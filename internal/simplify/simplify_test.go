package simplify

import (
	"reflect"
	"testing"
	"time"

	"github.com/hdlformal/ircheck/internal/bddoracle"
	"github.com/hdlformal/ircheck/internal/encoder"
	"github.com/hdlformal/ircheck/ir"
	"github.com/hdlformal/ircheck/synthtest"
)

// assertEquivalent proves that before and after (same bit width, same
// free parameters) agree on every assignment, by encoding Eq(before,
// after) and showing it is always true. This is the soundness check a
// rewrite rule needs beyond "the output has the expected shape": a
// shape-only check can pass while the rewrite silently changes the
// function's observable behavior.
func assertEquivalent(t *testing.T, params []*ir.Node, before, after *ir.Node) {
	t.Helper()
	a := synthtest.NewAssert(t)
	checkFn := ir.NewFunction("check", params, ir.Eq(before, after))
	one := ir.NewLiteral([]bool{true})
	a.Proved(checkFn, func(h *encoder.Handle) (*encoder.Predicate, error) {
		return h.EqualToNode(checkFn.Return, one)
	}, time.Second)
}

func boolsOf(v int, width int) []bool {
	out := make([]bool, width)
	for i := 0; i < width; i++ {
		out[i] = (v>>uint(i))&1 != 0
	}
	return out
}

// TestAllKnownFolding checks that concat(or(x, not(x)), and(y, not(y)))
// folds to the 8-bit literal 0b11110000, changed=true.
func TestAllKnownFolding(t *testing.T) {
	x := ir.NewParam("x", ir.BitsType(4))
	y := ir.NewParam("y", ir.BitsType(4))
	ret := ir.Concat(ir.Or(x, ir.Not(x)), ir.And(y, ir.Not(y)))
	fn := ir.NewFunction("f", []*ir.Node{x, y}, ret)

	changed, err := BddSimplify(fn, false)
	if err != nil {
		t.Fatalf("BddSimplify: %v", err)
	}
	if !changed {
		t.Fatal("expected changed=true")
	}
	if fn.Return.Op != ir.OpLiteral {
		t.Fatalf("expected return to fold to a literal, got op %s", fn.Return.Op)
	}
	want := boolsOf(0xF0, 8)
	if !reflect.DeepEqual(fn.Return.Attrs.LiteralBits, want) {
		t.Fatalf("folded literal = %v, want %v (0b11110000 LSb-first)", fn.Return.Attrs.LiteralBits, want)
	}
}

// TestKnownPrefix checks that and(x[16], concat(lit(0,7), y[9]))
// simplifies to concat(lit(0,7), bitslice(and(...), 0, 9)).
func TestKnownPrefix(t *testing.T) {
	x := ir.NewParam("x", ir.BitsType(16))
	y := ir.NewParam("y", ir.BitsType(9))
	zero7 := ir.NewLiteral(boolsOf(0, 7))
	masked := ir.And(x, ir.Concat(zero7, y))
	fn := ir.NewFunction("f", []*ir.Node{x, y}, masked)

	changed, err := BddSimplify(fn, false)
	if err != nil {
		t.Fatalf("BddSimplify: %v", err)
	}
	if !changed {
		t.Fatal("expected changed=true")
	}
	if fn.Return.Op != ir.OpConcat || len(fn.Return.Operands) != 2 {
		t.Fatalf("expected a 2-operand concat, got %s", fn.Return.Op)
	}
	lit, slice := fn.Return.Operands[0], fn.Return.Operands[1]
	if lit.Op != ir.OpLiteral || lit.Type.BitWidth != 7 {
		t.Fatalf("expected a 7-bit known-prefix literal, got op=%s width=%d", lit.Op, lit.Type.BitWidth)
	}
	if slice.Op != ir.OpBitSlice || slice.Attrs.SliceStart != 0 || slice.Attrs.SliceWidth != 9 {
		t.Fatalf("expected bitslice(n, 0, 9), got start=%d width=%d", slice.Attrs.SliceStart, slice.Attrs.SliceWidth)
	}
}

// TestKnownSuffixFixedPointGuard checks that concat(x[32], lit(123,10)),
// already shaped exactly like rule 2's own output, is left untouched by
// the fixed-point guard; changed=false.
func TestKnownSuffixFixedPointGuard(t *testing.T) {
	x := ir.NewParam("x", ir.BitsType(32))
	lit := ir.NewLiteral(boolsOf(123, 10))
	ret := ir.Concat(x, lit)
	fn := ir.NewFunction("f", []*ir.Node{x}, ret)

	changed, err := BddSimplify(fn, false)
	if err != nil {
		t.Fatalf("BddSimplify: %v", err)
	}
	if changed {
		t.Fatal("expected changed=false (fixed-point guard)")
	}
	if fn.Return != ret {
		t.Fatal("expected the return node to be untouched")
	}
}

// TestOneHotRedundantInput checks that a OneHot over {eq, eq, ugt} on
// x: bits[8] with LSb priority has its ugt input preserved and one
// redundant input zeroed. The two eq bits are the
// identical comparison eq(x,5) wired in twice: with LSb priority the
// first occurrence always wins, so the BDD of the second, ANDed with
// "no higher-priority bit set" (i.e. the first eq being false), is
// constant false — it can never fire. ugt(x,5) covers the genuinely
// distinct remaining case and is not redundant.
func TestOneHotRedundantInput(t *testing.T) {
	x := ir.NewParam("x", ir.BitsType(8))
	five := ir.NewLiteral(boolsOf(5, 8))
	eqA := ir.Eq(x, five)
	eqB := ir.Eq(x, five)
	gt := ir.UGt(x, five)
	in := ir.Concat(gt, eqB, eqA) // MSb-first: bit0=eqA, bit1=eqB, bit2=gt
	oh := ir.OneHot(in, ir.PriorityLSb)
	fn := ir.NewFunction("f", []*ir.Node{x}, oh)

	changed, err := BddSimplify(fn, false)
	if err != nil {
		t.Fatalf("BddSimplify: %v", err)
	}
	if !changed {
		t.Fatal("expected changed=true: the duplicated eq input is redundant given the first eq already claims that case")
	}
	if fn.Return.Op != ir.OpOneHot {
		t.Fatalf("expected the OneHot wrapper to survive, got op %s", fn.Return.Op)
	}
	newIn := fn.Return.Operands[0]
	if newIn.Op != ir.OpConcat || len(newIn.Operands) != 3 {
		t.Fatalf("expected the rewritten operand to still be a 3-bit concat, got op %s", newIn.Op)
	}
	// bit index 1 (the duplicate eq, second-from-LSb) must be the one
	// zeroed: newIn.Operands are MSb-first, so bit1 is at index 1.
	zeroed := newIn.Operands[1]
	if zeroed.Op != ir.OpLiteral || zeroed.Attrs.LiteralBits[0] {
		t.Fatalf("expected bit 1 to be zeroed, got op=%s bits=%v", zeroed.Op, zeroed.Attrs.LiteralBits)
	}
	// bit index 2 (the ugt input) is at index 0 and must not be zeroed.
	if kept := newIn.Operands[0]; kept.Op == ir.OpLiteral {
		t.Fatalf("expected the ugt input (bit 2) to be preserved, got a literal")
	}
}

// TestTwoWayOneHotSelectToSelect checks that one_hot_sel(concat(p, not
// p), [x, y]) rewrites to a plain Select that is semantically
// equivalent to the original for every assignment of p, x, and y: a
// structural-only check (e.g. "the selector is p or not(p)") is not
// enough to catch a rewrite that picks the wrong branch.
func TestTwoWayOneHotSelectToSelect(t *testing.T) {
	p := ir.NewParam("p", ir.BitsType(1))
	x := ir.NewParam("x", ir.BitsType(4))
	y := ir.NewParam("y", ir.BitsType(4))

	toSimplify := ir.OneHotSel(ir.Concat(p, ir.Not(p)), []*ir.Node{x, y})
	fn := ir.NewFunction("f", []*ir.Node{p, x, y}, toSimplify)

	changed, err := BddSimplify(fn, false)
	if err != nil {
		t.Fatalf("BddSimplify: %v", err)
	}
	if !changed {
		t.Fatal("expected changed=true")
	}
	if fn.Return.Op != ir.OpSelect {
		t.Fatalf("expected a plain Select, got op %s", fn.Return.Op)
	}

	original := ir.OneHotSel(ir.Concat(p, ir.Not(p)), []*ir.Node{x, y})
	assertEquivalent(t, []*ir.Node{p, x, y}, original, fn.Return)
}

// TestOneHotSelectChainExhaustive mirrors the original_source
// SelectChainOneHot scenario: a chain of nested binary selects whose
// predicates are pairwise disjoint and jointly exhaustive (x: bits[1],
// so eq(x,0) and eq(x,1) cover every value) flattens to a OneHotSel
// with no synthetic "none set" guard predicate. oneHotSelectChain is
// exercised directly (rather than through BddSimplify) so the chain is
// walked in one call instead of being rewritten one level at a time by
// the topological sweep, matching how the original test builds the
// whole chain at once.
func TestOneHotSelectChainExhaustive(t *testing.T) {
	x := ir.NewParam("x", ir.BitsType(1))
	p0 := ir.Eq(x, ir.NewLiteral(boolsOf(0, 1)))
	p1 := ir.Eq(x, ir.NewLiteral(boolsOf(1, 1)))
	case0 := ir.NewLiteral(boolsOf(10, 8))
	case1 := ir.NewLiteral(boolsOf(20, 8))
	base := ir.NewLiteral(boolsOf(0, 8))
	// Each link is Select(p, [else], then): p == 1 takes the default.
	inner := ir.Select(p1, []*ir.Node{base}, case1)
	outer := ir.Select(p0, []*ir.Node{inner}, case0)

	fn := ir.NewFunction("f", []*ir.Node{x}, outer)
	oracle, err := bddoracle.Build(fn)
	if err != nil {
		t.Fatalf("bddoracle.Build: %v", err)
	}

	rewritten, ok := oneHotSelectChain(oracle, outer, -1)
	if !ok {
		t.Fatal("expected the chain to be recognized")
	}
	if rewritten.Op != ir.OpOneHotSel {
		t.Fatalf("expected a OneHotSel, got op %s", rewritten.Op)
	}
	if len(rewritten.Operands) != 3 {
		t.Fatalf("expected sel + 2 cases (no none-set guard), got %d operands", len(rewritten.Operands))
	}
	sel := rewritten.Operands[0]
	if sel.Op != ir.OpConcat || len(sel.Operands) != 2 {
		t.Fatalf("expected a 2-bit selector, got op %s", sel.Op)
	}

	assertEquivalent(t, []*ir.Node{x}, outer, rewritten)
}

// TestOneHotSelectChainNonExhaustiveNorPrepend mirrors the
// original_source SelectChainOneHotOrZeroSelectors scenario: the same
// chain shape, but over a wider x so the predicates no longer cover
// every value. The rewrite must prepend a synthetic "none of the above"
// predicate (norAll) with the chain's base case, since the chain is no
// longer exhaustive on its own.
func TestOneHotSelectChainNonExhaustiveNorPrepend(t *testing.T) {
	x := ir.NewParam("x", ir.BitsType(4))
	p0 := ir.Eq(x, ir.NewLiteral(boolsOf(0, 4)))
	p1 := ir.Eq(x, ir.NewLiteral(boolsOf(1, 4)))
	case0 := ir.NewLiteral(boolsOf(10, 8))
	case1 := ir.NewLiteral(boolsOf(20, 8))
	base := ir.NewLiteral(boolsOf(0, 8))
	// Each link is Select(p, [else], then): p == 1 takes the default.
	inner := ir.Select(p1, []*ir.Node{base}, case1)
	outer := ir.Select(p0, []*ir.Node{inner}, case0)

	fn := ir.NewFunction("f", []*ir.Node{x}, outer)
	oracle, err := bddoracle.Build(fn)
	if err != nil {
		t.Fatalf("bddoracle.Build: %v", err)
	}

	rewritten, ok := oneHotSelectChain(oracle, outer, -1)
	if !ok {
		t.Fatal("expected the chain to be recognized")
	}
	if rewritten.Op != ir.OpOneHotSel {
		t.Fatalf("expected a OneHotSel, got op %s", rewritten.Op)
	}
	if len(rewritten.Operands) != 4 {
		t.Fatalf("expected sel + 3 cases (base plus a none-set guard), got %d operands", len(rewritten.Operands))
	}
	if rewritten.Operands[1] != base {
		t.Fatal("expected the chain's base case to survive as the lowest-priority case")
	}
	sel := rewritten.Operands[0]
	if sel.Op != ir.OpConcat || len(sel.Operands) != 3 {
		t.Fatalf("expected a 3-bit selector (2 predicates + none-set guard), got op %s width %d", sel.Op, len(sel.Operands))
	}

	assertEquivalent(t, []*ir.Node{x}, outer, rewritten)
}

// TestIdempotence checks that running the pass again on its own output
// reports no further change: simplify(simplify(f)) == simplify(f).
func TestIdempotence(t *testing.T) {
	x := ir.NewParam("x", ir.BitsType(4))
	y := ir.NewParam("y", ir.BitsType(4))
	ret := ir.Concat(ir.Or(x, ir.Not(x)), ir.And(y, ir.Not(y)))
	fn := ir.NewFunction("f", []*ir.Node{x, y}, ret)

	if _, err := BddSimplify(fn, false); err != nil {
		t.Fatalf("first BddSimplify: %v", err)
	}
	changed, err := BddSimplify(fn, false)
	if err != nil {
		t.Fatalf("second BddSimplify: %v", err)
	}
	if changed {
		t.Fatal("second pass over the pass's own output should report changed=false")
	}
}
