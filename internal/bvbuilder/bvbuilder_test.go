package bvbuilder

import (
	"testing"

	"github.com/aclements/go-z3/z3"
)

func TestULtSLtAgreeOnNonNegativeValues(t *testing.T) {
	cfg := z3.NewContextConfig()
	ctx := z3.NewContext(cfg)

	solver := ctx.NewSolver()
	defer solver.Close()

	a := ctx.Const("a", ctx.BVSort(8)).(z3.BV)
	b := ctx.Const("b", ctx.BVSort(8)).(z3.BV)

	// Restrict to the non-negative half so unsigned and signed less-than
	// must agree: a,b in [0,127].
	msbZero := func(v z3.BV) z3.Bool { return Msb(v).Eq(Fill(ctx, 0, 1)) }
	solver.Assert(msbZero(a))
	solver.Assert(msbZero(b))
	solver.Assert(ULtBool(a, b).Xor(SLtBool(a, b)))

	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sat != z3.Unsat {
		t.Fatal("ULt and SLt disagreed on a non-negative pair")
	}
}

func TestEqZeroBool(t *testing.T) {
	cfg := z3.NewContextConfig()
	ctx := z3.NewContext(cfg)
	solver := ctx.NewSolver()
	defer solver.Close()

	a := ctx.Const("a", ctx.BVSort(4)).(z3.BV)
	solver.Assert(EqZeroBool(a))
	solver.Assert(a.Eq(Fill(ctx, 0, 4)).Not())

	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sat != z3.Unsat {
		t.Fatal("EqZeroBool should only be satisfiable when a == 0")
	}
}

func TestConcatNOrdersMSbFirst(t *testing.T) {
	cfg := z3.NewContextConfig()
	ctx := z3.NewContext(cfg)
	solver := ctx.NewSolver()
	defer solver.Close()

	hi := Fill(ctx, 0xA, 4)
	lo := Fill(ctx, 0xB, 4)
	want := Fill(ctx, 0xAB, 8)
	solver.Assert(ConcatN([]z3.BV{hi, lo}).Eq(want).Not())

	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sat != z3.Unsat {
		t.Fatal("ConcatN did not place the first operand at the MSb")
	}
}

func TestExplodeBitsRoundTrip(t *testing.T) {
	cfg := z3.NewContextConfig()
	ctx := z3.NewContext(cfg)
	solver := ctx.NewSolver()
	defer solver.Close()

	a := ctx.Const("a", ctx.BVSort(8)).(z3.BV)
	bits := ExplodeBits(a)
	if len(bits) != 8 {
		t.Fatalf("len(bits) = %d, want 8", len(bits))
	}
	// bits is LSb-first; ConcatN wants MSb-first.
	msbFirst := make([]z3.BV, 8)
	for i, b := range bits {
		msbFirst[7-i] = b
	}
	solver.Assert(ConcatN(msbFirst).Eq(a).Not())

	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sat != z3.Unsat {
		t.Fatal("ExplodeBits followed by reversed ConcatN did not round-trip")
	}
}
