package sortadapt

import (
	"testing"

	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/internal/smtctx"
	"github.com/hdlformal/ircheck/ir"
)

func TestFlattenUnflattenRoundTripBits(t *testing.T) {
	ctx := smtctx.NewOwned()
	a := New(ctx)
	solver := ctx.Z3.NewSolver()
	defer solver.Close()

	ty := ir.BitsType(8)
	v := ctx.Z3.Const("v", a.TypeToSort(ty)).(z3.BV)

	flat := a.FlattenValue(ty, v)
	if len(flat) != 8 {
		t.Fatalf("len(flat) = %d, want 8", len(flat))
	}
	// FlattenValue is LSb-first; UnflattenZ3Ast consumes MSb-first, so
	// reverse before feeding it back.
	msbFirst := make([]Term, len(flat))
	for i, b := range flat {
		msbFirst[len(flat)-1-i] = b
	}
	back := a.UnflattenZ3Ast(ty, msbFirst)

	solver.Assert(back.(z3.BV).Eq(v).Not())
	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sat != z3.Unsat {
		t.Fatal("flatten/unflatten did not round-trip a bits value")
	}
}

func TestFlattenUnflattenRoundTripTuple(t *testing.T) {
	ctx := smtctx.NewOwned()
	a := New(ctx)
	solver := ctx.Z3.NewSolver()
	defer solver.Close()

	ty := ir.TupleType(ir.BitsType(3), ir.BitsType(5))
	v := ctx.Z3.Const("v", a.TypeToSort(ty))

	flat := a.FlattenValue(ty, v)
	if len(flat) != 8 {
		t.Fatalf("len(flat) = %d, want 8", len(flat))
	}
	// FlattenValue emits field 0 then field 1, each LSb-first;
	// UnflattenZ3Ast consumes field 0 first, each MSb-first, so reverse
	// each field's bits in place and keep the field order.
	msbFirst := make([]Term, 0, len(flat))
	start := 0
	for _, c := range ty.Children {
		w := c.FlatBitCount()
		for i := start + w - 1; i >= start; i-- {
			msbFirst = append(msbFirst, flat[i])
		}
		start += w
	}
	back := a.UnflattenZ3Ast(ty, msbFirst)

	field0 := a.TupleField(ty, v, 0).(z3.BV)
	field1 := a.TupleField(ty, v, 1).(z3.BV)
	backField0 := a.TupleField(ty, back, 0).(z3.BV)
	backField1 := a.TupleField(ty, back, 1).(z3.BV)

	solver.Assert(field0.Eq(backField0).And(field1.Eq(backField1)).Not())
	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sat != z3.Unsat {
		t.Fatal("flatten/unflatten did not round-trip a tuple value field-by-field")
	}
}

func TestTupleSortIsCachedByShape(t *testing.T) {
	ctx := smtctx.NewOwned()
	a := New(ctx)

	ty1 := ir.TupleType(ir.BitsType(4), ir.BitsType(4))
	ty2 := ir.TupleType(ir.BitsType(4), ir.BitsType(4))

	s1 := a.TypeToSort(ty1)
	s2 := a.TypeToSort(ty2)
	if len(a.tuples) != 1 {
		t.Fatalf("len(a.tuples) = %d, want 1 (same shape should reuse the declared sort)", len(a.tuples))
	}
	if s1 != s2 {
		t.Fatal("two Tuple types with identical shape did not resolve to the same solver sort")
	}
}

func TestZeroOfSortArrayIsTotal(t *testing.T) {
	ctx := smtctx.NewOwned()
	a := New(ctx)
	solver := ctx.Z3.NewSolver()
	defer solver.Close()

	ty := ir.ArrayType(ir.BitsType(4), 3)
	zero := a.ZeroOfSort(ty).(z3.Array)

	idx := ctx.Z3.Const("i", ctx.Z3.BVSort(ir.MinBitCountUnsigned(2))).(z3.BV)
	elem := zero.Select(idx).(z3.BV)
	solver.Assert(elem.Eq(a.ZeroOfSort(ir.BitsType(4)).(z3.BV)).Not())

	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sat != z3.Unsat {
		t.Fatal("ZeroOfSort array is not the all-zero constant array at every index")
	}
}
