// Package sortadapt maps IR types to solver sorts and to flat
// bit-vector layouts.
package sortadapt

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/internal/bvbuilder"
	"github.com/hdlformal/ircheck/internal/smtctx"
	"github.com/hdlformal/ircheck/ir"
)

// Term is a solver value: a z3.BV, z3.Bool, or z3.Array/tuple value.
type Term = z3.Value

// tupleSort caches the constructor/accessor functions declared for one
// Tuple type, keyed by its printable form, with field names derived
// from the IR type's printable form.
type tupleSort struct {
	sort     z3.Sort
	ctor     *z3.Func
	accessor []*z3.Func
}

// Adaptor is the component A adaptor. It owns the tuple-sort
// declaration cache, since Z3 datatype sorts must be declared once and
// reused (redeclaring the same tuple shape would yield a distinct,
// incompatible sort).
type Adaptor struct {
	ctx    *smtctx.Context
	tuples map[string]*tupleSort
}

func New(ctx *smtctx.Context) *Adaptor {
	return &Adaptor{ctx: ctx, tuples: make(map[string]*tupleSort)}
}

// TypeToSort maps an IR type to its solver sort.
func (a *Adaptor) TypeToSort(t ir.Type) z3.Sort {
	switch t.Kind {
	case ir.Bits:
		return a.ctx.Z3.BVSort(t.BitWidth)
	case ir.Array:
		idxWidth := ir.MinBitCountUnsigned(t.ArraySize - 1)
		return a.ctx.Z3.ArraySort(a.ctx.Z3.BVSort(idxWidth), a.TypeToSort(*t.Elem))
	case ir.Tuple:
		return a.tupleSortFor(t).sort
	default:
		panic(fmt.Sprintf("sortadapt: unknown type kind %d", t.Kind))
	}
}

func (a *Adaptor) tupleSortFor(t ir.Type) *tupleSort {
	key := t.String()
	if ts, ok := a.tuples[key]; ok {
		return ts
	}
	fieldSorts := make([]z3.Sort, len(t.Children))
	fieldNames := make([]string, len(t.Children))
	for i, c := range t.Children {
		fieldSorts[i] = a.TypeToSort(c)
		fieldNames[i] = fmt.Sprintf("field_%d_%s", i, c.String())
	}
	sort, ctor, accessors := a.ctx.Z3.TupleSort(key, fieldNames, fieldSorts)
	ts := &tupleSort{sort: sort, ctor: ctor, accessor: accessors}
	a.tuples[key] = ts
	return ts
}

// MakeTuple constructs a tuple term from its already-translated fields.
func (a *Adaptor) MakeTuple(t ir.Type, fields []Term) Term {
	return a.tupleSortFor(t).ctor.Apply(fields...)
}

// TupleField applies the accessor for field i of a tuple term.
func (a *Adaptor) TupleField(t ir.Type, term Term, i int) Term {
	return a.tupleSortFor(t).accessor[i].Apply(term)
}

// indexConst builds a constant BV of the array's natural index width.
func (a *Adaptor) indexConst(arrayType ir.Type, i int) z3.BV {
	width := ir.MinBitCountUnsigned(arrayType.ArraySize - 1)
	return a.ctx.Z3.FromInt(int64(i), a.ctx.Z3.BVSort(width)).(z3.BV)
}

// FlattenValue returns a little-endian (LSb-first) ordered sequence of
// 1-bit solver terms. Structural composites (Array, Tuple) are visited
// field-0/element-0 first.
func (a *Adaptor) FlattenValue(t ir.Type, term Term) []Term {
	switch t.Kind {
	case ir.Bits:
		bv := term.(z3.BV)
		out := make([]Term, t.BitWidth)
		for i := 0; i < t.BitWidth; i++ {
			out[i] = bv.Extract(i, i)
		}
		return out
	case ir.Array:
		arr := term.(z3.Array)
		out := make([]Term, 0, t.FlatBitCount())
		for i := 0; i < t.ArraySize; i++ {
			elem := arr.Select(a.indexConst(t, i))
			out = append(out, a.FlattenValue(*t.Elem, elem)...)
		}
		return out
	case ir.Tuple:
		out := make([]Term, 0, t.FlatBitCount())
		for i, c := range t.Children {
			field := a.TupleField(t, term, i)
			out = append(out, a.FlattenValue(c, field)...)
		}
		return out
	default:
		panic(fmt.Sprintf("sortadapt: unknown type kind %d", t.Kind))
	}
}

// UnflattenZ3Ast is the inverse of FlattenValue: it consumes flat in
// most-significant-first order of structural appearance, taking
// t.flat bits per subtree.
//
// The bit-order convention is intentionally asymmetric with
// FlattenValue (LSb-first bit extraction there, MSb-first bit
// consumption here). Structures are consumed tuple field 0 first and
// array element 0 first, the same order FlattenValue emits them, so a
// whole-list reverse of FlattenValue's output restores a Bits value,
// while a Tuple or Array value needs each leaf field's bits reversed
// in place with the field order kept. Direct Bits-typed results
// (Encode/OneHot/Reverse) skip this function entirely and reverse
// straight into bvbuilder.ConcatN instead.
func (a *Adaptor) UnflattenZ3Ast(t ir.Type, flat []Term) Term {
	term, rest := a.unflatten(t, flat)
	if len(rest) != 0 {
		panic(fmt.Sprintf("sortadapt: %d unconsumed flat terms after unflattening %s", len(rest), t))
	}
	return term
}

func (a *Adaptor) unflatten(t ir.Type, flat []Term) (Term, []Term) {
	switch t.Kind {
	case ir.Bits:
		n := t.BitWidth
		if n == 0 {
			// ConcatN indexes xs[0] unconditionally and has nothing to
			// concatenate for a zero-width field; build the zero-width
			// literal directly, mirroring visitLiteral's empty-bits case.
			return a.ctx.Z3.FromInt(0, a.ctx.Z3.BVSort(0)), flat
		}
		chunk := flat[:n]
		bvChunk := make([]z3.BV, n)
		for i, b := range chunk {
			bvChunk[i] = b.(z3.BV)
		}
		return bvbuilder.ConcatN(bvChunk), flat[n:]
	case ir.Array:
		elems := make([]Term, t.ArraySize)
		rest := flat
		for i := 0; i < t.ArraySize; i++ {
			elems[i], rest = a.unflatten(*t.Elem, rest)
		}
		return a.buildArray(t, elems), rest
	case ir.Tuple:
		fields := make([]Term, len(t.Children))
		rest := flat
		for i, c := range t.Children {
			fields[i], rest = a.unflatten(c, rest)
		}
		return a.MakeTuple(t, fields), rest
	default:
		panic(fmt.Sprintf("sortadapt: unknown type kind %d", t.Kind))
	}
}

// MakeArray constructs an array term from its already-translated
// elements, in element-0-first order.
func (a *Adaptor) MakeArray(t ir.Type, elems []Term) Term {
	return a.buildArray(t, elems)
}

func (a *Adaptor) buildArray(t ir.Type, elems []Term) Term {
	zero := a.ZeroOfSort(*t.Elem)
	arr := a.ctx.Z3.ConstArray(a.ctx.Z3.BVSort(ir.MinBitCountUnsigned(t.ArraySize-1)), zero)
	for i, e := range elems {
		arr = arr.Store(a.indexConst(t, i), e)
	}
	return arr
}

// ZeroOfSort constructs a well-typed zero constant for an IR type:
// bit-vector zero, a constant array mapping every index to
// ZeroOfSort(element), or a tuple of zero children.
func (a *Adaptor) ZeroOfSort(t ir.Type) Term {
	switch t.Kind {
	case ir.Bits:
		return a.ctx.Z3.FromInt(0, a.ctx.Z3.BVSort(t.BitWidth))
	case ir.Array:
		zeroElem := a.ZeroOfSort(*t.Elem)
		return a.ctx.Z3.ConstArray(a.ctx.Z3.BVSort(ir.MinBitCountUnsigned(t.ArraySize-1)), zeroElem)
	case ir.Tuple:
		fields := make([]Term, len(t.Children))
		for i, c := range t.Children {
			fields[i] = a.ZeroOfSort(c)
		}
		return a.MakeTuple(t, fields)
	default:
		panic(fmt.Sprintf("sortadapt: unknown type kind %d", t.Kind))
	}
}
