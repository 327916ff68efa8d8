// Package bvbuilder is a thin layer over the solver's bit-vector API
// providing convenience operations that the encoder composes. All
// comparison
// primitives return a 1-bit bit-vector (not a boolean sort) so they
// compose with other bit-vector operations; the *Bool variants build
// first-class booleans for solver assertions.
package bvbuilder

import "github.com/aclements/go-z3/z3"

// ULt returns a 1-bit bit-vector: 1 iff a < b unsigned.
// ULt(a,b) = msb(zext1(a) - zext1(b)).
func ULt(a, b z3.BV) z3.BV {
	wide := a.ZeroExtend(1).Sub(b.ZeroExtend(1))
	return Msb(wide)
}

// SLt returns a 1-bit bit-vector: 1 iff a < b signed.
func SLt(a, b z3.BV) z3.BV {
	wide := a.SignExtend(1).Sub(b.SignExtend(1))
	return Msb(wide)
}

// Msb extracts the most-significant bit of a as a 1-bit bit-vector.
func Msb(a z3.BV) z3.BV {
	w := a.Sort().BVSize()
	return a.Extract(w-1, w-1)
}

// EqZero returns a 1-bit bit-vector: 1 iff a == 0, via not(bvredor(a)).
func EqZero(a z3.BV) z3.BV {
	return bvredor(a).Not()
}

// Eq returns a 1-bit bit-vector: 1 iff a == b, via EqZero(xor(a,b)).
func Eq(a, b z3.BV) z3.BV {
	return EqZero(a.Xor(b))
}

// Min returns ite(bvult(a,b), a, b).
func Min(a, b z3.BV) z3.BV {
	return a.ULT(b).IfThenElse(a, b).(z3.BV)
}

// Fill returns an n-bit vector of the literal value v.
func Fill(ctx *z3.Context, v int64, n int) z3.BV {
	return ctx.FromInt(v, ctx.BVSort(n)).(z3.BV)
}

// ExplodeBits returns the LSb-indexed sequence of 1-bit extracts of a.
func ExplodeBits(a z3.BV) []z3.BV {
	w := a.Sort().BVSize()
	out := make([]z3.BV, w)
	for i := 0; i < w; i++ {
		out[i] = a.Extract(i, i)
	}
	return out
}

// ConcatN concatenates xs where xs[0] supplies the MSb and xs[last]
// the LSb.
func ConcatN(xs []z3.BV) z3.BV {
	res := xs[0]
	for i := 1; i < len(xs); i++ {
		res = res.Concat(xs[i])
	}
	return res
}

// bvredor reduce-ors every bit of a down to a single bit.
func bvredor(a z3.BV) z3.BV {
	bits := ExplodeBits(a)
	acc := bits[0]
	for i := 1; i < len(bits); i++ {
		acc = acc.Or(bits[i])
	}
	return acc
}

// EqZeroBool, EqBool, ULtBool, SLtBool build first-class booleans for
// solver assertions, mirroring the 1-bit primitives above.
func EqZeroBool(a z3.BV) z3.Bool { return a.Eq(a.Sub(a)) }

// ULtBool returns the first-class boolean a <u b.
func ULtBool(a, b z3.BV) z3.Bool { return a.ULT(b) }

// SLtBool returns the first-class boolean a <s b.
func SLtBool(a, b z3.BV) z3.Bool { return a.SLT(b) }

// EqBool returns the first-class boolean a == b.
func EqBool(a, b z3.BV) z3.Bool { return a.Eq(b) }
