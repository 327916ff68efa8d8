// Package biteval is a polymorphic interpreter over the capability set
// {One, Zero, Not, And, Or} that lowers ops defined in terms of
// single-bit logic (reverse, one-hot, one-hot-select, select, encode,
// reductions, arithmetic, comparisons) into bit lists.
//
// It is the shared substrate for the Z3 encoder (internal/encoder,
// instantiated with E = a 1-bit z3.BV) and the BDD simplifier
// (internal/bddoracle, instantiated with E = a rudd.Node). Neither
// solver library is imported here, by construction.
package biteval

// Algebra is the capability set an element type E must provide.
type Algebra[E any] interface {
	One() E
	Zero() E
	Not(E) E
	And(E, E) E
	Or(E, E) E
}

// xor derives exclusive-or from the primitive set: a^b = (a & !b) | (!a & b).
func xor[E any](alg Algebra[E], a, b E) E {
	return alg.Or(alg.And(a, alg.Not(b)), alg.And(alg.Not(a), b))
}

// Reverse reverses a bit list (LSb-first in, LSb-first out, but the bit
// that was most significant is now least significant).
func Reverse[E any](bits []E) []E {
	out := make([]E, len(bits))
	for i, b := range bits {
		out[len(bits)-1-i] = b
	}
	return out
}

// AndReduce folds And across every bit; result is a single-element list.
func AndReduce[E any](alg Algebra[E], bits []E) []E {
	acc := alg.One()
	for _, b := range bits {
		acc = alg.And(acc, b)
	}
	return []E{acc}
}

// OrReduce folds Or across every bit; result is a single-element list.
func OrReduce[E any](alg Algebra[E], bits []E) []E {
	acc := alg.Zero()
	for _, b := range bits {
		acc = alg.Or(acc, b)
	}
	return []E{acc}
}

// XorReduce folds Xor (derived) across every bit.
func XorReduce[E any](alg Algebra[E], bits []E) []E {
	acc := alg.Zero()
	for _, b := range bits {
		acc = xor(alg, acc, b)
	}
	return []E{acc}
}

// fullAdder returns (sum, carryOut) for one bit position, expressed
// purely via the five primitives: sum is three-way xor, carry is the
// majority of the three inputs.
func fullAdder[E any](alg Algebra[E], a, b, cin E) (sum, cout E) {
	axb := xor(alg, a, b)
	sum = xor(alg, axb, cin)
	cout = alg.Or(alg.And(a, b), alg.And(axb, cin))
	return sum, cout
}

// Add implements ripple-carry addition over equal-width, LSb-first bit
// lists; the carry out of the top bit is discarded, matching
// fixed-width IR addition. This is the arithmetic counterpart of
// reduce/select: an op expressible purely via the five primitives, used
// by the BDD oracle where there is no solver bit-vector adder to call
// directly.
func Add[E any](alg Algebra[E], a, b []E) []E {
	out := make([]E, len(a))
	carry := alg.Zero()
	for i := range a {
		out[i], carry = fullAdder(alg, a[i], b[i], carry)
	}
	return out
}

// Sub implements a - b via two's-complement addition: a + ^b + 1.
func Sub[E any](alg Algebra[E], a, b []E) []E {
	notB := make([]E, len(b))
	for i, x := range b {
		notB[i] = alg.Not(x)
	}
	out := make([]E, len(a))
	carry := alg.One()
	for i := range a {
		out[i], carry = fullAdder(alg, a[i], notB[i], carry)
	}
	return out
}

// Eq reports bitwise equality, folded with And: equal iff every bit
// pair matches.
func Eq[E any](alg Algebra[E], a, b []E) E {
	acc := alg.One()
	for i := range a {
		acc = alg.And(acc, alg.Not(xor(alg, a[i], b[i])))
	}
	return acc
}

// ULt implements unsigned less-than as the borrow out of a - b,
// mirroring bvbuilder.ULt's msb(zext1(a)-zext1(b)) definition but
// derived from the five primitives instead of a solver zero-extend.
func ULt[E any](alg Algebra[E], a, b []E) E {
	notB := make([]E, len(b))
	for i, x := range b {
		notB[i] = alg.Not(x)
	}
	carry := alg.One()
	for i := range a {
		_, carry = fullAdder(alg, a[i], notB[i], carry)
	}
	// No final carry out of a subtraction with an implicit extra zero
	// bit means the subtraction went negative: a < b.
	return alg.Not(carry)
}

// SLt implements signed less-than via the same subtraction, done one
// sign-extended bit wider so it cannot overflow; the result is the sign
// bit of that widened difference.
func SLt[E any](alg Algebra[E], a, b []E) E {
	ea := append(append([]E{}, a...), a[len(a)-1])
	eb := append(append([]E{}, b...), b[len(b)-1])
	notB := make([]E, len(eb))
	for i, x := range eb {
		notB[i] = alg.Not(x)
	}
	carry := alg.One()
	var sum E
	for i := range ea {
		sum, carry = fullAdder(alg, ea[i], notB[i], carry)
	}
	return sum
}

// Encode implements the IR Encode op: for each output bit j, OR together
// every input bit i whose index has bit j set. Output width is
// ceil(log2(len(bits))); a zero-width input list yields a zero-width result.
func Encode[E any](alg Algebra[E], bits []E, outWidth int) []E {
	out := make([]E, outWidth)
	for j := 0; j < outWidth; j++ {
		acc := alg.Zero()
		for i, b := range bits {
			if i&(1<<uint(j)) != 0 {
				acc = alg.Or(acc, b)
			}
		}
		out[j] = acc
	}
	return out
}

// OneHot implements the IR OneHot op. Given n input bits and a
// priority order, it returns n+1 output bits: output[i] is set iff
// input[i] is the highest-priority set bit, and output[n] (the extra
// "none set" bit) is set iff no input bit is set.
//
// PriorityLSb treats bit 0 as highest priority; PriorityMSb treats the
// last bit as highest priority.
func OneHot[E any](alg Algebra[E], bits []E, lsbPriority bool) []E {
	n := len(bits)
	out := make([]E, n+1)
	order := make([]int, n)
	for i := range order {
		if lsbPriority {
			order[i] = i
		} else {
			order[i] = n - 1 - i
		}
	}
	higherPrioritySet := alg.Zero()
	anySet := alg.Zero()
	for _, i := range order {
		out[i] = alg.And(bits[i], alg.Not(higherPrioritySet))
		higherPrioritySet = alg.Or(higherPrioritySet, bits[i])
		anySet = alg.Or(anySet, bits[i])
	}
	out[n] = alg.Not(anySet)
	return out
}

// OneHotSelect implements the IR OneHotSel op: sel is assumed one-hot
// and the evaluator does not itself check this; each result bit is the
// OR over i of sel[i] AND cases[i][j]. cases[i] and the result share
// the same bit width.
func OneHotSelect[E any](alg Algebra[E], sel []E, cases [][]E) []E {
	width := len(cases[0])
	out := make([]E, width)
	for j := 0; j < width; j++ {
		acc := alg.Zero()
		for i, c := range cases {
			acc = alg.Or(acc, alg.And(sel[i], c[j]))
		}
		out[j] = acc
	}
	return out
}

// Select implements the IR Select op: sel is a little-endian binary
// index into cases. If def is non-nil, any index >= len(cases) selects
// def; otherwise len(cases) must equal 2^len(sel).
func Select[E any](alg Algebra[E], sel []E, cases [][]E, def []E) []E {
	width := len(cases[0])
	out := make([]E, width)
	for j := range out {
		out[j] = alg.Zero()
	}
	covered := alg.Zero()
	for i, c := range cases {
		indicator := alg.One()
		for b := 0; b < len(sel); b++ {
			bitSet := i&(1<<uint(b)) != 0
			if bitSet {
				indicator = alg.And(indicator, sel[b])
			} else {
				indicator = alg.And(indicator, alg.Not(sel[b]))
			}
		}
		for j := 0; j < width; j++ {
			out[j] = alg.Or(out[j], alg.And(indicator, c[j]))
		}
		if def != nil {
			covered = alg.Or(covered, indicator)
		}
	}
	if def != nil {
		notCovered := alg.Not(covered)
		for j := 0; j < width; j++ {
			out[j] = alg.Or(out[j], alg.And(notCovered, def[j]))
		}
	}
	return out
}
