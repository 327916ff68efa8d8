package ir

import "testing"

func TestFlatBitCount(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		want int
	}{
		{"bits", BitsType(8), 8},
		{"array", ArrayType(BitsType(4), 3), 12},
		{"tuple", TupleType(BitsType(4), BitsType(8)), 12},
		{"nested", TupleType(ArrayType(BitsType(2), 2), BitsType(1)), 5},
	}
	for _, c := range cases {
		if got := c.typ.FlatBitCount(); got != c.want {
			t.Errorf("%s: FlatBitCount() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestMinBitCountUnsigned(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
	}
	for _, c := range cases {
		if got := MinBitCountUnsigned(c.n); got != c.want {
			t.Errorf("MinBitCountUnsigned(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestArrayIndexWidthMatchesSpecFormula(t *testing.T) {
	// MinBitCountUnsigned(size-1) must equal ceil(log2(max(size,1))).
	for size := 0; size <= 16; size++ {
		got := MinBitCountUnsigned(size - 1)
		want := ceilLog2(max(size, 1))
		if got != want {
			t.Errorf("size=%d: MinBitCountUnsigned(size-1) = %d, want %d", size, got, want)
		}
	}
}

func ceilLog2(n int) int {
	bits := 0
	v := 1
	for v < n {
		v <<= 1
		bits++
	}
	return bits
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestTypeEqual(t *testing.T) {
	a := TupleType(BitsType(4), ArrayType(BitsType(2), 3))
	b := TupleType(BitsType(4), ArrayType(BitsType(2), 3))
	c := TupleType(BitsType(4), ArrayType(BitsType(2), 4))
	if !a.Equal(b) {
		t.Error("expected a.Equal(b)")
	}
	if a.Equal(c) {
		t.Error("expected !a.Equal(c)")
	}
}
