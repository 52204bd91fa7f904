package si

import (
	"math/big"
	"testing"
)

func TestOfIntWraps(t *testing.T) {
	tests := []struct {
		name  string
		v     int64
		width uint
		want  int64
	}{
		{"fits", 5, 8, 5},
		{"wraps", 256, 8, 0},
		{"negative", -1, 8, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OfInt(tt.v, tt.width)
			want := OfInt(tt.want, tt.width)
			if !got.Eq(want) {
				t.Errorf("OfInt(%d, %d) = %v, want %v", tt.v, tt.width, got, want)
			}
		})
	}
}

func TestUnionIsJoin(t *testing.T) {
	a := OfInt(1, 8)
	b := OfInt(5, 8)

	u := a.Union(b)
	if !a.Leq(u) || !b.Leq(u) {
		t.Errorf("Union(%v, %v) = %v is not an upper bound", a, b, u)
	}
}

func TestIntersectEmpty(t *testing.T) {
	a := FromBounds(big.NewInt(0), big.NewInt(3), big.NewInt(1), 8)
	b := FromBounds(big.NewInt(10), big.NewInt(20), big.NewInt(1), 8)

	got := a.Intersect(b)
	if !got.IsEmpty() {
		t.Errorf("Intersect of disjoint ranges = %v, want empty", got)
	}
}

func TestTopAbsorbsUnion(t *testing.T) {
	top := Top(32)
	v := OfInt(42, 32)
	if !top.Union(v).IsTop() {
		t.Errorf("Top ∪ v should be Top")
	}
}

func TestWidenReachesFixpoint(t *testing.T) {
	s := OfInt(0, 32)
	for i := 0; i < 20; i++ {
		next := s.Union(OfInt(int64(i), 32))
		s = s.Widen(next)
	}
	fixed := s.Widen(s)
	if !fixed.Eq(s) {
		t.Errorf("widen(s, s) changed s: %v -> %v", s, fixed)
	}
}

func TestBelowEqAndAboveAreDisjoint(t *testing.T) {
	k := big.NewInt(10)
	below := BelowEq(k, 8)
	above := Above(k, 8)

	if below.Intersect(above).IsEmpty() != true {
		t.Errorf("BelowEq(10) and Above(10) should not overlap")
	}
}

func TestRemoveBounds(t *testing.T) {
	s := FromBounds(big.NewInt(5), big.NewInt(10), big.NewInt(1), 8)
	noUpper := s.RemoveUpperBound()
	if noUpper.Low().Cmp(big.NewInt(5)) != 0 {
		t.Errorf("RemoveUpperBound changed the low bound")
	}
	if noUpper.High().Cmp(maxUnsigned(8)) != 0 {
		t.Errorf("RemoveUpperBound did not raise the high bound to max")
	}
}

func TestConcatLittleEndian(t *testing.T) {
	low := OfInt(0x41, 8)
	high := OfInt(0x42, 8)

	got := Concat(low, high)
	want := OfInt(0x4241, 16)
	if !got.Eq(want) {
		t.Errorf("Concat(0x41, 0x42) = %v, want %v", got, want)
	}
}

func TestAddRespectsEmpty(t *testing.T) {
	e := Empty(8)
	v := OfInt(1, 8)
	if !Add.Apply(e, v).IsEmpty() {
		t.Errorf("Add with an empty operand should stay empty")
	}
}
