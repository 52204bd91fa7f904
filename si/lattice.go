package si

import "math/big"

func checkWidth(a, b SI) {
	if a.width != b.width {
		panic(errWidthMismatch(a.width, b.width))
	}
}

type widthMismatchError struct{ a, b uint }

func (e widthMismatchError) Error() string {
	return "strided interval width mismatch"
}

func errWidthMismatch(a, b uint) error {
	return widthMismatchError{a, b}
}

// Union computes the smallest strided interval that over-approximates both
// operands (join in the SI lattice - not a set union, since SI cannot
// represent arbitrary finite sets exactly).
func (s SI) Union(o SI) SI {
	checkWidth(s, o)

	if s.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return s
	}
	if s.IsTop() || o.IsTop() {
		return Top(s.width)
	}

	low := minBig(s.low, o.low)
	high := maxBig(s.high, o.high)
	stride := gcdBig(gcdBig(s.stride, o.stride), new(big.Int).Sub(maxBig(s.low, o.low), minBig(s.low, o.low)))
	if stride.Sign() == 0 {
		stride = big.NewInt(1)
	}

	return FromBounds(low, high, stride, s.width)
}

// Intersect computes the greatest strided interval under-approximating what
// both operands have in common. Strides that don't line up are treated
// conservatively: the narrower bound range is kept with the coarser stride.
func (s SI) Intersect(o SI) SI {
	checkWidth(s, o)

	if s.IsEmpty() || o.IsEmpty() {
		return Empty(s.width)
	}
	if s.IsTop() {
		return o
	}
	if o.IsTop() {
		return s
	}

	low := maxBig(s.low, o.low)
	high := minBig(s.high, o.high)
	if low.Cmp(high) > 0 {
		return Empty(s.width)
	}

	stride := lcmBig(nonZero(s.stride), nonZero(o.stride))
	return FromBounds(low, high, stride, s.width)
}

// Widen extrapolates from s (the old value) toward o (the new value) to
// guarantee termination of ascending chains: bounds that grew are pushed all
// the way to the representable extreme in that direction.
func (s SI) Widen(o SI) SI {
	checkWidth(s, o)

	if s.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return s
	}
	if s.IsTop() || o.IsTop() {
		return Top(s.width)
	}

	key := widenCacheKey(s, o)
	if cached, found := widenCache.Get(key); found {
		return cached.(SI)
	}

	low := new(big.Int).Set(s.low)
	high := new(big.Int).Set(s.high)

	if o.low.Cmp(s.low) < 0 {
		low = minSigned(s.width)
	}
	if o.high.Cmp(s.high) > 0 {
		high = maxUnsigned(s.width)
	}

	stride := gcdBig(s.stride, o.stride)
	if stride.Sign() == 0 {
		stride = big.NewInt(1)
	}

	// Compare the modular representation, not the raw bounds: low may now
	// be minSigned's negative value, which always compares less than a
	// non-negative high despite possibly reducing to a larger unsigned
	// residue than high - a genuine wraparound this domain can't express
	// contiguously, which must degrade to Top rather than silently
	// constructing an SI with low > high.
	if mod(low, s.width).Cmp(mod(high, s.width)) > 0 {
		result := Top(s.width)
		widenCache.Add(key, result)
		return result
	}

	result := FromBounds(low, high, stride, s.width)
	widenCache.Add(key, result)
	return result
}

// Leq is the SI lattice order: s ⊑ o iff every concrete value s denotes is
// also denoted by o. Implemented as s ⊔ o == o for simplicity, matching the
// teacher's join-based Leq convention in analysis/lattice.
func (s SI) Leq(o SI) bool {
	checkWidth(s, o)
	return s.Union(o).Eq(o)
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func nonZero(v *big.Int) *big.Int {
	if v.Sign() == 0 {
		return big.NewInt(1)
	}
	return v
}

func gcdBig(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Abs(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Abs(a)
	}
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

func lcmBig(a, b *big.Int) *big.Int {
	g := gcdBig(a, b)
	if g.Sign() == 0 {
		return big.NewInt(0)
	}
	product := new(big.Int).Mul(a, b)
	return new(big.Int).Div(product, g)
}

// minSigned returns the width-bit two's complement minimum, -(2^(width-1)).
// Reducing it mod 2^width (as FromBounds and mod() do on every bound) yields
// its unsigned bit-pattern representation, 2^(width-1) - the same value a
// caller would get from OfInt(math.MinInt32, 32) at width 32.
func minSigned(width uint) *big.Int {
	return new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), width-1))
}

// maxSigned returns the width-bit two's complement maximum, 2^(width-1) - 1.
func maxSigned(width uint) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width-1), big.NewInt(1))
}

func maxUnsigned(width uint) *big.Int {
	return new(big.Int).Sub(modulus(width), big.NewInt(1))
}
