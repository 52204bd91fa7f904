package si

import "math/big"

// BinOp is the arithmetic/bitwise operator vocabulary the evaluator dispatches
// scalar binary expressions through.
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	And
	Or
	Xor
	Shl
	Lshr
	Ashr
)

// Apply computes an over-approximation of applying op pointwise to every
// pair of concrete values in a and b. Arithmetic ops widen the bound range
// conservatively rather than tracking exact strides through the operation;
// bitwise ops that don't preserve strided-interval shape collapse to Top.
func (op BinOp) Apply(a, b SI) SI {
	checkWidth(a, b)
	if a.IsEmpty() || b.IsEmpty() {
		return Empty(a.width)
	}
	if a.IsTop() || b.IsTop() {
		return Top(a.width)
	}

	switch op {
	case Add:
		return FromBounds(
			new(big.Int).Add(a.low, b.low),
			new(big.Int).Add(a.high, b.high),
			gcdBig(a.stride, b.stride),
			a.width,
		)
	case Sub:
		return FromBounds(
			new(big.Int).Sub(a.low, b.high),
			new(big.Int).Sub(a.high, b.low),
			gcdBig(a.stride, b.stride),
			a.width,
		)
	case Mul:
		if a.IsSingleton() && b.IsSingleton() {
			return OfBigInt(new(big.Int).Mul(a.low, b.low), a.width)
		}
		lo := new(big.Int).Mul(a.low, b.low)
		hi := new(big.Int).Mul(a.high, b.high)
		return FromBounds(lo, hi, big.NewInt(1), a.width)
	case And, Or, Xor, Shl, Lshr, Ashr:
		if a.IsSingleton() && b.IsSingleton() {
			return OfBigInt(bitwise(op, a.low, b.low, a.width), a.width)
		}
		return Top(a.width)
	default:
		return Top(a.width)
	}
}

func bitwise(op BinOp, a, b *big.Int, width uint) *big.Int {
	switch op {
	case And:
		return new(big.Int).And(a, b)
	case Or:
		return new(big.Int).Or(a, b)
	case Xor:
		return new(big.Int).Xor(a, b)
	case Shl:
		return new(big.Int).Lsh(a, uint(b.Uint64()))
	case Lshr:
		return new(big.Int).Rsh(a, uint(b.Uint64()))
	case Ashr:
		// Arithmetic shift treats the value as width-bit signed.
		signed := toSigned(a, width)
		return new(big.Int).Rsh(signed, uint(b.Uint64()))
	default:
		panic("unreachable bitwise op")
	}
}

// UnOp is the unary operator vocabulary.
type UnOp uint8

const (
	Neg UnOp = iota
	Not
)

func (op UnOp) Apply(a SI) SI {
	if a.IsEmpty() || a.IsTop() {
		return a
	}
	switch op {
	case Neg:
		return FromBounds(
			new(big.Int).Neg(a.high),
			new(big.Int).Neg(a.low),
			a.stride, a.width,
		)
	case Not:
		if a.IsSingleton() {
			mask := new(big.Int).Sub(modulus(a.width), big.NewInt(1))
			return OfBigInt(new(big.Int).Xor(a.low, mask), a.width)
		}
		return Top(a.width)
	default:
		return Top(a.width)
	}
}

// CastKind distinguishes the three SSA-level conversions the evaluator's
// Cast expression form may request.
type CastKind uint8

const (
	SignExtend CastKind = iota
	ZeroExtend
	Truncate
)

// Cast reinterprets a at a new width. Sign extension of an interval that
// straddles the sign boundary degrades to Top, since the extended bound
// range would no longer be a contiguous strided interval.
func Cast(kind CastKind, targetWidth uint, a SI) SI {
	if a.IsEmpty() {
		return Empty(targetWidth)
	}
	if a.IsTop() {
		return Top(targetWidth)
	}

	switch kind {
	case Truncate:
		if targetWidth >= a.width {
			return Top(targetWidth)
		}
		if a.IsSingleton() {
			return OfBigInt(a.low, targetWidth)
		}
		// Truncation can fracture a contiguous range; only safe for
		// singleton inputs without further stride analysis.
		return Top(targetWidth)

	case ZeroExtend:
		if targetWidth < a.width {
			return Top(targetWidth)
		}
		return FromBounds(new(big.Int).Set(a.low), new(big.Int).Set(a.high), a.stride, targetWidth)

	case SignExtend:
		if targetWidth < a.width {
			return Top(targetWidth)
		}
		lo := signExtendBig(a.low, a.width, targetWidth)
		hi := signExtendBig(a.high, a.width, targetWidth)
		if lo.Cmp(hi) > 0 {
			// The range crosses the sign boundary at the old width.
			return Top(targetWidth)
		}
		return FromBounds(lo, hi, a.stride, targetWidth)

	default:
		return Top(targetWidth)
	}
}

func toSigned(v *big.Int, width uint) *big.Int {
	half := new(big.Int).Lsh(big.NewInt(1), width-1)
	if v.Cmp(half) < 0 {
		return new(big.Int).Set(v)
	}
	return new(big.Int).Sub(v, modulus(width))
}

func signExtendBig(v *big.Int, width, targetWidth uint) *big.Int {
	signed := toSigned(v, width)
	return mod(signed, targetWidth)
}

// --- Inequality constructors ---

// BelowEq returns the unsigned SI {0, ..., k}.
func BelowEq(k *big.Int, width uint) SI {
	return FromBounds(big.NewInt(0), k, big.NewInt(1), width)
}

// Below returns the unsigned SI {0, ..., k-1}.
func Below(k *big.Int, width uint) SI {
	return BelowEq(new(big.Int).Sub(k, big.NewInt(1)), width)
}

// AboveEq returns the unsigned SI {k, ..., 2^w - 1}.
func AboveEq(k *big.Int, width uint) SI {
	return FromBounds(k, maxUnsigned(width), big.NewInt(1), width)
}

// Above returns the unsigned SI {k+1, ..., 2^w - 1}.
func Above(k *big.Int, width uint) SI {
	return AboveEq(new(big.Int).Add(k, big.NewInt(1)), width)
}

// SBelowEq returns the signed SI {minInt, ..., k}. In the unsigned bit
// pattern this domain stores bounds in, minInt sits at the middle of the
// range (2^(width-1)), so {minInt,...,k} is only a contiguous [low,high]
// when k's unsigned residue is itself >= minInt's - i.e. when k is negative
// enough that it and minInt land on the same side of the wrap. A
// non-negative (or mildly negative) k instead needs the disjoint
// [minInt,-1] ∪ [0,k], which this SI representation can't express, so it
// degrades to Top rather than silently dropping the [minInt,-1] half.
func SBelowEq(k *big.Int, width uint) SI {
	low := minSigned(width)
	if mod(low, width).Cmp(mod(k, width)) > 0 {
		return Top(width)
	}
	return FromBounds(low, k, big.NewInt(1), width)
}

func SBelow(k *big.Int, width uint) SI {
	return SBelowEq(new(big.Int).Sub(k, big.NewInt(1)), width)
}

// SAboveEq returns the signed SI {k, ..., maxInt}, with the same wraparound
// caveat as SBelowEq: contiguous only when k's unsigned residue doesn't
// exceed maxInt's, else Top.
func SAboveEq(k *big.Int, width uint) SI {
	high := maxSigned(width)
	if mod(k, width).Cmp(mod(high, width)) > 0 {
		return Top(width)
	}
	return FromBounds(k, high, big.NewInt(1), width)
}

func SAbove(k *big.Int, width uint) SI {
	return SAboveEq(new(big.Int).Add(k, big.NewInt(1)), width)
}

// RemoveUpperBound widens s's high bound to the representable maximum,
// keeping its low bound and stride - used by the variable-to-variable
// comparison pattern in edge refinement.
func (s SI) RemoveUpperBound() SI {
	if s.kind != kindNormal {
		return s
	}
	return FromBounds(s.low, maxUnsigned(s.width), s.stride, s.width)
}

// RemoveLowerBound widens s's low bound down to zero, keeping its high bound
// and stride.
func (s SI) RemoveLowerBound() SI {
	if s.kind != kindNormal {
		return s
	}
	return FromBounds(big.NewInt(0), s.high, s.stride, s.width)
}
