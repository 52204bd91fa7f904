// Package si implements strided-interval arithmetic: the abstract domain
// value sets are built from. A strided interval is the set
// { low + k*stride | k >= 0, low + k*stride <= high }, taken modulo 2^width.
// Two sentinel members, Top and Empty, stand in for "no information" and
// "unreachable" without materializing an actual (stride, low, high) triple.
package si

import (
	"fmt"
	"math/big"

	"github.com/fatih/color"

	"github.com/cs-au-dk/vsa/utils"
)

var colorize = struct {
	Const func(...interface{}) string
	Attr  func(...interface{}) string
}{
	Const: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
	Attr: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiRed).SprintFunc())(is...)
	},
}

type kind uint8

const (
	kindNormal kind = iota
	kindTop
	kindEmpty
)

// SI is an immutable strided interval at a fixed bit width. The zero value
// is not meaningful; construct via Top, Empty, OfInt or FromBounds.
type SI struct {
	width  uint
	kind   kind
	stride *big.Int
	low    *big.Int
	high   *big.Int
}

func modulus(width uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), width)
}

func mod(v *big.Int, width uint) *big.Int {
	m := modulus(width)
	r := new(big.Int).Mod(v, m)
	return r
}

// Width returns the bit width this interval was constructed at.
func (s SI) Width() uint { return s.width }

func Top(width uint) SI {
	return SI{width: width, kind: kindTop}
}

func Empty(width uint) SI {
	return SI{width: uint(width), kind: kindEmpty}
}

func (s SI) IsTop() bool   { return s.kind == kindTop }
func (s SI) IsEmpty() bool { return s.kind == kindEmpty }

// OfInt constructs the singleton strided interval {v mod 2^width}.
func OfInt(v int64, width uint) SI {
	low := mod(big.NewInt(v), width)
	return SI{
		width:  width,
		kind:   kindNormal,
		stride: big.NewInt(0),
		low:    low,
		high:   new(big.Int).Set(low),
	}
}

// OfBigInt is like OfInt but accepts an arbitrary-precision literal.
func OfBigInt(v *big.Int, width uint) SI {
	low := mod(v, width)
	return SI{
		width:  width,
		kind:   kindNormal,
		stride: big.NewInt(0),
		low:    low,
		high:   new(big.Int).Set(low),
	}
}

// FromBounds constructs the general strided interval [low, high] stepping by
// stride, all reduced modulo 2^width. If low == high the stride is forced to
// zero (a singleton has no meaningful stride).
func FromBounds(low, high, stride *big.Int, width uint) SI {
	low = mod(low, width)
	high = mod(high, width)
	stride = new(big.Int).Abs(stride)

	if low.Cmp(high) == 0 {
		stride = big.NewInt(0)
	}

	return SI{width: width, kind: kindNormal, stride: stride, low: low, high: high}
}

func (s SI) Stride() *big.Int {
	if s.kind != kindNormal {
		return big.NewInt(0)
	}
	return new(big.Int).Set(s.stride)
}

func (s SI) Low() *big.Int {
	if s.kind != kindNormal {
		panic(fmt.Errorf("Low() called on non-normal interval %v", s))
	}
	return new(big.Int).Set(s.low)
}

func (s SI) High() *big.Int {
	if s.kind != kindNormal {
		panic(fmt.Errorf("High() called on non-normal interval %v", s))
	}
	return new(big.Int).Set(s.high)
}

// IsSingleton reports whether s denotes exactly one concrete value.
func (s SI) IsSingleton() bool {
	return s.kind == kindNormal && s.low.Cmp(s.high) == 0
}

// Count returns the number of concrete values s denotes. For Top it returns
// 2^width, the number of points at this width - callers treat Top specially
// rather than enumerating it.
func (s SI) Count() *big.Int {
	switch s.kind {
	case kindEmpty:
		return big.NewInt(0)
	case kindTop:
		return modulus(s.width)
	default:
		if s.stride.Sign() == 0 {
			return big.NewInt(1)
		}
		diff := new(big.Int).Sub(s.high, s.low)
		n := new(big.Int).Div(diff, s.stride)
		return n.Add(n, big.NewInt(1))
	}
}

// Enumerate calls f for every concrete value in s, in ascending order,
// stopping early if f returns false. If s is Top or its number of points
// exceeds limit, f is never called. The boolean result is false iff
// enumeration was refused for Top or the limit; a stop requested by f
// still returns true.
func (s SI) Enumerate(limit int, f func(*big.Int) bool) bool {
	if s.kind == kindEmpty {
		return true
	}
	if s.kind == kindTop {
		return false
	}

	count := s.Count()
	if count.IsInt64() && count.Int64() > int64(limit) {
		return false
	}

	stride := s.stride
	if stride.Sign() == 0 {
		stride = big.NewInt(1)
	}

	for v := new(big.Int).Set(s.low); v.Cmp(s.high) <= 0; v.Add(v, stride) {
		if !f(new(big.Int).Set(v)) {
			return true
		}
		if s.stride.Sign() == 0 {
			break
		}
	}
	return true
}

func (s SI) String() string {
	switch s.kind {
	case kindTop:
		return colorize.Attr(fmt.Sprintf("⊤%d", s.width))
	case kindEmpty:
		return colorize.Attr(fmt.Sprintf("⊥%d", s.width))
	default:
		if s.IsSingleton() {
			return colorize.Const(fmt.Sprintf("[%s]", s.low))
		}
		return colorize.Const(fmt.Sprintf("%s[%s,%s]", s.stride, s.low, s.high))
	}
}

// IsFullRange reports whether s spans every representable value at its
// width with unit stride - i.e. is a materialized "top" interval rather
// than the Top sentinel. Used to recognize a region's top_si(k) address
// form in MemStore.write.
func (s SI) IsFullRange() bool {
	if s.kind != kindNormal {
		return false
	}
	unit := s.stride.Cmp(bigOne) == 0 || s.stride.Sign() == 0
	return unit && s.low.Sign() == 0 && s.high.Cmp(maxUnsigned(s.width)) == 0
}

var bigOne = bigIntOne()

func bigIntOne() *big.Int {
	return big.NewInt(1)
}

// Eq is structural equality, not set equality up to representation choice
// (two intervals denoting the same set but constructed with a different
// stride for a singleton are normalized by FromBounds/OfInt, so this is safe
// in practice).
func (s SI) Eq(o SI) bool {
	if s.width != o.width {
		return false
	}
	if s.kind != o.kind {
		return false
	}
	if s.kind != kindNormal {
		return true
	}
	return s.stride.Cmp(o.stride) == 0 && s.low.Cmp(o.low) == 0 && s.high.Cmp(o.high) == 0
}
