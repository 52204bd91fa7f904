package si

import "math/big"

// Concat builds the little-endian concatenation of two byte-reconstruction
// pieces: low occupies the low-order bits, high the high-order bits above
// it. Used by memstore's recursive read to reassemble a wide value from
// narrower stored entries. Non-singleton inputs can't be concatenated
// precisely (the cross product of two ranges isn't a strided interval), so
// they degrade to Top at the combined width.
func Concat(low SI, high SI) SI {
	width := low.width + high.width
	if low.IsTop() || high.IsTop() {
		return Top(width)
	}
	if low.IsEmpty() || high.IsEmpty() {
		return Empty(width)
	}
	if !low.IsSingleton() || !high.IsSingleton() {
		return Top(width)
	}

	shifted := new(big.Int).Lsh(high.low, low.width)
	combined := new(big.Int).Or(shifted, low.low)
	return OfBigInt(combined, width)
}

// Extract pulls out bitOffset..bitOffset+width-1 from s. Only defined
// precisely for singleton inputs; otherwise degrades to Top, matching the
// evaluator's "unimplemented forms degrade to top" contract.
func Extract(s SI, bitOffset, width uint) SI {
	if s.IsTop() {
		return Top(width)
	}
	if s.IsEmpty() {
		return Empty(width)
	}
	if !s.IsSingleton() {
		return Top(width)
	}

	shifted := new(big.Int).Rsh(s.low, bitOffset)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	return OfBigInt(new(big.Int).And(shifted, mask), width)
}
