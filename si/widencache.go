package si

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// widenCache memoizes SI.Widen results. Fixpoint iteration calls Widen
// repeatedly at the same loop header with slowly-growing bounds, so the
// (old, new) pair recurs often across worklist passes; caching the
// comparison avoids redoing big.Int arithmetic on every visit.
var widenCache *lru.Cache

func init() {
	c, err := lru.New(4096)
	if err != nil {
		panic(fmt.Errorf("si: failed to allocate widen cache: %w", err))
	}
	widenCache = c
}

func widenCacheKey(s, o SI) string {
	return fmt.Sprintf("%d|%v|%v|%v|%v|%v|%v", s.width, s.kind, s.stride, s.low, s.high, o.kind, pairKey(o))
}

// pairKey must include every field Widen's result depends on - o.stride in
// particular, since Widen's result stride is gcdBig(s.stride, o.stride):
// two calls with equal o.low/o.high but different o.stride would otherwise
// collide on the same cache key and return each other's (wrong-stride)
// result. o.width is included too even though checkWidth already forces
// o.width == s.width, so the key stays correct if that invariant ever
// loosens.
func pairKey(o SI) string {
	return fmt.Sprintf("%v|%v|%v|%v", o.width, o.low, o.high, o.stride)
}
