package memstore

import (
	"math/big"

	"github.com/cs-au-dk/vsa/region"
	"github.com/cs-au-dk/vsa/si"
	"github.com/cs-au-dk/vsa/vs"
)

// Write implements write(k, store, addr_vs, value_vs).
func (s Store) Write(width uint, addr, value vs.VS) Store {
	if addr.IsTop() {
		// mem_max always resolves to a concrete bound (New's caller can't
		// leave a Store genuinely unbounded), so a top address writing a
		// non-top value always collapses the whole store rather than
		// enumerating every materialized address to weak-write into.
		return New(s.memMax)
	}

	if r, ok := addr.IsRegionTop(); ok {
		return s.dropRegion(r)
	}

	if r, off, ok := singlePoint(addr); ok {
		return s.strongUpdate(width, r, off, value)
	}

	return s.weakUpdateMulti(width, addr, value)
}

func singlePoint(addr vs.VS) (region.Region, *big.Int, bool) {
	r, interval, ok := addr.IsSingleton()
	if !ok {
		return region.Region{}, nil, false
	}
	return r, interval.Low(), true
}

func (s Store) strongUpdate(width uint, r region.Region, offset *big.Int, value vs.VS) Store {
	rm, found := s.regionMapOf(r)
	if !found {
		rm = emptyRegionMap()
	}
	off := offset.Uint64()

	if value.IsTop() {
		rm = rm.Remove(off)
		if rm.Size() == 0 {
			s.regions = s.regions.Remove(r)
			return s
		}
		s.regions = s.regions.Insert(r, rm)
		return s
	}

	if old, found := rm.Lookup(off); found && old.Eq(value) {
		// Preserve sharing: no-op write of an identical value.
		return s
	}

	rm = rm.Insert(off, value)
	s.regions = s.regions.Insert(r, rm)
	return s
}

func (s Store) dropRegion(r region.Region) Store {
	s.regions = s.regions.Remove(r)
	return s
}

// weakUpdateMulti enumerates every concrete address in addr and unions value
// into whatever was already there, then applies per-region widening to any
// touched region. If addr denotes more concrete points than memMax, the
// whole store collapses to top rather than enumerating.
func (s Store) weakUpdateMulti(width uint, addr, value vs.VS) Store {
	touched := map[region.Region]bool{}
	budget := s.memMax

	overflow := false
	addr.ForEach(func(r region.Region, offsets si.SI) {
		if overflow {
			return
		}
		ok := offsets.Enumerate(budget, func(off *big.Int) bool {
			budget--
			if budget < 0 {
				return false
			}
			rm, found := s.regionMapOf(r)
			if !found {
				rm = emptyRegionMap()
			}
			old, found := rm.Lookup(off.Uint64())
			var merged vs.VS
			if found {
				merged = old.Union(value)
			} else {
				merged = value
			}
			if merged.IsTop() {
				rm = rm.Remove(off.Uint64())
			} else {
				rm = rm.Insert(off.Uint64(), merged)
			}
			s.regions = s.regions.Insert(r, rm)
			touched[r] = true
			return true
		})
		if !ok {
			overflow = true
		}
	})

	if overflow {
		return New(s.memMax)
	}

	for r := range touched {
		s = s.widenRegion(r)
	}
	return s
}
