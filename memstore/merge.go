package memstore

import (
	"math/big"

	"github.com/cs-au-dk/vsa/region"
	"github.com/cs-au-dk/vsa/vs"
)

// WriteIntersection implements write_intersection: only meaningful at a
// singleton point address, where it intersects the existing entry with
// value. Any other address shape leaves the store unchanged, since
// narrowing an unknown set of addresses would lose soundness.
func (s Store) WriteIntersection(width uint, addr, value vs.VS) Store {
	r, offset, ok := singlePoint(addr)
	if !ok {
		return s
	}

	rm, found := s.regionMapOf(r)
	if !found {
		return s
	}
	off := offset.Uint64()
	old, found := rm.Lookup(off)
	if !found {
		return s
	}

	narrowed := old.Intersect(value)
	if narrowed.IsTop() {
		return s
	}
	if narrowed.Eq(old) {
		return s
	}

	rm = rm.Insert(off, narrowed)
	s.regions = s.regions.Insert(r, rm)
	return s
}

// Union is the exclusive regionwise/offsetwise merge: an address present
// in only one operand is dropped (absence means top; top union anything
// is top, represented as absence).
func (s Store) Union(o Store) Store {
	out := New(maxInt(s.memMax, o.memMax))

	s.regions.ForEach(func(r region.Region, srm regionMap) {
		orm, found := o.regionMapOf(r)
		if !found {
			return
		}

		merged := emptyRegionMap()
		srm.ForEach(func(off uint64, sv vs.VS) {
			if ov, found := orm.Lookup(off); found {
				if sv.Width() == ov.Width() {
					u := sv.Union(ov)
					if !u.IsTop() {
						merged = merged.Insert(off, u)
					}
				}
			}
		})

		if merged.Size() > 0 {
			out.regions = out.regions.Insert(r, merged)
		}
	})

	return out
}

// Intersection is the regionwise inclusive merge: an address present on
// only one side is retained; present on both, SIs intersect.
func (s Store) Intersection(o Store) Store {
	return s.inclusiveMerge(o, func(a, b vs.VS) vs.VS { return a.Intersect(b) })
}

// Widen is the regionwise inclusive merge, using SI widen on shared
// addresses instead of intersection.
func (s Store) Widen(o Store) Store {
	return s.inclusiveMerge(o, func(a, b vs.VS) vs.VS { return a.Widen(b) })
}

func (s Store) inclusiveMerge(o Store, combine func(a, b vs.VS) vs.VS) Store {
	out := New(maxInt(s.memMax, o.memMax))

	allRegions := map[region.Region]bool{}
	s.regions.ForEach(func(r region.Region, _ regionMap) { allRegions[r] = true })
	o.regions.ForEach(func(r region.Region, _ regionMap) { allRegions[r] = true })

	for r := range allRegions {
		srm, sFound := s.regionMapOf(r)
		orm, oFound := o.regionMapOf(r)

		merged := emptyRegionMap()
		allOffsets := map[uint64]bool{}
		if sFound {
			srm.ForEach(func(off uint64, _ vs.VS) { allOffsets[off] = true })
		}
		if oFound {
			orm.ForEach(func(off uint64, _ vs.VS) { allOffsets[off] = true })
		}

		for off := range allOffsets {
			sv, sHas := zeroVal(srm, off, sFound)
			ov, oHas := zeroVal(orm, off, oFound)

			var result vs.VS
			switch {
			case sHas && oHas:
				if sv.Width() != ov.Width() {
					continue
				}
				result = combine(sv, ov)
			case sHas:
				result = sv
			case oHas:
				result = ov
			default:
				continue
			}

			if !result.IsTop() {
				merged = merged.Insert(off, result)
			}
		}

		if merged.Size() > 0 {
			out.regions = out.regions.Insert(r, merged)
		}
	}

	return out.widenAllRegions()
}

func zeroVal(rm regionMap, off uint64, found bool) (vs.VS, bool) {
	if !found {
		return vs.VS{}, false
	}
	return rm.Lookup(off)
}

func (s Store) widenAllRegions() Store {
	s.regions.ForEach(func(r region.Region, _ regionMap) {
		s = s.widenRegion(r)
	})
	return s
}

// widenRegion implements widen_region(r): once a region's entry count
// exceeds memMax, the whole region collapses to empty (i.e. every address in
// it becomes unknown/top).
func (s Store) widenRegion(r region.Region) Store {
	rm, found := s.regionMapOf(r)
	if !found {
		return s
	}
	if rm.Size() > s.memMax {
		s.regions = s.regions.Remove(r)
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Eq implements equal: two stores compare equal iff they denote identical
// maps.
func (s Store) Eq(o Store) bool {
	return s.regions.Equal(o.regions, func(a, b regionMap) bool {
		return a.Equal(b, func(av, bv vs.VS) bool { return av.Eq(bv) })
	})
}

// Fold visits every materialized entry in an unspecified order - the
// standard `fold` operation over the store.
func (s Store) Fold(init interface{}, f func(acc interface{}, r region.Region, offset *big.Int, v vs.VS) interface{}) interface{} {
	acc := init
	s.regions.ForEach(func(r region.Region, rm regionMap) {
		rm.ForEach(func(off uint64, v vs.VS) {
			acc = f(acc, r, new(big.Int).SetUint64(off), v)
		})
	})
	return acc
}
