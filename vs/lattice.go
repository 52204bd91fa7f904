package vs

import "github.com/cs-au-dk/vsa/region"

func checkWidth(a, b VS) {
	if a.width != b.width {
		panic(errWidthMismatchVS{a.width, b.width})
	}
}

type errWidthMismatchVS struct{ a, b uint }

func (e errWidthMismatchVS) Error() string {
	return "value set width mismatch"
}

// Union is the inclusive regionwise join: a region present on only one side
// survives unchanged (unlike MemStore.union, absence of a region from one
// side just means "no values from that region here", not "top"). Present
// on both sides, SIs are joined.
func (v VS) Union(o VS) VS {
	checkWidth(v, o)
	if v.top || o.top {
		return Top(v.width)
	}

	out := Empty(v.width)
	for r, s := range v.parts {
		out.parts[r] = s
	}
	for r, s := range o.parts {
		if existing, found := out.parts[r]; found {
			out.parts[r] = existing.Union(s)
		} else {
			out.parts[r] = s
		}
	}
	return out
}

// Intersect keeps only regions present on both sides, intersecting their
// SIs. This is the regionwise meaning used by MemStore.write_intersection
// and by the edge-refinement patterns.
func (v VS) Intersect(o VS) VS {
	checkWidth(v, o)
	if v.top {
		return o
	}
	if o.top {
		return v
	}

	out := Empty(v.width)
	for r, s := range v.parts {
		if os, found := o.parts[r]; found {
			inter := s.Intersect(os)
			if !inter.IsEmpty() {
				out.parts[r] = inter
			}
		}
	}
	return out
}

// Widen widens SIs shared between both sides and keeps regions present on
// either side only (inclusive merge, matching MemStore/AbsEnv widen).
func (v VS) Widen(o VS) VS {
	checkWidth(v, o)
	if v.top || o.top {
		return Top(v.width)
	}

	out := Empty(v.width)
	for r, s := range v.parts {
		out.parts[r] = s
	}
	for r, s := range o.parts {
		if existing, found := out.parts[r]; found {
			out.parts[r] = existing.Widen(s)
		} else {
			out.parts[r] = s
		}
	}
	return out
}

func (v VS) Leq(o VS) bool {
	checkWidth(v, o)
	return v.Union(o).Eq(o)
}

// Regions returns the set of regions v has entries in. Empty on Top.
func (v VS) Regions() []region.Region {
	rs := make([]region.Region, 0, len(v.parts))
	for r := range v.parts {
		rs = append(rs, r)
	}
	return rs
}
