// Package vs implements region-tagged value sets: a finite union, across
// memory regions, of strided intervals sharing a width. Value sets are the
// scalar lattice element of the analysis, and also the representation of an
// abstract address used to drive MemStore reads and writes.
package vs

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/cs-au-dk/vsa/region"
	"github.com/cs-au-dk/vsa/si"
)

// VS is immutable; every mutating-looking method returns a new value.
type VS struct {
	width uint
	top   bool
	parts map[region.Region]si.SI
}

func Top(width uint) VS {
	return VS{width: width, top: true}
}

func Empty(width uint) VS {
	return VS{width: width, parts: map[region.Region]si.SI{}}
}

// OfInt builds a value set denoting a single concrete integer in the global
// region.
func OfInt(v int64, width uint) VS {
	return OfSI(region.Global(), si.OfInt(v, width))
}

// OfBigInt is OfInt for arbitrary-precision constants (the evaluator's
// integer-literal case).
func OfBigInt(v *big.Int, width uint) VS {
	return OfSI(region.Global(), si.OfBigInt(v, width))
}

// OfSI builds a single-region value set from a strided interval.
func OfSI(r region.Region, s si.SI) VS {
	if s.IsEmpty() {
		return Empty(s.Width())
	}
	return VS{width: s.Width(), parts: map[region.Region]si.SI{r: s}}
}

// OfRegionBase builds the value set denoting offset 0 within a fresh region
// (the stack-pointer seeding idiom used by fixpoint's initEnv).
func OfRegionBase(r region.Region, width uint) VS {
	return OfSI(r, si.OfInt(0, width))
}

func (v VS) Width() uint { return v.width }
func (v VS) IsTop() bool { return v.top }

func (v VS) IsEmpty() bool {
	return !v.top && len(v.parts) == 0
}

// IsSingleton reports whether v denotes exactly one concrete (region,
// offset) pair, returning it when true.
func (v VS) IsSingleton() (region.Region, si.SI, bool) {
	if v.top || len(v.parts) != 1 {
		return region.Region{}, si.SI{}, false
	}
	for r, s := range v.parts {
		if s.IsSingleton() {
			return r, s, true
		}
	}
	return region.Region{}, si.SI{}, false
}

// IsRegionTop reports whether v denotes every offset of a single region
// (used by MemStore.write's "drop all entries in region r" case).
func (v VS) IsRegionTop() (region.Region, bool) {
	if v.top || len(v.parts) != 1 {
		return region.Region{}, false
	}
	for r, s := range v.parts {
		if s.IsFullRange() {
			return r, true
		}
	}
	return region.Region{}, false
}

// ForEach calls f once per (region, SI) pair. Undefined on a Top value set -
// callers must check IsTop first.
func (v VS) ForEach(f func(region.Region, si.SI)) {
	for r, s := range v.parts {
		f(r, s)
	}
}

func (v VS) String() string {
	if v.top {
		return fmt.Sprintf("⊤%d", v.width)
	}
	if v.IsEmpty() {
		return fmt.Sprintf("⊥%d", v.width)
	}

	regions := make([]region.Region, 0, len(v.parts))
	for r := range v.parts {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Less(regions[j]) })

	parts := make([]string, 0, len(regions))
	for _, r := range regions {
		if r.IsGlobal() {
			parts = append(parts, v.parts[r].String())
		} else {
			parts = append(parts, fmt.Sprintf("%s:%s", r, v.parts[r]))
		}
	}
	return strings.Join(parts, " ∪ ")
}

func (v VS) Eq(o VS) bool {
	if v.width != o.width {
		return false
	}
	if v.top != o.top {
		return false
	}
	if v.top {
		return true
	}
	if len(v.parts) != len(o.parts) {
		return false
	}
	for r, s := range v.parts {
		os, found := o.parts[r]
		if !found || !s.Eq(os) {
			return false
		}
	}
	return true
}
