// Package memstore implements MemStore, the abstract heap: a sparse,
// region-partitioned map from byte offset to value set. Absence of an entry
// means "unknown" (reads return top); a materialized top entry is instead
// represented by removing the entry entirely, so the persistent maps never
// carry dead weight.
package memstore

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/cs-au-dk/vsa/internal/ptrie"
	"github.com/cs-au-dk/vsa/region"
	"github.com/cs-au-dk/vsa/si"
	"github.com/cs-au-dk/vsa/vs"
)

type offsetHasher struct{}

func (offsetHasher) Hash(o uint64) uint32 {
	// FNV-1a over the 8 byte little-endian encoding, matching the
	// byte-granular addressing the store itself uses.
	h := uint32(2166136261)
	for i := 0; i < 8; i++ {
		h ^= uint32(byte(o >> (8 * i)))
		h *= 16777619
	}
	return h
}

func (offsetHasher) Equal(a, b uint64) bool { return a == b }

type regionMap = ptrie.Tree[uint64, vs.VS]

// Store is the persistent MemStore. The zero value is not valid; use New.
type Store struct {
	memMax  int
	regions ptrie.Tree[region.Region, regionMap]
}

// New constructs an empty store. memMax bounds both the size any single
// region's offset map is allowed to grow to (widen_region) and the number
// of concrete addresses an operation will enumerate before collapsing to
// top.
func New(memMax int) Store {
	return Store{
		memMax:  memMax,
		regions: ptrie.New[region.Region, regionMap](region.Hasher{}),
	}
}

func (s Store) regionMapOf(r region.Region) (regionMap, bool) {
	return s.regions.Lookup(r)
}

func emptyRegionMap() regionMap {
	return ptrie.New[uint64, vs.VS](offsetHasher{})
}

// Read implements read(k, store, addr_vs).
func (s Store) Read(width uint, addr vs.VS) vs.VS {
	if addr.IsEmpty() {
		return vs.Empty(width)
	}
	if addr.IsTop() {
		return vs.Top(width)
	}

	result := vs.Empty(width)
	addr.ForEach(func(r region.Region, offsets si.SI) {
		if result.IsTop() {
			return
		}
		ok := offsets.Enumerate(s.memMax, func(off *big.Int) bool {
			one := s.readOne(width, r, off)
			result = result.Union(one)
			return !result.IsTop()
		})
		if !ok {
			result = vs.Top(width)
		}
	})
	return result
}

// readOne reads a single concrete (region, offset) at the given width,
// reassembling narrower stored entries little-endian.
func (s Store) readOne(width uint, r region.Region, offset *big.Int) vs.VS {
	rm, found := s.regionMapOf(r)
	if !found {
		return vs.Top(width)
	}

	off := offset.Uint64()
	entry, found := rm.Lookup(off)
	if !found {
		return vs.Top(width)
	}
	if entry.Width() == width {
		return entry
	}
	if entry.Width() > width {
		// Extraction from a wider stored value is not modeled.
		return vs.Top(width)
	}

	// entry is narrower: entry occupies the low-order bits; recurse for
	// the rest at the next address.
	w := entry.Width()
	nextOffset := new(big.Int).Add(offset, big.NewInt(int64(w/8)))
	rest := s.readOne(width-w, r, nextOffset)
	if rest.IsTop() {
		return vs.Top(width)
	}

	entrySI, entryOK := soleSI(entry)
	restSI, restOK := soleSI(rest)
	if !entryOK || !restOK {
		return vs.Top(width)
	}
	return vs.OfSI(r, si.Concat(entrySI, restSI))
}

func soleSI(v vs.VS) (si.SI, bool) {
	_, s, ok := v.IsSingleton()
	if ok {
		return s, true
	}
	if v.IsTop() || v.IsEmpty() {
		return si.SI{}, false
	}
	regions := v.Regions()
	if len(regions) != 1 {
		return si.SI{}, false
	}
	found := false
	var result si.SI
	v.ForEach(func(_ region.Region, s si.SI) {
		result = s
		found = true
	})
	return result, found
}

// String pretty-prints every materialized entry, region by region.
func (s Store) String() string {
	type entry struct {
		r   region.Region
		off uint64
		v   vs.VS
	}
	var entries []entry
	s.regions.ForEach(func(r region.Region, rm regionMap) {
		rm.ForEach(func(off uint64, v vs.VS) {
			entries = append(entries, entry{r, off, v})
		})
	})
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].r.Equal(entries[j].r) {
			return entries[i].r.Less(entries[j].r)
		}
		return entries[i].off < entries[j].off
	})

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s+0x%x ↦ %v", e.r, e.off, e.v))
	}
	return "MemStore{" + strings.Join(parts, ", ") + "}"
}
