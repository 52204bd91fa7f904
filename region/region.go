// Package region defines the opaque address-space tags that strided
// intervals and memory stores are partitioned by: the global region,
// per-allocation-site regions (stack frames, heap objects), and a region
// hasher so regions can key persistent maps.
package region

import (
	"fmt"
	"hash/fnv"

	"github.com/benbjohnson/immutable"
)

// Region is an opaque, comparable, totally-ordered identity for a disjoint
// address space. The zero value is not a valid region; use Global() or New.
type Region struct {
	id   uint64
	name string
}

var nextID uint64 = 1

// global is the distinguished region backing concrete/absolute addresses.
var global = Region{id: 0, name: "GLOBAL"}

// Global returns the distinguished global region.
func Global() Region {
	return global
}

// New allocates a fresh, distinct region carrying the given label (used only
// for pretty-printing and debugging - identity is by id, never by name).
func New(name string) Region {
	id := nextID
	nextID++
	return Region{id: id, name: name}
}

func (r Region) IsGlobal() bool {
	return r.id == global.id
}

// Less gives regions a total order, so callers that need deterministic
// iteration (pretty-printing, golden files) can sort by region first.
func (r Region) Less(o Region) bool {
	return r.id < o.id
}

func (r Region) Equal(o Region) bool {
	return r.id == o.id
}

func (r Region) String() string {
	if r.IsGlobal() {
		return "GLOBAL"
	}
	if r.name == "" {
		return fmt.Sprintf("region#%d", r.id)
	}
	return fmt.Sprintf("%s#%d", r.name, r.id)
}

// Hasher implements immutable.Hasher[Region], letting Region key the
// persistent maps in package memstore.
type Hasher struct{}

var _ immutable.Hasher[Region] = Hasher{}

func (Hasher) Hash(r Region) uint32 {
	h := fnv.New32a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(r.id >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum32()
}

func (Hasher) Equal(a, b Region) bool {
	return a.Equal(b)
}
