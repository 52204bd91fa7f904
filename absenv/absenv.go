package absenv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cs-au-dk/vsa/internal/ptrie"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/memstore"
	"github.com/cs-au-dk/vsa/vs"
)

// Env is the lattice element at a CFG vertex: either ⊤ ("not yet reached",
// represented by isTop rather than an allocated map) or an AbsEnv binding
// map. A variable absent from a non-⊤ Env's map denotes top of its declared
// width.
type Env struct {
	isTop    bool
	bindings ptrie.Tree[ir.Var, Binding]
}

// Top is the lattice top, seeded at every vertex but the CFG entry.
func Top() Env {
	return Env{isTop: true}
}

// Empty is a valid (non-⊤) environment binding nothing - every variable
// reads back as top by absence. This is the starting point init(options)
// refines with the stack-pointer and memory bindings.
func Empty() Env {
	return Env{bindings: ptrie.New[ir.Var, Binding](ir.VarHasher{})}
}

func (e Env) IsTop() bool { return e.isTop }

// FindScalar implements find_scalar: absence returns top(width(v));
// presence of an Array binding for v is a fatal type error.
func (e Env) FindScalar(v ir.Var) vs.VS {
	if e.isTop {
		return vs.Top(v.Width)
	}
	b, found := e.bindings.Lookup(v)
	if !found {
		return vs.Top(v.Width)
	}
	return b.Scalar()
}

// Has reports whether v is explicitly bound in e. A variable not yet
// reached via any predecessor is absent, distinct from a variable
// explicitly bound to top (e.g. by Special's havoc) - FindScalar/FindArray
// can't tell these apart since both read back as top, but phi merging
// needs to: an absent operand contributes nothing, an explicitly-top one
// must still drive the result to top.
func (e Env) Has(v ir.Var) bool {
	if e.isTop {
		return false
	}
	_, found := e.bindings.Lookup(v)
	return found
}

// FindArray implements find_array: absence returns the top MemStore.
func (e Env) FindArray(v ir.Var, memMax int) memstore.Store {
	if e.isTop {
		return memstore.New(memMax)
	}
	b, found := e.bindings.Lookup(v)
	if !found {
		return memstore.New(memMax)
	}
	return b.Array()
}

// Bind is the functional update: binding a variable on ⊤ first materializes
// an Empty environment (applying a transfer to ⊤ is only ever supposed to
// happen before the entry state is seeded, but Bind itself stays total so
// callers don't need to special-case it).
func (e Env) Bind(v ir.Var, b Binding) Env {
	base := e
	if base.isTop {
		base = Empty()
	}
	base.bindings = base.bindings.Insert(v, b)
	return base
}

// ForEach visits every variable bound in e, in unspecified order. Calling it
// on ⊤ visits nothing - ⊤ binds no variable explicitly, every variable reads
// back as top by virtue of IsTop instead.
func (e Env) ForEach(f func(ir.Var, Binding)) {
	if e.isTop {
		return
	}
	e.bindings.ForEach(f)
}

func (e Env) String() string {
	if e.isTop {
		return "⊤"
	}

	type kv struct {
		v ir.Var
		b Binding
	}
	var entries []kv
	e.bindings.ForEach(func(v ir.Var, b Binding) {
		entries = append(entries, kv{v, b})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].v.Name < entries[j].v.Name })

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s ↦ %s", e.v, e.b))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
