// Package absenv implements AbsEnv, the per-program-point lattice element
// mapping SSA variables to either a scalar value set or a MemStore. The
// Scalar|Array tag is an exhaustive sum type: asking for the wrong
// accessor on a binding panics rather than silently coercing, since that
// situation can only arise from malformed SSA.
package absenv

import (
	"fmt"

	"github.com/cs-au-dk/vsa/memstore"
	"github.com/cs-au-dk/vsa/vs"
)

var errTagMismatch = fmt.Errorf("absenv: scalar/array tag mismatch")

// Binding is the tagged value bound to one SSA variable.
type Binding struct {
	isArray bool
	scalar  vs.VS
	array   memstore.Store
}

func ScalarBinding(v vs.VS) Binding {
	return Binding{isArray: false, scalar: v}
}

func ArrayBinding(m memstore.Store) Binding {
	return Binding{isArray: true, array: m}
}

func (b Binding) IsArray() bool { return b.isArray }

// Scalar panics if b is actually an Array binding - a malformed-SSA
// indicator, not a recoverable condition.
func (b Binding) Scalar() vs.VS {
	if b.isArray {
		panic(errTagMismatch)
	}
	return b.scalar
}

func (b Binding) Array() memstore.Store {
	if !b.isArray {
		panic(errTagMismatch)
	}
	return b.array
}

func (b Binding) String() string {
	if b.isArray {
		return b.array.String()
	}
	return b.scalar.String()
}

func (b Binding) eq(o Binding) bool {
	if b.isArray != o.isArray {
		panic(errTagMismatch)
	}
	if b.isArray {
		return b.array.Eq(o.array)
	}
	return b.scalar.Eq(o.scalar)
}
