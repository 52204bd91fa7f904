package absenv

import "github.com/cs-au-dk/vsa/ir"

// Meet implements the inclusive meet (the CFG-join combinator): if both
// sides bind v, combine with scalar/MemStore union; if only one side binds
// v, its binding is retained untouched - the other predecessor simply
// hasn't been analyzed down that path yet, which SSA phi-nodes make
// explicit at the join point, so propagating the defined side is sound.
// ⊤ absorbs on both sides.
func (e Env) Meet(o Env) Env {
	return e.inclusiveMerge(o, func(a, b Binding) Binding {
		if a.isArray != b.isArray {
			panic(errTagMismatch)
		}
		if a.isArray {
			return ArrayBinding(a.array.Union(b.array))
		}
		return ScalarBinding(a.scalar.Union(b.scalar))
	})
}

// Widen is Meet's widening counterpart: shared bindings combine with
// SI/MemStore widen instead of union.
func (e Env) Widen(o Env) Env {
	return e.inclusiveMerge(o, func(a, b Binding) Binding {
		if a.isArray != b.isArray {
			panic(errTagMismatch)
		}
		if a.isArray {
			return ArrayBinding(a.array.Widen(b.array))
		}
		return ScalarBinding(a.scalar.Widen(b.scalar))
	})
}

func (e Env) inclusiveMerge(o Env, combine func(a, b Binding) Binding) Env {
	if e.isTop {
		return o
	}
	if o.isTop {
		return e
	}

	out := Empty()
	allVars := map[ir.Var]bool{}
	e.bindings.ForEach(func(v ir.Var, _ Binding) { allVars[v] = true })
	o.bindings.ForEach(func(v ir.Var, _ Binding) { allVars[v] = true })

	for v := range allVars {
		eb, eFound := e.bindings.Lookup(v)
		ob, oFound := o.bindings.Lookup(v)

		switch {
		case eFound && oFound:
			out.bindings = out.bindings.Insert(v, combine(eb, ob))
		case eFound:
			out.bindings = out.bindings.Insert(v, eb)
		case oFound:
			out.bindings = out.bindings.Insert(v, ob)
		}
	}

	return out
}

// Eq reports whether two environments bind every variable to an equal
// value. ⊤ is only equal to ⊤.
func (e Env) Eq(o Env) bool {
	if e.isTop || o.isTop {
		return e.isTop == o.isTop
	}
	return e.bindings.Equal(o.bindings, func(a, b Binding) bool { return a.eq(b) })
}
