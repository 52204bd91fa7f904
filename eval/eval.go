// Package eval interprets ir.Expr against an absenv.Env, producing either a
// scalar value set or a MemStore. Dispatch is a type switch over the
// expression's concrete form - every form not explicitly handled degrades to
// top rather than failing the caller, and a panic anywhere inside evaluation
// (width mismatches bubbling up from si/vs) is recovered locally and turned
// into the same top result.
package eval

import (
	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/memstore"
	"github.com/cs-au-dk/vsa/vs"
)

// Scalar evaluates e as a register-typed expression, yielding a value set of
// e.Width() bits. memMax bounds any MemStore reads reachable through a Load.
func Scalar(env absenv.Env, memMax int, e ir.Expr) (result vs.VS) {
	defer func() {
		if recover() != nil {
			result = vs.Top(e.Width())
		}
	}()
	return scalar(env, memMax, e)
}

func scalar(env absenv.Env, memMax int, e ir.Expr) vs.VS {
	switch n := e.(type) {
	case ir.Const:
		return vs.OfBigInt(n.Value, n.Width())

	case ir.VarRef:
		return env.FindScalar(n.Var)

	case ir.Phi:
		return scalarPhi(env, n)

	case ir.BinOp:
		x := scalar(env, memMax, n.X)
		y := scalar(env, memMax, n.Y)
		return vs.BinOp(n.Op, x, y)

	case ir.UnOp:
		x := scalar(env, memMax, n.X)
		return vs.UnOp(n.Op, x)

	case ir.Cast:
		x := scalar(env, memMax, n.X)
		return vs.Cast(n.Kind, n.Width(), x)

	case ir.Load:
		store := env.FindArray(n.Mem, memMax)
		idx := scalar(env, memMax, n.Index)
		return store.Read(n.Width(), idx)

	default:
		// Cmp, Store-in-scalar-context, Unknown, and anything else not
		// enumerated above.
		return vs.Top(e.Width())
	}
}

func scalarPhi(env absenv.Env, n ir.Phi) vs.VS {
	result := vs.Empty(n.Width())
	any := false
	for _, v := range n.Vars {
		// An operand absent from env denotes "not yet reached via that
		// predecessor" - it contributes nothing to the union. One that is
		// explicitly bound, even to top (e.g. havoced by Special), must
		// still drive the merge to top, so the test is boundness, not
		// whether the bound value happens to be top.
		if v.IsArray || !env.Has(v) {
			continue
		}
		result = result.Union(env.FindScalar(v))
		any = true
	}
	if !any {
		return vs.Top(n.Width())
	}
	return result
}

// Array evaluates e as a memory-typed expression, yielding a MemStore.
func Array(env absenv.Env, memMax int, e ir.Expr) (result memstore.Store) {
	defer func() {
		if recover() != nil {
			result = memstore.New(memMax)
		}
	}()
	return array(env, memMax, e)
}

func array(env absenv.Env, memMax int, e ir.Expr) memstore.Store {
	switch n := e.(type) {
	case ir.VarRef:
		return env.FindArray(n.Var, memMax)

	case ir.Store:
		store := env.FindArray(n.Mem, memMax)
		idx := scalar(env, memMax, n.Index)
		val := scalar(env, memMax, n.Value)
		return store.Write(n.Value.Width(), idx, val)

	case ir.Phi:
		return arrayPhi(env, memMax, n)

	default:
		return memstore.New(memMax)
	}
}

func arrayPhi(env absenv.Env, memMax int, n ir.Phi) memstore.Store {
	result := memstore.New(memMax)
	any := false
	for _, v := range n.Vars {
		// Same boundness test as scalarPhi: an operand not yet reached
		// contributes nothing, an explicitly bound one is merged in.
		if !v.IsArray || !env.Has(v) {
			continue
		}
		b := env.FindArray(v, memMax)
		if !any {
			result = b
			any = true
			continue
		}
		result = result.Union(b)
	}
	return result
}
