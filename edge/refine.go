package edge

import (
	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/eval"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/vs"
)

// Refine applies a previously Recognized match to env. Any failure inside
// refinement (an unexpected expression shape, a width mismatch) is
// recovered and degrades to identity rather than poisoning the state.
func Refine(env absenv.Env, memMax int, m Match) (result absenv.Env) {
	result = env
	if env.IsTop() {
		return env
	}
	defer func() {
		if recover() != nil {
			result = env
		}
	}()

	switch m.Kind {
	case CmpToBool:
		return refineCmpToBool(env, memMax, m)
	case EqConst:
		return refineEqConst(env, m)
	case VarCmp:
		return refineVarCmp(env, m)
	default:
		return env
	}
}

// boundVS builds the VS constraint implied by m's comparison direction.
func boundVS(m Match) vs.VS {
	switch m.Effect {
	case effBelow:
		return vs.Below(m.K, m.Width)
	case effBelowEq:
		return vs.BelowEq(m.K, m.Width)
	case effAbove:
		return vs.Above(m.K, m.Width)
	case effAboveEq:
		return vs.AboveEq(m.K, m.Width)
	case effSBelow:
		return vs.SBelow(m.K, m.Width)
	case effSBelowEq:
		return vs.SBelowEq(m.K, m.Width)
	case effSAbove:
		return vs.SAbove(m.K, m.Width)
	case effSAboveEq:
		return vs.SAboveEq(m.K, m.Width)
	default:
		return vs.Top(m.Width)
	}
}

// refineCmpToBool narrows env[x] := find_scalar(env, x) ∩ vs_c, rebinding a
// variable directly or, for a memory load, re-evaluating it, intersecting,
// and writing the narrowed value back via MemStore.write_intersection.
func refineCmpToBool(env absenv.Env, memMax int, m Match) absenv.Env {
	vsC := boundVS(m)

	switch x := m.X.(type) {
	case ir.VarRef:
		narrowed := env.FindScalar(x.Var).Intersect(vsC)
		return env.Bind(x.Var, absenv.ScalarBinding(narrowed))

	case ir.Load:
		loaded := eval.Scalar(env, memMax, x)
		narrowed := loaded.Intersect(vsC)
		store := env.FindArray(x.Mem, memMax)
		idx := eval.Scalar(env, memMax, x.Index)
		store = store.WriteIntersection(x.Width(), idx, narrowed)
		return env.Bind(x.Mem, absenv.ArrayBinding(store))

	default:
		return env
	}
}

// refineEqConst narrows a variable compared for equality against a constant.
func refineEqConst(env absenv.Env, m Match) absenv.Env {
	if m.NoOp {
		return env
	}
	width := m.V.Width
	narrowed := env.FindScalar(m.V).Intersect(vs.OfBigInt(m.K, width))
	return env.Bind(m.V, absenv.ScalarBinding(narrowed))
}

// refineVarCmp narrows two variables compared against each other:
// env[v1] := env[v1] ∩ remove_lower_bound(env[v2]); env[v2] := env[v2] ∩
// remove_upper_bound(env[v1]_original).
func refineVarCmp(env absenv.Env, m Match) absenv.Env {
	v1Orig := env.FindScalar(m.V1)
	v2Orig := env.FindScalar(m.V2)

	newV1 := v1Orig.Intersect(v2Orig.RemoveLowerBound())
	newV2 := v2Orig.Intersect(v1Orig.RemoveUpperBound())

	env = env.Bind(m.V1, absenv.ScalarBinding(newV1))
	env = env.Bind(m.V2, absenv.ScalarBinding(newV2))
	return env
}
