package vs

import (
	"math/big"

	"github.com/cs-au-dk/vsa/region"
	"github.com/cs-au-dk/vsa/si"
)

// BinOp dispatches a scalar binary operator across value sets. When one side
// is a plain global-region number and the other carries a non-global region
// (pointer arithmetic), the result keeps the non-global region so address
// computations stay trackable. Mixed multi-region operands degrade to Top,
// matching the evaluator's "unimplemented forms degrade to top" contract.
func BinOp(op si.BinOp, a, b VS) VS {
	checkWidth(a, b)
	if a.top || b.top {
		return Top(a.width)
	}

	aReg, aOK := soleRegion(a)
	bReg, bOK := soleRegion(b)
	if !aOK || !bOK {
		return Top(a.width)
	}

	switch {
	case aReg.IsGlobal() && bReg.IsGlobal():
		return OfSI(region.Global(), op.Apply(a.parts[aReg], b.parts[bReg]))
	case aReg.IsGlobal():
		return OfSI(bReg, op.Apply(a.parts[aReg], b.parts[bReg]))
	case bReg.IsGlobal():
		return OfSI(aReg, op.Apply(a.parts[aReg], b.parts[bReg]))
	default:
		return Top(a.width)
	}
}

func soleRegion(v VS) (region.Region, bool) {
	if len(v.parts) != 1 {
		return region.Region{}, false
	}
	for r := range v.parts {
		return r, true
	}
	return region.Region{}, false
}

func UnOp(op si.UnOp, a VS) VS {
	if a.top {
		return Top(a.width)
	}
	r, ok := soleRegion(a)
	if !ok {
		return Top(a.width)
	}
	return OfSI(r, op.Apply(a.parts[r]))
}

func Cast(kind si.CastKind, targetWidth uint, a VS) VS {
	if a.top {
		return Top(targetWidth)
	}
	r, ok := soleRegion(a)
	if !ok {
		return Top(targetWidth)
	}
	return OfSI(r, si.Cast(kind, targetWidth, a.parts[r]))
}

// --- Inequality constructors over the global region ---

// globalSI lifts an inequality constraint into the global region. A
// constraint that is already Top at the SI level bounds nothing, so it lifts
// to the region-universal Top rather than to "any global value".
func globalSI(s si.SI) VS {
	if s.IsTop() {
		return Top(s.Width())
	}
	return OfSI(region.Global(), s)
}

func BelowEq(k *big.Int, width uint) VS  { return globalSI(si.BelowEq(k, width)) }
func Below(k *big.Int, width uint) VS    { return globalSI(si.Below(k, width)) }
func AboveEq(k *big.Int, width uint) VS  { return globalSI(si.AboveEq(k, width)) }
func Above(k *big.Int, width uint) VS    { return globalSI(si.Above(k, width)) }
func SBelowEq(k *big.Int, width uint) VS { return globalSI(si.SBelowEq(k, width)) }
func SBelow(k *big.Int, width uint) VS   { return globalSI(si.SBelow(k, width)) }
func SAboveEq(k *big.Int, width uint) VS { return globalSI(si.SAboveEq(k, width)) }
func SAbove(k *big.Int, width uint) VS   { return globalSI(si.SAbove(k, width)) }

// RemoveUpperBound/RemoveLowerBound apply to every region's SI independently
// - used by the variable-to-variable comparison refinement pattern.
func (v VS) RemoveUpperBound() VS {
	if v.top {
		return v
	}
	out := Empty(v.width)
	for r, s := range v.parts {
		out.parts[r] = s.RemoveUpperBound()
	}
	return out
}

func (v VS) RemoveLowerBound() VS {
	if v.top {
		return v
	}
	out := Empty(v.width)
	for r, s := range v.parts {
		out.parts[r] = s.RemoveLowerBound()
	}
	return out
}
