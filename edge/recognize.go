// Package edge implements the CFG edge transfer: refining an AbsEnv along
// an edge using the syntactic shape of its guarding predicate. Recognition
// of a label's shape (Recognize) is kept separate from the refinement it
// drives (Refine) so that new patterns can be added later without touching
// the fixpoint driver.
package edge

import (
	"math/big"

	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/ir"
)

// Kind identifies which recognized pattern a label matched.
type Kind int

const (
	None Kind = iota
	CmpToBool
	EqConst
	VarCmp
)

// Match is the recognized shape of an edge label, carrying everything
// Refine needs to apply it. A zero Match (Kind == None) means the label
// didn't match any recognized pattern, so the edge transfer is identity.
type Match struct {
	Kind Kind

	// CmpToBool: refine X against K using Op (already normalized for
	// bool_literal and operand side - see cmpEffect).
	X      ir.Expr
	Op     ir.CmpOp
	K      *big.Int
	Width  uint
	Effect effect // concrete bound direction to apply

	// EqConst: refine V by intersection with of_int(K), or no-op.
	V    ir.Var
	NoOp bool

	// VarCmp: refine V1, V2 against each other using Op.
	V1, V2 ir.Var
}

// effect names the concrete VS constructor CmpToBool's refinement applies.
type effect int

const (
	effNone effect = iota
	effBelow
	effBelowEq
	effAbove
	effAboveEq
	effSBelow
	effSBelowEq
	effSAbove
	effSAboveEq
)

// acceptCmp reports whether op is recognized: with the signedness hack
// disabled only the signed comparisons are recognized (sound); enabling it
// (the default) additionally recognizes the unsigned family, which is
// unsound across overflow but matches real branch-condition shapes far
// more often.
func acceptCmp(op ir.CmpOp, signednessHack bool) bool {
	switch op {
	case ir.SLE, ir.SLT:
		return true
	case ir.LE, ir.LT:
		return signednessHack
	default:
		return false
	}
}

// Recognize pattern-matches label.Pred against the three recognized shapes.
// signednessHack gates the unsigned half of acceptCmp.
func Recognize(label cfg.EdgeLabel, signednessHack bool) Match {
	if !label.IsLabeled() {
		return Match{}
	}

	if label.Taken {
		if m, ok := recognizeVarCmp(label.Pred); ok {
			return m
		}
	}

	outer, ok := label.Pred.(ir.Cmp)
	if !ok || outer.Op != ir.EQ {
		return Match{}
	}

	inner, lit, ok := splitCmpToBoolOuter(outer)
	if !ok {
		return Match{}
	}

	if m, ok := recognizeCmpToBool(inner, lit, signednessHack); ok {
		return m
	}
	if m, ok := recognizeEqConst(inner, lit); ok {
		return m
	}
	return Match{}
}

// splitCmpToBoolOuter finds the (innerCmp, boolLiteral) pair in outer's two
// operands, trying both argument orders.
func splitCmpToBoolOuter(outer ir.Cmp) (ir.Cmp, int64, bool) {
	if inner, ok := outer.X.(ir.Cmp); ok {
		if lit, ok := constValue(outer.Y); ok {
			return inner, lit.Int64(), true
		}
	}
	if inner, ok := outer.Y.(ir.Cmp); ok {
		if lit, ok := constValue(outer.X); ok {
			return inner, lit.Int64(), true
		}
	}
	return ir.Cmp{}, 0, false
}

func constValue(e ir.Expr) (*big.Int, bool) {
	c, ok := e.(ir.Const)
	if !ok {
		return nil, false
	}
	return c.Value, true
}

func recognizeCmpToBool(inner ir.Cmp, boolLiteral int64, signednessHack bool) (Match, bool) {
	switch inner.Op {
	case ir.SLE, ir.SLT, ir.LE, ir.LT:
	default:
		return Match{}, false
	}
	if !acceptCmp(inner.Op, signednessHack) {
		return Match{}, false
	}

	k, ok := constValue(inner.Y)
	if !ok {
		return Match{}, false
	}

	op := inner.Op
	xOnLeft := true
	if boolLiteral == 0 {
		op = op.Invert()
		xOnLeft = false
	}

	return Match{
		Kind:   CmpToBool,
		X:      inner.X,
		Op:     op,
		K:      k,
		Width:  inner.X.Width(),
		Effect: cmpEffect(op, xOnLeft),
	}, true
}

// cmpEffect picks the VS constructor that bounds x given the comparison's
// final operator and which side x ended up on after bool_literal's possible
// inversion.
func cmpEffect(op ir.CmpOp, xOnLeft bool) effect {
	if xOnLeft {
		switch op {
		case ir.SLT:
			return effSBelow
		case ir.SLE:
			return effSBelowEq
		case ir.LT:
			return effBelow
		case ir.LE:
			return effBelowEq
		}
	} else {
		switch op {
		case ir.SLT:
			return effSAbove
		case ir.SLE:
			return effSAboveEq
		case ir.LT:
			return effAbove
		case ir.LE:
			return effAboveEq
		}
	}
	return effNone
}

func recognizeEqConst(inner ir.Cmp, boolLiteral int64) (Match, bool) {
	if inner.Op != ir.EQ && inner.Op != ir.NEQ {
		return Match{}, false
	}
	vref, ok := inner.X.(ir.VarRef)
	if !ok {
		return Match{}, false
	}
	k, ok := constValue(inner.Y)
	if !ok {
		return Match{}, false
	}

	refines := (inner.Op == ir.EQ && boolLiteral == 1) || (inner.Op == ir.NEQ && boolLiteral == 0)

	return Match{
		Kind: EqConst,
		V:    vref.Var,
		K:    k,
		NoOp: !refines,
	}, true
}

func recognizeVarCmp(pred ir.Expr) (Match, bool) {
	cmp, ok := pred.(ir.Cmp)
	if !ok {
		return Match{}, false
	}
	if cmp.Op != ir.SLT && cmp.Op != ir.SLE {
		return Match{}, false
	}
	v2, ok := cmp.X.(ir.VarRef)
	if !ok {
		return Match{}, false
	}
	v1, ok := cmp.Y.(ir.VarRef)
	if !ok {
		return Match{}, false
	}
	return Match{Kind: VarCmp, Op: cmp.Op, V1: v1.Var, V2: v2.Var}, true
}
