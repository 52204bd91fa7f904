package edge

import (
	"math/big"
	"testing"

	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/vs"
)

const memMax = 1024

func boolConst(v int64) ir.Const { return ir.NewConst(big.NewInt(v), 1) }

func TestUnlabeledEdgeIsUnrecognized(t *testing.T) {
	m := Recognize(cfg.EdgeLabel{}, true)
	if m.Kind != None {
		t.Errorf("unlabeled edge should not be recognized, got %v", m.Kind)
	}
}

func TestCmpToBoolUnsignedLessThan(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	inner := ir.NewCmp(ir.LT, ir.NewVarRef(x), ir.NewConst(big.NewInt(10), 32))
	pred := ir.NewCmp(ir.EQ, inner, boolConst(1))

	m := Recognize(cfg.EdgeLabel{Taken: true, Pred: pred}, true)
	if m.Kind != CmpToBool {
		t.Fatalf("expected CmpToBool, got %v", m.Kind)
	}

	env := absenv.Empty()
	env = Refine(env, memMax, m)
	got := env.FindScalar(x)
	if got.IsTop() {
		t.Fatalf("refinement should narrow x below 10")
	}
	if vs.OfInt(10, 32).Leq(got) {
		t.Errorf("x < 10 refinement should not include 10, got %v", got)
	}
}

func TestCmpToBoolRequiresSignednessHackForUnsigned(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	inner := ir.NewCmp(ir.LT, ir.NewVarRef(x), ir.NewConst(big.NewInt(10), 32))
	pred := ir.NewCmp(ir.EQ, inner, boolConst(1))

	m := Recognize(cfg.EdgeLabel{Taken: true, Pred: pred}, false)
	if m.Kind != None {
		t.Errorf("unsigned LT should not be recognized with the signedness hack disabled, got %v", m.Kind)
	}
}

func TestCmpToBoolFalseBranchInverts(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	inner := ir.NewCmp(ir.SLT, ir.NewVarRef(x), ir.NewConst(big.NewInt(10), 32))
	pred := ir.NewCmp(ir.EQ, inner, boolConst(0))

	m := Recognize(cfg.EdgeLabel{Taken: false, Pred: pred}, true)
	if m.Kind != CmpToBool {
		t.Fatalf("expected CmpToBool, got %v", m.Kind)
	}

	env := absenv.Empty()
	env = Refine(env, memMax, m)
	got := env.FindScalar(x)
	if got.IsTop() {
		t.Fatalf("false branch of x < 10 should narrow x to >= 10")
	}
	if vs.OfInt(5, 32).Leq(got) {
		t.Errorf("x >= 10 refinement should not include 5, got %v", got)
	}
}

func TestEqConstRefinesOnTakenEquality(t *testing.T) {
	v := ir.Var{Name: "v", Width: 32}
	inner := ir.NewCmp(ir.EQ, ir.NewVarRef(v), ir.NewConst(big.NewInt(7), 32))
	pred := ir.NewCmp(ir.EQ, inner, boolConst(1))

	m := Recognize(cfg.EdgeLabel{Taken: true, Pred: pred}, true)
	if m.Kind != EqConst || m.NoOp {
		t.Fatalf("expected a live EqConst match, got %+v", m)
	}

	env := Refine(absenv.Empty(), memMax, m)
	got := env.FindScalar(v)
	if _, s, ok := got.IsSingleton(); !ok || s.Low().Cmp(big.NewInt(7)) != 0 {
		t.Errorf("v == 7 refinement should pin v to 7, got %v", got)
	}
}

func TestEqConstDisequalityIsNoOp(t *testing.T) {
	v := ir.Var{Name: "v", Width: 32}
	inner := ir.NewCmp(ir.EQ, ir.NewVarRef(v), ir.NewConst(big.NewInt(7), 32))
	pred := ir.NewCmp(ir.EQ, inner, boolConst(0))

	m := Recognize(cfg.EdgeLabel{Taken: false, Pred: pred}, true)
	if m.Kind != EqConst || !m.NoOp {
		t.Fatalf("expected a no-op EqConst match, got %+v", m)
	}

	env := absenv.Empty().Bind(v, absenv.ScalarBinding(vs.Top(32)))
	got := Refine(env, memMax, m)
	if !got.FindScalar(v).IsTop() {
		t.Errorf("disequality direction should be a no-op, got %v", got.FindScalar(v))
	}
}

func TestVarCmpRefinesBothSides(t *testing.T) {
	v1 := ir.Var{Name: "v1", Width: 32}
	v2 := ir.Var{Name: "v2", Width: 32}
	pred := ir.NewCmp(ir.SLT, ir.NewVarRef(v2), ir.NewVarRef(v1))

	m := Recognize(cfg.EdgeLabel{Taken: true, Pred: pred}, true)
	if m.Kind != VarCmp {
		t.Fatalf("expected VarCmp, got %v", m.Kind)
	}

	env := absenv.Empty().
		Bind(v1, absenv.ScalarBinding(vs.OfInt(10, 32))).
		Bind(v2, absenv.ScalarBinding(vs.OfInt(3, 32)))

	got := Refine(env, memMax, m)
	if got.FindScalar(v1).IsTop() || got.FindScalar(v2).IsTop() {
		t.Errorf("VarCmp refinement should not collapse to top: %v", got)
	}
}

func TestVarCmpUntakenIsUnrecognized(t *testing.T) {
	v1 := ir.Var{Name: "v1", Width: 32}
	v2 := ir.Var{Name: "v2", Width: 32}
	pred := ir.NewCmp(ir.SLT, ir.NewVarRef(v2), ir.NewVarRef(v1))

	m := Recognize(cfg.EdgeLabel{Taken: false, Pred: pred}, true)
	if m.Kind != None {
		t.Errorf("VarCmp should only be recognized on the taken edge, got %v", m.Kind)
	}
}

func TestUnrecognizedLabelIsIdentity(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	pred := ir.NewUnknown(1)
	env := absenv.Empty().Bind(x, absenv.ScalarBinding(vs.OfInt(1, 32)))

	m := Recognize(cfg.EdgeLabel{Taken: true, Pred: pred}, true)
	if m.Kind != None {
		t.Fatalf("Unknown predicate should not be recognized")
	}
	got := Refine(env, memMax, m)
	if !got.Eq(env) {
		t.Errorf("unrecognized label should be identity, got %v want %v", got, env)
	}
}
