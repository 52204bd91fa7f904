package eval

import (
	"math/big"
	"testing"

	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/si"
	"github.com/cs-au-dk/vsa/vs"
)

const memMax = 1024

func TestConstEvaluatesToSingleton(t *testing.T) {
	got := Scalar(absenv.Empty(), memMax, ir.NewConst(big.NewInt(42), 32))
	if _, s, ok := got.IsSingleton(); !ok || s.Low().Cmp(big.NewInt(42)) != 0 {
		t.Errorf("eval(42) = %v, want singleton 42", got)
	}
}

func TestVarRefDelegatesToFindScalar(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	env := absenv.Empty().Bind(x, absenv.ScalarBinding(vs.OfInt(7, 32)))

	got := Scalar(env, memMax, ir.NewVarRef(x))
	if _, s, ok := got.IsSingleton(); !ok || s.Low().Cmp(big.NewInt(7)) != 0 {
		t.Errorf("eval(x) = %v, want singleton 7", got)
	}
}

func TestBinOpDispatches(t *testing.T) {
	e := ir.NewBinOp(si.Add, 32, ir.NewConst(big.NewInt(1), 32), ir.NewConst(big.NewInt(2), 32))
	got := Scalar(absenv.Empty(), memMax, e)
	if _, s, ok := got.IsSingleton(); !ok || s.Low().Cmp(big.NewInt(3)) != 0 {
		t.Errorf("eval(1+2) = %v, want 3", got)
	}
}

func TestPhiUnionsBoundOperandsOnly(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	y := ir.Var{Name: "y", Width: 32} // unbound
	env := absenv.Empty().Bind(x, absenv.ScalarBinding(vs.OfInt(1, 32)))

	got := Scalar(env, memMax, ir.NewPhi(32, x, y))
	if got.IsTop() {
		t.Fatalf("phi with one bound operand should not be top")
	}
	if !vs.OfInt(1, 32).Leq(got) {
		t.Errorf("phi result %v should contain the bound operand's value", got)
	}
}

func TestPhiExplicitTopBindingDrivesResultToTop(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	y := ir.Var{Name: "y", Width: 32}
	env := absenv.Empty().
		Bind(x, absenv.ScalarBinding(vs.OfInt(1, 32))).
		Bind(y, absenv.ScalarBinding(vs.Top(32)))

	got := Scalar(env, memMax, ir.NewPhi(32, x, y))
	if !got.IsTop() {
		t.Errorf("phi with one operand explicitly bound to top should be top, got %v", got)
	}
}

func TestPhiAllUnboundIsTop(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	y := ir.Var{Name: "y", Width: 32}
	got := Scalar(absenv.Empty(), memMax, ir.NewPhi(32, x, y))
	if !got.IsTop() {
		t.Errorf("phi with no bound operands should be top, got %v", got)
	}
}

func TestUnknownFormDegradesToTop(t *testing.T) {
	got := Scalar(absenv.Empty(), memMax, ir.NewUnknown(16))
	if !got.IsTop() || got.Width() != 16 {
		t.Errorf("unknown form should evaluate to top of its declared width, got %v", got)
	}
}

func TestCmpIsUnimplementedAndDegradesToTop(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}
	e := ir.NewCmp(ir.SLT, ir.NewVarRef(x), ir.NewConst(big.NewInt(0), 32))
	got := Scalar(absenv.Empty(), memMax, e)
	if !got.IsTop() {
		t.Errorf("Cmp is not in the scalar dispatch table and should degrade to top, got %v", got)
	}
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	mem := ir.Var{Name: "mem", Width: 0, IsArray: true}
	idx := ir.NewConst(big.NewInt(0x10), 32)
	val := ir.NewConst(big.NewInt(99), 8)

	storeExpr := ir.NewStore(mem, idx, val)
	newMem := Array(absenv.Empty(), memMax, storeExpr)

	env := absenv.Empty().Bind(mem, absenv.ArrayBinding(newMem))
	loadExpr := ir.NewLoad(mem, idx, 8)

	got := Scalar(env, memMax, loadExpr)
	if _, s, ok := got.IsSingleton(); !ok || s.Low().Cmp(big.NewInt(99)) != 0 {
		t.Errorf("load after store = %v, want singleton 99", got)
	}
}

func TestWidthMismatchPanicDegradesToTop(t *testing.T) {
	// A BinOp node whose operands evaluate to mismatched widths - e.g. a
	// Load returning a narrower width than the enclosing BinOp declares -
	// should degrade to top instead of panicking out of eval.
	x := ir.Var{Name: "x", Width: 16}
	y := ir.Var{Name: "y", Width: 32}
	e := ir.NewBinOp(si.Add, 32, ir.NewVarRef(x), ir.NewVarRef(y))

	env := absenv.Empty().
		Bind(x, absenv.ScalarBinding(vs.OfInt(1, 16))).
		Bind(y, absenv.ScalarBinding(vs.OfInt(1, 32)))

	got := Scalar(env, memMax, e)
	if !got.IsTop() {
		t.Errorf("width-mismatched binop should degrade to top, got %v", got)
	}
}
