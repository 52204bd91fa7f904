package fixpoint

import (
	"context"
	"math/big"
	"testing"

	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/si"
	"github.com/cs-au-dk/vsa/vs"
)

func baseConfig() Config {
	return Config{
		SP:  ir.Var{Name: "sp", Width: 64},
		Mem: ir.Var{Name: "mem", IsArray: true},
	}
}

func boolConst(v int64) ir.Const { return ir.NewConst(big.NewInt(v), 1) }

func TestConfigRejectsSentinelVars(t *testing.T) {
	g := cfg.New(0)
	if _, err := New(g, Config{}); err == nil {
		t.Fatalf("expected an error for an unconfigured SP/Mem")
	}
}

func TestConstantPropagation(t *testing.T) {
	b := cfg.NewBuilder()
	x := ir.Var{Name: "x", Width: 32}
	entry := b.AddVertex(ir.NewMove(x, ir.NewConst(big.NewInt(42), 32)))
	b.SetEntry(entry)
	g := b.Build()

	r, err := Run(context.Background(), g, baseConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := r.StateAt(entry).FindScalar(x)
	if _, s, ok := got.IsSingleton(); !ok || s.Low().Cmp(big.NewInt(42)) != 0 {
		t.Errorf("x should be a singleton 42 after the entry block, got %v", got)
	}
}

func TestMemoryReadFromInitialMem(t *testing.T) {
	mem := ir.Var{Name: "mem", IsArray: true}
	y := ir.Var{Name: "y", Width: 16}

	b := cfg.NewBuilder()
	entry := b.AddVertex(ir.NewMove(y, ir.NewLoad(mem, ir.NewConst(big.NewInt(0x1000), 64), 16)))
	b.SetEntry(entry)
	g := b.Build()

	config := baseConfig()
	config.Mem = mem
	config.InitialMem = []MemByte{
		{Addr: big.NewInt(0x1000), Value: 'A'},
		{Addr: big.NewInt(0x1001), Value: 'B'},
	}

	r, err := Run(context.Background(), g, config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := r.StateAt(entry).FindScalar(y)
	want := int64(0x4241)
	if _, s, ok := got.IsSingleton(); !ok || s.Low().Cmp(big.NewInt(want)) != 0 {
		t.Errorf("16-bit load at 0x1000 = %v, want singleton 0x%x (little-endian 'A','B')", got, want)
	}
}

func TestBranchRefinement(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}

	b := cfg.NewBuilder()
	entry := b.AddVertex(ir.NewMove(x, ir.NewConst(big.NewInt(5), 32)))
	onTrue := b.AddVertex()
	onFalse := b.AddVertex()
	b.SetEntry(entry)

	inner := ir.NewCmp(ir.SLT, ir.NewVarRef(x), ir.NewConst(big.NewInt(10), 32))
	truePred := ir.NewCmp(ir.EQ, inner, boolConst(1))
	falsePred := ir.NewCmp(ir.EQ, inner, boolConst(0))

	b.AddEdge(entry, onTrue, cfg.EdgeLabel{Taken: true, Pred: truePred})
	b.AddEdge(entry, onFalse, cfg.EdgeLabel{Taken: false, Pred: falsePred})
	g := b.Build()

	r, err := Run(context.Background(), g, baseConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	trueState := r.StateAt(onTrue).FindScalar(x)
	if !vs.OfInt(5, 32).Leq(trueState) {
		t.Errorf("true branch should still contain x=5, got %v", trueState)
	}
	if vs.OfInt(20, 32).Leq(trueState) {
		t.Errorf("true branch (x<10) should not contain 20, got %v", trueState)
	}
}

func TestBranchRefinementUnconstrainedIncoming(t *testing.T) {
	x := ir.Var{Name: "x", Width: 32}

	b := cfg.NewBuilder()
	entry := b.AddVertex()
	onTrue := b.AddVertex()
	onFalse := b.AddVertex()
	b.SetEntry(entry)

	inner := ir.NewCmp(ir.SLT, ir.NewVarRef(x), ir.NewConst(big.NewInt(10), 32))
	truePred := ir.NewCmp(ir.EQ, inner, boolConst(1))
	falsePred := ir.NewCmp(ir.EQ, inner, boolConst(0))

	b.AddEdge(entry, onTrue, cfg.EdgeLabel{Taken: true, Pred: truePred})
	b.AddEdge(entry, onFalse, cfg.EdgeLabel{Taken: false, Pred: falsePred})
	g := b.Build()

	r, err := Run(context.Background(), g, baseConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// x never entered bound, so find_scalar reads it back as top going
	// into the refine. The signed comparison SLT(x,10) would ideally
	// narrow an unconstrained x to the true set (-inf,9], but si.SI has
	// no wraparound representation for that - intersecting top with the
	// honestly-Top SBelowEq(9) result leaves x at top rather than
	// reporting a precise bound this domain can't actually express.
	trueState := r.StateAt(onTrue).FindScalar(x)
	if !trueState.IsTop() {
		t.Errorf("refining an unconstrained x against a signed upper bound should stay top in this SI representation, got %v", trueState)
	}
}

func TestPhiMergeAtJoinPoint(t *testing.T) {
	x1 := ir.Var{Name: "x1", Width: 32}
	x2 := ir.Var{Name: "x2", Width: 32}
	xphi := ir.Var{Name: "xphi", Width: 32}

	b := cfg.NewBuilder()
	entry := b.AddVertex()
	left := b.AddVertex(ir.NewMove(x1, ir.NewConst(big.NewInt(1), 32)))
	right := b.AddVertex(ir.NewMove(x2, ir.NewConst(big.NewInt(5), 32)))
	join := b.AddVertex(ir.NewMove(xphi, ir.NewPhi(32, x1, x2)))
	b.SetEntry(entry)

	b.AddEdge(entry, left, cfg.EdgeLabel{})
	b.AddEdge(entry, right, cfg.EdgeLabel{})
	b.AddEdge(left, join, cfg.EdgeLabel{})
	b.AddEdge(right, join, cfg.EdgeLabel{})
	g := b.Build()

	r, err := Run(context.Background(), g, baseConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := r.StateAt(join).FindScalar(xphi)
	if got.IsTop() {
		t.Fatalf("phi merge of 1 and 5 should not be top")
	}
	if !vs.OfInt(1, 32).Leq(got) || !vs.OfInt(5, 32).Leq(got) {
		t.Errorf("phi merge should contain both 1 and 5, got %v", got)
	}
}

func TestLoopWidensToBoundedRange(t *testing.T) {
	i0 := ir.Var{Name: "i0", Width: 32}
	i := ir.Var{Name: "i", Width: 32}
	i1 := ir.Var{Name: "i1", Width: 32}

	b := cfg.NewBuilder()
	entry := b.AddVertex(ir.NewMove(i0, ir.NewConst(big.NewInt(0), 32)))
	header := b.AddVertex(ir.NewMove(i, ir.NewPhi(32, i0, i1)))
	body := b.AddVertex(ir.NewMove(i1, ir.NewBinOp(si.Add, 32, ir.NewVarRef(i), ir.NewConst(big.NewInt(1), 32))))
	exit := b.AddVertex()
	b.SetEntry(entry)

	inner := ir.NewCmp(ir.SLE, ir.NewVarRef(i), ir.NewConst(big.NewInt(9), 32))
	b.AddEdge(entry, header, cfg.EdgeLabel{})
	b.AddEdge(header, body, cfg.EdgeLabel{Taken: true, Pred: ir.NewCmp(ir.EQ, inner, boolConst(1))})
	b.AddEdge(header, exit, cfg.EdgeLabel{Taken: false, Pred: ir.NewCmp(ir.EQ, inner, boolConst(0))})
	b.AddEdge(body, header, cfg.EdgeLabel{})
	g := b.Build()

	r, err := Run(context.Background(), g, baseConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	atHeader := r.StateAt(header).FindScalar(i)
	if atHeader.IsTop() {
		t.Fatalf("i at the header should reach a bounded fixpoint, not top, got %v", atHeader)
	}

	// The entry into the loop body is where the guard's refinement shows
	// up: i there is clamped to exactly [0,9] by the SLE(i,9) edge, no
	// matter how many times the back edge re-widens i1 at the header.
	atBody := r.StateAt(body).FindScalar(i)
	if !vs.OfInt(0, 32).Leq(atBody) || !vs.OfInt(9, 32).Leq(atBody) {
		t.Errorf("i entering the loop body should cover [0,9], got %v", atBody)
	}
	if vs.OfInt(10, 32).Leq(atBody) {
		t.Errorf("i entering the loop body should not cover 10 (excluded by the guard), got %v", atBody)
	}
}

func TestWeakWriteCollapseBeyondMemMax(t *testing.T) {
	mem := ir.Var{Name: "mem", IsArray: true}
	idx := ir.Var{Name: "idx", Width: 64}

	b := cfg.NewBuilder()

	// Build idx as the union of six adjacent concrete addresses via a Phi
	// over six distinct variables, each bound to a consecutive constant -
	// a strided interval of 6 points, two more than config.MemMax below.
	var moves []ir.Stmt
	var cVars []ir.Var
	for i := int64(0); i < 6; i++ {
		cv := ir.Var{Name: "c" + string(rune('0'+i)), Width: 64}
		cVars = append(cVars, cv)
		moves = append(moves, ir.NewMove(cv, ir.NewConst(big.NewInt(i), 64)))
	}
	moves = append(moves, ir.NewMove(idx, ir.NewPhi(64, cVars...)))
	moves = append(moves, ir.NewMove(mem, ir.NewStore(mem, ir.NewVarRef(idx), ir.NewConst(big.NewInt(7), 8))))

	entry := b.AddVertex(moves...)
	b.SetEntry(entry)
	g := b.Build()

	config := baseConfig()
	config.Mem = mem
	config.MemMax = 4

	r, err := Run(context.Background(), g, config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := r.StateAt(entry).FindArray(mem, config.memMax())
	empty := got.Read(8, vs.OfBigInt(big.NewInt(0), 64))
	if !empty.IsTop() {
		t.Errorf("a weak write through more than mem_max concrete addresses should collapse the store to top, got a readable entry %v", empty)
	}
}
