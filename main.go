package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/goccy/go-graphviz"
	"github.com/sirupsen/logrus"

	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/fixpoint"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/si"
	"github.com/cs-au-dk/vsa/utils"
	"github.com/cs-au-dk/vsa/vistool"
)

var opts = utils.Opts()

// scenario builds one of the end-to-end scenarios and the driver
// configuration to run it under.
type scenario struct {
	name        string
	description string
	build       func() (*cfg.Cfg, fixpoint.Config)
}

func main() {
	utils.ParseArgs()

	level, err := logrus.ParseLevel(opts.LogLevel())
	if err != nil {
		logrus.Fatalf("invalid -log-level %q: %v", opts.LogLevel(), err)
	}
	logrus.SetLevel(level)

	s, found := scenarios[opts.Task()]
	if !found {
		logrus.Fatalf("unknown -task %q (known: %s)", opts.Task(), knownTasks())
	}

	g, config := s.build()

	ok := utils.CanColorize(color.New(color.FgGreen).SprintFunc())
	bold := utils.CanColorize(color.New(color.Bold).SprintFunc())

	fmt.Println(bold(s.name) + ": " + s.description)

	r, err := fixpoint.Run(context.Background(), g, config)
	if err != nil {
		logrus.Fatalf("fixpoint.Run: %v", err)
	}

	var ids []cfg.VertexID
	g.ForEach(func(v *cfg.Vertex) { ids = append(ids, v.ID) })
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fmt.Printf("%s v%d: %s\n", ok("state_at"), id, r.StateAt(id).String())
	}

	if opts.Visualize() {
		if err := visualize(g, r); err != nil {
			logrus.Fatalf("vistool: %v", err)
		}
	}
}

func visualize(g *cfg.Cfg, r *fixpoint.Result) error {
	if opts.OutputPath() == "" {
		return vistool.Write(g, r, vistool.DefaultOptions(), graphviz.XDOT, os.Stdout)
	}
	return vistool.WriteFile(g, r, vistool.DefaultOptions(), graphviz.PNG, opts.OutputPath())
}

func knownTasks() string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

var scenarios = map[string]scenario{
	"const-prop": {
		name:        "const-prop",
		description: "x := 5; y := x + 3",
		build:       buildConstProp,
	},
	"branch-refine": {
		name:        "branch-refine",
		description: "CJmp(EQ(SLT(x, 10), 1), B, C) narrows x on both branches",
		build:       buildBranchRefine,
	},
	"phi-merge": {
		name:        "phi-merge",
		description: "two predecessors bind x to [1,1] and [5,5]; the join sees both",
		build:       buildPhiMerge,
	},
	"memory-read": {
		name:        "memory-read",
		description: "a 16-bit load at 0x1000 reconstructs 'A','B' little-endian",
		build:       buildMemoryRead,
	},
	"weak-write": {
		name:        "weak-write",
		description: "a write through more than mem_max concrete addresses collapses the store",
		build:       buildWeakWrite,
	},
	"loop-widen": {
		name:        "loop-widen",
		description: "i0 := 0 at entry, i := phi(i0, i1) in the header, i1 := i + 1 in the body, widened across the back edge",
		build:       buildLoopWiden,
	},
}

func baseConfig() fixpoint.Config {
	return fixpoint.Config{
		SP:  ir.Var{Name: "sp", Width: 64},
		Mem: ir.Var{Name: "mem", IsArray: true},
	}
}

func boolConst(v int64) ir.Const { return ir.NewConst(big.NewInt(v), 1) }

func buildConstProp() (*cfg.Cfg, fixpoint.Config) {
	x := ir.Var{Name: "x", Width: 32}
	y := ir.Var{Name: "y", Width: 32}

	b := cfg.NewBuilder()
	entry := b.AddVertex(
		ir.NewMove(x, ir.NewConst(big.NewInt(5), 32)),
		ir.NewMove(y, ir.NewBinOp(si.Add, 32, ir.NewVarRef(x), ir.NewConst(big.NewInt(3), 32))),
	)
	b.SetEntry(entry)
	return b.Build(), baseConfig()
}

func buildBranchRefine() (*cfg.Cfg, fixpoint.Config) {
	x := ir.Var{Name: "x", Width: 32}

	b := cfg.NewBuilder()
	entry := b.AddVertex(ir.NewMove(x, ir.NewConst(big.NewInt(5), 32)))
	onTrue := b.AddVertex()
	onFalse := b.AddVertex()
	b.SetEntry(entry)

	inner := ir.NewCmp(ir.SLT, ir.NewVarRef(x), ir.NewConst(big.NewInt(10), 32))
	b.AddEdge(entry, onTrue, cfg.EdgeLabel{Taken: true, Pred: ir.NewCmp(ir.EQ, inner, boolConst(1))})
	b.AddEdge(entry, onFalse, cfg.EdgeLabel{Taken: false, Pred: ir.NewCmp(ir.EQ, inner, boolConst(0))})

	return b.Build(), baseConfig()
}

func buildPhiMerge() (*cfg.Cfg, fixpoint.Config) {
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

	return b.Build(), baseConfig()
}

func buildMemoryRead() (*cfg.Cfg, fixpoint.Config) {
	mem := ir.Var{Name: "mem", IsArray: true}
	y := ir.Var{Name: "y", Width: 16}

	b := cfg.NewBuilder()
	entry := b.AddVertex(ir.NewMove(y, ir.NewLoad(mem, ir.NewConst(big.NewInt(0x1000), 64), 16)))
	b.SetEntry(entry)

	config := baseConfig()
	config.Mem = mem
	config.InitialMem = []fixpoint.MemByte{
		{Addr: big.NewInt(0x1000), Value: 'A'},
		{Addr: big.NewInt(0x1001), Value: 'B'},
	}
	return b.Build(), config
}

func buildWeakWrite() (*cfg.Cfg, fixpoint.Config) {
	mem := ir.Var{Name: "mem", IsArray: true}
	idx := ir.Var{Name: "idx", Width: 64}

	b := cfg.NewBuilder()
	var moves []ir.Stmt
	var cVars []ir.Var
	for i := int64(0); i < 6; i++ {
		cv := ir.Var{Name: fmt.Sprintf("c%d", i), Width: 64}
		cVars = append(cVars, cv)
		moves = append(moves, ir.NewMove(cv, ir.NewConst(big.NewInt(i), 64)))
	}
	moves = append(moves, ir.NewMove(idx, ir.NewPhi(64, cVars...)))
	moves = append(moves, ir.NewMove(mem, ir.NewStore(mem, ir.NewVarRef(idx), ir.NewConst(big.NewInt(7), 8))))

	entry := b.AddVertex(moves...)
	b.SetEntry(entry)

	config := baseConfig()
	config.Mem = mem
	config.MemMax = 4
	return b.Build(), config
}

func buildLoopWiden() (*cfg.Cfg, fixpoint.Config) {
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

	return b.Build(), baseConfig()
}
