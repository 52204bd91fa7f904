package vistool

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/goccy/go-graphviz"

	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/fixpoint"
	"github.com/cs-au-dk/vsa/ir"
)

func buildTestGraph(t *testing.T) (*cfg.Cfg, *fixpoint.Result) {
	t.Helper()

	x := ir.Var{Name: "x", Width: 32}
	b := cfg.NewBuilder()
	entry := b.AddVertex(ir.NewMove(x, ir.NewConst(big.NewInt(7), 32)))
	onTrue := b.AddVertex()
	onFalse := b.AddVertex()
	b.SetEntry(entry)

	inner := ir.NewCmp(ir.SLT, ir.NewVarRef(x), ir.NewConst(big.NewInt(10), 32))
	truePred := ir.NewCmp(ir.EQ, inner, ir.NewConst(big.NewInt(1), 1))
	b.AddEdge(entry, onTrue, cfg.EdgeLabel{Taken: true, Pred: truePred})
	b.AddEdge(entry, onFalse, cfg.EdgeLabel{})
	g := b.Build()

	config := fixpoint.Config{
		SP:  ir.Var{Name: "sp", Width: 64},
		Mem: ir.Var{Name: "mem", IsArray: true},
	}
	r, err := fixpoint.Run(context.Background(), g, config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return g, r
}

func TestWriteProducesDotSourceWithVertexLabels(t *testing.T) {
	g, r := buildTestGraph(t)

	var buf bytes.Buffer
	if err := Write(g, r, DefaultOptions(), graphviz.XDOT, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "v0") {
		t.Errorf("expected entry node v0 in rendered output, got:\n%s", out)
	}
}

func TestClusterByRegionGroupsSharedRegionVertices(t *testing.T) {
	g, r := buildTestGraph(t)

	clusters := clusterByRegion(g, func(id cfg.VertexID) absenv.Env { return r.StateAt(id) })

	var ids []cfg.VertexID
	g.ForEach(func(v *cfg.Vertex) { ids = append(ids, v.ID) })

	for _, id := range ids {
		if _, found := clusters[id]; !found {
			t.Errorf("vertex %d missing from cluster assignment", id)
		}
	}

	// entry binds sp's region; every vertex reachable from entry's
	// fixpoint output that still carries an sp-bound state should land in
	// the same cluster as entry.
	entryCluster := clusters[g.Entry]
	for _, id := range ids {
		if !r.StateAt(id).IsTop() && clusters[id] != entryCluster {
			t.Errorf("vertex %d in a different cluster than entry despite sharing the sp region", id)
		}
	}
}
