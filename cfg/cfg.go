// Package cfg is the generic control-flow graph the fixpoint driver walks.
// Vertices carry a straight-line statement list; edges optionally carry a
// label recording the branch predicate that must hold for control to take
// that edge, which the edge-transfer package (edge) pattern-matches on.
package cfg

import (
	"github.com/cs-au-dk/vsa/ir"
)

// VertexID is an opaque, comparable handle to a vertex.
type VertexID int

// Vertex is one basic block: a straight-line run of statements with no
// internal control flow.
type Vertex struct {
	ID    VertexID
	Stmts []ir.Stmt
}

// EdgeLabel carries the optional branch predicate an edge is guarded by.
// A zero-value Label (Pred == nil) means "unlabeled" and refines nothing.
type EdgeLabel struct {
	Taken bool
	Pred  ir.Expr
}

func (l EdgeLabel) IsLabeled() bool { return l.Pred != nil }

// Edge connects two vertices, optionally guarded by a Label.
type Edge struct {
	From, To VertexID
	Label    EdgeLabel
}

// Cfg is a directed graph over Vertex/Edge, built incrementally via Builder
// and then queried by the fixpoint driver.
type Cfg struct {
	Entry VertexID

	vertices map[VertexID]*Vertex
	succs    map[VertexID][]Edge
	preds    map[VertexID][]Edge
}

func New(entry VertexID) *Cfg {
	return &Cfg{
		Entry:    entry,
		vertices: map[VertexID]*Vertex{},
		succs:    map[VertexID][]Edge{},
		preds:    map[VertexID][]Edge{},
	}
}

func (c *Cfg) Vertex(id VertexID) *Vertex {
	return c.vertices[id]
}

func (c *Cfg) Successors(id VertexID) []Edge {
	return c.succs[id]
}

func (c *Cfg) Predecessors(id VertexID) []Edge {
	return c.preds[id]
}

// ForEach visits every vertex in ID order (deterministic, for reproducible
// test output) via f.
func (c *Cfg) ForEach(f func(*Vertex)) {
	ids := c.vertexIDs()
	for _, id := range ids {
		f(c.vertices[id])
	}
}

func (c *Cfg) vertexIDs() []VertexID {
	ids := make([]VertexID, 0, len(c.vertices))
	for id := range c.vertices {
		ids = append(ids, id)
	}
	// Simple insertion sort; CFGs built by Builder are small enough that
	// this never shows up in a profile.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// FindAll returns every vertex for which pred holds.
func (c *Cfg) FindAll(pred func(*Vertex) bool) []*Vertex {
	var out []*Vertex
	c.ForEach(func(v *Vertex) {
		if pred(v) {
			out = append(out, v)
		}
	})
	return out
}
