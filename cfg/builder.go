package cfg

import "github.com/cs-au-dk/vsa/ir"

// Builder assembles a Cfg incrementally. It exists so a caller's own
// lowering pass (three-address-code construction, condition simplification)
// has somewhere to assemble vertices/edges without this package dictating
// how that lowering works.
type Builder struct {
	cfg    *Cfg
	nextID VertexID
}

func NewBuilder() *Builder {
	return &Builder{cfg: &Cfg{
		vertices: map[VertexID]*Vertex{},
		succs:    map[VertexID][]Edge{},
		preds:    map[VertexID][]Edge{},
	}}
}

// AddVertex allocates a fresh vertex with the given statements and returns
// its ID.
func (b *Builder) AddVertex(stmts ...ir.Stmt) VertexID {
	id := b.nextID
	b.nextID++
	b.cfg.vertices[id] = &Vertex{ID: id, Stmts: stmts}
	return id
}

// AddEdge connects from -> to, optionally guarded by label.
func (b *Builder) AddEdge(from, to VertexID, label EdgeLabel) {
	e := Edge{From: from, To: to, Label: label}
	b.cfg.succs[from] = append(b.cfg.succs[from], e)
	b.cfg.preds[to] = append(b.cfg.preds[to], e)
}

// SetEntry designates the CFG's entry vertex.
func (b *Builder) SetEntry(id VertexID) {
	b.cfg.Entry = id
}

// Build finalizes and returns the assembled Cfg.
func (b *Builder) Build() *Cfg {
	return b.cfg
}
