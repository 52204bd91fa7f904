package vistool

import (
	"math/big"

	"github.com/spakin/disjoint"

	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/memstore"
	"github.com/cs-au-dk/vsa/region"
	"github.com/cs-au-dk/vsa/vs"
)

// clusterByRegion groups vertices into clusters using a union-find over the
// regions their fixpoint output state touches: two vertices land in the
// same cluster iff they are linked by a chain of vertices in which each
// neighbouring pair shares some region in their states. There is no
// call graph in this module, so clusters are keyed on region identity
// instead of function identity.
func clusterByRegion(g *cfg.Cfg, stateAt func(cfg.VertexID) absenv.Env) map[cfg.VertexID]int {
	elems := map[cfg.VertexID]*disjoint.Element{}
	g.ForEach(func(v *cfg.Vertex) {
		elems[v.ID] = disjoint.NewElement()
	})

	firstSeen := map[region.Region]cfg.VertexID{}
	g.ForEach(func(v *cfg.Vertex) {
		for _, r := range regionsIn(stateAt(v.ID)) {
			if other, found := firstSeen[r]; found {
				disjoint.Union(elems[v.ID], elems[other])
			} else {
				firstSeen[r] = v.ID
			}
		}
	})

	clusterIDs := map[*disjoint.Element]int{}
	out := map[cfg.VertexID]int{}
	next := 0
	g.ForEach(func(v *cfg.Vertex) {
		rep := elems[v.ID].Find()
		id, found := clusterIDs[rep]
		if !found {
			id = next
			next++
			clusterIDs[rep] = id
		}
		out[v.ID] = id
	})
	return out
}

// regionsIn collects every region referenced by env's scalar or array
// bindings, deduplicated.
func regionsIn(env absenv.Env) []region.Region {
	seen := map[region.Region]bool{}
	var out []region.Region
	add := func(r region.Region) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}

	env.ForEach(func(_ ir.Var, b absenv.Binding) {
		if b.IsArray() {
			addStoreRegions(b.Array(), add)
		} else {
			for _, r := range b.Scalar().Regions() {
				add(r)
			}
		}
	})
	return out
}

func addStoreRegions(s memstore.Store, add func(region.Region)) {
	s.Fold(nil, func(acc interface{}, r region.Region, _ *big.Int, _ vs.VS) interface{} {
		add(r)
		return acc
	})
}
