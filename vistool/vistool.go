// Package vistool renders a Cfg and a fixpoint.Result as a graphviz graph:
// one node per control-flow vertex, labeled with its statements and its
// fixpoint output state, clustered by the memory regions its state
// touches, with edges colored by whether they carry a recognized branch
// predicate.
package vistool

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/edge"
	"github.com/cs-au-dk/vsa/fixpoint"
)

// Options carries the handful of layout knobs a debug visualizer needs
// (rankdir, nodesep, minlen), plus a ShowState toggle since fixpoint
// output can be large.
type Options struct {
	Rankdir   string
	Nodesep   float64
	Minlen    int
	ShowState bool
}

func DefaultOptions() Options {
	return Options{Rankdir: "TB", Nodesep: 0.5, Minlen: 1, ShowState: true}
}

// clusterColors cycles a small fixed palette of cluster background colors
// across region clusters.
var clusterColors = []string{"#e6ffff", "#fff2e6", "#eaffea", "#f5e6ff", "#fffbe6"}

// Write renders g and r as format (graphviz.PNG, graphviz.SVG, ...) to w.
func Write(g *cfg.Cfg, r *fixpoint.Result, opts Options, format graphviz.Format, w io.Writer) error {
	gv := graphviz.New()
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("vistool: creating graph: %w", err)
	}
	defer graph.Close()

	if err := build(graph, g, r, opts); err != nil {
		return err
	}

	return gv.Render(graph, format, w)
}

// WriteFile is Write plus RenderFilename's path-based convenience.
func WriteFile(g *cfg.Cfg, r *fixpoint.Result, opts Options, format graphviz.Format, path string) error {
	gv := graphviz.New()
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("vistool: creating graph: %w", err)
	}
	defer graph.Close()

	if err := build(graph, g, r, opts); err != nil {
		return err
	}

	return gv.RenderFilename(graph, format, path)
}

func build(graph *cgraph.Graph, g *cfg.Cfg, r *fixpoint.Result, opts Options) error {
	graph.SetLabel("fixpoint state")
	graph.SetRankDir(rankDir(opts.Rankdir))

	stateAt := func(id cfg.VertexID) absenv.Env { return r.StateAt(id) }
	clusters := clusterByRegion(g, stateAt)

	subgraphs := map[int]*cgraph.Graph{}
	getSubgraph := func(cid int) *cgraph.Graph {
		sub, found := subgraphs[cid]
		if !found {
			sub = graph.SubGraph(fmt.Sprintf("cluster_%d", cid), 1)
			sub.SetLabel(fmt.Sprintf("region cluster %d", cid))
			sub.SetBackgroundColor(clusterColors[cid%len(clusterColors)])
			subgraphs[cid] = sub
		}
		return sub
	}

	nodes := map[cfg.VertexID]*cgraph.Node{}
	getNode := func(id cfg.VertexID) (*cgraph.Node, error) {
		if n, found := nodes[id]; found {
			return n, nil
		}
		v := g.Vertex(id)
		label := vertexLabel(v, stateAt(id), opts.ShowState)

		n, err := graph.CreateNode(fmt.Sprintf("v%d", id))
		if err != nil {
			return nil, fmt.Errorf("vistool: creating node %d: %w", id, err)
		}
		n.SetLabel(label)
		n.SetShape(cgraph.BoxShape)

		if id == g.Entry {
			n.SetStyle(cgraph.FilledNodeStyle)
			n.SetFillColor("#a0ecfa")
		}

		// Re-declaring the node inside its cluster's subgraph is how
		// cgraph assigns node-to-cluster membership - the node itself
		// is shared, not duplicated.
		if _, err := getSubgraph(clusters[id]).CreateNode(fmt.Sprintf("v%d", id)); err != nil {
			return nil, fmt.Errorf("vistool: assigning node %d to cluster: %w", id, err)
		}

		nodes[id] = n
		return n, nil
	}

	var ids []cfg.VertexID
	g.ForEach(func(v *cfg.Vertex) { ids = append(ids, v.ID) })
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if _, err := getNode(id); err != nil {
			return err
		}
	}

	for _, id := range ids {
		for _, e := range g.Successors(id) {
			from, err := getNode(e.From)
			if err != nil {
				return err
			}
			to, err := getNode(e.To)
			if err != nil {
				return err
			}

			gve, err := graph.CreateEdge("", from, to)
			if err != nil {
				return fmt.Errorf("vistool: creating edge %d->%d: %w", e.From, e.To, err)
			}
			if e.Label.IsLabeled() {
				gve.SetLabel(edgeLabelString(e.Label.Pred, e.Label.Taken))
				m := edge.Recognize(e.Label, true)
				if m.Kind == edge.None {
					gve.SetColor("gray")
				} else if e.Label.Taken {
					gve.SetColor("darkgreen")
				} else {
					gve.SetColor("firebrick")
				}
			}
		}
	}

	return nil
}

func rankDir(s string) cgraph.RankDir {
	switch s {
	case "LR":
		return cgraph.LRRank
	case "BT":
		return cgraph.BTRank
	case "RL":
		return cgraph.RLRank
	default:
		return cgraph.TBRank
	}
}

func vertexLabel(v *cfg.Vertex, env absenv.Env, showState bool) string {
	label := fmt.Sprintf("v%d", v.ID)
	for _, s := range v.Stmts {
		label += "\n" + stmtString(s)
	}
	if showState {
		label += "\n---\n" + env.String()
	}
	return label
}
