package fixpoint

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/cfg"
	"github.com/cs-au-dk/vsa/edge"
	"github.com/cs-au-dk/vsa/eval"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/memstore"
	"github.com/cs-au-dk/vsa/transfer"
	"github.com/cs-au-dk/vsa/vs"
	"github.com/cs-au-dk/vsa/utils/worklist"
)

// Result is the fixpoint driver's output: the per-vertex output state
// (state_at) plus enough context to re-run eval_expr against it.
type Result struct {
	g      *cfg.Cfg
	config Config
	out    map[cfg.VertexID]absenv.Env
}

// New validates config and constructs a driver Result seeded at g's entry
// vertex. Run performs the actual fixpoint computation; New exists so
// misconfiguration (the sentinel-SP/Mem check) is reported as an error to
// library embedders rather than via a direct os.Exit - only the CLI's
// main.go converts this error into a fatal log line.
func New(g *cfg.Cfg, config Config) (*Result, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Result{g: g, config: config, out: map[cfg.VertexID]absenv.Env{}}, nil
}

// StateAt returns the fixpoint output state computed at vertex id (the
// AbsEnv after running that vertex's own statement transfer), or ⊤ if the
// vertex was never reached.
func (r *Result) StateAt(id cfg.VertexID) absenv.Env {
	if s, found := r.out[id]; found {
		return s
	}
	return absenv.Top()
}

// EvalExpr is the eval_expr helper, reusable by clients (e.g. to resolve
// indirect jump targets against a computed state). It reports via isArray
// which of the two results is meaningful.
func EvalExpr(env absenv.Env, memMax int, e ir.Expr) (scalar vs.VS, array memstore.Store, isArray bool) {
	if isArrayExpr(e) {
		return vs.VS{}, eval.Array(env, memMax, e), true
	}
	return eval.Scalar(env, memMax, e), memstore.Store{}, false
}

func isArrayExpr(e ir.Expr) bool {
	switch n := e.(type) {
	case ir.VarRef:
		return n.Var.IsArray
	case ir.Store:
		return true
	case ir.Phi:
		for _, v := range n.Vars {
			if v.IsArray {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Run executes the worklist loop to a fixpoint and returns the Result
// state_at queries. ctx is checked once per popped vertex for early
// exit, in the style of a non-blocking select on a cancellation channel;
// a cancelled context stops the loop and returns the partial result
// alongside ctx.Err().
func Run(ctx context.Context, g *cfg.Cfg, config Config) (*Result, error) {
	r, err := New(g, config)
	if err != nil {
		return nil, err
	}

	memMax := config.memMax()
	nmeets := config.nmeets()
	init := initEnv(config)

	visits := worklist.NewVisitCounter[cfg.VertexID]()
	wl := worklist.Empty[cfg.VertexID]()
	wl.Add(g.Entry)

	for !wl.IsEmpty() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return r, ctx.Err()
			default:
			}
		}

		id := wl.GetNext()
		n := visits.Bump(id)
		useWiden := n > nmeets

		incoming := r.incoming(g, id, init, memMax, config.signednessHack(), useWiden)
		v := g.Vertex(id)
		if v == nil {
			continue
		}

		logrus.WithField("vertex", id).WithField("widen", useWiden).Debug("processing vertex")

		newOut := transfer.Block(incoming, memMax, v.Stmts)
		if old, found := r.out[id]; found && old.Eq(newOut) {
			continue
		}
		r.out[id] = newOut

		for _, e := range g.Successors(id) {
			wl.Add(e.To)
		}
	}

	return r, nil
}

// incoming computes a vertex's incoming AbsEnv by refining and merging
// every predecessor's cached output, with the entry vertex additionally
// folding in the seeded init state as an implicit predecessor so the seed
// survives even once the entry is revisited through a back edge.
func (r *Result) incoming(g *cfg.Cfg, id cfg.VertexID, init absenv.Env, memMax int, signednessHack bool, widen bool) absenv.Env {
	var acc absenv.Env
	have := false

	merge := func(e absenv.Env) {
		if !have {
			acc = e
			have = true
			return
		}
		if widen {
			acc = acc.Widen(e)
		} else {
			acc = acc.Meet(e)
		}
	}

	if id == g.Entry {
		merge(init)
	}

	for _, e := range g.Predecessors(id) {
		predOut, found := r.out[e.From]
		if !found {
			continue
		}
		refined := predOut
		if e.Label.IsLabeled() {
			m := edge.Recognize(e.Label, signednessHack)
			refined = edge.Refine(predOut, memMax, m)
		}
		merge(refined)
	}

	if !have {
		return absenv.Top()
	}
	return acc
}
