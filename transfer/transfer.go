// Package transfer implements the statement transfer function: a pure
// (stmt, env) -> env step folded over a basic block's straight-line
// statements. Control-flow statements are identity here; refinement from a
// branch condition happens on the CFG edge instead (package edge).
package transfer

import (
	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/eval"
	"github.com/cs-au-dk/vsa/ir"
	"github.com/cs-au-dk/vsa/vs"
)

// Stmt applies one statement's transfer to env. memMax bounds any MemStore
// operations Move's evaluation may perform through a Load/Store expression.
func Stmt(env absenv.Env, memMax int, s ir.Stmt) absenv.Env {
	if env.IsTop() {
		// Applying any transfer to ⊤ yields ⊤ - the driver only reaches
		// this before the entry state is seeded.
		return env
	}

	switch n := s.(type) {
	case ir.Move:
		return move(env, memMax, n)

	case ir.Special:
		return special(env, n)

	case ir.Assert, ir.Assume, ir.Jmp, ir.CJmp, ir.Label, ir.Comment, ir.Halt:
		return env

	default:
		return env
	}
}

// Block folds Stmt over an entire vertex's statement list in order.
func Block(env absenv.Env, memMax int, stmts []ir.Stmt) absenv.Env {
	for _, s := range stmts {
		env = Stmt(env, memMax, s)
	}
	return env
}

// move implements Move(v, e): bind(env, v, eval(env, e)). Because eval is
// already total (it degrades to top internally rather than failing), the
// "leave env unchanged on internal error" clause only matters for errors
// transfer itself might introduce - there are none here, so this is a
// direct bind.
func move(env absenv.Env, memMax int, n ir.Move) absenv.Env {
	if n.V.IsArray {
		store := eval.Array(env, memMax, n.E)
		return env.Bind(n.V, absenv.ArrayBinding(store))
	}
	value := eval.Scalar(env, memMax, n.E)
	return env.Bind(n.V, absenv.ScalarBinding(value))
}

// special havocs every scalar variable Special defines to top, leaving
// memory untouched (Special is assumed not to modify memory).
func special(env absenv.Env, n ir.Special) absenv.Env {
	for _, v := range n.Defs {
		if v.IsArray {
			continue
		}
		env = env.Bind(v, absenv.ScalarBinding(vs.Top(v.Width)))
	}
	return env
}
