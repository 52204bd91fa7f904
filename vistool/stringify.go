package vistool

import (
	"fmt"
	"strings"

	"github.com/cs-au-dk/vsa/ir"
)

// stmtString renders one statement for a node label. There's no String()
// method on ir.Stmt itself (the sum type only needs isStmt() to dispatch
// transfer), so the visualizer grows its own stringifier the way the
// teacher's StringifyNodeArguments does for ssa.Value operands.
func stmtString(s ir.Stmt) string {
	switch n := s.(type) {
	case ir.Move:
		return fmt.Sprintf("%s := %s", n.V, exprString(n.E))
	case ir.Special:
		return fmt.Sprintf("special %s(%s)", n.Name, varList(n.Defs))
	case ir.Assert:
		return fmt.Sprintf("assert %s", exprString(n.Cond))
	case ir.Assume:
		return fmt.Sprintf("assume %s", exprString(n.Cond))
	case ir.Jmp:
		return fmt.Sprintf("jmp %s", n.Target)
	case ir.CJmp:
		return fmt.Sprintf("cjmp %s ? %s : %s", exprString(n.Cond), n.TrueTarget, n.FalseTarget)
	case ir.Label:
		return fmt.Sprintf("label %s:", n.Name)
	case ir.Comment:
		return fmt.Sprintf("; %s", n.Text)
	case ir.Halt:
		return "halt"
	default:
		return "?"
	}
}

func exprString(e ir.Expr) string {
	switch n := e.(type) {
	case ir.Const:
		return n.Value.String()
	case ir.VarRef:
		return n.Var.String()
	case ir.Phi:
		return fmt.Sprintf("phi(%s)", varList(n.Vars))
	case ir.BinOp:
		return fmt.Sprintf("(%s %v %s)", exprString(n.X), n.Op, exprString(n.Y))
	case ir.UnOp:
		return fmt.Sprintf("(%v %s)", n.Op, exprString(n.X))
	case ir.Cast:
		return fmt.Sprintf("cast<%v,%d>(%s)", n.Kind, n.Width(), exprString(n.X))
	case ir.Cmp:
		return fmt.Sprintf("(%s %s %s)", exprString(n.X), n.Op, exprString(n.Y))
	case ir.Load:
		return fmt.Sprintf("load%d[%s, %s]", n.Width(), n.Mem, exprString(n.Index))
	case ir.Store:
		return fmt.Sprintf("store[%s, %s, %s]", n.Mem, exprString(n.Index), exprString(n.Value))
	case ir.Unknown:
		return "unknown"
	default:
		return "?"
	}
}

func varList(vs []ir.Var) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}

func edgeLabelString(pred ir.Expr, taken bool) string {
	if pred == nil {
		return ""
	}
	arrow := "F"
	if taken {
		arrow = "T"
	}
	return fmt.Sprintf("[%s] %s", arrow, exprString(pred))
}
