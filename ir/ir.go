// Package ir defines the generic SSA-like expression and statement
// vocabulary the rest of this module operates over. It is not derived from
// any particular architecture's instruction set - callers lower their own
// IR into this shape (three-address-code lowering, condition
// simplification, copy propagation, and block coalescing are their
// responsibility).
package ir

import (
	"fmt"

	"github.com/benbjohnson/immutable"
)

// Var identifies an SSA variable: either a scalar register or a memory
// array, each at a fixed declared width.
type Var struct {
	Name    string
	Width   uint
	IsArray bool
}

func (v Var) String() string { return v.Name }

// VarHasher lets Var key persistent maps (package absenv).
type VarHasher struct{}

var _ immutable.Hasher[Var] = VarHasher{}

func (VarHasher) Hash(v Var) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(v.Name); i++ {
		h ^= uint32(v.Name[i])
		h *= 16777619
	}
	return h
}

func (VarHasher) Equal(a, b Var) bool { return a == b }

// CmpOp is the comparison operator vocabulary expression trees and edge
// labels are built from.
type CmpOp uint8

const (
	EQ CmpOp = iota
	NEQ
	SLT
	SLE
	LT // unsigned less-than
	LE // unsigned less-equal
)

func (op CmpOp) String() string {
	switch op {
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case SLT:
		return "s<"
	case SLE:
		return "s<="
	case LT:
		return "<"
	case LE:
		return "<="
	default:
		return fmt.Sprintf("CmpOp(%d)", op)
	}
}

// Invert returns the comparison whose result is the negation of op's. For
// EQ/NEQ the operand order stays the same; for the ordered comparisons the
// operands must also be swapped (NOT(x < k) is k <= x), which edge
// recognition's bool_literal = 0 case does.
func (op CmpOp) Invert() CmpOp {
	switch op {
	case SLE:
		return SLT
	case SLT:
		return SLE
	case LE:
		return LT
	case LT:
		return LE
	case EQ:
		return NEQ
	case NEQ:
		return EQ
	default:
		return op
	}
}
