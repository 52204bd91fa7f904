package ir

import (
	"math/big"

	"github.com/cs-au-dk/vsa/si"
)

// Expr is the sum type of every expression form the evaluator (package
// eval) dispatches on. Implementations are exhaustively matched by a type
// switch; forms the evaluator doesn't recognize fall through to its
// "unimplemented forms degrade to top" default.
type Expr interface {
	isExpr()
	Width() uint
}

type exprBase struct{ width uint }

func (exprBase) isExpr() {}

func (e exprBase) Width() uint { return e.width }

// Const is an integer literal at a fixed width.
type Const struct {
	exprBase
	Value *big.Int
}

func NewConst(v *big.Int, width uint) Const {
	return Const{exprBase{width}, v}
}

// VarRef reads the current binding of a variable (scalar or array,
// depending on Var.IsArray).
type VarRef struct {
	exprBase
	Var Var
}

func NewVarRef(v Var) VarRef {
	return VarRef{exprBase{v.Width}, v}
}

// Phi merges the scalar or array bindings of several predecessors' SSA
// variables into one value at a CFG join.
type Phi struct {
	exprBase
	Vars []Var
}

func NewPhi(width uint, vars ...Var) Phi {
	return Phi{exprBase{width}, vars}
}

// BinOp is a scalar binary operation.
type BinOp struct {
	exprBase
	Op   si.BinOp
	X, Y Expr
}

func NewBinOp(op si.BinOp, width uint, x, y Expr) BinOp {
	return BinOp{exprBase{width}, op, x, y}
}

// UnOp is a scalar unary operation.
type UnOp struct {
	exprBase
	Op si.UnOp
	X  Expr
}

func NewUnOp(op si.UnOp, width uint, x Expr) UnOp {
	return UnOp{exprBase{width}, op, x}
}

// Cast converts x to a new width via kind (sign-extend, zero-extend,
// truncate).
type Cast struct {
	exprBase
	Kind si.CastKind
	X    Expr
}

func NewCast(kind si.CastKind, targetWidth uint, x Expr) Cast {
	return Cast{exprBase{targetWidth}, kind, x}
}

// Cmp is a scalar comparison; its result is a one-bit boolean value set
// (0 or 1), the form edge labels are built from.
type Cmp struct {
	exprBase
	Op   CmpOp
	X, Y Expr
}

func NewCmp(op CmpOp, x, y Expr) Cmp {
	return Cmp{exprBase{1}, op, x, y}
}

// Load reads result_width bits from mem at the address index evaluates to.
type Load struct {
	exprBase
	Mem   Var
	Index Expr
}

func NewLoad(mem Var, index Expr, resultWidth uint) Load {
	return Load{exprBase{resultWidth}, mem, index}
}

// Store writes value (of its own width) into mem at the address index
// evaluates to, yielding a new array value.
type Store struct {
	exprBase
	Mem   Var
	Index Expr
	Value Expr
}

func NewStore(mem Var, index, value Expr) Store {
	return Store{exprBase{0}, mem, index, value}
}

// Unknown stands in for any expression form this module's evaluator is not
// meant to model precisely (Concat, Extract, Ite, and anything else outside
// the enumerated forms above). The evaluator always maps it to top.
type Unknown struct {
	exprBase
}

func NewUnknown(width uint) Unknown {
	return Unknown{exprBase{width}}
}
