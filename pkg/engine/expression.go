package engine

import "fmt"

// Expression is an opaque, already-constructed predicate or compute tree.
// The core builds and threads expressions; it defines no grammar and no
// parser. An expression is schema-bound only when an evaluator is created
// for it.
type Expression interface {
	exprNode()
	String() string
}

// ColumnRef references a column of the input batch by name.
type ColumnRef struct {
	Name string
}

func (*ColumnRef) exprNode() {}

func (c *ColumnRef) String() string { return c.Name }

// Literal is a constant value. Supported value kinds are host-defined; the
// default host accepts bool, signed/unsigned integers, floats, and strings.
type Literal struct {
	Value any
}

func (*Literal) exprNode() {}

func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// BinaryOp identifies the operator of a BinaryExpr.
type BinaryOp int

// Operators understood by the expression contract.
const (
	OpEq BinaryOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var opNames = map[BinaryOp]string{
	OpEq:  "=",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "AND",
	OpOr:  "OR",
}

func (op BinaryOp) String() string { return opNames[op] }

// BinaryExpr combines two sub-expressions with an operator.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (*BinaryExpr) exprNode() {}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Column returns a column reference expression.
func Column(name string) Expression { return &ColumnRef{Name: name} }

// Lit returns a literal expression.
func Lit(v any) Expression { return &Literal{Value: v} }

// Binary returns a binary expression.
func Binary(op BinaryOp, left, right Expression) Expression {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}
