// Package ast defines the rlisp syntax tree.
package ast

import (
	"strconv"

	"github.com/thomasrohde/rlisp/pkg/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() token.Span
}

// --- Literal values ---

// LiteralValue is the payload of a Literal expression.
type LiteralValue interface {
	literalValue() // sealed marker
	String() string
}

type StringValue string
type NumberValue float64
type BoolValue bool
type NilValue struct{}

func (StringValue) literalValue() {}
func (NumberValue) literalValue() {}
func (BoolValue) literalValue()   {}
func (NilValue) literalValue()    {}

func (v StringValue) String() string { return strconv.Quote(string(v)) }
func (v NumberValue) String() string { return strconv.FormatFloat(float64(v), 'f', -1, 64) }
func (v BoolValue) String() string   { return strconv.FormatBool(bool(v)) }
func (NilValue) String() string      { return "nil" }

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Expressions ---

type Literal struct {
	Span  token.Span
	Value LiteralValue
}

func (n *Literal) Kind() string         { return "Literal" }
func (n *Literal) NodeSpan() token.Span { return n.Span }
func (n *Literal) exprNode()            {}

type Variable struct {
	Span token.Span
	Name string
}

func (n *Variable) Kind() string         { return "Variable" }
func (n *Variable) NodeSpan() token.Span { return n.Span }
func (n *Variable) exprNode()            {}

type Grouping struct {
	Span  token.Span
	Inner Expr
}

func (n *Grouping) Kind() string         { return "Grouping" }
func (n *Grouping) NodeSpan() token.Span { return n.Span }
func (n *Grouping) exprNode()            {}

// Unary applies Op (Minus, Plus or Not) to Operand.
type Unary struct {
	Span    token.Span
	Op      token.Kind
	Operand Expr
}

func (n *Unary) Kind() string         { return "Unary" }
func (n *Unary) NodeSpan() token.Span { return n.Span }
func (n *Unary) exprNode()            {}

// Binary covers arithmetic, bitwise, comparison and logical operators.
type Binary struct {
	Span  token.Span
	Left  Expr
	Op    token.Kind
	Right Expr
}

func (n *Binary) Kind() string         { return "Binary" }
func (n *Binary) NodeSpan() token.Span { return n.Span }
func (n *Binary) exprNode()            {}

// Assign rebinds an existing variable. Compound assignments arrive here
// already rewritten to a Binary value.
type Assign struct {
	Span  token.Span
	Name  string
	Value Expr
}

func (n *Assign) Kind() string         { return "Assign" }
func (n *Assign) NodeSpan() token.Span { return n.Span }
func (n *Assign) exprNode()            {}

type Call struct {
	Span   token.Span
	Callee Expr
	Args   []Expr
}

func (n *Call) Kind() string         { return "Call" }
func (n *Call) NodeSpan() token.Span { return n.Span }
func (n *Call) exprNode()            {}

type Get struct {
	Span   token.Span
	Object Expr
	Name   string
}

func (n *Get) Kind() string         { return "Get" }
func (n *Get) NodeSpan() token.Span { return n.Span }
func (n *Get) exprNode()            {}

type Set struct {
	Span   token.Span
	Object Expr
	Name   string
	Value  Expr
}

func (n *Set) Kind() string         { return "Set" }
func (n *Set) NodeSpan() token.Span { return n.Span }
func (n *Set) exprNode()            {}

type This struct {
	Span token.Span
}

func (n *This) Kind() string         { return "This" }
func (n *This) NodeSpan() token.Span { return n.Span }
func (n *This) exprNode()            {}

// Super is a superclass method reference, super.Method.
type Super struct {
	Span   token.Span
	Method string
}

func (n *Super) Kind() string         { return "Super" }
func (n *Super) NodeSpan() token.Span { return n.Span }
func (n *Super) exprNode()            {}

// --- Statements ---

type ExprStmt struct {
	Span token.Span
	Expr Expr
}

func (n *ExprStmt) Kind() string         { return "ExprStmt" }
func (n *ExprStmt) NodeSpan() token.Span { return n.Span }
func (n *ExprStmt) stmtNode()            {}

type Print struct {
	Span token.Span
	Expr Expr
}

func (n *Print) Kind() string         { return "Print" }
func (n *Print) NodeSpan() token.Span { return n.Span }
func (n *Print) stmtNode()            {}

// Let declares a variable or, when Const is set, a constant.
// Value is nil when the declaration has no initializer.
type Let struct {
	Span     token.Span
	Name     string
	NameSpan token.Span
	Value    Expr
	Const    bool
}

func (n *Let) Kind() string         { return "Let" }
func (n *Let) NodeSpan() token.Span { return n.Span }
func (n *Let) stmtNode()            {}

type Block struct {
	Span  token.Span
	Stmts []Stmt
}

func (n *Block) Kind() string         { return "Block" }
func (n *Block) NodeSpan() token.Span { return n.Span }
func (n *Block) stmtNode()            {}

// If has a nil Else when no else branch was written.
type If struct {
	Span token.Span
	Cond Expr
	Then Stmt
	Else Stmt
}

func (n *If) Kind() string         { return "If" }
func (n *If) NodeSpan() token.Span { return n.Span }
func (n *If) stmtNode()            {}

// While is also the target of for-loop desugaring. For a desugared loop
// ForLoop is set and Body is a Block whose last statement is the increment,
// which must still run when the iteration ends with continue.
type While struct {
	Span    token.Span
	Cond    Expr
	Body    Stmt
	ForLoop bool
}

func (n *While) Kind() string         { return "While" }
func (n *While) NodeSpan() token.Span { return n.Span }
func (n *While) stmtNode()            {}

type Param struct {
	Name string
	Span token.Span
}

type Function struct {
	Span   token.Span
	Name   string
	Params []Param
	Body   []Stmt
}

func (n *Function) Kind() string         { return "Function" }
func (n *Function) NodeSpan() token.Span { return n.Span }
func (n *Function) stmtNode()            {}

// Return has a nil Value for a bare return.
type Return struct {
	Span  token.Span
	Value Expr
}

func (n *Return) Kind() string         { return "Return" }
func (n *Return) NodeSpan() token.Span { return n.Span }
func (n *Return) stmtNode()            {}

type Class struct {
	Span       token.Span
	Name       string
	Superclass *Variable
	Methods    []*Function
}

func (n *Class) Kind() string         { return "Class" }
func (n *Class) NodeSpan() token.Span { return n.Span }
func (n *Class) stmtNode()            {}

type Break struct {
	Span token.Span
}

func (n *Break) Kind() string         { return "Break" }
func (n *Break) NodeSpan() token.Span { return n.Span }
func (n *Break) stmtNode()            {}

type Continue struct {
	Span token.Span
}

func (n *Continue) Kind() string         { return "Continue" }
func (n *Continue) NodeSpan() token.Span { return n.Span }
func (n *Continue) stmtNode()            {}

// Program is the root of a parsed source file.
type Program struct {
	Stmts []Stmt
}
