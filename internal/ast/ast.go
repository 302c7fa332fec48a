// Package ast defines the Latch abstract syntax tree: the Expr and Stmt
// sums produced by the parser (spec.md §3). Every variant is used through
// a pointer so the parser can build nodes with plain composite literals.
package ast

import "github.com/latch-lang/latch/internal/token"

// Node is implemented by every Expr and Stmt variant.
type Node interface {
	Span() token.Span
}

// Expr is the sum of all expression forms.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the sum of all statement forms.
type Stmt interface {
	Node
	stmtNode()
}

// Meta carries the source span every node needs; embed it by value.
type Meta struct{ Sp token.Span }

func (m Meta) Span() token.Span { return m.Sp }

// ---- expressions ----

type Int struct {
	Meta
	Value int64
}

type Float struct {
	Meta
	Value float64
}

type Bool struct {
	Meta
	Value bool
}

type Null struct{ Meta }

// StringSegment is one chunk of an interpolated string literal: either a
// literal run of text or a parsed sub-expression from `${...}`.
type StringSegment struct {
	Literal string
	Expr    Expr // nil when this segment is a literal chunk
}

// String is a (possibly raw) string literal. Raw strings have a single
// Segments entry with no Expr.
type String struct {
	Meta
	Segments []StringSegment
	Raw      bool
}

type Ident struct {
	Meta
	Name string
}

type ListLit struct {
	Meta
	Items []Expr
}

type DictPair struct {
	Key   Expr
	Value Expr
}

type DictLit struct {
	Meta
	Pairs []DictPair
}

type Index struct {
	Meta
	Target Expr
	Index  Expr
}

type Slice struct {
	Meta
	Target Expr
	Start  Expr // nil => default 0
	End    Expr // nil => default length
}

type Field struct {
	Meta
	Target Expr
	Name   string
}

type SafeField struct {
	Meta
	Target Expr
	Name   string
}

type Call struct {
	Meta
	Callee Expr
	Args   []Expr
}

// Pipe is `lhs |> call`; Call is always a *Call whose first argument is
// Lhs, injected by the parser (`x |> f(a)` becomes Call{Callee: f,
// Args: [x, a]}, and a bare `x |> f` becomes Call{Callee: f, Args: [x]}).
type Pipe struct {
	Meta
	Lhs  Expr
	Call *Call
}

type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

type Unary struct {
	Meta
	Op  UnaryOp
	Arg Expr
}

type BinaryOp int

const (
	BAdd BinaryOp = iota
	BSub
	BMul
	BDiv
	BMod
	BPow
	BEq
	BNeq
	BLt
	BLte
	BGt
	BGte
	BAnd
	BOr
	BIn
	BNullCoalesce  // ??
	BErrorFallback // or
)

type Binary struct {
	Meta
	Op   BinaryOp
	L, R Expr
}

type Ternary struct {
	Meta
	Cond, Then, Else Expr
}

type Range struct {
	Meta
	Start, End Expr
}

type Param struct {
	Name    string
	Default Expr // nil when required
}

type FnLit struct {
	Meta
	Params []Param
	Body   []Stmt
}

type ListComp struct {
	Meta
	Expr  Expr
	Var   string
	Iter  Expr
	Guard Expr // nil when absent
}

func (*Int) exprNode()       {}
func (*Float) exprNode()     {}
func (*Bool) exprNode()      {}
func (*Null) exprNode()      {}
func (*String) exprNode()    {}
func (*Ident) exprNode()     {}
func (*ListLit) exprNode()   {}
func (*DictLit) exprNode()   {}
func (*Index) exprNode()     {}
func (*Slice) exprNode()     {}
func (*Field) exprNode()     {}
func (*SafeField) exprNode() {}
func (*Call) exprNode()      {}
func (*Pipe) exprNode()      {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Ternary) exprNode()   {}
func (*Range) exprNode()     {}
func (*FnLit) exprNode()     {}
func (*ListComp) exprNode()  {}

// ---- statements ----

type AssignOp int

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

type Let struct {
	Meta
	Name    string
	Type    string // annotation text, parsed but not checked (spec.md §4.3)
	Expr    Expr
	IsConst bool
}

// Assign targets an Ident, Index, or Field expression.
type Assign struct {
	Meta
	Target Expr
	Op     AssignOp
	Rhs    Expr
}

type ExprStmt struct {
	Meta
	Expr Expr
}

type IfBranch struct {
	Cond Expr
	Body []Stmt
}

type If struct {
	Meta
	Branches []IfBranch
	Else     []Stmt // nil when absent
}

type For struct {
	Meta
	Var  string
	Iter Expr
	Body []Stmt
}

type While struct {
	Meta
	Cond Expr
	Body []Stmt
}

type Parallel struct {
	Meta
	Var     string
	Iter    Expr
	Workers Expr // nil => default min(len(iter), ceiling)
	Body    []Stmt
}

type Break struct{ Meta }
type Continue struct{ Meta }

type Return struct {
	Meta
	Expr Expr // nil => null
}

type Yield struct {
	Meta
	Expr Expr
}

type Try struct {
	Meta
	Body        []Stmt
	CatchVar    string
	CatchBody   []Stmt
	FinallyBody []Stmt // nil when absent
}

type Stop struct {
	Meta
	Code Expr // nil => 0
}

type FnDecl struct {
	Meta
	Name   string
	Params []Param
	Body   []Stmt
}

type Method struct {
	Name   string
	Params []Param
	Body   []Stmt
}

type ClassDecl struct {
	Meta
	Name    string
	Fields  []string
	Methods []Method
}

// Import covers both `use <module>` (Names nil, Source is the module name)
// and `import a, b in <source>` (Names populated).
type Import struct {
	Meta
	Names  []string
	Source string
}

type Export struct {
	Meta
	Names []string
}

func (*Let) stmtNode()       {}
func (*Assign) stmtNode()    {}
func (*ExprStmt) stmtNode()  {}
func (*If) stmtNode()        {}
func (*For) stmtNode()       {}
func (*While) stmtNode()     {}
func (*Parallel) stmtNode()  {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode() {}
func (*Return) stmtNode()    {}
func (*Yield) stmtNode()     {}
func (*Try) stmtNode()       {}
func (*Stop) stmtNode()      {}
func (*FnDecl) stmtNode()    {}
func (*ClassDecl) stmtNode() {}
func (*Import) stmtNode()    {}
func (*Export) stmtNode()    {}

// Program is a parsed source file: its top-level statement sequence.
type Program struct {
	Stmts []Stmt
}
