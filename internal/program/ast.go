package program

// Node is the common supertype of every syntax node the resolver needs a
// source position for when reporting diagnostics. Real front ends attach
// line/column info; this core only requires enough to pass through to
// Resolver calls untouched.
type Node interface {
	node()
}

// Stmt is the tagged variant of every statement form spec.md §4.2 lowers.
type Stmt interface {
	Node
	stmt()
}

// Expr is the tagged variant of every expression form spec.md §4.3 lowers.
type Expr interface {
	Node
	expr()
}

type base struct{}

func (base) node() {}

type stmtBase struct{ base }

func (stmtBase) stmt() {}

type exprBase struct{ base }

func (exprBase) expr() {}

// --- Statements ---

// BlockStmt is `{ members... }`.
type BlockStmt struct {
	stmtBase
	Members []Stmt
}

// IfStmt is `if (cond) then [else alt]`.
type IfStmt struct {
	stmtBase
	Cond      Expr
	Then      Stmt
	Else      Stmt // nil if absent
}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

// DoWhileStmt is `do body while (cond)`.
type DoWhileStmt struct {
	stmtBase
	Body Stmt
	Cond Expr
}

// ForStmt is `for (init; cond; inc) body`; any of Init/Cond/Inc may be nil.
type ForStmt struct {
	stmtBase
	Init Stmt
	Cond Expr
	Inc  Stmt
	Body Stmt
}

// SwitchCase is one `case label: body...` or, when IsDefault, `default:`.
type SwitchCase struct {
	IsDefault bool
	Label     Expr // nil if IsDefault
	Body      []Stmt
}

// SwitchStmt is `switch (tag) { cases... }`.
type SwitchStmt struct {
	stmtBase
	Tag   Expr
	Cases []SwitchCase
}

// BreakStmt is `break`.
type BreakStmt struct{ stmtBase }

// ContinueStmt is `continue`.
type ContinueStmt struct{ stmtBase }

// ReturnStmt is `return [value]`.
type ReturnStmt struct {
	stmtBase
	Value Expr // nil if bare `return`
}

// ThrowStmt is `throw value`.
type ThrowStmt struct {
	stmtBase
	Value Expr
}

// TryStmt is `try body catch/finally`; not implemented (spec.md §4.2).
type TryStmt struct {
	stmtBase
	Body Stmt
}

// VariableDeclarator is one `name[: type] [= initializer]` inside a
// VariableStmt.
type VariableDeclarator struct {
	Name        string
	Type        *TypeNode // nil if not explicitly annotated
	Initializer Expr      // nil if absent
}

// VariableStmt is `const|let declarators...`.
type VariableStmt struct {
	stmtBase
	IsConst     bool
	Declarators []VariableDeclarator
}

// VariableDecl is the top-level declaration form of VariableStmt used for
// a single Global (spec.md's compileGlobal operates on one declarator at
// a time).
type VariableDecl struct {
	Name        string
	Type        *TypeNode
	Initializer Expr
	IsConst     bool
}

// ExpressionStmt is a bare expression used for its side effects.
type ExpressionStmt struct {
	stmtBase
	Value Expr
}

// EmptyStmt is `;`.
type EmptyStmt struct{ stmtBase }

// FunctionDecl is a `function` declaration (possibly generic).
type FunctionDecl struct {
	stmtBase
	Name       string
	Params     []ParamNode
	ReturnType TypeNode
	Body       []Stmt // nil if no body (e.g. ambient/import declaration)
	IsGeneric  bool
	Exported   bool
	IsImport   bool
	ImportModule, ImportName string
}

// ParamNode is one parameter of a FunctionDecl.
type ParamNode struct {
	Name string
	Type TypeNode
	Default Expr // nil if the parameter has no default
}

// ClassDecl is a `class` declaration (possibly generic); body compilation
// is a design seam (spec.md §4.1).
type ClassDecl struct {
	stmtBase
	Name      string
	IsGeneric bool
	Exported  bool
}

// EnumMemberDecl is one member of an EnumDecl.
type EnumMemberDecl struct {
	Name        string
	Initializer Expr // nil if implicit (previous+1, or 0 for the first member)
}

// EnumDecl is an `enum` declaration.
type EnumDecl struct {
	stmtBase
	Name     string
	Members  []EnumMemberDecl
	Exported bool
}

// NamespaceDecl is a `namespace` declaration.
type NamespaceDecl struct {
	stmtBase
	Name     string
	Members  []Stmt
	Exported bool
}

// ImportStmt is `import ... from "path"`.
type ImportStmt struct {
	stmtBase
	FromPath string
}

// ExportStmt is `export { ... } [from "path"]`.
type ExportStmt struct {
	stmtBase
	ForeignPath string // "" unless this re-exports another source
	Names       []ExportedName
}

// ExportedName is one `internalName as exportedName` pair.
type ExportedName struct {
	InternalName string
	ExportedName string
}

// --- Expressions ---

// BinaryOp enumerates the operators compileExpression's binary-operand
// path dispatches on.
type BinaryOp byte

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShrArith // >>
	OpShrLogical // >>>
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	exprBase
	Op          BinaryOp
	Left, Right Expr
}

// CompoundAssignExpr is a `+=`-shaped assignment, carrying its underlying
// binary operator.
type CompoundAssignExpr struct {
	exprBase
	Op     BinaryOp
	Target Expr
	Value  Expr
}

// AssignExpr is `target = value`.
type AssignExpr struct {
	exprBase
	Target Expr
	Value  Expr
}

// UnaryPrefixOp enumerates prefix unary operators.
type UnaryPrefixOp byte

const (
	PrefixPlus UnaryPrefixOp = iota
	PrefixMinus
	PrefixIncrement
	PrefixDecrement
	PrefixNot
	PrefixBitNot
)

// UnaryPrefixExpr is `op operand`.
type UnaryPrefixExpr struct {
	exprBase
	Op      UnaryPrefixOp
	Operand Expr
}

// UnaryPostfixOp enumerates postfix unary operators.
type UnaryPostfixOp byte

const (
	PostfixIncrement UnaryPostfixOp = iota
	PostfixDecrement
)

// UnaryPostfixExpr is `operand op`.
type UnaryPostfixExpr struct {
	exprBase
	Op      UnaryPostfixOp
	Operand Expr
}

// TernaryExpr is `cond ? then : alt`.
type TernaryExpr struct {
	exprBase
	Cond, Then, Else Expr
}

// CallExpr is `callee(args...)<typeArgs>`.
type CallExpr struct {
	exprBase
	Callee    Expr
	TypeArgs  []TypeNode
	Args      []Expr
}

// IdentifierExpr is a bare name reference, or one of the special tokens
// spec.md §4.3 calls out (null/true/false/this/NaN/Infinity).
type IdentifierExpr struct {
	exprBase
	Name string
}

// IntegerLiteralExpr is an integer literal, produced by the parser as a
// 64-bit value per spec.md §4.3.
type IntegerLiteralExpr struct {
	exprBase
	Value int64
}

// FloatLiteralExpr is a floating-point literal.
type FloatLiteralExpr struct {
	exprBase
	Value float64
}

// ParenExpr is `(inner)`.
type ParenExpr struct {
	exprBase
	Inner Expr
}

// NewExpr, ElementAccessExpr, PropertyAccessExpr, ArrayLiteralExpr,
// ObjectLiteralExpr, StringLiteralExpr are design seams (spec.md §4.3):
// modeled so the core's type switches are exhaustive, but lowering always
// reports Unsupported and emits unreachable.
type NewExpr struct {
	exprBase
	ClassName string
	Args      []Expr
}

type ElementAccessExpr struct {
	exprBase
	Target, Index Expr
}

type PropertyAccessExpr struct {
	exprBase
	Target Expr
	Name   string
}

type ArrayLiteralExpr struct {
	exprBase
	Elements []Expr
}

type ObjectLiteralExpr struct {
	exprBase
	Fields map[string]Expr
}

type StringLiteralExpr struct {
	exprBase
	Value string
}

// TypeNode is the parsed (not yet resolved) form of a type annotation;
// Program.ResolveType turns it into a types.Type.
type TypeNode struct {
	Name          string // "i32", "MyClass", etc.
	TypeArguments []TypeNode
}
