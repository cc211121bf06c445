// Package program defines the external surface the code-generation core
// consumes: a parsed, partially resolved Program made of Sources,
// Elements, and an AST of Stmt/Expr nodes, plus the Resolver API the
// upstream parser/resolver implements. Everything here is a collaborator
// interface (spec.md §6) — concrete instances are built by the external
// front end (or, in tests, by hand).
package program

import "github.com/ascendlang/ascend/internal/types"

// Element is the tagged variant spec.md §3 describes: every declared or
// implicit name in a Program resolves to exactly one concrete Element
// kind. Rather than one struct with every field and a runtime-checked
// "kind" byte (the source's assertion-heavy style — see SPEC_FULL.md
// §9/DESIGN.md), this is modeled as a closed interface with a type
// switch at every narrowing site: a wrong-kind narrowing is a compile-time
// impossible case, and a wrong *assumption* about which concrete type an
// Element resolves to is an explicit, reportable failure instead of a
// panic on an invalid assertion.
type Element interface {
	// Name returns the element's hierarchical, path-delimited internal
	// name, e.g. "mymodule/MyClass#field".
	Name() string
	element()
}

// Base carries the fields common to every Element kind.
type Base struct {
	InternalName string
	Exported     bool
	Generic      bool
}

// Name implements Element.
func (b *Base) Name() string { return b.InternalName }

func (*Base) element() {}

// Global is a top-level `const`/`let` variable, or an enum member viewed
// through the generic Element surface.
type Global struct {
	Base
	Type         types.Type
	IsCompiled   bool
	IsImmutable  bool
	ConstValue   *ConstantValue // non-nil if the value is known at compile time
	Decl         *VariableDecl  // nil for synthesized globals (e.g. enum members)
	GlobalIndex  uint32         // valid once IsCompiled
}

// ConstantValue is a compile-time-known literal value attached to a Global
// or EnumMember.
type ConstantValue struct {
	Type  types.Type
	I64   int64   // integer kinds, sign-extended to 64 bits
	F64   float64 // float kinds
}

// Enum is a top-level `enum` declaration.
type Enum struct {
	Base
	Members    []*EnumMember
	IsCompiled bool
}

// EnumMember is one member of an Enum, exposed as its own Element so
// expression lowering can resolve `Color.Red` the same way it resolves
// any other Global-shaped name.
type EnumMember struct {
	Base
	Owner       *Enum
	ConstValue  *ConstantValue // nil if not a literal; must be lowered via previous+1 or an initializer
	Initializer Expr           // non-nil if the member has an explicit initializer expression
	IsCompiled  bool
	GlobalIndex uint32
}

// FunctionPrototype is an unresolved (possibly generic) function
// declaration. Calling ResolveInclTypeArguments against concrete type
// arguments yields a Function instance.
type FunctionPrototype struct {
	Base
	Decl        *FunctionDecl
	IsBuiltin   bool
	InstanceOf  *ClassPrototype // non-nil for methods
}

// ResolveInclTypeArguments resolves this prototype against typeArgs,
// returning an existing cached instance if one was already built for the
// same type arguments, or building and caching a new one.
func (p *FunctionPrototype) ResolveInclTypeArguments(resolver Resolver, typeArgs []types.Type, contextualArgs []types.Type, reportNode Node) (*Function, bool) {
	return resolver.ResolveFunctionInstance(p, typeArgs, contextualArgs, reportNode)
}

// Function is a concrete (possibly instantiated-from-generic) function.
type Function struct {
	Base
	Prototype        *FunctionPrototype
	TypeArguments    []types.Type
	Parameters       []*Parameter
	ReturnType       types.Type
	AdditionalLocals []Local
	IsInstance       bool
	InstanceMethodOf *Class
	GlobalExportName string // "" unless exported
	IsCompiled       bool
	IsImport         bool
	IsBuiltin        bool
	ImportModule     string
	ImportName       string
	FuncIndex        uint32 // valid once IsCompiled

	// Mutable compilation state, owned by the code-generation core while
	// this Function is the driver's currentFunction (spec.md §3/§4.2).
	breakStem int
	breakStack []int
}

// Parameter is a function parameter, addressable as a Local by ParamIndex.
type Parameter struct {
	Base
	Type       types.Type
	ParamIndex uint32
	Default    Expr // nil if the parameter has no default initializer
}

// Local is an additional local introduced during lowering (spec.md §3):
// a variable declaration inside a function body, or a compiler-synthesized
// temporary (e.g. for isNaN/isFinite's single-evaluation requirement).
// InternalName is "" for synthesized temporaries.
type Local struct {
	Base
	Index uint32
	Type  types.Type
}

// AddLocal allocates and returns a fresh Local of type t, monotonically
// indexed after the function's parameters and any previously-added
// locals.
func (f *Function) AddLocal(t types.Type, name string) Local {
	idx := uint32(len(f.Parameters)) + uint32(len(f.AdditionalLocals))
	l := Local{Base: Base{InternalName: name}, Index: idx, Type: t}
	f.AdditionalLocals = append(f.AdditionalLocals, l)
	return l
}

// FindLocal returns the local or parameter with the given name, if any.
func (f *Function) FindLocal(name string) (Local, bool) {
	for _, p := range f.Parameters {
		if p.InternalName == name {
			return Local{Base: Base{InternalName: name}, Index: p.ParamIndex, Type: p.Type}, true
		}
	}
	for _, l := range f.AdditionalLocals {
		if l.InternalName == name {
			return l, true
		}
	}
	return Local{}, false
}

// EnterBreakContext allocates and pushes a fresh label stem, returning it.
// Stems are monotonically increasing per function, matching spec.md
// §4.2's "stringified monotonically increasing counter per function".
func (f *Function) EnterBreakContext() int {
	stem := f.breakStem
	f.breakStem++
	f.breakStack = append(f.breakStack, stem)
	return stem
}

// LeaveBreakContext pops the innermost break context.
func (f *Function) LeaveBreakContext() {
	f.breakStack = f.breakStack[:len(f.breakStack)-1]
}

// CurrentBreakContext returns the innermost label stem and true, or
// (0, false) if no loop/switch currently encloses compilation.
func (f *Function) CurrentBreakContext() (int, bool) {
	if len(f.breakStack) == 0 {
		return 0, false
	}
	return f.breakStack[len(f.breakStack)-1], true
}

// ClassPrototype is an unresolved (possibly generic) class declaration.
type ClassPrototype struct {
	Base
	Decl *ClassDecl
}

// ResolveInclTypeArguments resolves this prototype against typeArgs.
func (p *ClassPrototype) ResolveInclTypeArguments(resolver Resolver, typeArgs []types.Type, contextualArgs []types.Type, reportNode Node) (*Class, bool) {
	return resolver.ResolveClassInstance(p, typeArgs, contextualArgs, reportNode)
}

// Class is a concrete (possibly instantiated) class. Layout and vtable
// emission are out of scope (spec.md §4.1 compileClass); this struct only
// carries enough to identify the class by reference type.
type Class struct {
	Base
	Prototype     *ClassPrototype
	TypeArguments []types.Type
	Fields        []*Field
	Methods       []*FunctionPrototype
	IsCompiled    bool
}

// Field is an instance field of a Class. Field access lowering is a
// design seam (spec.md §4.3); this type exists so Element's variant set
// matches spec.md exactly.
type Field struct {
	Base
	Owner  *Class
	Type   types.Type
	Offset uint32 // meaningful only once class layout is implemented
}

// Namespace is a top-level `namespace` declaration.
type Namespace struct {
	Base
	Members []Element
}
