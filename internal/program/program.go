package program

import "github.com/ascendlang/ascend/internal/types"

// Source is one parsed file, with its top-level statements in declaration
// order.
type Source struct {
	NormalizedPath string
	IsEntry        bool
	Statements     []Stmt
}

// Program is the read-only (from this core's point of view) view of
// parsed declarations, resolved symbols, and the resolver API spec.md §6
// specifies. A real front end backs this with a full symbol table; tests
// in this module back it with FakeProgram (internal/program/fake.go).
type Program interface {
	// Sources returns every parsed source, in load order.
	Sources() []*Source

	// Source looks up a source by its normalized path.
	Source(normalizedPath string) (*Source, bool)

	// Element looks up an already-resolved Element by internal name.
	Element(internalName string) (Element, bool)

	// NamedExports returns the exported-name -> internal-name table for
	// one source.
	NamedExports(sourcePath string) map[string]string

	Resolver
}

// Resolver is the subset of Program's API that is really about resolving
// types and expressions against the symbol table, split out because it is
// also the seam internal/codegen depends on directly in tests that don't
// need a full Program.
type Resolver interface {
	// Initialize populates the element table with intrinsics for the
	// selected pointer width. Must be called once before compiling.
	Initialize(target types.Target)

	// ResolveType resolves a parsed type annotation to a concrete Type.
	// contextualArgs supplies the enclosing generic instantiation's type
	// arguments, used when node references a type parameter.
	ResolveType(node TypeNode, contextualArgs []types.Type, reportErrors bool) (types.Type, bool)

	// ResolveElement resolves expr (an identifier, call callee, or access
	// expression) to the Element it names, in the scope of
	// currentFunction (nil at the top level).
	ResolveElement(expr Expr, currentFunction *Function) (Element, bool)

	// ResolveFunctionInstance resolves proto against concrete typeArgs,
	// returning a cached instance if one already exists.
	ResolveFunctionInstance(proto *FunctionPrototype, typeArgs []types.Type, contextualArgs []types.Type, reportNode Node) (*Function, bool)

	// ResolveClassInstance resolves proto against concrete typeArgs.
	ResolveClassInstance(proto *ClassPrototype, typeArgs []types.Type, contextualArgs []types.Type, reportNode Node) (*Class, bool)
}
