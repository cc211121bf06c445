package program

import (
	"github.com/ascendlang/ascend/internal/types"
)

// FakeProgram is a hand-built Program used by this module's own tests,
// the way the teacher's runtime_test.go hand-builds a *wasm.Module fixture
// rather than driving a full text-format parser: the real front end is
// out of scope, so tests construct just enough Program to exercise the
// core.
type FakeProgram struct {
	sources  []*Source
	byPath   map[string]*Source
	elements map[string]Element
	exports  map[string]map[string]string
	target   types.Target

	// ResolveFunctionInstanceFunc/ResolveClassInstanceFunc let tests stub
	// generic instantiation without building a full resolver.
	ResolveFunctionInstanceFunc func(proto *FunctionPrototype, typeArgs []types.Type) (*Function, bool)
	ResolveClassInstanceFunc    func(proto *ClassPrototype, typeArgs []types.Type) (*Class, bool)
}

// NewFakeProgram returns an empty FakeProgram.
func NewFakeProgram() *FakeProgram {
	return &FakeProgram{
		byPath:   make(map[string]*Source),
		elements: make(map[string]Element),
		exports:  make(map[string]map[string]string),
	}
}

// AddSource registers src and returns it.
func (p *FakeProgram) AddSource(src *Source) *Source {
	p.sources = append(p.sources, src)
	p.byPath[src.NormalizedPath] = src
	return src
}

// AddElement registers el under its internal name.
func (p *FakeProgram) AddElement(el Element) {
	p.elements[el.Name()] = el
}

// AddExport registers sourcePath's exportedName as an alias for
// internalName.
func (p *FakeProgram) AddExport(sourcePath, exportedName, internalName string) {
	m := p.exports[sourcePath]
	if m == nil {
		m = make(map[string]string)
		p.exports[sourcePath] = m
	}
	m[exportedName] = internalName
}

func (p *FakeProgram) Sources() []*Source { return p.sources }

func (p *FakeProgram) Source(normalizedPath string) (*Source, bool) {
	s, ok := p.byPath[normalizedPath]
	return s, ok
}

func (p *FakeProgram) Element(internalName string) (Element, bool) {
	e, ok := p.elements[internalName]
	return e, ok
}

func (p *FakeProgram) NamedExports(sourcePath string) map[string]string {
	return p.exports[sourcePath]
}

func (p *FakeProgram) Initialize(target types.Target) { p.target = target }

// ResolveType maps primitive type names directly, and otherwise looks for
// a matching ClassPrototype/Class element.
func (p *FakeProgram) ResolveType(node TypeNode, contextualArgs []types.Type, reportErrors bool) (types.Type, bool) {
	switch node.Name {
	case "void":
		return types.TypeVoid, true
	case "bool":
		return types.TypeBool, true
	case "i8":
		return types.TypeI8, true
	case "i16":
		return types.TypeI16, true
	case "i32":
		return types.TypeI32, true
	case "i64":
		return types.TypeI64, true
	case "u8":
		return types.TypeU8, true
	case "u16":
		return types.TypeU16, true
	case "u32":
		return types.TypeU32, true
	case "u64":
		return types.TypeU64, true
	case "f32":
		return types.TypeF32, true
	case "f64":
		return types.TypeF64, true
	case "usize":
		return types.Usize_(p.target), true
	}
	if el, ok := p.elements[node.Name]; ok {
		switch el.(type) {
		case *ClassPrototype, *Class:
			return types.ClassRef(node.Name), true
		}
	}
	return types.Type{}, false
}

// ResolveElement resolves an IdentifierExpr or PropertyAccessExpr against
// currentFunction's locals/parameters first, then the global element
// table by simple name (fixtures register elements by their surface
// name, not a hierarchical path, for brevity).
func (p *FakeProgram) ResolveElement(expr Expr, currentFunction *Function) (Element, bool) {
	name, ok := simpleName(expr)
	if !ok {
		return nil, false
	}
	if currentFunction != nil {
		if l, ok := currentFunction.FindLocal(name); ok {
			local := l
			return &local, true
		}
	}
	el, ok := p.elements[name]
	return el, ok
}

func simpleName(expr Expr) (string, bool) {
	switch e := expr.(type) {
	case *IdentifierExpr:
		return e.Name, true
	case *PropertyAccessExpr:
		base, ok := simpleName(e.Target)
		if !ok {
			return "", false
		}
		return base + "." + e.Name, true
	default:
		return "", false
	}
}

func (p *FakeProgram) ResolveFunctionInstance(proto *FunctionPrototype, typeArgs []types.Type, contextualArgs []types.Type, reportNode Node) (*Function, bool) {
	if p.ResolveFunctionInstanceFunc != nil {
		return p.ResolveFunctionInstanceFunc(proto, typeArgs)
	}
	if proto.Generic {
		return nil, false
	}
	// Non-generic prototypes resolve to the single Function element
	// registered under the same internal name.
	if el, ok := p.elements[proto.InternalName]; ok {
		if fn, ok := el.(*Function); ok {
			return fn, true
		}
	}
	return nil, false
}

func (p *FakeProgram) ResolveClassInstance(proto *ClassPrototype, typeArgs []types.Type, contextualArgs []types.Type, reportNode Node) (*Class, bool) {
	if p.ResolveClassInstanceFunc != nil {
		return p.ResolveClassInstanceFunc(proto, typeArgs)
	}
	if el, ok := p.elements[proto.InternalName]; ok {
		if c, ok := el.(*Class); ok {
			return c, true
		}
	}
	return nil, false
}

