package codegen

import (
	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/layout"
	"github.com/ascendlang/ascend/internal/program"
)

const maxMemoryPages = 65536 // a fixed platform constant: the full 32-bit address space in 64KiB pages

// Compile is the declaration driver's entry point (spec.md §4.1).
func (c *Compiler) Compile() *ir.Module {
	c.Program.Initialize(c.Target)
	c.layout = layout.NewManager(c.Target, c.Builder)

	for _, src := range c.Program.Sources() {
		if src.IsEntry {
			c.compileSource(src)
		}
	}

	if len(c.startBody) > 0 {
		startType := &ir.FunctionType{}
		typeIdx := c.Builder.AddFunctionType(startType)
		body := c.Builder.CreateBlock("", c.startBody, nil)
		fnIdx := c.Builder.AddFunction(&ir.Function{TypeIndex: typeIdx, Body: body, Name: "~start"})
		c.Builder.SetStart(fnIdx)
	}

	initialPages := c.layout.Finalize()
	c.Builder.SetMemory(initialPages, maxMemoryPages)

	return c.Builder.Module
}

// startBody is mutable compiler state: appendStart records one top-level
// expression into the synthetic start function's body.
func (c *Compiler) appendStart(n ir.Node) {
	c.startBody = append(c.startBody, n)
}

// compileSource lowers one source's top-level statements. Idempotent on
// NormalizedPath (spec.md §3 "files: set of already-compiled source
// paths").
func (c *Compiler) compileSource(src *program.Source) {
	if c.files[src.NormalizedPath] {
		return
	}
	c.files[src.NormalizedPath] = true
	c.log.WithField("source", src.NormalizedPath).Debug("compiling source")

	for _, stmt := range src.Statements {
		c.compileTopLevelStmt(src, stmt)
	}
}

func (c *Compiler) compileTopLevelStmt(src *program.Source, stmt program.Stmt) {
	switch s := stmt.(type) {
	case *program.FunctionDecl:
		c.compileTopLevelFunction(src, s)
	case *program.ClassDecl:
		c.compileTopLevelClass(src, s)
	case *program.EnumDecl:
		if c.shouldCompileDecl(src, s.Exported) {
			c.compileEnumDecl(s)
		}
	case *program.NamespaceDecl:
		if c.shouldCompileDecl(src, s.Exported) {
			c.compileNamespaceDecl(s)
		}
	case *program.VariableStmt:
		if c.shouldCompileDecl(src, false) || c.anyExported(s) {
			c.compileTopLevelVariableStmt(s)
		}
	case *program.ImportStmt:
		if imported, ok := c.Program.Source(s.FromPath); ok {
			c.compileSource(imported)
		} else {
			c.Diag.Report(diag.KindLookup, src.NormalizedPath, "import target %q not found", s.FromPath)
		}
	case *program.ExportStmt:
		c.compileExportStmt(src, s)
	default:
		// Any other statement lowers into the start function's body,
		// with currentFunction routed to the synthetic start function
		// (spec.md §4.1 step "Any other statement").
		saved := c.saveContext()
		c.currentFunction = c.startFunction
		n := c.compileStmt(stmt)
		c.appendStart(n)
		c.restoreContext(saved)
	}
}

// shouldCompileDecl implements the tree-shaking policy shared by
// class/function/enum/namespace/variable declarations (spec.md §4.1).
func (c *Compiler) shouldCompileDecl(src *program.Source, exported bool) bool {
	return c.noTreeShaking || (src.IsEntry && exported)
}

func (c *Compiler) anyExported(s *program.VariableStmt) bool {
	// VariableStmt itself carries no export flag in this surface grammar;
	// exported globals arrive via ExportStmt naming them. Top-level
	// non-exported variable statements are only compiled under
	// no-tree-shaking.
	return false
}

func (c *Compiler) compileTopLevelFunction(src *program.Source, decl *program.FunctionDecl) {
	proto, ok := c.lookupPrototype(decl.Name)
	if !ok {
		return
	}
	if decl.IsGeneric {
		return // generic prototypes compile only on instantiation
	}
	if !c.shouldCompileDecl(src, decl.Exported) {
		return
	}
	fn, ok := proto.ResolveInclTypeArguments(c.Program, nil, nil, decl)
	if !ok {
		diag.Fatal("resolver promised function %q but could not resolve it", decl.Name)
	}
	c.compileFunction(fn)
}

func (c *Compiler) compileTopLevelClass(src *program.Source, decl *program.ClassDecl) {
	proto, ok := c.lookupClassPrototype(decl.Name)
	if !ok {
		return
	}
	if decl.IsGeneric || !c.shouldCompileDecl(src, decl.Exported) {
		return
	}
	class, ok := proto.ResolveInclTypeArguments(c.Program, nil, nil, decl)
	if !ok {
		diag.Fatal("resolver promised class %q but could not resolve it", decl.Name)
	}
	c.compileClass(class)
}

func (c *Compiler) lookupPrototype(name string) (*program.FunctionPrototype, bool) {
	el, ok := c.Program.Element(name)
	if !ok {
		return nil, false
	}
	proto, ok := el.(*program.FunctionPrototype)
	return proto, ok
}

func (c *Compiler) lookupClassPrototype(name string) (*program.ClassPrototype, bool) {
	el, ok := c.Program.Element(name)
	if !ok {
		return nil, false
	}
	proto, ok := el.(*program.ClassPrototype)
	return proto, ok
}

func (c *Compiler) compileTopLevelVariableStmt(s *program.VariableStmt) {
	for _, d := range s.Declarators {
		el, ok := c.Program.Element(d.Name)
		if !ok {
			continue
		}
		g, ok := el.(*program.Global)
		if !ok {
			continue
		}
		c.compileGlobal(g)
	}
}

func (c *Compiler) compileExportStmt(src *program.Source, s *program.ExportStmt) {
	if s.ForeignPath != "" {
		if foreign, ok := c.Program.Source(s.ForeignPath); ok {
			c.compileSource(foreign)
		} else {
			c.Diag.Report(diag.KindLookup, src.NormalizedPath, "re-exported path %q not found", s.ForeignPath)
			return
		}
	}
	for _, name := range s.Names {
		el, ok := c.Program.Element(name.InternalName)
		if !ok {
			c.Diag.Report(diag.KindLookup, src.NormalizedPath, "exported name %q not found", name.InternalName)
			continue
		}
		c.materializeExport(el, name.ExportedName)
	}
}

// materializeExport compiles el (if it is not already) and records it
// under exportedName.
func (c *Compiler) materializeExport(el program.Element, exportedName string) {
	switch e := el.(type) {
	case *program.Global:
		c.compileGlobal(e)
		c.Builder.AddExport(ir.Export{Name: exportedName, Kind: ir.ExportGlobal, Index: e.GlobalIndex})
	case *program.Enum:
		c.compileEnumDecl(enumDeclFromElement(e))
	case *program.FunctionPrototype:
		if e.Generic {
			return
		}
		fn, ok := e.ResolveInclTypeArguments(c.Program, nil, nil, nil)
		if !ok {
			diag.Fatal("resolver promised function %q but could not resolve it", e.InternalName)
			return
		}
		fn.GlobalExportName = exportedName
		c.compileFunction(fn)
	case *program.Function:
		e.GlobalExportName = exportedName
		c.compileFunction(e)
	case *program.ClassPrototype:
		if class, ok := e.ResolveInclTypeArguments(c.Program, nil, nil, nil); ok {
			c.compileClass(class)
		}
	case *program.Namespace:
		c.compileNamespaceFromElement(e)
	default:
		c.Diag.Report(diag.KindUnsupported, "", "cannot export element kind for %q", exportedName)
	}
}

// enumDeclFromElement is a thin shim so an already-resolved *program.Enum
// Element (reached via an export, rather than a first-visit EnumDecl) can
// still flow through compileEnumDecl's declaration-order member loop. In
// this codebase an Enum Element and its originating EnumDecl always carry
// the same member list; real front ends keep a Decl back-reference on the
// Element instead of reconstructing one here.
func enumDeclFromElement(e *program.Enum) *program.EnumDecl {
	members := make([]program.EnumMemberDecl, 0, len(e.Members))
	for _, m := range e.Members {
		members = append(members, program.EnumMemberDecl{Name: m.InternalName, Initializer: m.Initializer})
	}
	return &program.EnumDecl{Name: e.InternalName, Members: members, Exported: e.Exported}
}

func (c *Compiler) compileNamespaceFromElement(ns *program.Namespace) {
	for _, member := range ns.Members {
		c.materializeExport(member, member.Name())
	}
}
