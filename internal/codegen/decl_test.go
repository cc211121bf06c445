package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

func addDecl() (*program.FunctionDecl, *program.FunctionPrototype, *program.Function) {
	decl := &program.FunctionDecl{
		Name: "add",
		Body: []program.Stmt{&program.ReturnStmt{Value: &program.BinaryExpr{
			Op:    program.OpAdd,
			Left:  &program.IdentifierExpr{Name: "a"},
			Right: &program.IdentifierExpr{Name: "b"},
		}}},
		Exported: true,
	}
	proto := &program.FunctionPrototype{Base: program.Base{InternalName: "add", Exported: true}, Decl: decl}
	fn := &program.Function{
		Base:      program.Base{InternalName: "add", Exported: true},
		Prototype: proto,
		Parameters: []*program.Parameter{
			{Base: program.Base{InternalName: "a"}, Type: types.TypeI32, ParamIndex: 0},
			{Base: program.Base{InternalName: "b"}, Type: types.TypeI32, ParamIndex: 1},
		},
		ReturnType:       types.TypeI32,
		GlobalExportName: "add",
	}
	return decl, proto, fn
}

func TestCompile_EntrySourceExportedFunction(t *testing.T) {
	decl, proto, fn := addDecl()
	p := program.NewFakeProgram()
	p.ResolveFunctionInstanceFunc = func(*program.FunctionPrototype, []types.Type) (*program.Function, bool) { return fn, true }
	p.AddElement(proto)
	p.AddSource(&program.Source{NormalizedPath: "main.ts", IsEntry: true, Statements: []program.Stmt{decl}})

	c := New(p, Options{Target: types.WASM32})
	module := c.Compile()

	require.False(t, c.Diag.HasErrors())
	require.Len(t, module.Functions, 1)
	require.Len(t, module.Exports, 1)
	require.NotNil(t, module.Memory)
}

func TestCompile_NonEntrySourceNeverCompiled(t *testing.T) {
	decl, proto, fn := addDecl()
	p := program.NewFakeProgram()
	p.ResolveFunctionInstanceFunc = func(*program.FunctionPrototype, []types.Type) (*program.Function, bool) { return fn, true }
	p.AddElement(proto)
	p.AddSource(&program.Source{NormalizedPath: "lib.ts", IsEntry: false, Statements: []program.Stmt{decl}})

	c := New(p, Options{Target: types.WASM32})
	module := c.Compile()

	require.False(t, fn.IsCompiled)
	require.Empty(t, module.Functions)
}

func TestCompile_NonExportedTopLevelFunctionTreeShakenOut(t *testing.T) {
	decl := &program.FunctionDecl{Name: "helper", Body: []program.Stmt{}}
	proto := &program.FunctionPrototype{Base: program.Base{InternalName: "helper"}, Decl: decl}
	fn := &program.Function{Base: program.Base{InternalName: "helper"}, Prototype: proto, ReturnType: types.TypeVoid}

	p := program.NewFakeProgram()
	p.ResolveFunctionInstanceFunc = func(*program.FunctionPrototype, []types.Type) (*program.Function, bool) { return fn, true }
	p.AddElement(proto)
	p.AddSource(&program.Source{NormalizedPath: "main.ts", IsEntry: true, Statements: []program.Stmt{decl}})

	c := New(p, Options{Target: types.WASM32})
	c.Compile()

	require.False(t, fn.IsCompiled)
}

func TestCompile_NoTreeShakingCompilesEveryDeclaration(t *testing.T) {
	decl := &program.FunctionDecl{Name: "helper", Body: []program.Stmt{}}
	proto := &program.FunctionPrototype{Base: program.Base{InternalName: "helper"}, Decl: decl}
	fn := &program.Function{Base: program.Base{InternalName: "helper"}, Prototype: proto, ReturnType: types.TypeVoid}

	p := program.NewFakeProgram()
	p.ResolveFunctionInstanceFunc = func(*program.FunctionPrototype, []types.Type) (*program.Function, bool) { return fn, true }
	p.AddElement(proto)
	p.AddSource(&program.Source{NormalizedPath: "main.ts", IsEntry: true, Statements: []program.Stmt{decl}})

	c := New(p, Options{Target: types.WASM32, NoTreeShaking: true})
	c.Compile()

	require.True(t, fn.IsCompiled)
}

func TestCompileSource_IsIdempotentOnNormalizedPath(t *testing.T) {
	c := newTestCompiler()
	src := &program.Source{NormalizedPath: "a.ts", Statements: nil}
	c.compileSource(src)
	require.True(t, c.files["a.ts"])
	c.compileSource(src) // must not panic or double-process
}

func TestCompileTopLevelStmt_ImportMissingTargetReportsLookup(t *testing.T) {
	c := newTestCompiler()
	src := &program.Source{NormalizedPath: "main.ts", IsEntry: true}
	c.compileTopLevelStmt(src, &program.ImportStmt{FromPath: "missing.ts"})
	require.Equal(t, diag.KindLookup, c.Diag.Diagnostics()[0].Kind)
}

func TestCompileTopLevelStmt_ImportFoundRecursivelyCompilesSource(t *testing.T) {
	decl, proto, fn := addDecl()
	p := program.NewFakeProgram()
	p.ResolveFunctionInstanceFunc = func(*program.FunctionPrototype, []types.Type) (*program.Function, bool) { return fn, true }
	p.AddElement(proto)
	imported := p.AddSource(&program.Source{NormalizedPath: "lib.ts", IsEntry: true, Statements: []program.Stmt{decl}})
	_ = imported

	c := New(p, Options{Target: types.WASM32})
	src := &program.Source{NormalizedPath: "main.ts", IsEntry: true}
	c.compileTopLevelStmt(src, &program.ImportStmt{FromPath: "lib.ts"})

	require.True(t, fn.IsCompiled)
}

func TestCompileTopLevelStmt_OtherStatementRoutesToStartFunction(t *testing.T) {
	c := newTestCompiler()
	src := &program.Source{NormalizedPath: "main.ts", IsEntry: true}
	c.compileTopLevelStmt(src, &program.ExpressionStmt{Value: &program.IntegerLiteralExpr{Value: 1}})
	require.Len(t, c.startBody, 1)
	require.Nil(t, c.currentFunction, "context must be restored after routing into the start function")
}

func TestMaterializeExport_Global(t *testing.T) {
	c := newTestCompiler()
	g := &program.Global{Base: program.Base{InternalName: "g"}, Type: types.TypeI32, ConstValue: &program.ConstantValue{Type: types.TypeI32, I64: 1}}
	c.materializeExport(g, "exportedG")
	require.True(t, g.IsCompiled)
	require.Len(t, c.Builder.Module.Exports, 1)
	require.Equal(t, "exportedG", c.Builder.Module.Exports[0].Name)
	require.Equal(t, ir.ExportGlobal, c.Builder.Module.Exports[0].Kind)
}

func TestMaterializeExport_UnknownElementKindReportsUnsupported(t *testing.T) {
	c := newTestCompiler()
	c.materializeExport(&program.Local{}, "x")
	require.Equal(t, diag.KindUnsupported, c.Diag.Diagnostics()[0].Kind)
}

func TestEnumDeclFromElement_PreservesMemberOrderAndInitializers(t *testing.T) {
	enum := &program.Enum{Base: program.Base{InternalName: "E"}, Members: []*program.EnumMember{
		{Base: program.Base{InternalName: "A"}, Initializer: &program.IntegerLiteralExpr{Value: 5}},
		{Base: program.Base{InternalName: "B"}},
	}}
	decl := enumDeclFromElement(enum)
	require.Equal(t, "E", decl.Name)
	require.Len(t, decl.Members, 2)
	require.Equal(t, "A", decl.Members[0].Name)
	require.NotNil(t, decl.Members[0].Initializer)
	require.Nil(t, decl.Members[1].Initializer)
}
