package main

import (
	"sort"

	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

// targetWasm64 exists only so main.go does not need to import
// internal/types for a single constant reference.
func targetWasm64() types.Target { return types.WASM64 }

// builtinFixtures maps a fixture name to a builder function. There is no
// parser in this repo (spec.md explicitly scopes one out), so these are
// the only programs the CLI can ever compile; they exist to give the
// driver binary something to exercise end to end.
var builtinFixtures = map[string]func() program.Program{
	"add":     addFixture,
	"counter": counterFixture,
}

func fixtureNames() []string {
	names := make([]string, 0, len(builtinFixtures))
	for name := range builtinFixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func fixture(name string) (program.Program, bool) {
	build, ok := builtinFixtures[name]
	if !ok {
		return nil, false
	}
	return build(), true
}

// addFixture is `export function add(a: i32, b: i32): i32 { return a + b; }`.
func addFixture() program.Program {
	decl := &program.FunctionDecl{
		Name: "add",
		Params: []program.ParamNode{
			{Name: "a", Type: program.TypeNode{Name: "i32"}},
			{Name: "b", Type: program.TypeNode{Name: "i32"}},
		},
		ReturnType: program.TypeNode{Name: "i32"},
		Body: []program.Stmt{
			&program.ReturnStmt{Value: &program.BinaryExpr{
				Op:    program.OpAdd,
				Left:  &program.IdentifierExpr{Name: "a"},
				Right: &program.IdentifierExpr{Name: "b"},
			}},
		},
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

	p := program.NewFakeProgram()
	p.ResolveFunctionInstanceFunc = func(*program.FunctionPrototype, []types.Type) (*program.Function, bool) {
		return fn, true
	}
	p.AddElement(proto)
	p.AddSource(&program.Source{NormalizedPath: "add.ts", IsEntry: true, Statements: []program.Stmt{decl}})
	return p
}

// counterFixture is:
//
//	let value: i32 = 0;
//	export function increment(): i32 { return value += 1; }
func counterFixture() program.Program {
	global := &program.Global{
		Base: program.Base{InternalName: "value"},
		Type: types.TypeI32,
		Decl: &program.VariableDecl{Name: "value", Type: &program.TypeNode{Name: "i32"}, Initializer: &program.IntegerLiteralExpr{Value: 0}},
	}

	decl := &program.FunctionDecl{
		Name:       "increment",
		ReturnType: program.TypeNode{Name: "i32"},
		Body: []program.Stmt{
			&program.ReturnStmt{Value: &program.CompoundAssignExpr{
				Op:     program.OpAdd,
				Target: &program.IdentifierExpr{Name: "value"},
				Value:  &program.IntegerLiteralExpr{Value: 1},
			}},
		},
		Exported: true,
	}
	proto := &program.FunctionPrototype{Base: program.Base{InternalName: "increment", Exported: true}, Decl: decl}
	fn := &program.Function{
		Base:             program.Base{InternalName: "increment", Exported: true},
		Prototype:        proto,
		ReturnType:       types.TypeI32,
		GlobalExportName: "increment",
	}

	p := program.NewFakeProgram()
	p.ResolveFunctionInstanceFunc = func(*program.FunctionPrototype, []types.Type) (*program.Function, bool) {
		return fn, true
	}
	p.AddElement(proto)
	p.AddElement(global)
	p.AddSource(&program.Source{
		NormalizedPath: "counter.ts",
		IsEntry:        true,
		Statements: []program.Stmt{
			&program.VariableStmt{Declarators: []program.VariableDeclarator{{Name: "value", Initializer: global.Decl.Initializer}}},
			decl,
		},
	})
	return p
}
