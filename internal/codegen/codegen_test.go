// Package codegen white-box tests: these live in package codegen (not
// codegen_test) because they reach into Compiler's unexported context
// fields (currentFunction, currentType) the way the statement/expression
// lowering functions themselves do.
package codegen

import (
	"testing"

	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

// newTestCompiler returns a Compiler over an empty FakeProgram, ready for
// direct calls into its lowering methods.
func newTestCompiler() *Compiler {
	return New(program.NewFakeProgram(), Options{Target: types.WASM32})
}

// withFunction installs fn as currentFunction for the duration of body.
func (c *Compiler) withFunction(fn *program.Function, body func()) {
	saved := c.saveContext()
	c.currentFunction = fn
	body()
	c.restoreContext(saved)
}

func newTestFunction() *program.Function {
	return &program.Function{
		Base:       program.Base{InternalName: "f"},
		ReturnType: types.TypeI32,
	}
}
