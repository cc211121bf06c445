// Package ascend is the code-generation core of the Ascend compiler: it
// lowers a resolved Program (internal/program) into a WebAssembly module
// (internal/ir), the way wazero's root package wires wasm.Module
// compilation behind a small, cloneable configuration surface.
package ascend

import (
	"github.com/sirupsen/logrus"

	"github.com/ascendlang/ascend/internal/codegen"
	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

// CompilerConfig controls one compilation, with the default obtained from
// NewCompilerConfig. Each With* method returns a new value, the same
// clone-on-write shape wazero's own RuntimeConfig uses, so a shared base
// config can be specialized per compilation without aliasing surprises.
type CompilerConfig struct {
	target        types.Target
	noTreeShaking bool
	log           *logrus.Logger
}

var defaultConfig = &CompilerConfig{target: types.WASM32}

// NewCompilerConfig returns the default configuration: wasm32, tree
// shaking enabled, tracing disabled.
func NewCompilerConfig() *CompilerConfig {
	return defaultConfig.clone()
}

func (c *CompilerConfig) clone() *CompilerConfig {
	ret := *c
	return &ret
}

// WithTarget selects the pointer width "usize" resolves to.
func (c *CompilerConfig) WithTarget(target types.Target) *CompilerConfig {
	ret := c.clone()
	ret.target = target
	return ret
}

// WithNoTreeShaking compiles every top-level declaration in every entry
// source, rather than only what is reachable from an exported symbol.
func (c *CompilerConfig) WithNoTreeShaking() *CompilerConfig {
	ret := c.clone()
	ret.noTreeShaking = true
	return ret
}

// WithLog attaches a logger the compiler's internal tracing writes
// through. A nil logger (the default) disables tracing entirely.
func (c *CompilerConfig) WithLog(log *logrus.Logger) *CompilerConfig {
	ret := c.clone()
	ret.log = log
	return ret
}

// Result is what Compile returns.
type Result struct {
	// Module is always well-formed, even when Diagnostics.HasErrors() is
	// true: spec.md §7's "diagnostics are additive" rule means compilation
	// never aborts on the first error, so callers decide for themselves
	// whether a Module with errors is usable.
	Module      *ir.Module
	Diagnostics *diag.Sink
}

// Compile lowers every entry source in p to a WebAssembly module.
func Compile(p program.Program, config *CompilerConfig) *Result {
	if config == nil {
		config = NewCompilerConfig()
	}
	c := codegen.New(p, codegen.Options{
		Target:        config.target,
		NoTreeShaking: config.noTreeShaking,
		Log:           config.log,
	})
	module := c.Compile()
	return &Result{Module: module, Diagnostics: c.Diag}
}
