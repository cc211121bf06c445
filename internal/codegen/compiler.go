// Package codegen is the declaration-driven compilation pipeline,
// statement lowering, and expression lowering core described by
// spec.md §4. It is the only package that mutates the shared compilation
// state (spec.md §3's "Compiler state").
package codegen

import (
	"github.com/sirupsen/logrus"

	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/layout"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

// Options configures one compilation (spec.md §6).
type Options struct {
	Target        types.Target
	NoEmit        bool
	NoTreeShaking bool
	Log           *logrus.Logger // nil uses a disabled logger
}

// Compiler holds every piece of mutable state a single compilation
// touches: the backend builder, the diagnostic sink, the memory layout
// manager, and the currentFunction/currentType/disallowContinue triple
// spec.md §3 calls the compilation context. One Compiler compiles exactly
// one Program; it is not reusable.
type Compiler struct {
	Program program.Program
	Builder *ir.Builder
	Diag    *diag.Sink
	Target  types.Target

	noTreeShaking bool
	log           *logrus.Logger

	startFunction *program.Function
	startBody     []ir.Node
	layout        *layout.Manager
	files         map[string]bool

	// compilation context, saved/restored across recursion into a
	// different function (spec.md §5 / §9).
	currentFunction  *program.Function
	currentType      types.Type
	disallowContinue bool
}

// New returns a Compiler ready to run Compile.
func New(p program.Program, opts Options) *Compiler {
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel) // disabled by default; callers opt in
	}
	builder := ir.NewBuilder()
	builder.NoEmit = opts.NoEmit
	c := &Compiler{
		Program:       p,
		Builder:       builder,
		Diag:          diag.NewSink(),
		Target:        opts.Target,
		noTreeShaking: opts.NoTreeShaking,
		log:           log,
		files:         make(map[string]bool),
	}
	c.startFunction = &program.Function{
		Base:       program.Base{InternalName: "~start"},
		ReturnType: types.TypeVoid,
	}
	return c
}

// saveContext/restoreContext implement the "save on the stack, restore on
// return" rule spec.md §9 requires whenever lowering recurses into a
// different function (notably: routing a top-level statement into the
// start function while currentFunction was already something else, which
// cannot happen at the entry point but matters once namespaces/imports
// recurse).
type savedContext struct {
	fn               *program.Function
	ty               types.Type
	disallowContinue bool
}

func (c *Compiler) saveContext() savedContext {
	return savedContext{c.currentFunction, c.currentType, c.disallowContinue}
}

func (c *Compiler) restoreContext(s savedContext) {
	c.currentFunction = s.fn
	c.currentType = s.ty
	c.disallowContinue = s.disallowContinue
}

func (c *Compiler) nativeType(t types.Type) ir.NativeType {
	n := types.NativeTypeOf(t, c.Target)
	switch n {
	case types.NativeI32:
		return ir.I32
	case types.NativeI64:
		return ir.I64
	case types.NativeF32:
		return ir.F32
	case types.NativeF64:
		return ir.F64
	default:
		return ir.I32 // callers must check IsVoid before trusting this
	}
}
