// Package ascendtest builds small *ir.Module fixtures and executes them
// against a real WebAssembly engine (wasmtime-go), the way
// internal/modgen builds throwaway modules to exercise the teacher's
// runtime: the intent here is the same (small, deterministic fixtures) but
// the modules are hand-built to pin down one codegen behavior at a time
// rather than randomly generated.
package ascendtest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/ascendlang/ascend/assemblyscript"
	"github.com/ascendlang/ascend/internal/ir"
)

// NewFunctionModule builds a module with a single function, exported under
// name, suitable for exercising one lowered function body in isolation.
func NewFunctionModule(name string, params, results []ir.NativeType, locals []ir.NativeType, body ir.Node) *ir.Module {
	m := ir.NewModule()
	b := &ir.Builder{Module: m}
	typeIdx := b.AddFunctionType(&ir.FunctionType{Params: params, Results: results})
	fnIdx := b.AddFunction(&ir.Function{TypeIndex: typeIdx, Locals: locals, Body: body, Name: name})
	b.AddExport(ir.Export{Name: name, Kind: ir.ExportFunc, Index: fnIdx})
	return m
}

// Result is what Run captured from one exported-function call.
type Result struct {
	Value          interface{} // nil if the function has no result
	Stdout, Stderr string
	ExitCode       *uint32 // set if the instance called abort
}

// exitSignal is panicked by wasmtimeEnv.Exit and recovered locally inside
// each host function's callback, turning it into a Trap instead of
// letting it cross the Rust/Go boundary as a bare Go panic.
type exitSignal struct{ code uint32 }

// wasmtimeEnv adapts a wasmtime.Store/Instance pair to
// assemblyscript.HostEnv.
type wasmtimeEnv struct {
	store          *wasmtime.Store
	mem            *wasmtime.Memory
	stdout, stderr bytes.Buffer
	rand           io.Reader
	exitCode       *uint32
}

func (e *wasmtimeEnv) ReadMemory(offset, byteCount uint32) ([]byte, bool) {
	if e.mem == nil {
		return nil, false
	}
	data := e.mem.UnsafeData(e.store)
	start, end := uint64(offset), uint64(offset)+uint64(byteCount)
	if end > uint64(len(data)) {
		return nil, false
	}
	out := make([]byte, byteCount)
	copy(out, data[start:end])
	return out, true
}

func (e *wasmtimeEnv) Stdout() io.Writer     { return &e.stdout }
func (e *wasmtimeEnv) Stderr() io.Writer     { return &e.stderr }
func (e *wasmtimeEnv) RandSource() io.Reader { return e.rand }

func (e *wasmtimeEnv) Exit(code uint32) {
	c := code
	e.exitCode = &c
	panic(exitSignal{code})
}

var (
	valI32 = wasmtime.NewValType(wasmtime.KindI32)
	valF64 = wasmtime.NewValType(wasmtime.KindF64)
)

// recoverTrap turns an exitSignal panic raised by wasmtimeEnv.Exit into a
// Trap return value; any other panic is rethrown.
func recoverTrap(trap **wasmtime.Trap) {
	if r := recover(); r != nil {
		if sig, ok := r.(exitSignal); ok {
			*trap = wasmtime.NewTrap(fmt.Sprintf("exit code %d", sig.code))
			return
		}
		panic(r)
	}
}

// defineHostEnv registers the AssemblyScript "env" host functions
// (assemblyscript.Exports) against linker, adapting each Go-native
// HostFunc.Func to wasmtime's raw (Caller, []Val) callback shape.
func defineHostEnv(linker *wasmtime.Linker, store *wasmtime.Store, env *wasmtimeEnv, opts ...assemblyscript.Option) error {
	for _, fn := range assemblyscript.Exports(env, opts...) {
		var wasmFn *wasmtime.Func
		switch fn.Name {
		case "abort":
			abortFn := fn.Func.(func(message, fileName, lineNumber, columnNumber uint32))
			wasmFn = wasmtime.NewFunc(store,
				wasmtime.NewFuncType([]*wasmtime.ValType{valI32, valI32, valI32, valI32}, nil),
				func(_ *wasmtime.Caller, args []wasmtime.Val) (result []wasmtime.Val, trap *wasmtime.Trap) {
					defer recoverTrap(&trap)
					abortFn(uint32(args[0].I32()), uint32(args[1].I32()), uint32(args[2].I32()), uint32(args[3].I32()))
					return nil, nil
				},
			)
		case "trace":
			traceFn := fn.Func.(func(message, nArgs uint32, arg0, arg1, arg2, arg3, arg4 float64))
			wasmFn = wasmtime.NewFunc(store,
				wasmtime.NewFuncType([]*wasmtime.ValType{valI32, valI32, valF64, valF64, valF64, valF64, valF64}, nil),
				func(_ *wasmtime.Caller, args []wasmtime.Val) (result []wasmtime.Val, trap *wasmtime.Trap) {
					defer recoverTrap(&trap)
					traceFn(uint32(args[0].I32()), uint32(args[1].I32()), args[2].F64(), args[3].F64(), args[4].F64(), args[5].F64(), args[6].F64())
					return nil, nil
				},
			)
		case "seed":
			seedFn := fn.Func.(func() float64)
			wasmFn = wasmtime.NewFunc(store,
				wasmtime.NewFuncType(nil, []*wasmtime.ValType{valF64}),
				func(_ *wasmtime.Caller, args []wasmtime.Val) (result []wasmtime.Val, trap *wasmtime.Trap) {
					defer recoverTrap(&trap)
					return []wasmtime.Val{wasmtime.ValF64(seedFn())}, nil
				},
			)
		default:
			continue
		}
		if err := linker.Define("env", fn.Name, wasmFn); err != nil {
			return fmt.Errorf("ascendtest: defining env.%s: %w", fn.Name, err)
		}
	}
	return nil
}

// Run encodes m, instantiates it against wasmtime with the AssemblyScript
// host environment wired into "env", and calls its exportName export with
// args. randSource feeds the "seed" builtin, if the module ends up calling
// it; a nil randSource is fine for fixtures that never do.
func Run(m *ir.Module, exportName string, randSource io.Reader, args ...interface{}) (*Result, error) {
	wasmBytes := m.Encode()

	engine := wasmtime.NewEngine()
	store := wasmtime.NewStore(engine)
	mod, err := wasmtime.NewModule(engine, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("ascendtest: compiling module: %w", err)
	}

	env := &wasmtimeEnv{store: store, rand: randSource}
	linker := wasmtime.NewLinker(engine)
	if err := defineHostEnv(linker, store, env); err != nil {
		return nil, err
	}

	instance, err := linker.Instantiate(store, mod)
	if err != nil {
		return nil, fmt.Errorf("ascendtest: instantiating module: %w", err)
	}
	if memExport := instance.GetExport(store, "memory"); memExport != nil {
		env.mem = memExport.Memory()
	}

	result := &Result{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				if sig, ok := r.(exitSignal); ok {
					code := sig.code
					result.ExitCode = &code
					return
				}
				panic(r)
			}
		}()

		fn := instance.GetFunc(store, exportName)
		if fn == nil {
			err = fmt.Errorf("ascendtest: %q is not an exported function", exportName)
			return
		}
		var ret interface{}
		ret, err = fn.Call(store, args...)
		if err != nil {
			return
		}
		result.Value = ret
	}()
	if err != nil {
		return nil, err
	}

	result.Stdout = env.stdout.String()
	result.Stderr = env.stderr.String()
	if result.ExitCode == nil {
		result.ExitCode = env.exitCode
	}
	return result, nil
}
