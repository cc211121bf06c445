// Package assemblyscript contains Go-defined special functions imported by
// AssemblyScript-flavored modules under the module name "env".
//
// # Special Functions
//
// Code compiled from this core's surface language imports the functions
// below when not targeting WASI. Sometimes only "abort" is imported.
//
//   - "abort" - exits with 255 with an abort message written to Stderr.
//   - "trace" - writes a trace message, or does nothing if disabled.
//   - "seed" - returns a seed value read from a configured random source.
//
// # Relationship to WASI
//
// A program compiled to use WASI, via "import wasi" in any source file,
// won't import these functions.
//
// See https://www.assemblyscript.org/concepts.html#special-imports and
// https://www.assemblyscript.org/concepts.html#targeting-wasi.
package assemblyscript

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	functionAbort = "abort"
	functionTrace = "trace"
	functionSeed  = "seed"
)

// HostEnv is the minimal capability surface abort/trace/seed need from
// whatever is hosting the compiled module: linear memory access, the
// configured output streams, a source of random seed bytes, and a way to
// terminate the instance. Speaking to this interface instead of a
// particular runtime's module/instance types lets the same host functions
// back a real wasmtime-go instantiation or a lightweight test double
// (internal/ascendtest) without either depending on the other.
type HostEnv interface {
	// ReadMemory returns byteCount bytes of linear memory starting at
	// offset, or false if the range is out of bounds.
	ReadMemory(offset, byteCount uint32) ([]byte, bool)
	Stdout() io.Writer
	Stderr() io.Writer
	// RandSource returns the reader seed draws its bytes from.
	RandSource() io.Reader
	// Exit terminates the running instance with the given exit code.
	// Implementations are expected not to return normally afterward.
	Exit(code uint32)
}

// Exports returns the three host functions this package implements, keyed
// by the name a generated "env" import expects. A HostFunc's Func value
// has the Go-native signature the host functions are specified with below;
// wiring a Go function of that shape into a concrete runtime (e.g.
// wasmtime-go's Linker) is the caller's job, grounded on whatever that
// runtime's FFI boundary looks like.
func Exports(env HostEnv, opts ...Option) []HostFunc {
	cfg := &config{abortFn: abortWithMessage, traceFn: traceDisabled}
	for _, o := range opts {
		o(cfg)
	}
	return []HostFunc{
		{Name: functionAbort, InternalName: "~lib/builtins/abort", Func: func(message, fileName, lineNumber, columnNumber uint32) {
			cfg.abortFn(env, message, fileName, lineNumber, columnNumber)
		}},
		{Name: functionTrace, InternalName: "~lib/builtins/trace", Func: func(message, nArgs uint32, arg0, arg1, arg2, arg3, arg4 float64) {
			cfg.traceFn(env, message, nArgs, arg0, arg1, arg2, arg3, arg4)
		}},
		{Name: functionSeed, InternalName: "~lib/builtins/seed", Func: func() float64 {
			return seed(env)
		}},
	}
}

// HostFunc is one function to register in the "env" import namespace.
type HostFunc struct {
	Name         string
	InternalName string
	Func         interface{}
}

type config struct {
	abortFn func(env HostEnv, message, fileName, lineNumber, columnNumber uint32)
	traceFn func(env HostEnv, message, nArgs uint32, arg0, arg1, arg2, arg3, arg4 float64)
}

// Option configures the functions Exports returns.
type Option func(*config)

// WithAbortMessageDisabled configures abort to discard any message and
// exit silently.
func WithAbortMessageDisabled() Option {
	return func(c *config) { c.abortFn = abort }
}

// WithTraceToStdout configures trace to write to env.Stdout().
func WithTraceToStdout() Option {
	return func(c *config) {
		c.traceFn = func(env HostEnv, message, nArgs uint32, arg0, arg1, arg2, arg3, arg4 float64) {
			traceTo(env, message, nArgs, arg0, arg1, arg2, arg3, arg4, env.Stdout())
		}
	}
}

// WithTraceToStderr configures trace to write to env.Stderr().
//
// Because of the potential volume of trace messages, WithTraceToStdout is
// often more appropriate.
func WithTraceToStderr() Option {
	return func(c *config) {
		c.traceFn = func(env HostEnv, message, nArgs uint32, arg0, arg1, arg2, arg3, arg4 float64) {
			traceTo(env, message, nArgs, arg0, arg1, arg2, arg3, arg4, env.Stderr())
		}
	}
}

// abortWithMessage is called on unrecoverable errors: this is typically
// present in a compiled module if assertions are enabled or an exception
// is thrown.
//
// The implementation writes the message to env.Stderr(), then terminates
// the instance with exit code 255.
//
// The import this backs, in WebAssembly 1.0 (MVP) text format:
//
//	(import "env" "abort" (func $~lib/builtins/abort (param i32 i32 i32 i32)))
func abortWithMessage(env HostEnv, message, fileName, lineNumber, columnNumber uint32) {
	if msg, ok := readAssemblyScriptString(env, message); ok {
		if fn, ok := readAssemblyScriptString(env, fileName); ok {
			_, _ = fmt.Fprintf(env.Stderr(), "%s at %s:%d:%d\n", msg, fn, lineNumber, columnNumber)
		}
	}
	abort(env, message, fileName, lineNumber, columnNumber)
}

// abort ignores the message and terminates the instance.
func abort(env HostEnv, _, _, _, _ uint32) {
	// The surface language's loader expects the exit code to be 255.
	env.Exit(255)
}

// traceDisabled ignores the input.
func traceDisabled(HostEnv, uint32, uint32, float64, float64, float64, float64, float64) {}

// traceTo implements the "trace" builtin, e.g. trace('Hello World!').
//
// The import this backs, in WebAssembly 1.0 (MVP) text format:
//
//	(import "env" "trace" (func $~lib/builtins/trace (param i32 i32 f64 f64 f64 f64 f64)))
func traceTo(env HostEnv, message, nArgs uint32, arg0, arg1, arg2, arg3, arg4 float64, w io.Writer) {
	msg, ok := readAssemblyScriptString(env, message)
	if !ok {
		return // don't panic if unable to trace
	}
	var ret strings.Builder
	ret.WriteString("trace: ")
	ret.WriteString(msg)
	args := [5]float64{arg0, arg1, arg2, arg3, arg4}
	for i := uint32(0); i < nArgs && i < 5; i++ {
		if i == 0 {
			ret.WriteString(" ")
		} else {
			ret.WriteString(",")
		}
		ret.WriteString(formatFloat(args[i]))
	}
	ret.WriteByte('\n')
	_, _ = w.Write([]byte(ret.String())) // don't crash if trace logging fails
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// seed is called when the surface language's random number generator
// needs to be seeded.
//
// The import this backs, in WebAssembly 1.0 (MVP) text format:
//
//	(import "env" "seed" (func $~lib/builtins/seed (result f64)))
func seed(env HostEnv) float64 {
	v, err := decodeFloat64(env.RandSource())
	if err != nil {
		panic(fmt.Errorf("error reading random seed: %w", err))
	}
	return v
}

// decodeFloat64 reads 8 little-endian bytes from r and reinterprets them
// as an IEEE 754 double, the same shape a seed draw needs regardless of
// the random source behind it.
func decodeFloat64(r io.Reader) (float64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	bits := uint64(0)
	for i := 7; i >= 0; i-- {
		bits = bits<<8 | uint64(b[i])
	}
	return math.Float64frombits(bits), nil
}

// readAssemblyScriptString reads a UTF-16 string created by the surface
// language's string layout: a four-byte length prefix immediately
// preceding the data pointer.
func readAssemblyScriptString(env HostEnv, offset uint32) (string, bool) {
	lenBytes, ok := env.ReadMemory(offset-4, 4)
	if !ok {
		return "", false
	}
	byteCount := uint32(lenBytes[0]) | uint32(lenBytes[1])<<8 | uint32(lenBytes[2])<<16 | uint32(lenBytes[3])<<24
	if byteCount%2 != 0 {
		return "", false
	}
	buf, ok := env.ReadMemory(offset, byteCount)
	if !ok {
		return "", false
	}
	return decodeUTF16(buf), true
}

func decodeUTF16(b []byte) string {
	u16s := make([]uint16, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u16s[i/2] = uint16(b[i]) | uint16(b[i+1])<<8
	}
	return string(utf16.Decode(u16s))
}
