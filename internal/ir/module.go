// Package ir adapts this module's code-generation core onto a real
// WebAssembly binary-format IR: github.com/tetratelabs/wabin/wasm for
// value types and opcodes, github.com/tetratelabs/wabin/leb128 for
// constant-operand encoding. It plays the role spec.md §6 calls the
// "Backend IR Module": the core only ever calls the Create*/Add*
// operations below, never touches binary encoding directly.
package ir

import (
	"github.com/tetratelabs/wabin/wasm"

	"github.com/ascendlang/ascend/internal/types"
)

// NativeType re-exports the backend's value-type byte so callers outside
// this package never import wabin/wasm directly.
type NativeType = wasm.ValueType

const (
	I32 NativeType = wasm.ValueTypeI32
	I64 NativeType = wasm.ValueTypeI64
	F32 NativeType = wasm.ValueTypeF32
	F64 NativeType = wasm.ValueTypeF64
)

// noneResult marks a block/instruction that produces no value. WebAssembly
// itself has no NativeType for "none" results at the type level; blocks
// with an empty result use a zero-length result list instead.
var noneResult []NativeType

func nativeSlice(ts []types.Native) []NativeType {
	if len(ts) == 0 {
		return noneResult
	}
	out := make([]NativeType, 0, len(ts))
	for _, t := range ts {
		if nt, ok := toBackend(t); ok {
			out = append(out, nt)
		}
	}
	return out
}

func toBackend(n types.Native) (NativeType, bool) {
	switch n {
	case types.NativeI32:
		return I32, true
	case types.NativeI64:
		return I64, true
	case types.NativeF32:
		return F32, true
	case types.NativeF64:
		return F64, true
	default:
		return 0, false
	}
}

// FunctionType is a WebAssembly function signature. Two signatures with
// equal Params/Results must share one FunctionType instance once
// registered: see Module.AddFunctionType.
type FunctionType struct {
	Params  []NativeType
	Results []NativeType
}

func (f *FunctionType) signature() string {
	b := make([]byte, 0, len(f.Params)+len(f.Results)+1)
	b = append(b, valTypeBytes(f.Params)...)
	b = append(b, 0xff) // separator; not a valid ValueType
	b = append(b, valTypeBytes(f.Results)...)
	return string(b)
}

// Global is a module-level global variable.
type Global struct {
	Type    NativeType
	Mutable bool
	Init    Node // a constant-producing node (const or global.get of an import)
	Name    string
}

// DataSegment is a contiguous range of linear memory initialized at
// instantiation time.
type DataSegment struct {
	Offset uint64
	Bytes  []byte
}

// Function is a module-level function: either a defined body or an
// import.
type Function struct {
	TypeIndex   uint32
	Locals      []NativeType // additional locals beyond parameters
	Body        Node         // single block expression; nil for imports
	Name        string
	ExportName  string // "" if not exported
	IsImport    bool
	ImportModule,
	ImportName string
}

// Memory declares the module's single linear memory, in 64KiB pages.
type Memory struct {
	InitialPages uint32
	MaxPages     uint32
}

// Module is the in-memory WebAssembly module under construction. It owns
// the monotonic function-type cache spec.md §5 calls out as shared,
// append-only state.
type Module struct {
	types     []*FunctionType
	typeCache map[string]uint32

	Globals   []*Global
	Functions []*Function
	Exports   []Export
	Memory    *Memory
	Data      []*DataSegment
	StartFunc *uint32 // index into Functions, nil if none
}

// Export names a function, global, or memory for the host.
type Export struct {
	Name string
	Kind ExportKind
	Index uint32
}

// ExportKind classifies an Export.
type ExportKind byte

const (
	ExportFunc ExportKind = iota
	ExportGlobal
	ExportMemory
)

// NewModule returns an empty Module ready for construction.
func NewModule() *Module {
	return &Module{typeCache: make(map[string]uint32)}
}

// AddFunctionType registers ft, reusing an existing identical signature if
// one is already present. The type table is monotonic: entries are never
// removed, matching spec.md §5's "shared... accessed only by the single
// driver" type-table cache.
func (m *Module) AddFunctionType(ft *FunctionType) uint32 {
	key := ft.signature()
	if idx, ok := m.typeCache[key]; ok {
		return idx
	}
	idx := uint32(len(m.types))
	m.types = append(m.types, ft)
	m.typeCache[key] = idx
	return idx
}

// GetFunctionTypeBySignature returns the index of an already-registered
// signature, or false if none has been registered yet.
func (m *Module) GetFunctionTypeBySignature(ft *FunctionType) (uint32, bool) {
	idx, ok := m.typeCache[ft.signature()]
	return idx, ok
}

// AddGlobal registers g and returns its index.
func (m *Module) AddGlobal(g *Global) uint32 {
	idx := uint32(len(m.Globals))
	m.Globals = append(m.Globals, g)
	return idx
}

// AddFunction registers fn and returns its index.
func (m *Module) AddFunction(fn *Function) uint32 {
	idx := uint32(len(m.Functions))
	m.Functions = append(m.Functions, fn)
	return idx
}

// AddExport registers an export.
func (m *Module) AddExport(e Export) {
	m.Exports = append(m.Exports, e)
}

// SetStart marks fn (by its Functions index) as the module's start
// function.
func (m *Module) SetStart(fnIndex uint32) {
	idx := fnIndex
	m.StartFunc = &idx
}

// SetMemory declares the module's linear memory.
func (m *Module) SetMemory(initialPages, maxPages uint32) {
	m.Memory = &Memory{InitialPages: initialPages, MaxPages: maxPages}
}

// AddDataSegment appends a data segment and returns it.
func (m *Module) AddDataSegment(offset uint64, bytes []byte) *DataSegment {
	seg := &DataSegment{Offset: offset, Bytes: bytes}
	m.Data = append(m.Data, seg)
	return seg
}
