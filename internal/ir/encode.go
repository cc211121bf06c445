package ir

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tetratelabs/wabin/leb128"
)

// Encode serializes m to the WebAssembly binary format (the module
// preamble plus type/import/function/memory/global/export/start/code/data
// sections, in that order), so a compiled Module can be handed directly to
// a real runtime instead of only inspected as a tree of Nodes.
//
// Imports must precede all defined functions in m.Functions: WebAssembly's
// function index space requires every imported function to come before
// any module-defined one, and this encoder does not renumber calls to
// compensate for a front end that interleaves them.
func (m *Module) Encode() []byte {
	var out []byte
	out = append(out, 0x00, 0x61, 0x73, 0x6d) // "\0asm"
	out = append(out, 0x01, 0x00, 0x00, 0x00) // version 1

	out = append(out, section(1, m.encodeTypeSection())...)
	if imports := m.encodeImportSection(); imports != nil {
		out = append(out, section(2, imports)...)
	}
	if fns := m.encodeFunctionSection(); fns != nil {
		out = append(out, section(3, fns)...)
	}
	if m.Memory != nil {
		out = append(out, section(5, m.encodeMemorySection())...)
	}
	if len(m.Globals) > 0 {
		out = append(out, section(6, m.encodeGlobalSection())...)
	}
	if len(m.Exports) > 0 {
		out = append(out, section(7, m.encodeExportSection())...)
	}
	if m.StartFunc != nil {
		out = append(out, section(8, leb128.EncodeUint32(*m.StartFunc))...)
	}
	if code := m.encodeCodeSection(); code != nil {
		out = append(out, section(10, code)...)
	}
	if len(m.Data) > 0 {
		out = append(out, section(11, m.encodeDataSection())...)
	}
	return out
}

func section(id byte, content []byte) []byte {
	out := []byte{id}
	out = append(out, leb128.EncodeUint32(uint32(len(content)))...)
	return append(out, content...)
}

func vecLen(n int) []byte { return leb128.EncodeUint32(uint32(n)) }

// valTypeBytes converts a slice of backend value-type tokens into their raw
// encoding bytes; NativeType's underlying representation is opaque to this
// package, so each element goes through an explicit byte conversion rather
// than relying on slice-append assignability.
func valTypeBytes(ts []NativeType) []byte {
	out := make([]byte, len(ts))
	for i, t := range ts {
		out[i] = byte(t)
	}
	return out
}

func (m *Module) encodeTypeSection() []byte {
	out := vecLen(len(m.types))
	for _, ft := range m.types {
		out = append(out, 0x60)
		out = append(out, vecLen(len(ft.Params))...)
		out = append(out, valTypeBytes(ft.Params)...)
		out = append(out, vecLen(len(ft.Results))...)
		out = append(out, valTypeBytes(ft.Results)...)
	}
	return out
}

func (m *Module) encodeImportSection() []byte {
	var count int
	for _, fn := range m.Functions {
		if fn.IsImport {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	out := vecLen(count)
	for _, fn := range m.Functions {
		if !fn.IsImport {
			continue
		}
		out = append(out, encodeName(fn.ImportModule)...)
		out = append(out, encodeName(fn.ImportName)...)
		out = append(out, 0x00) // func import
		out = append(out, leb128.EncodeUint32(fn.TypeIndex)...)
	}
	return out
}

func (m *Module) encodeFunctionSection() []byte {
	var indices []uint32
	for _, fn := range m.Functions {
		if !fn.IsImport {
			indices = append(indices, fn.TypeIndex)
		}
	}
	if len(indices) == 0 {
		return nil
	}
	out := vecLen(len(indices))
	for _, idx := range indices {
		out = append(out, leb128.EncodeUint32(idx)...)
	}
	return out
}

func (m *Module) encodeMemorySection() []byte {
	out := vecLen(1)
	out = append(out, 0x01) // has-max
	out = append(out, leb128.EncodeUint32(m.Memory.InitialPages)...)
	out = append(out, leb128.EncodeUint32(m.Memory.MaxPages)...)
	return out
}

func (m *Module) encodeGlobalSection() []byte {
	out := vecLen(len(m.Globals))
	for _, g := range m.Globals {
		out = append(out, byte(g.Type))
		if g.Mutable {
			out = append(out, 0x01)
		} else {
			out = append(out, 0x00)
		}
		out = append(out, encodeConstExpr(g.Init)...)
		out = append(out, byte(OpEnd))
	}
	return out
}

func (m *Module) encodeExportSection() []byte {
	out := vecLen(len(m.Exports))
	for _, e := range m.Exports {
		out = append(out, encodeName(e.Name)...)
		switch e.Kind {
		case ExportFunc:
			out = append(out, 0x00)
		case ExportGlobal:
			out = append(out, 0x03)
		case ExportMemory:
			out = append(out, 0x02)
		}
		out = append(out, leb128.EncodeUint32(e.Index)...)
	}
	return out
}

func (m *Module) encodeCodeSection() []byte {
	var bodies [][]byte
	for _, fn := range m.Functions {
		if fn.IsImport {
			continue
		}
		bodies = append(bodies, encodeFunctionBody(fn))
	}
	if len(bodies) == 0 {
		return nil
	}
	out := vecLen(len(bodies))
	for _, b := range bodies {
		out = append(out, leb128.EncodeUint32(uint32(len(b)))...)
		out = append(out, b...)
	}
	return out
}

// encodeFunctionBody encodes a function's local declarations (grouped into
// runs of the same type, per the binary format) followed by its
// instruction stream.
func encodeFunctionBody(fn *Function) []byte {
	type run struct {
		count uint32
		typ   NativeType
	}
	var runs []run
	for _, t := range fn.Locals {
		if len(runs) > 0 && runs[len(runs)-1].typ == t {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, run{1, t})
	}
	out := vecLen(len(runs))
	for _, r := range runs {
		out = append(out, leb128.EncodeUint32(r.count)...)
		out = append(out, byte(r.typ))
	}

	enc := &encoder{}
	enc.emit(fn.Body)
	out = append(out, enc.buf...)
	out = append(out, byte(OpEnd))
	return out
}

func (m *Module) encodeDataSection() []byte {
	out := vecLen(len(m.Data))
	for _, d := range m.Data {
		out = append(out, 0x00) // active, memory 0
		out = append(out, byte(OpI32Const))
		out = append(out, leb128.EncodeInt32(int32(d.Offset))...)
		out = append(out, byte(OpEnd))
		out = append(out, vecLen(len(d.Bytes))...)
		out = append(out, d.Bytes...)
	}
	return out
}

func encodeName(s string) []byte {
	out := vecLen(len(s))
	return append(out, []byte(s)...)
}

// encodeConstExpr encodes a global's initializer, which is always either a
// constant or a get_global of an imported immutable global (spec.md §4.1's
// "known at compile time" requirement never reaches anything more
// complex).
func encodeConstExpr(n Node) []byte {
	enc := &encoder{}
	enc.emit(n)
	return enc.buf
}

// encoder walks a Node tree and emits its linear instruction encoding,
// tracking the enclosing block/loop/if labels so Break can resolve its
// target to a relative depth the way the binary format requires.
type encoder struct {
	buf    []byte
	labels []string // innermost last; "" for an anonymous or unbreakable construct
}

func (e *encoder) byte(b byte) { e.buf = append(e.buf, b) }

func (e *encoder) op(o Opcode) { e.buf = append(e.buf, byte(o)) }

func (e *encoder) bytes(b []byte) { e.buf = append(e.buf, b...) }

func (e *encoder) push(label string) { e.labels = append(e.labels, label) }

func (e *encoder) pop() { e.labels = e.labels[:len(e.labels)-1] }

// depthOf returns the relative branch depth of label, counting from the
// innermost enclosing construct outward.
func (e *encoder) depthOf(label string) uint32 {
	for i := len(e.labels) - 1; i >= 0; i-- {
		if e.labels[i] == label {
			return uint32(len(e.labels) - 1 - i)
		}
	}
	panic(fmt.Sprintf("ir: branch to undefined label %q", label))
}

func blockType(results []NativeType) byte {
	if len(results) == 0 {
		return 0x40
	}
	return byte(results[0])
}

func (e *encoder) emit(n Node) {
	switch n.Kind {
	case KindI32Const:
		e.op(OpI32Const)
		e.bytes(leb128.EncodeInt32(n.I32))
	case KindI64Const:
		e.op(OpI64Const)
		e.bytes(leb128.EncodeInt64(n.I64))
	case KindF32Const:
		e.op(OpF32Const)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(n.F32))
		e.bytes(b[:])
	case KindF64Const:
		e.op(OpF64Const)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(n.F64))
		e.bytes(b[:])
	case KindUnary:
		e.emit(n.Children[0])
		e.emitOp(n.Op)
		if n.Op == OpMemoryGrow {
			e.byte(0x00) // reserved memory index
		}
	case KindBinary:
		e.emit(n.Children[0])
		e.emit(n.Children[1])
		e.emitOp(n.Op)
	case KindNullary:
		e.emitOp(n.Op)
		if n.Op == OpMemorySize || n.Op == OpMemoryGrow {
			e.byte(0x00) // reserved memory index
		}
	case KindHost:
		panic(fmt.Sprintf("ir: host op %q has no binary encoding", n.Name))
	case KindBlock:
		e.op(OpBlock)
		e.byte(blockType(n.Results))
		e.push(n.Label)
		for _, c := range n.Children {
			e.emit(c)
		}
		e.pop()
		e.op(OpEnd)
	case KindLoop:
		e.op(OpLoop)
		e.byte(blockType(n.Results))
		e.push(n.Label)
		e.emit(n.Children[0])
		e.pop()
		e.op(OpEnd)
	case KindIf:
		e.emit(n.Children[0])
		e.op(OpIf)
		e.byte(0x40)
		e.push("")
		e.emit(n.Children[1])
		if len(n.Children) == 3 {
			e.op(OpElse)
			e.emit(n.Children[2])
		}
		e.pop()
		e.op(OpEnd)
	case KindBreak:
		if n.HasCond {
			e.emit(n.Children[0])
			e.op(OpBrIf)
		} else {
			e.op(OpBr)
		}
		e.bytes(leb128.EncodeUint32(e.depthOf(n.Label)))
	case KindReturn:
		if len(n.Children) == 1 {
			e.emit(n.Children[0])
		}
		e.op(OpReturn)
	case KindNop:
		e.op(OpNop)
	case KindUnreachable:
		e.op(OpUnreachable)
	case KindDrop:
		e.emit(n.Children[0])
		e.op(OpDrop)
	case KindSelect:
		// WASM select pops [val1, val2, cond] with cond on top; our
		// Children are stored [cond, val1, val2] to match the source
		// argument order, so the condition is emitted last.
		e.emit(n.Children[1])
		e.emit(n.Children[2])
		e.emit(n.Children[0])
		e.op(OpSelect)
	case KindGetLocal:
		e.op(OpLocalGet)
		e.bytes(leb128.EncodeUint32(n.Index))
	case KindSetLocal:
		e.emit(n.Children[0])
		e.op(OpLocalSet)
		e.bytes(leb128.EncodeUint32(n.Index))
	case KindTeeLocal:
		e.emit(n.Children[0])
		e.op(OpLocalTee)
		e.bytes(leb128.EncodeUint32(n.Index))
	case KindGetGlobal:
		e.op(OpGlobalGet)
		e.bytes(leb128.EncodeUint32(n.Index))
	case KindSetGlobal:
		e.emit(n.Children[0])
		e.op(OpGlobalSet)
		e.bytes(leb128.EncodeUint32(n.Index))
	case KindCall, KindCallImport:
		for _, c := range n.Children {
			e.emit(c)
		}
		e.op(OpCall)
		e.bytes(leb128.EncodeUint32(n.Index))
	case KindInert:
		panic("ir: attempted to encode a noEmit sentinel node")
	default:
		panic(fmt.Sprintf("ir: unhandled node kind %v", n.Kind))
	}
}

func (e *encoder) emitOp(op Opcode) { e.op(op) }
