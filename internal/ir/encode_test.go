package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// addModule builds a module exporting one function: add(a, b) = a + b.
func addModule() *Module {
	m := NewModule()
	typeIdx := m.AddFunctionType(&FunctionType{Params: []NativeType{I32, I32}, Results: []NativeType{I32}})
	body := CreateBinary(OpI32Add, I32, CreateGetLocal(0, I32), CreateGetLocal(1, I32))
	fnIdx := m.AddFunction(&Function{TypeIndex: typeIdx, Body: body, Name: "add"})
	m.AddExport(Export{Name: "add", Kind: ExportFunc, Index: fnIdx})
	return m
}

func TestModule_Encode_header(t *testing.T) {
	out := addModule().Encode()
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, out[:8])
}

// TestModule_Encode_addFunction pins the exact byte encoding of a minimal
// two-parameter function module against the WebAssembly MVP binary format,
// so a future change to section ordering or opcode bytes is caught here
// rather than only inside an end-to-end runtime test.
func TestModule_Encode_addFunction(t *testing.T) {
	expected := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // header

		0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, // type section

		0x03, 0x02, 0x01, 0x00, // function section

		0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00, // export section

		0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b, // code section
	}
	require.Equal(t, expected, addModule().Encode())
}

func TestModule_Encode_noMemoryNoGlobalsOmitsSections(t *testing.T) {
	out := addModule().Encode()
	// Only type(1), function(3), export(7), code(10) sections are present;
	// no byte 0x05 (memory), 0x06 (global), 0x02 (import), 0x08 (start), or
	// 0x0b (data) section id should appear at a section boundary.
	seen := map[byte]bool{}
	for i := 8; i < len(out); {
		id := out[i]
		seen[id] = true
		// section length is itself LEB128-encoded; these fixtures are all
		// small enough to fit in one byte.
		size := int(out[i+1])
		i += 2 + size
	}
	require.True(t, seen[1])
	require.True(t, seen[3])
	require.True(t, seen[7])
	require.True(t, seen[10])
	require.False(t, seen[2])
	require.False(t, seen[5])
	require.False(t, seen[6])
	require.False(t, seen[8])
	require.False(t, seen[11])
}

func TestModule_Encode_globalSection(t *testing.T) {
	m := NewModule()
	m.AddGlobal(&Global{Type: I32, Mutable: true, Init: CreateI32(7), Name: "counter"})
	out := m.encodeGlobalSection()
	// valtype i32, mutable=1, i32.const 7, end
	require.Equal(t, []byte{0x7f, 0x01, 0x41, 0x07, 0x0b}, out)
}

func TestModule_Encode_dataSection(t *testing.T) {
	m := NewModule()
	m.AddDataSegment(0, []byte("hi"))
	out := m.encodeDataSection()
	// count=1, active flag=0, i32.const 0, end, len=2, "hi"
	require.Equal(t, []byte{0x01, 0x00, 0x41, 0x00, 0x0b, 0x02, 'h', 'i'}, out)
}

func TestEncoder_blockAndBreak(t *testing.T) {
	// block $l { br $l }
	body := CreateBlock("l", []Node{CreateBreak("l", nil)}, nil)
	enc := &encoder{}
	enc.emit(body)
	// block blocktype(empty=0x40) br depth(0) end end(from body's own emit
	// doesn't add a trailing end - block adds its own)
	require.Equal(t, []byte{byte(OpBlock), 0x40, byte(OpBr), 0x00, byte(OpEnd)}, enc.buf)
}

func TestEncoder_nestedBlockBreakDepth(t *testing.T) {
	// block $outer { block $inner { br $outer } }
	inner := CreateBlock("inner", []Node{CreateBreak("outer", nil)}, nil)
	outer := CreateBlock("outer", []Node{inner}, nil)
	enc := &encoder{}
	enc.emit(outer)
	require.Equal(t, []byte{
		byte(OpBlock), 0x40,
		byte(OpBlock), 0x40,
		byte(OpBr), 0x01, // one level out from the inner block
		byte(OpEnd),
		byte(OpEnd),
	}, enc.buf)
}

func TestEncoder_breakToUndefinedLabelPanics(t *testing.T) {
	enc := &encoder{}
	require.Panics(t, func() { enc.emit(CreateBreak("nope", nil)) })
}

func TestEncoder_select(t *testing.T) {
	// our Children are [cond, val1, val2]; WASM expects val1, val2, cond.
	n := CreateSelect(CreateI32(1), CreateI32(2), CreateI32(3), I32)
	enc := &encoder{}
	enc.emit(n)
	require.Equal(t, []byte{
		byte(OpI32Const), 0x02,
		byte(OpI32Const), 0x03,
		byte(OpI32Const), 0x01,
		byte(OpSelect),
	}, enc.buf)
}

func TestEncoder_inertPanics(t *testing.T) {
	enc := &encoder{}
	require.Panics(t, func() { enc.emit(Node{Kind: KindInert}) })
}

func TestFunctionType_signatureReusesIdenticalTypes(t *testing.T) {
	m := NewModule()
	a := m.AddFunctionType(&FunctionType{Params: []NativeType{I32}, Results: []NativeType{I32}})
	bIdx := m.AddFunctionType(&FunctionType{Params: []NativeType{I32}, Results: []NativeType{I32}})
	c := m.AddFunctionType(&FunctionType{Params: []NativeType{I64}, Results: []NativeType{I32}})
	require.Equal(t, a, bIdx)
	require.NotEqual(t, a, c)
}
