package ir

import "github.com/tetratelabs/wabin/wasm"

// Opcode re-exports the backend's instruction opcode byte.
type Opcode = wasm.Opcode

// The subset of WebAssembly MVP opcodes the expression/statement lowerers
// reference by name. Grouped the way the teacher's internal/wasm module
// groups them (seen via internal/modgen's wasm.OpcodeI32Const /
// wasm.OpcodeGlobalGet usage): control, variable, numeric.
const (
	OpUnreachable = wasm.OpcodeUnreachable
	OpNop         = wasm.OpcodeNop
	OpBlock       = wasm.OpcodeBlock
	OpLoop        = wasm.OpcodeLoop
	OpIf          = wasm.OpcodeIf
	OpElse        = wasm.OpcodeElse
	OpEnd         = wasm.OpcodeEnd
	OpBr          = wasm.OpcodeBr
	OpBrIf        = wasm.OpcodeBrIf
	OpReturn      = wasm.OpcodeReturn
	OpCall        = wasm.OpcodeCall
	OpDrop        = wasm.OpcodeDrop
	OpSelect      = wasm.OpcodeSelect

	OpLocalGet  = wasm.OpcodeLocalGet
	OpLocalSet  = wasm.OpcodeLocalSet
	OpLocalTee  = wasm.OpcodeLocalTee
	OpGlobalGet = wasm.OpcodeGlobalGet
	OpGlobalSet = wasm.OpcodeGlobalSet

	OpI32Const = wasm.OpcodeI32Const
	OpI64Const = wasm.OpcodeI64Const
	OpF32Const = wasm.OpcodeF32Const
	OpF64Const = wasm.OpcodeF64Const

	OpI32Eqz = wasm.OpcodeI32Eqz
	OpI32Eq  = wasm.OpcodeI32Eq
	OpI32Ne  = wasm.OpcodeI32Ne
	OpI32LtS = wasm.OpcodeI32LtS
	OpI32LtU = wasm.OpcodeI32LtU
	OpI32GtS = wasm.OpcodeI32GtS
	OpI32GtU = wasm.OpcodeI32GtU
	OpI32LeS = wasm.OpcodeI32LeS
	OpI32LeU = wasm.OpcodeI32LeU
	OpI32GeS = wasm.OpcodeI32GeS
	OpI32GeU = wasm.OpcodeI32GeU

	OpI64Eqz = wasm.OpcodeI64Eqz
	OpI64Eq  = wasm.OpcodeI64Eq
	OpI64Ne  = wasm.OpcodeI64Ne
	OpI64LtS = wasm.OpcodeI64LtS
	OpI64LtU = wasm.OpcodeI64LtU
	OpI64GtS = wasm.OpcodeI64GtS
	OpI64GtU = wasm.OpcodeI64GtU
	OpI64LeS = wasm.OpcodeI64LeS
	OpI64LeU = wasm.OpcodeI64LeU
	OpI64GeS = wasm.OpcodeI64GeS
	OpI64GeU = wasm.OpcodeI64GeU

	OpF32Eq = wasm.OpcodeF32Eq
	OpF32Ne = wasm.OpcodeF32Ne
	OpF32Lt = wasm.OpcodeF32Lt
	OpF32Gt = wasm.OpcodeF32Gt
	OpF32Le = wasm.OpcodeF32Le
	OpF32Ge = wasm.OpcodeF32Ge

	OpF64Eq = wasm.OpcodeF64Eq
	OpF64Ne = wasm.OpcodeF64Ne
	OpF64Lt = wasm.OpcodeF64Lt
	OpF64Gt = wasm.OpcodeF64Gt
	OpF64Le = wasm.OpcodeF64Le
	OpF64Ge = wasm.OpcodeF64Ge

	OpI32Clz    = wasm.OpcodeI32Clz
	OpI32Ctz    = wasm.OpcodeI32Ctz
	OpI32Popcnt = wasm.OpcodeI32Popcnt
	OpI32Add    = wasm.OpcodeI32Add
	OpI32Sub    = wasm.OpcodeI32Sub
	OpI32Mul    = wasm.OpcodeI32Mul
	OpI32DivS   = wasm.OpcodeI32DivS
	OpI32DivU   = wasm.OpcodeI32DivU
	OpI32RemS   = wasm.OpcodeI32RemS
	OpI32RemU   = wasm.OpcodeI32RemU
	OpI32And    = wasm.OpcodeI32And
	OpI32Or     = wasm.OpcodeI32Or
	OpI32Xor    = wasm.OpcodeI32Xor
	OpI32Shl    = wasm.OpcodeI32Shl
	OpI32ShrS   = wasm.OpcodeI32ShrS
	OpI32ShrU   = wasm.OpcodeI32ShrU
	OpI32Rotl   = wasm.OpcodeI32Rotl
	OpI32Rotr   = wasm.OpcodeI32Rotr

	OpI64Clz    = wasm.OpcodeI64Clz
	OpI64Ctz    = wasm.OpcodeI64Ctz
	OpI64Popcnt = wasm.OpcodeI64Popcnt
	OpI64Add    = wasm.OpcodeI64Add
	OpI64Sub    = wasm.OpcodeI64Sub
	OpI64Mul    = wasm.OpcodeI64Mul
	OpI64DivS   = wasm.OpcodeI64DivS
	OpI64DivU   = wasm.OpcodeI64DivU
	OpI64RemS   = wasm.OpcodeI64RemS
	OpI64RemU   = wasm.OpcodeI64RemU
	OpI64And    = wasm.OpcodeI64And
	OpI64Or     = wasm.OpcodeI64Or
	OpI64Xor    = wasm.OpcodeI64Xor
	OpI64Shl    = wasm.OpcodeI64Shl
	OpI64ShrS   = wasm.OpcodeI64ShrS
	OpI64ShrU   = wasm.OpcodeI64ShrU
	OpI64Rotl   = wasm.OpcodeI64Rotl
	OpI64Rotr   = wasm.OpcodeI64Rotr

	OpF32Abs      = wasm.OpcodeF32Abs
	OpF32Neg      = wasm.OpcodeF32Neg
	OpF32Ceil     = wasm.OpcodeF32Ceil
	OpF32Floor    = wasm.OpcodeF32Floor
	OpF32Trunc    = wasm.OpcodeF32Trunc
	OpF32Nearest  = wasm.OpcodeF32Nearest
	OpF32Sqrt     = wasm.OpcodeF32Sqrt
	OpF32Add      = wasm.OpcodeF32Add
	OpF32Sub      = wasm.OpcodeF32Sub
	OpF32Mul      = wasm.OpcodeF32Mul
	OpF32Div      = wasm.OpcodeF32Div
	OpF32Min      = wasm.OpcodeF32Min
	OpF32Max      = wasm.OpcodeF32Max
	OpF32Copysign = wasm.OpcodeF32Copysign

	OpF64Abs      = wasm.OpcodeF64Abs
	OpF64Neg      = wasm.OpcodeF64Neg
	OpF64Ceil     = wasm.OpcodeF64Ceil
	OpF64Floor    = wasm.OpcodeF64Floor
	OpF64Trunc    = wasm.OpcodeF64Trunc
	OpF64Nearest  = wasm.OpcodeF64Nearest
	OpF64Sqrt     = wasm.OpcodeF64Sqrt
	OpF64Add      = wasm.OpcodeF64Add
	OpF64Sub      = wasm.OpcodeF64Sub
	OpF64Mul      = wasm.OpcodeF64Mul
	OpF64Div      = wasm.OpcodeF64Div
	OpF64Min      = wasm.OpcodeF64Min
	OpF64Max      = wasm.OpcodeF64Max
	OpF64Copysign = wasm.OpcodeF64Copysign

	OpI32WrapI64      = wasm.OpcodeI32WrapI64
	OpI32TruncF32S    = wasm.OpcodeI32TruncF32S
	OpI32TruncF32U    = wasm.OpcodeI32TruncF32U
	OpI32TruncF64S    = wasm.OpcodeI32TruncF64S
	OpI32TruncF64U    = wasm.OpcodeI32TruncF64U
	OpI64ExtendI32S   = wasm.OpcodeI64ExtendI32S
	OpI64ExtendI32U   = wasm.OpcodeI64ExtendI32U
	OpI64TruncF32S    = wasm.OpcodeI64TruncF32S
	OpI64TruncF32U    = wasm.OpcodeI64TruncF32U
	OpI64TruncF64S    = wasm.OpcodeI64TruncF64S
	OpI64TruncF64U    = wasm.OpcodeI64TruncF64U
	OpF32ConvertI32S  = wasm.OpcodeF32ConvertI32S
	OpF32ConvertI32U  = wasm.OpcodeF32ConvertI32U
	OpF32ConvertI64S  = wasm.OpcodeF32ConvertI64S
	OpF32ConvertI64U  = wasm.OpcodeF32ConvertI64U
	OpF32DemoteF64    = wasm.OpcodeF32DemoteF64
	OpF64ConvertI32S  = wasm.OpcodeF64ConvertI32S
	OpF64ConvertI32U  = wasm.OpcodeF64ConvertI32U
	OpF64ConvertI64S  = wasm.OpcodeF64ConvertI64S
	OpF64ConvertI64U  = wasm.OpcodeF64ConvertI64U
	OpF64PromoteF32   = wasm.OpcodeF64PromoteF32

	OpMemorySize = wasm.OpcodeMemorySize
	OpMemoryGrow = wasm.OpcodeMemoryGrow
)

// HostOpName identifies a host-level operation with no dedicated numeric
// opcode (current_memory/grow_memory use real opcodes above; this is for
// operations like unsafe-operation bookkeeping that carry a name but no
// operand-shaped opcode).
type HostOpName string
