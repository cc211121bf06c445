package types

// Native is one of the four WebAssembly value kinds, plus None for
// statements/void expressions. This is the projection target for every
// source Type; see NativeTypeOf.
type Native byte

const (
	NativeNone Native = iota
	NativeI32
	NativeI64
	NativeF32
	NativeF64
)

func (n Native) String() string {
	switch n {
	case NativeI32:
		return "i32"
	case NativeI64:
		return "i64"
	case NativeF32:
		return "f32"
	case NativeF64:
		return "f64"
	default:
		return "none"
	}
}

// NativeTypeOf projects a source Type onto its WebAssembly native kind.
// Small integers and bool are carried as i32; usize follows target width;
// class references are pointer-sized (i32 on wasm32, i64 on wasm64).
func NativeTypeOf(t Type, target Target) Native {
	switch t.Kind {
	case Void:
		return NativeNone
	case Bool, I8, I16, I32, U8, U16, U32:
		return NativeI32
	case I64, U64:
		return NativeI64
	case F32:
		return NativeF32
	case F64:
		return NativeF64
	case Usize, Class:
		if target == WASM64 {
			return NativeI64
		}
		return NativeI32
	default:
		return NativeNone
	}
}
