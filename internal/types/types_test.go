package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ascendlang/ascend/internal/types"
)

func TestTarget_PointerSize(t *testing.T) {
	require.Equal(t, 4, types.WASM32.PointerSize())
	require.Equal(t, 8, types.WASM64.PointerSize())
}

func TestUsize_ResolvesToTargetWidth(t *testing.T) {
	require.Equal(t, 32, types.Usize_(types.WASM32).Size())
	require.Equal(t, 64, types.Usize_(types.WASM64).Size())
}

func TestType_String(t *testing.T) {
	require.Equal(t, "i32", types.TypeI32.String())
	require.Equal(t, "f64", types.TypeF64.String())
	require.Equal(t, "void", types.TypeVoid.String())
	require.Equal(t, "usize(32)", types.Usize_(types.WASM32).String())
	require.Equal(t, "Foo", types.ClassRef("Foo").String())
}

func TestType_IsAnyFloat(t *testing.T) {
	require.True(t, types.TypeF32.IsAnyFloat())
	require.True(t, types.TypeF64.IsAnyFloat())
	require.False(t, types.TypeI32.IsAnyFloat())
}

func TestType_IsSmallInteger(t *testing.T) {
	require.True(t, types.TypeI8.IsSmallInteger())
	require.True(t, types.TypeU16.IsSmallInteger())
	require.False(t, types.TypeI32.IsSmallInteger())
	require.False(t, types.TypeBool.IsSmallInteger())
}

func TestType_SmallIntegerShiftAndMask(t *testing.T) {
	require.Equal(t, 24, types.TypeI8.SmallIntegerShift())
	require.Equal(t, uint32(0xff), types.TypeU8.SmallIntegerMask())
	require.Equal(t, 16, types.TypeI16.SmallIntegerShift())
	require.Equal(t, uint32(0xffff), types.TypeU16.SmallIntegerMask())
}

func TestType_IsLongInteger(t *testing.T) {
	require.True(t, types.TypeI64.IsLongInteger())
	require.True(t, types.TypeU64.IsLongInteger())
	require.True(t, types.Usize_(types.WASM64).IsLongInteger())
	require.False(t, types.Usize_(types.WASM32).IsLongInteger())
	require.False(t, types.TypeI32.IsLongInteger())
}

func TestType_Equal(t *testing.T) {
	require.True(t, types.TypeI32.Equal(types.TypeI32))
	require.False(t, types.TypeI32.Equal(types.TypeI64))
	require.True(t, types.ClassRef("Foo").Equal(types.ClassRef("Foo")))
	require.False(t, types.ClassRef("Foo").Equal(types.ClassRef("Bar")))
}

func TestType_IsClassAndIsVoid(t *testing.T) {
	require.True(t, types.ClassRef("Foo").IsClass())
	require.False(t, types.TypeI32.IsClass())
	require.True(t, types.TypeVoid.IsVoid())
	require.False(t, types.TypeI32.IsVoid())
}
