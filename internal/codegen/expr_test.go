package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

func TestCompileIntegerLiteral_FitsInI32(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.IntegerLiteralExpr{Value: 42}, types.TypeI32, true)
	require.Equal(t, ir.KindI32Const, node.Kind)
	require.Equal(t, int32(42), node.I32)
}

func TestCompileIntegerLiteral_ContextIsLongPromotesToI64(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.IntegerLiteralExpr{Value: 1}, types.TypeI64, true)
	require.Equal(t, ir.KindI64Const, node.Kind)
}

func TestCompileFloatLiteral_RespectsF32Context(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.FloatLiteralExpr{Value: 1.5}, types.TypeF32, true)
	require.Equal(t, ir.KindF32Const, node.Kind)
	require.Equal(t, float32(1.5), node.F32)
}

func TestCompileIdentifierExpr_BooleanLiterals(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.IdentifierExpr{Name: "true"}, types.TypeBool, true)
	require.Equal(t, ir.KindI32Const, node.Kind)
	require.Equal(t, int32(1), node.I32)
}

func TestCompileIdentifierReference_LocalLookup(t *testing.T) {
	c := newTestCompiler()
	fn := newTestFunction()
	local := fn.AddLocal(types.TypeI32, "x")
	var node ir.Node
	c.withFunction(fn, func() {
		node = c.compileExpression(&program.IdentifierExpr{Name: "x"}, types.TypeI32, true)
	})
	require.Equal(t, ir.KindGetLocal, node.Kind)
	require.Equal(t, local.Index, node.Index)
}

func TestCompileIdentifierReference_Unresolved(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.IdentifierExpr{Name: "nope"}, types.TypeI32, true)
	require.Equal(t, ir.KindUnreachable, node.Kind)
	require.Equal(t, diag.KindLookup, c.Diag.Diagnostics()[0].Kind)
}

func TestCompileIdentifierReference_GlobalLazyCompiles(t *testing.T) {
	p := program.NewFakeProgram()
	g := &program.Global{Base: program.Base{InternalName: "g"}, Type: types.TypeI32, ConstValue: &program.ConstantValue{Type: types.TypeI32, I64: 9}}
	p.AddElement(g)
	c := New(p, Options{Target: types.WASM32})

	require.False(t, g.IsCompiled)
	node := c.compileExpression(&program.IdentifierExpr{Name: "g"}, types.TypeI32, true)
	require.True(t, g.IsCompiled)
	require.Equal(t, ir.KindGetGlobal, node.Kind)
}

func TestCompileBinaryExpr_IntegerAdd(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.BinaryExpr{
		Op:    program.OpAdd,
		Left:  &program.IntegerLiteralExpr{Value: 1},
		Right: &program.IntegerLiteralExpr{Value: 2},
	}, types.TypeI32, true)
	require.Equal(t, ir.KindBinary, node.Kind)
	require.Equal(t, ir.OpI32Add, node.Op)
}

func TestCompileBinaryExpr_ComparisonYieldsBool(t *testing.T) {
	c := newTestCompiler()
	c.compileExpression(&program.BinaryExpr{
		Op:    program.OpLt,
		Left:  &program.IntegerLiteralExpr{Value: 1},
		Right: &program.IntegerLiteralExpr{Value: 2},
	}, types.TypeI32, true)
	require.Equal(t, types.TypeBool, c.currentType)
}

func TestCompileBinaryExpr_UnsignedVsSignedDivision(t *testing.T) {
	c := newTestCompiler()
	signed := c.compileExpression(&program.BinaryExpr{
		Op: program.OpDiv, Left: &program.IntegerLiteralExpr{Value: -4}, Right: &program.IntegerLiteralExpr{Value: 2},
	}, types.TypeI32, true)
	require.Equal(t, ir.OpI32DivS, signed.Op)

	unsigned := c.compileExpression(&program.BinaryExpr{
		Op: program.OpDiv, Left: &program.IntegerLiteralExpr{Value: 4}, Right: &program.IntegerLiteralExpr{Value: 2},
	}, types.TypeU32, true)
	require.Equal(t, ir.OpI32DivU, unsigned.Op)
}

func TestCompileAssignExpr_ToLocalTeesWhenValueUsed(t *testing.T) {
	c := newTestCompiler()
	fn := newTestFunction()
	fn.AddLocal(types.TypeI32, "x")
	var node ir.Node
	c.withFunction(fn, func() {
		node = c.compileExpression(&program.AssignExpr{
			Target: &program.IdentifierExpr{Name: "x"},
			Value:  &program.IntegerLiteralExpr{Value: 3},
		}, types.TypeI32, true)
	})
	require.Equal(t, ir.KindTeeLocal, node.Kind)
}

func TestCompileAssignExpr_ToGlobalSetsAndCompilesLazily(t *testing.T) {
	p := program.NewFakeProgram()
	g := &program.Global{Base: program.Base{InternalName: "g"}, Type: types.TypeI32}
	p.AddElement(g)
	c := New(p, Options{Target: types.WASM32})

	node := c.compileExpression(&program.AssignExpr{
		Target: &program.IdentifierExpr{Name: "g"},
		Value:  &program.IntegerLiteralExpr{Value: 3},
	}, types.TypeVoid, true)
	require.Equal(t, ir.KindSetGlobal, node.Kind)
	require.True(t, g.IsCompiled)

	// determineExpressionType's NoEmit dry run must not have "used up" the
	// global's one real emission: it must be materialized exactly once,
	// and the set_global must target that real global's index.
	require.Len(t, c.Builder.Module.Globals, 1)
	require.Equal(t, g.GlobalIndex, node.Index)
}

// TestDetermineExpressionType_DoesNotCompileUncompiledGlobal guards the
// fixed bug (DESIGN.md): the NoEmit dry run used to discover an
// assignment target's type must never mark an uncompiled global as
// compiled, or it would be emitted zero times once NoEmit is lifted.
func TestDetermineExpressionType_DoesNotCompileUncompiledGlobal(t *testing.T) {
	p := program.NewFakeProgram()
	g := &program.Global{Base: program.Base{InternalName: "g"}, Type: types.TypeI32}
	p.AddElement(g)
	c := New(p, Options{Target: types.WASM32})

	got := c.determineExpressionType(&program.IdentifierExpr{Name: "g"})
	require.Equal(t, types.TypeI32, got)
	require.False(t, g.IsCompiled)
	require.Empty(t, c.Builder.Module.Globals)
}

func TestCompileTernaryExpr_ProducesSelect(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.TernaryExpr{
		Cond: &program.IntegerLiteralExpr{Value: 1},
		Then: &program.IntegerLiteralExpr{Value: 2},
		Else: &program.IntegerLiteralExpr{Value: 3},
	}, types.TypeI32, true)
	require.Equal(t, ir.KindSelect, node.Kind)
}

func TestCompileUnaryPrefixExpr_Not(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.UnaryPrefixExpr{
		Op:      program.PrefixNot,
		Operand: &program.IntegerLiteralExpr{Value: 1},
	}, types.TypeBool, true)
	require.Equal(t, ir.KindUnary, node.Kind)
	require.Equal(t, ir.OpI32Eqz, node.Op)
}

func TestCompileUnaryPrefixExpr_Negate(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.UnaryPrefixExpr{
		Op:      program.PrefixMinus,
		Operand: &program.IntegerLiteralExpr{Value: 5},
	}, types.TypeI32, true)
	require.Equal(t, ir.KindBinary, node.Kind)
	require.Equal(t, ir.OpI32Sub, node.Op)
}

func TestCompileUnaryPostfixExpr_Increment(t *testing.T) {
	c := newTestCompiler()
	fn := newTestFunction()
	fn.AddLocal(types.TypeI32, "x")
	var node ir.Node
	c.withFunction(fn, func() {
		node = c.compileExpression(&program.UnaryPostfixExpr{
			Op:      program.PostfixIncrement,
			Operand: &program.IdentifierExpr{Name: "x"},
		}, types.TypeI32, true)
	})
	require.Equal(t, ir.KindBlock, node.Kind)
	require.Len(t, node.Children, 2)
}

func TestCompileCallExpr_UnresolvedCalleeReportsLookup(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.CallExpr{Callee: &program.IdentifierExpr{Name: "missing"}}, types.TypeI32, true)
	require.Equal(t, ir.KindUnreachable, node.Kind)
	require.Equal(t, diag.KindLookup, c.Diag.Diagnostics()[0].Kind)
}

func TestCompileUnsupportedExpr_ReportsUnsupportedDiagnostic(t *testing.T) {
	c := newTestCompiler()
	node := c.compileExpression(&program.StringLiteralExpr{Value: "hi"}, types.TypeVoid, true)
	require.Equal(t, ir.KindUnreachable, node.Kind)
	require.Equal(t, diag.KindUnsupported, c.Diag.Diagnostics()[0].Kind)
}

func TestConvertExpression_VoidTargetDrops(t *testing.T) {
	c := newTestCompiler()
	value := ir.CreateI32(1)
	node := c.convertExpression(value, types.TypeI32, types.TypeVoid)
	require.Equal(t, ir.KindDrop, node.Kind)
}

func TestConvertExpression_SameTypeIsNoop(t *testing.T) {
	c := newTestCompiler()
	value := ir.CreateI32(1)
	node := c.convertExpression(value, types.TypeI32, types.TypeI32)
	require.Equal(t, value, node)
}

func TestConvertExpression_SmallIntegerNarrowing(t *testing.T) {
	c := newTestCompiler()
	node := c.convertExpression(ir.CreateI32(300), types.TypeI32, types.TypeI8)
	require.Equal(t, ir.KindBinary, node.Kind)
	require.Equal(t, ir.OpI32ShrS, node.Op)
}

// TestConvertExpression_SignedIntToFloatUsesSourceSignedness guards against
// keying the int->float opcode off the destination type: a float type is
// never itself "signed", so that would always pick the unsigned variant.
func TestConvertExpression_SignedIntToFloatUsesSourceSignedness(t *testing.T) {
	c := newTestCompiler()

	f32 := c.convertExpression(ir.CreateI32(-1), types.TypeI32, types.TypeF32)
	require.Equal(t, ir.OpF32ConvertI32S, f32.Op)

	f64 := c.convertExpression(ir.CreateI32(-1), types.TypeI32, types.TypeF64)
	require.Equal(t, ir.OpF64ConvertI32S, f64.Op)

	unsignedF32 := c.convertExpression(ir.CreateI32(1), types.TypeU32, types.TypeF32)
	require.Equal(t, ir.OpF32ConvertI32U, unsignedF32.Op)
}
