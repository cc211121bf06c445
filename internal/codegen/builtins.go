package codegen

import (
	"math"

	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

func float32Inf() float32 { return float32(math.Inf(1)) }
func float64Inf() float64 { return math.Inf(1) }

// compileBuiltinCall implements spec.md §4.4's builtin intrinsic table,
// dispatching on the callee's internal name. An unrecognized name reports
// a diagnostic and emits unreachable.
func (c *Compiler) compileBuiltinCall(proto *program.FunctionPrototype, e *program.CallExpr, ctx types.Type) ir.Node {
	switch proto.InternalName {
	case "clz":
		return c.builtinCountOp(e, ctx, ir.OpI32Clz, ir.OpI64Clz)
	case "ctz":
		return c.builtinCountOp(e, ctx, ir.OpI32Ctz, ir.OpI64Ctz)
	case "popcnt":
		return c.builtinCountOp(e, ctx, ir.OpI32Popcnt, ir.OpI64Popcnt)
	case "rotl":
		return c.builtinRotate(e, ctx, ir.OpI32Rotl, ir.OpI64Rotl)
	case "rotr":
		return c.builtinRotate(e, ctx, ir.OpI32Rotr, ir.OpI64Rotr)
	case "abs":
		return c.builtinFloatUnary(e, ctx, ir.OpF32Abs, ir.OpF64Abs)
	case "ceil":
		return c.builtinFloatUnary(e, ctx, ir.OpF32Ceil, ir.OpF64Ceil)
	case "floor":
		return c.builtinFloatUnary(e, ctx, ir.OpF32Floor, ir.OpF64Floor)
	case "nearest":
		return c.builtinFloatUnary(e, ctx, ir.OpF32Nearest, ir.OpF64Nearest)
	case "sqrt":
		return c.builtinFloatUnary(e, ctx, ir.OpF32Sqrt, ir.OpF64Sqrt)
	case "trunc":
		return c.builtinFloatUnary(e, ctx, ir.OpF32Trunc, ir.OpF64Trunc)
	case "copysign":
		return c.builtinFloatBinary(e, ctx, ir.OpF32Copysign, ir.OpF64Copysign)
	case "min":
		return c.builtinFloatBinary(e, ctx, ir.OpF32Min, ir.OpF64Min)
	case "max":
		return c.builtinFloatBinary(e, ctx, ir.OpF32Max, ir.OpF64Max)
	case "current_memory":
		c.currentType = types.TypeI32
		return c.Builder.CreateNullary(ir.OpMemorySize, ir.I32)
	case "grow_memory":
		c.Diag.Report(diag.KindWarning, "", "grow_memory is an unsafe operation")
		operand := c.compileExpression(e.Args[0], types.TypeI32, true)
		c.currentType = types.TypeI32
		return c.Builder.CreateUnary(ir.OpMemoryGrow, ir.I32, operand)
	case "unreachable":
		c.currentType = types.TypeVoid
		return c.Builder.CreateUnreachable()
	case "sizeof":
		return c.builtinSizeof(e, ctx)
	case "isNaN":
		return c.builtinIsNaN(e)
	case "isFinite":
		return c.builtinIsFinite(e)
	default:
		c.Diag.Report(diag.KindUnsupported, "", "unknown builtin %q", proto.InternalName)
		c.currentType = types.TypeVoid
		return c.Builder.CreateUnreachable()
	}
}

func (c *Compiler) builtinCountOp(e *program.CallExpr, ctx types.Type, op32, op64 ir.Opcode) ir.Node {
	v := c.compileExpression(e.Args[0], ctx, false)
	t := c.currentType
	native := c.nativeType(t)
	op := op32
	if native == ir.I64 {
		op = op64
	}
	c.currentType = t
	return c.Builder.CreateUnary(op, native, v)
}

func (c *Compiler) builtinRotate(e *program.CallExpr, ctx types.Type, op32, op64 ir.Opcode) ir.Node {
	v := c.compileExpression(e.Args[0], ctx, false)
	t := c.currentType
	native := c.nativeType(t)
	op := op32
	if native == ir.I64 {
		op = op64
	}
	shift := c.compileExpression(e.Args[1], t, true)
	c.currentType = t
	return c.Builder.CreateBinary(op, native, v, shift)
}

func (c *Compiler) builtinFloatUnary(e *program.CallExpr, ctx types.Type, op32, op64 ir.Opcode) ir.Node {
	v := c.compileExpression(e.Args[0], ctx, false)
	t := c.currentType
	native := c.nativeType(t)
	op := op32
	if native == ir.F64 {
		op = op64
	}
	c.currentType = t
	return c.Builder.CreateUnary(op, native, v)
}

func (c *Compiler) builtinFloatBinary(e *program.CallExpr, ctx types.Type, op32, op64 ir.Opcode) ir.Node {
	a := c.compileExpression(e.Args[0], ctx, false)
	t := c.currentType
	native := c.nativeType(t)
	op := op32
	if native == ir.F64 {
		op = op64
	}
	b := c.compileExpression(e.Args[1], t, true)
	c.currentType = t
	return c.Builder.CreateBinary(op, native, a, b)
}

// builtinSizeof implements sizeof<T> as a compile-time constant:
// ceil(T.sizeBits / 8), emitted as i32 or i64 by the target pointer
// width.
func (c *Compiler) builtinSizeof(e *program.CallExpr, ctx types.Type) ir.Node {
	if len(e.TypeArgs) == 0 {
		c.Diag.Report(diag.KindStructural, "", "sizeof requires a type argument")
		c.currentType = types.TypeI32
		return c.Builder.CreateI32(0)
	}
	t, ok := c.Program.ResolveType(e.TypeArgs[0], nil, true)
	if !ok {
		c.Diag.Report(diag.KindLookup, "", "unresolved type argument to sizeof")
		c.currentType = types.TypeI32
		return c.Builder.CreateI32(0)
	}
	bytes := (t.Size() + 7) / 8
	if c.Target == types.WASM64 {
		c.currentType = types.TypeI64
		return c.Builder.CreateI64(int64(bytes))
	}
	c.currentType = types.TypeI32
	return c.Builder.CreateI32(int32(bytes))
}

// builtinIsNaN implements isNaN(x): materialize x into a fresh temp so it
// is evaluated exactly once, then emit temp != temp for the matching
// float width.
func (c *Compiler) builtinIsNaN(e *program.CallExpr) ir.Node {
	x := c.compileExpression(e.Args[0], types.TypeF64, false)
	xType := c.currentType
	if !xType.IsAnyFloat() {
		x = c.convertExpression(x, xType, types.TypeF64)
		xType = types.TypeF64
	}
	native := c.nativeType(xType)
	temp := c.currentFunction.AddLocal(xType, "")
	setTemp := c.Builder.CreateSetLocal(temp.Index, x)
	get1 := c.Builder.CreateGetLocal(temp.Index, native)
	get2 := c.Builder.CreateGetLocal(temp.Index, native)
	neOp := ir.OpF32Ne
	if native == ir.F64 {
		neOp = ir.OpF64Ne
	}
	ne := c.Builder.CreateBinary(neOp, ir.I32, get1, get2)
	c.currentType = types.TypeBool
	return c.Builder.CreateBlock("", []ir.Node{setTemp, ne}, []ir.NativeType{ir.I32})
}

// builtinIsFinite implements isFinite(x): (x != x) ? 0 : abs(x) !=
// Infinity, evaluating x once via a fresh temp. The source this core is
// modeled on uses an F64 get-local against an F32-typed temp for the f32
// overload, which reads back garbage bits; this implementation always
// matches the temp's native width to x's actual type instead.
func (c *Compiler) builtinIsFinite(e *program.CallExpr) ir.Node {
	x := c.compileExpression(e.Args[0], types.TypeF64, false)
	xType := c.currentType
	if !xType.IsAnyFloat() {
		x = c.convertExpression(x, xType, types.TypeF64)
		xType = types.TypeF64
	}
	native := c.nativeType(xType)
	temp := c.currentFunction.AddLocal(xType, "")
	setTemp := c.Builder.CreateSetLocal(temp.Index, x)

	isNaN := c.Builder.CreateBinary(neOpcode(native), ir.I32, c.Builder.CreateGetLocal(temp.Index, native), c.Builder.CreateGetLocal(temp.Index, native))

	absOp, infinite, neOp := ir.OpF32Abs, c.Builder.CreateF32(float32Inf()), ir.OpF32Ne
	if native == ir.F64 {
		absOp, infinite, neOp = ir.OpF64Abs, c.Builder.CreateF64(float64Inf()), ir.OpF64Ne
	}
	abs := c.Builder.CreateUnary(absOp, native, c.Builder.CreateGetLocal(temp.Index, native))
	notInfinite := c.Builder.CreateBinary(neOp, ir.I32, abs, infinite)

	zero := c.Builder.CreateI32(0)
	selected := c.Builder.CreateSelect(isNaN, zero, notInfinite, ir.I32)

	c.currentType = types.TypeBool
	return c.Builder.CreateBlock("", []ir.Node{setTemp, selected}, []ir.NativeType{ir.I32})
}

func neOpcode(native ir.NativeType) ir.Opcode {
	if native == ir.F64 {
		return ir.OpF64Ne
	}
	return ir.OpF32Ne
}
