package codegen

import (
	"math"

	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

// compileExpression implements spec.md §4.3's central invariant: on entry
// currentType is set to ctx; the per-form compiler may overwrite it with
// the expression's actual produced type; if convert and the actual type
// differs from ctx, the value is converted and currentType restored to
// ctx.
func (c *Compiler) compileExpression(e program.Expr, ctx types.Type, convert bool) ir.Node {
	c.currentType = ctx
	node := c.compileExpressionForm(e, ctx)
	if convert && !c.currentType.Equal(ctx) {
		node = c.convertExpression(node, c.currentType, ctx)
		c.currentType = ctx
	}
	return node
}

func (c *Compiler) compileExpressionForm(e program.Expr, ctx types.Type) ir.Node {
	switch ex := e.(type) {
	case *program.IntegerLiteralExpr:
		return c.compileIntegerLiteral(ex, ctx)
	case *program.FloatLiteralExpr:
		return c.compileFloatLiteral(ex, ctx)
	case *program.IdentifierExpr:
		return c.compileIdentifierExpr(ex, ctx)
	case *program.BinaryExpr:
		return c.compileBinaryExpr(ex, ctx)
	case *program.CompoundAssignExpr:
		return c.compileCompoundAssignExpr(ex, ctx)
	case *program.AssignExpr:
		return c.compileAssignExpr(ex, ctx)
	case *program.UnaryPrefixExpr:
		return c.compileUnaryPrefixExpr(ex, ctx)
	case *program.UnaryPostfixExpr:
		return c.compileUnaryPostfixExpr(ex, ctx)
	case *program.TernaryExpr:
		return c.compileTernaryExpr(ex, ctx)
	case *program.CallExpr:
		return c.compileCallExpr(ex, ctx)
	case *program.ParenExpr:
		return c.compileExpression(ex.Inner, ctx, true)
	case *program.NewExpr, *program.ElementAccessExpr, *program.PropertyAccessExpr,
		*program.ArrayLiteralExpr, *program.ObjectLiteralExpr, *program.StringLiteralExpr:
		return c.compileUnsupportedExpr(e)
	default:
		diag.Fatal("unhandled expression kind %T", e)
		return c.Builder.CreateUnreachable()
	}
}

// compileUnsupportedExpr covers the design seams spec.md §4.3 calls out:
// new, array/object/string literals, element and property access.
func (c *Compiler) compileUnsupportedExpr(e program.Expr) ir.Node {
	c.Diag.Report(diag.KindUnsupported, "", "%T is not implemented", e)
	return c.Builder.CreateUnreachable()
}

// --- Literals ---

func (c *Compiler) compileIntegerLiteral(e *program.IntegerLiteralExpr, ctx types.Type) ir.Node {
	if ctx.Kind == types.Bool && (e.Value == 0 || e.Value == 1) {
		c.currentType = types.TypeBool
		return c.Builder.CreateI32(int32(e.Value))
	}
	if ctx.IsLongInteger() {
		c.currentType = ctx
		return c.Builder.CreateI64(e.Value)
	}
	if e.Value >= math.MinInt32 && e.Value <= math.MaxInt32 {
		c.currentType = types.TypeI32
		return c.Builder.CreateI32(int32(e.Value))
	}
	c.currentType = types.TypeI64
	return c.Builder.CreateI64(e.Value)
}

func (c *Compiler) compileFloatLiteral(e *program.FloatLiteralExpr, ctx types.Type) ir.Node {
	if ctx.Kind == types.F32 {
		c.currentType = types.TypeF32
		return c.Builder.CreateF32(float32(e.Value))
	}
	c.currentType = types.TypeF64
	return c.Builder.CreateF64(e.Value)
}

// --- Identifiers ---

func (c *Compiler) compileIdentifierExpr(e *program.IdentifierExpr, ctx types.Type) ir.Node {
	switch e.Name {
	case "true":
		c.currentType = types.TypeBool
		return c.Builder.CreateI32(1)
	case "false":
		c.currentType = types.TypeBool
		return c.Builder.CreateI32(0)
	case "null":
		return c.compileNullLiteral(ctx)
	case "this":
		return c.compileThisExpr()
	case "NaN":
		if ctx.Kind == types.F32 {
			c.currentType = types.TypeF32
			return c.Builder.CreateF32(float32(math.NaN()))
		}
		c.currentType = types.TypeF64
		return c.Builder.CreateF64(math.NaN())
	case "Infinity":
		if ctx.Kind == types.F32 {
			c.currentType = types.TypeF32
			return c.Builder.CreateF32(float32(math.Inf(1)))
		}
		c.currentType = types.TypeF64
		return c.Builder.CreateF64(math.Inf(1))
	default:
		return c.compileIdentifierReference(e)
	}
}

func (c *Compiler) compileNullLiteral(ctx types.Type) ir.Node {
	if ctx.IsClass() {
		c.currentType = ctx
	} else if c.Target == types.WASM64 {
		c.currentType = types.Usize_(c.Target)
	} else {
		c.currentType = types.TypeU32
	}
	if c.nativeType(c.currentType) == ir.I64 {
		return c.Builder.CreateI64(0)
	}
	return c.Builder.CreateI32(0)
}

func (c *Compiler) compileThisExpr() ir.Node {
	if c.currentFunction != nil && c.currentFunction.InstanceMethodOf != nil {
		c.currentType = types.ClassRef(c.currentFunction.InstanceMethodOf.InternalName)
		return c.Builder.CreateGetLocal(0, c.nativeType(c.currentType))
	}
	c.Diag.Report(diag.KindStructural, "", "'this' used outside an instance method")
	c.currentType = types.TypeVoid
	return c.Builder.CreateUnreachable()
}

func (c *Compiler) compileIdentifierReference(e *program.IdentifierExpr) ir.Node {
	if c.currentFunction != nil {
		if local, ok := c.currentFunction.FindLocal(e.Name); ok {
			c.currentType = local.Type
			return c.Builder.CreateGetLocal(local.Index, c.nativeType(local.Type))
		}
	}
	el, ok := c.Program.ResolveElement(e, c.currentFunction)
	if !ok {
		c.Diag.Report(diag.KindLookup, "", "unresolved identifier %q", e.Name)
		c.currentType = types.TypeVoid
		return c.Builder.CreateUnreachable()
	}
	switch el := el.(type) {
	case *program.Global:
		c.compileGlobal(el)
		c.currentType = el.Type
		return c.Builder.CreateGetGlobal(el.GlobalIndex, c.nativeType(el.Type))
	case *program.EnumMember:
		if !el.Owner.IsCompiled {
			c.compileEnumDecl(enumDeclFromElement(el.Owner))
		}
		c.currentType = types.TypeI32
		return c.Builder.CreateGetGlobal(el.GlobalIndex, ir.I32)
	default:
		c.Diag.Report(diag.KindUnsupported, "", "cannot reference element kind for %q", e.Name)
		c.currentType = types.TypeVoid
		return c.Builder.CreateUnreachable()
	}
}

// --- Binary operators ---

func isShiftOrBitwise(op program.BinaryOp) bool {
	switch op {
	case program.OpAnd, program.OpOr, program.OpXor, program.OpShl, program.OpShrArith, program.OpShrLogical:
		return true
	default:
		return false
	}
}

// compileBinaryExpr implements spec.md §4.3's type-directed operator
// selection: the left operand picks the concrete instruction family, the
// right operand is compiled under that same type, and shifts/bitwise
// operators reject a float-typed left operand by substituting i64 (u64
// for the unsigned right shift).
func (c *Compiler) compileBinaryExpr(e *program.BinaryExpr, ctx types.Type) ir.Node {
	left := c.compileExpression(e.Left, ctx, false)
	actualLeftType := c.currentType

	effectiveType := actualLeftType
	if isShiftOrBitwise(e.Op) && effectiveType.IsAnyFloat() {
		if e.Op == program.OpShrLogical {
			effectiveType = types.TypeU64
		} else {
			effectiveType = types.TypeI64
		}
	}
	if !effectiveType.Equal(actualLeftType) {
		left = c.convertExpression(left, actualLeftType, effectiveType)
	}

	right := c.compileExpression(e.Right, effectiveType, true)

	native := c.nativeType(effectiveType)
	op, isCompare := c.selectBinaryOp(e.Op, effectiveType, native)
	if isCompare {
		c.currentType = types.TypeBool
		return c.Builder.CreateBinary(op, ir.I32, left, right)
	}
	c.currentType = effectiveType
	return c.Builder.CreateBinary(op, native, left, right)
}

// selectBinaryOp maps a surface operator plus its operand's native
// representation to a concrete opcode, choosing the signed or unsigned
// variant from t's signedness where WebAssembly distinguishes them.
// Reports true in its second return when op is a comparison (which always
// produces an i32 bool, regardless of operand width).
func (c *Compiler) selectBinaryOp(op program.BinaryOp, t types.Type, native ir.NativeType) (ir.Opcode, bool) {
	signed := t.IsSignedInteger()
	switch native {
	case ir.F32:
		switch op {
		case program.OpAdd:
			return ir.OpF32Add, false
		case program.OpSub:
			return ir.OpF32Sub, false
		case program.OpMul:
			return ir.OpF32Mul, false
		case program.OpDiv:
			return ir.OpF32Div, false
		case program.OpEq:
			return ir.OpF32Eq, true
		case program.OpNe:
			return ir.OpF32Ne, true
		case program.OpLt:
			return ir.OpF32Lt, true
		case program.OpGt:
			return ir.OpF32Gt, true
		case program.OpLe:
			return ir.OpF32Le, true
		case program.OpGe:
			return ir.OpF32Ge, true
		}
	case ir.F64:
		switch op {
		case program.OpAdd:
			return ir.OpF64Add, false
		case program.OpSub:
			return ir.OpF64Sub, false
		case program.OpMul:
			return ir.OpF64Mul, false
		case program.OpDiv:
			return ir.OpF64Div, false
		case program.OpEq:
			return ir.OpF64Eq, true
		case program.OpNe:
			return ir.OpF64Ne, true
		case program.OpLt:
			return ir.OpF64Lt, true
		case program.OpGt:
			return ir.OpF64Gt, true
		case program.OpLe:
			return ir.OpF64Le, true
		case program.OpGe:
			return ir.OpF64Ge, true
		}
	case ir.I64:
		switch op {
		case program.OpAdd:
			return ir.OpI64Add, false
		case program.OpSub:
			return ir.OpI64Sub, false
		case program.OpMul:
			return ir.OpI64Mul, false
		case program.OpDiv:
			if signed {
				return ir.OpI64DivS, false
			}
			return ir.OpI64DivU, false
		case program.OpRem:
			if signed {
				return ir.OpI64RemS, false
			}
			return ir.OpI64RemU, false
		case program.OpAnd:
			return ir.OpI64And, false
		case program.OpOr:
			return ir.OpI64Or, false
		case program.OpXor:
			return ir.OpI64Xor, false
		case program.OpShl:
			return ir.OpI64Shl, false
		case program.OpShrArith:
			return ir.OpI64ShrS, false
		case program.OpShrLogical:
			return ir.OpI64ShrU, false
		case program.OpEq:
			return ir.OpI64Eq, true
		case program.OpNe:
			return ir.OpI64Ne, true
		case program.OpLt:
			if signed {
				return ir.OpI64LtS, true
			}
			return ir.OpI64LtU, true
		case program.OpGt:
			if signed {
				return ir.OpI64GtS, true
			}
			return ir.OpI64GtU, true
		case program.OpLe:
			if signed {
				return ir.OpI64LeS, true
			}
			return ir.OpI64LeU, true
		case program.OpGe:
			if signed {
				return ir.OpI64GeS, true
			}
			return ir.OpI64GeU, true
		}
	default: // I32
		switch op {
		case program.OpAdd:
			return ir.OpI32Add, false
		case program.OpSub:
			return ir.OpI32Sub, false
		case program.OpMul:
			return ir.OpI32Mul, false
		case program.OpDiv:
			if signed {
				return ir.OpI32DivS, false
			}
			return ir.OpI32DivU, false
		case program.OpRem:
			if signed {
				return ir.OpI32RemS, false
			}
			return ir.OpI32RemU, false
		case program.OpAnd:
			return ir.OpI32And, false
		case program.OpOr:
			return ir.OpI32Or, false
		case program.OpXor:
			return ir.OpI32Xor, false
		case program.OpShl:
			return ir.OpI32Shl, false
		case program.OpShrArith:
			return ir.OpI32ShrS, false
		case program.OpShrLogical:
			return ir.OpI32ShrU, false
		case program.OpEq:
			return ir.OpI32Eq, true
		case program.OpNe:
			return ir.OpI32Ne, true
		case program.OpLt:
			if signed {
				return ir.OpI32LtS, true
			}
			return ir.OpI32LtU, true
		case program.OpGt:
			if signed {
				return ir.OpI32GtS, true
			}
			return ir.OpI32GtU, true
		case program.OpLe:
			if signed {
				return ir.OpI32LeS, true
			}
			return ir.OpI32LeU, true
		case program.OpGe:
			if signed {
				return ir.OpI32GeS, true
			}
			return ir.OpI32GeU, true
		}
	}
	diag.Fatal("no opcode for binary operator %v over native type %v", op, native)
	return 0, false
}

// --- Assignment ---

func (c *Compiler) compileCompoundAssignExpr(e *program.CompoundAssignExpr, ctx types.Type) ir.Node {
	combined := c.compileBinaryExpr(&program.BinaryExpr{Op: e.Op, Left: e.Target, Right: e.Value}, ctx)
	combinedType := c.currentType
	tee := !ctx.IsVoid()
	node := c.compileAssignmentWithValue(e.Target, combined, tee)
	c.currentType = combinedType
	if !tee {
		c.currentType = types.TypeVoid
	}
	return node
}

// compileAssignExpr implements spec.md §4.3's assignment lowering:
// determineExpressionType dry-runs the target to learn its type, the
// value is lowered under that type, then compileAssignmentWithValue
// performs the store.
func (c *Compiler) compileAssignExpr(e *program.AssignExpr, ctx types.Type) ir.Node {
	targetType := c.determineExpressionType(e.Target)
	value := c.compileExpression(e.Value, targetType, true)
	tee := !ctx.IsVoid()
	node := c.compileAssignmentWithValue(e.Target, value, tee)
	c.currentType = targetType
	if !tee {
		c.currentType = types.TypeVoid
	}
	return node
}

// determineExpressionType discovers target's type with no side effects,
// via a scoped noEmit dry run on the backend builder (spec.md §9).
func (c *Compiler) determineExpressionType(target program.Expr) types.Type {
	var t types.Type
	c.Builder.WithNoEmit(func() {
		c.compileExpression(target, types.TypeVoid, false)
		t = c.currentType
	})
	return t
}

// compileAssignmentToLocal implements the Local half of
// compileAssignmentWithValue for callers that already hold a resolved
// Local (variable declarations), with no Element lookup required.
func (c *Compiler) compileAssignmentToLocal(local *program.Local, value ir.Node, tee bool) ir.Node {
	if tee {
		return c.Builder.CreateTeeLocal(local.Index, value, c.nativeType(local.Type))
	}
	return c.Builder.CreateSetLocal(local.Index, value)
}

// compileAssignmentWithValue implements spec.md §4.3's
// compileAssignmentWithValue: resolve target to an Element, then emit
// set_local/tee_local for a Local or set_global (plus a get_global when
// teeing) for a Global. Fields and setters are a design seam.
func (c *Compiler) compileAssignmentWithValue(target program.Expr, value ir.Node, tee bool) ir.Node {
	ident, ok := target.(*program.IdentifierExpr)
	if !ok {
		c.Diag.Report(diag.KindUnsupported, "", "assignment to this expression form is not implemented")
		return c.Builder.CreateUnreachable()
	}
	if c.currentFunction != nil {
		if local, ok := c.currentFunction.FindLocal(ident.Name); ok {
			return c.compileAssignmentToLocal(&local, value, tee)
		}
	}
	el, ok := c.Program.ResolveElement(ident, c.currentFunction)
	if !ok {
		c.Diag.Report(diag.KindLookup, "", "unresolved assignment target %q", ident.Name)
		return c.Builder.CreateUnreachable()
	}
	g, ok := el.(*program.Global)
	if !ok {
		c.Diag.Report(diag.KindUnsupported, "", "assignment to this element kind is not implemented")
		return c.Builder.CreateUnreachable()
	}
	c.compileGlobal(g)
	setNode := c.Builder.CreateSetGlobal(g.GlobalIndex, value)
	if !tee {
		return setNode
	}
	native := c.nativeType(g.Type)
	getNode := c.Builder.CreateGetGlobal(g.GlobalIndex, native)
	return c.Builder.CreateBlock("", []ir.Node{setNode, getNode}, []ir.NativeType{native})
}

// --- Conversions ---

// convertExpression implements spec.md §4.3's sign/extension truth
// table. A void target drops the value; conversion from void never
// happens (the caller would have nothing to convert).
func (c *Compiler) convertExpression(value ir.Node, from, to types.Type) ir.Node {
	if to.IsVoid() {
		return c.Builder.CreateDrop(value)
	}
	if from.Equal(to) {
		return value
	}
	switch {
	case from.Kind == types.F32:
		return c.convertFromF32(value, to)
	case from.Kind == types.F64:
		return c.convertFromF64(value, to)
	case from.IsLongInteger():
		return c.convertFromLong(value, from, to)
	default:
		return c.convertFromInt(value, from, to)
	}
}

func (c *Compiler) convertFromF32(value ir.Node, to types.Type) ir.Node {
	switch {
	case to.Kind == types.F64:
		return c.Builder.CreateUnary(ir.OpF64PromoteF32, ir.F64, value)
	case to.IsLongInteger():
		op := ir.OpI64TruncF32U
		if to.IsSignedInteger() {
			op = ir.OpI64TruncF32S
		}
		return c.Builder.CreateUnary(op, ir.I64, value)
	default:
		op := ir.OpI32TruncF32U
		if to.IsSignedInteger() {
			op = ir.OpI32TruncF32S
		}
		trunced := c.Builder.CreateUnary(op, ir.I32, value)
		if to.IsSmallInteger() {
			return c.normalizeSmallInt(trunced, to)
		}
		return trunced
	}
}

func (c *Compiler) convertFromF64(value ir.Node, to types.Type) ir.Node {
	switch {
	case to.Kind == types.F32:
		return c.Builder.CreateUnary(ir.OpF32DemoteF64, ir.F32, value)
	case to.IsLongInteger():
		op := ir.OpI64TruncF64U
		if to.IsSignedInteger() {
			op = ir.OpI64TruncF64S
		}
		return c.Builder.CreateUnary(op, ir.I64, value)
	default:
		op := ir.OpI32TruncF64U
		if to.IsSignedInteger() {
			op = ir.OpI32TruncF64S
		}
		trunced := c.Builder.CreateUnary(op, ir.I32, value)
		if to.IsSmallInteger() {
			return c.normalizeSmallInt(trunced, to)
		}
		return trunced
	}
}

func (c *Compiler) convertFromLong(value ir.Node, from, to types.Type) ir.Node {
	signed := from.IsSignedInteger()
	switch {
	case to.Kind == types.F32:
		op := ir.OpF32ConvertI64U
		if signed {
			op = ir.OpF32ConvertI64S
		}
		return c.Builder.CreateUnary(op, ir.F32, value)
	case to.Kind == types.F64:
		op := ir.OpF64ConvertI64U
		if signed {
			op = ir.OpF64ConvertI64S
		}
		return c.Builder.CreateUnary(op, ir.F64, value)
	default:
		wrapped := c.Builder.CreateUnary(ir.OpI32WrapI64, ir.I32, value)
		if to.IsSmallInteger() {
			return c.normalizeSmallInt(wrapped, to)
		}
		return wrapped
	}
}

func (c *Compiler) convertFromInt(value ir.Node, from, to types.Type) ir.Node {
	signed := from.IsSignedInteger()
	switch {
	case to.Kind == types.F32:
		op := ir.OpF32ConvertI32U
		if signed {
			op = ir.OpF32ConvertI32S
		}
		return c.Builder.CreateUnary(op, ir.F32, value)
	case to.Kind == types.F64:
		op := ir.OpF64ConvertI32U
		if signed {
			op = ir.OpF64ConvertI32S
		}
		return c.Builder.CreateUnary(op, ir.F64, value)
	case to.IsLongInteger():
		op := ir.OpI64ExtendI32U
		if from.IsSignedInteger() {
			op = ir.OpI64ExtendI32S
		}
		return c.Builder.CreateUnary(op, ir.I64, value)
	case to.IsSmallInteger():
		return c.normalizeSmallInt(value, to)
	default:
		// Same native i32 representation, differing only in logical
		// signage: the bit pattern needs no instruction.
		return value
	}
}

// normalizeSmallInt narrows an i32 value to to's logical width using the
// shl/shr (signed) or and-mask (unsigned) pattern spec.md §9 prefers over
// a dedicated narrowing instruction, matching compileGlobal's compile-time
// equivalent in globals.go.
func (c *Compiler) normalizeSmallInt(value ir.Node, to types.Type) ir.Node {
	if to.IsSignedInteger() {
		shift := int32(to.SmallIntegerShift())
		shl := c.Builder.CreateBinary(ir.OpI32Shl, ir.I32, value, c.Builder.CreateI32(shift))
		return c.Builder.CreateBinary(ir.OpI32ShrS, ir.I32, shl, c.Builder.CreateI32(shift))
	}
	mask := int32(to.SmallIntegerMask())
	return c.Builder.CreateBinary(ir.OpI32And, ir.I32, value, c.Builder.CreateI32(mask))
}

// --- Select / ternary ---

func (c *Compiler) compileTernaryExpr(e *program.TernaryExpr, ctx types.Type) ir.Node {
	cond := c.compileExpression(e.Cond, types.TypeI32, true)
	then := c.compileExpression(e.Then, ctx, true)
	alt := c.compileExpression(e.Else, ctx, true)
	c.currentType = ctx
	return c.Builder.CreateSelect(cond, then, alt, c.nativeType(ctx))
}

// --- Calls ---

// compileCallExpr implements spec.md §4.3's call lowering: resolve the
// callee, dispatch builtins by name, otherwise resolve a concrete
// instance, validate arity (falling back to a default-initializer
// expression lowered in the caller's scope — a known limitation carried
// from the source, see SPEC_FULL.md §9/DESIGN.md), and emit a direct or
// import call.
func (c *Compiler) compileCallExpr(e *program.CallExpr, ctx types.Type) ir.Node {
	el, ok := c.Program.ResolveElement(e.Callee, c.currentFunction)
	if !ok {
		c.Diag.Report(diag.KindLookup, "", "unresolved call target")
		c.currentType = types.TypeVoid
		return c.Builder.CreateUnreachable()
	}

	var fn *program.Function
	switch target := el.(type) {
	case *program.FunctionPrototype:
		if target.IsBuiltin {
			return c.compileBuiltinCall(target, e, ctx)
		}
		var typeArgs []types.Type
		for _, ta := range e.TypeArgs {
			t, ok := c.Program.ResolveType(ta, nil, true)
			if ok {
				typeArgs = append(typeArgs, t)
			}
		}
		resolved, ok := target.ResolveInclTypeArguments(c.Program, typeArgs, nil, e)
		if !ok {
			diag.Fatal("resolver promised a call instance for %q but could not resolve it", target.InternalName)
		}
		fn = resolved
	case *program.Function:
		fn = target
	default:
		c.Diag.Report(diag.KindStructural, "", "call target is not a function")
		c.currentType = types.TypeVoid
		return c.Builder.CreateUnreachable()
	}
	c.compileFunction(fn)

	if len(e.Args) > len(fn.Parameters) {
		c.Diag.Report(diag.KindStructural, "", "too many arguments to %q", fn.InternalName)
	}
	args := make([]ir.Node, len(fn.Parameters))
	for i, p := range fn.Parameters {
		switch {
		case i < len(e.Args):
			args[i] = c.compileExpression(e.Args[i], p.Type, true)
		case p.Default != nil:
			args[i] = c.compileExpression(p.Default, p.Type, true)
		default:
			c.Diag.Report(diag.KindStructural, "", "missing required argument %q to %q", p.InternalName, fn.InternalName)
			args[i] = zeroConst(c.nativeType(p.Type))
		}
	}

	c.currentType = fn.ReturnType
	result := c.nativeType(fn.ReturnType)
	hasResult := !fn.ReturnType.IsVoid()
	if fn.IsImport {
		return c.Builder.CreateCallImport(fn.FuncIndex, args, result, hasResult)
	}
	return c.Builder.CreateCall(fn.FuncIndex, args, result, hasResult)
}

// --- Unary ---

func (c *Compiler) compileUnaryPrefixExpr(e *program.UnaryPrefixExpr, ctx types.Type) ir.Node {
	switch e.Op {
	case program.PrefixPlus:
		return c.compileExpression(e.Operand, ctx, true)
	case program.PrefixMinus:
		return c.compileNegate(e.Operand, ctx)
	case program.PrefixIncrement, program.PrefixDecrement:
		return c.compileIncDecPrefix(e, ctx)
	case program.PrefixNot:
		v := c.compileExpression(e.Operand, types.TypeBool, true)
		c.currentType = types.TypeBool
		return c.Builder.CreateUnary(ir.OpI32Eqz, ir.I32, v)
	case program.PrefixBitNot:
		return c.compileBitNot(e.Operand, ctx)
	default:
		diag.Fatal("unhandled unary prefix operator %v", e.Op)
		return c.Builder.CreateUnreachable()
	}
}

func (c *Compiler) compileNegate(operand program.Expr, ctx types.Type) ir.Node {
	v := c.compileExpression(operand, ctx, true)
	t := c.currentType
	native := c.nativeType(t)
	if t.IsAnyFloat() {
		op := ir.OpF32Neg
		if native == ir.F64 {
			op = ir.OpF64Neg
		}
		c.currentType = t
		return c.Builder.CreateUnary(op, native, v)
	}
	op := ir.OpI32Sub
	if native == ir.I64 {
		op = ir.OpI64Sub
	}
	c.currentType = t
	return c.Builder.CreateBinary(op, native, zeroConst(native), v)
}

func (c *Compiler) compileBitNot(operand program.Expr, ctx types.Type) ir.Node {
	v := c.compileExpression(operand, ctx, false)
	t := c.currentType
	native := c.nativeType(t)
	op := ir.OpI32Xor
	allOnes := c.Builder.CreateI32(-1)
	if native == ir.I64 {
		op = ir.OpI64Xor
		allOnes = c.Builder.CreateI64(-1)
	}
	c.currentType = t
	return c.Builder.CreateBinary(op, native, v, allOnes)
}

func (c *Compiler) compileIncDecPrefix(e *program.UnaryPrefixExpr, ctx types.Type) ir.Node {
	op := program.OpAdd
	if e.Op == program.PrefixDecrement {
		op = program.OpSub
	}
	combined := c.compileBinaryExpr(&program.BinaryExpr{Op: op, Left: e.Operand, Right: &program.IntegerLiteralExpr{Value: 1}}, ctx)
	combinedType := c.currentType
	node := c.compileAssignmentWithValue(e.Operand, combined, true)
	c.currentType = combinedType
	return node
}

// compileUnaryPostfixExpr implements spec.md §4.3's postfix lowering: a
// two-element block holding the pre-increment read, then the store; the
// store's own operand sub-expression rereads the operand independently,
// so the outer read's value is left untouched on the block's result.
func (c *Compiler) compileUnaryPostfixExpr(e *program.UnaryPostfixExpr, ctx types.Type) ir.Node {
	pre := c.compileExpression(e.Operand, ctx, false)
	operandType := c.currentType
	native := c.nativeType(operandType)

	addOp, _ := c.selectBinaryOp(postfixBinaryOp(e.Op), operandType, native)
	one := c.compileExpression(&program.IntegerLiteralExpr{Value: 1}, operandType, true)
	sum := c.Builder.CreateBinary(addOp, native, pre, one)
	setNode := c.compileAssignmentWithValue(e.Operand, sum, false)

	c.currentType = operandType
	return c.Builder.CreateBlock("", []ir.Node{pre, setNode}, []ir.NativeType{native})
}

func postfixBinaryOp(op program.UnaryPostfixOp) program.BinaryOp {
	if op == program.PostfixDecrement {
		return program.OpSub
	}
	return program.OpAdd
}
