package codegen

import (
	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

// compileGlobal implements spec.md §4.1's three initializer strategies.
//
// Unlike the source this core is modeled on, the backend global's native
// type is always derived from the element's logical Type (see
// SPEC_FULL.md §9 / DESIGN.md): using NativeType.I32 unconditionally for
// i64/f32/f64 globals was flagged as a bug, not a design choice to
// preserve.
func (c *Compiler) compileGlobal(g *program.Global) {
	if g.IsCompiled {
		return
	}
	if c.Builder.NoEmit {
		// A type-only dry run (determineExpressionType) must not mark g
		// compiled or queue a start-function initializer: doing so under
		// NoEmit would make the real compile that follows see IsCompiled
		// and skip emission entirely, leaving g emitted zero times.
		return
	}
	g.IsCompiled = true

	native := c.nativeType(g.Type)

	if g.ConstValue != nil {
		init := constNode(native, g.ConstValue)
		g.GlobalIndex = c.Builder.AddGlobal(&ir.Global{Type: native, Mutable: false, Init: init, Name: g.InternalName})
		return
	}

	if g.Decl != nil && g.Decl.Initializer != nil {
		saved := c.saveContext()
		c.currentFunction = c.startFunction
		value := c.compileExpression(g.Decl.Initializer, g.Type, true)
		c.restoreContext(saved)

		if isLiteralExpr(g.Decl.Initializer) {
			g.GlobalIndex = c.Builder.AddGlobal(&ir.Global{Type: native, Mutable: !g.IsImmutable, Init: value, Name: g.InternalName})
			return
		}

		placeholder := placeholderConst(native)
		g.GlobalIndex = c.Builder.AddGlobal(&ir.Global{Type: native, Mutable: true, Init: placeholder, Name: g.InternalName})
		c.appendStart(c.Builder.CreateSetGlobal(g.GlobalIndex, value))
		return
	}

	zero := zeroConst(native)
	g.GlobalIndex = c.Builder.AddGlobal(&ir.Global{Type: native, Mutable: !g.IsImmutable, Init: zero, Name: g.InternalName})
}

// constNode turns a compile-time ConstantValue into a backend constant
// node, sign/zero-extending small integers to i32 the way a literal of
// that width would be emitted (spec.md §4.1).
func constNode(native ir.NativeType, v *program.ConstantValue) ir.Node {
	switch native {
	case ir.I32:
		return ir.CreateI32(normalizeSmallInt(v))
	case ir.I64:
		return ir.CreateI64(v.I64)
	case ir.F32:
		return ir.CreateF32(float32(v.F64))
	case ir.F64:
		return ir.CreateF64(v.F64)
	default:
		return ir.CreateI32(0)
	}
}

func normalizeSmallInt(v *program.ConstantValue) int32 {
	t := v.Type
	if !t.IsSmallInteger() {
		return int32(v.I64)
	}
	if t.IsSignedInteger() {
		shift := uint(t.SmallIntegerShift())
		return (int32(v.I64) << shift) >> shift
	}
	return int32(uint32(v.I64) & t.SmallIntegerMask())
}

func placeholderConst(native ir.NativeType) ir.Node {
	switch native {
	case ir.I32:
		return ir.CreateI32(-1)
	case ir.I64:
		return ir.CreateI64(-1)
	case ir.F32:
		return ir.CreateF32(-1)
	case ir.F64:
		return ir.CreateF64(-1)
	default:
		return ir.CreateI32(-1)
	}
}

func zeroConst(native ir.NativeType) ir.Node {
	switch native {
	case ir.I32:
		return ir.CreateI32(0)
	case ir.I64:
		return ir.CreateI64(0)
	case ir.F32:
		return ir.CreateF32(0)
	case ir.F64:
		return ir.CreateF64(0)
	default:
		return ir.CreateI32(0)
	}
}

func isLiteralExpr(e program.Expr) bool {
	switch e.(type) {
	case *program.IntegerLiteralExpr, *program.FloatLiteralExpr:
		return true
	default:
		return false
	}
}

// compileEnumDecl implements spec.md §4.1's compileEnum: each member picks
// a constant (its own constant, an explicit initializer, or previous+1),
// emitted as an i32 global. Non-literal initializers defer to the start
// function via the same placeholder pattern compileGlobal uses.
//
// SPEC_FULL.md §9 preserves the source's ordering caveat verbatim: the
// start-function body is appended in declaration order, so a later
// member's "previous+1" global.get always reads an already-initialized
// global by the time the start function runs, even though the *global
// table* itself is built before any start-function code executes.
func (c *Compiler) compileEnumDecl(decl *program.EnumDecl) {
	el, ok := c.Program.Element(decl.Name)
	if !ok {
		diag.Fatal("resolver promised enum %q but it is not in the element table", decl.Name)
	}
	enum, ok := el.(*program.Enum)
	if !ok {
		diag.Fatal("element %q is not an Enum", decl.Name)
	}
	if enum.IsCompiled {
		return
	}
	enum.IsCompiled = true

	var previous *program.EnumMember
	for i, member := range enum.Members {
		member.IsCompiled = true
		switch {
		case member.ConstValue != nil:
			member.GlobalIndex = c.Builder.AddGlobal(&ir.Global{
				Type: ir.I32, Mutable: false, Init: constNode(ir.I32, member.ConstValue), Name: member.InternalName,
			})
		case member.Initializer != nil:
			c.compileEnumMemberWithInitializer(member)
		case previous != nil:
			c.compileEnumMemberAsPreviousPlusOne(member, previous)
		default:
			// First member with no initializer defaults to 0.
			member.GlobalIndex = c.Builder.AddGlobal(&ir.Global{
				Type: ir.I32, Mutable: false, Init: ir.CreateI32(0), Name: member.InternalName,
			})
		}
		previous = enum.Members[i]
	}
}

func (c *Compiler) compileEnumMemberWithInitializer(member *program.EnumMember) {
	saved := c.saveContext()
	c.currentFunction = c.startFunction
	value := c.compileExpression(member.Initializer, types.TypeI32, true)
	c.restoreContext(saved)

	if isLiteralExpr(member.Initializer) {
		member.GlobalIndex = c.Builder.AddGlobal(&ir.Global{Type: ir.I32, Mutable: false, Init: value, Name: member.InternalName})
		return
	}
	member.GlobalIndex = c.Builder.AddGlobal(&ir.Global{Type: ir.I32, Mutable: true, Init: ir.CreateI32(-1), Name: member.InternalName})
	c.appendStart(c.Builder.CreateSetGlobal(member.GlobalIndex, value))
}

func (c *Compiler) compileEnumMemberAsPreviousPlusOne(member, previous *program.EnumMember) {
	member.GlobalIndex = c.Builder.AddGlobal(&ir.Global{Type: ir.I32, Mutable: true, Init: ir.CreateI32(-1), Name: member.InternalName})
	value := c.Builder.CreateBinary(ir.OpI32Add, ir.I32, c.Builder.CreateGetGlobal(previous.GlobalIndex, ir.I32), ir.CreateI32(1))
	c.appendStart(c.Builder.CreateSetGlobal(member.GlobalIndex, value))
}

// compileNamespaceDecl compiles every member, then preserves the source's
// ambiguous trailing failure (SPEC_FULL.md §9 Open Question): intent is
// unclear whether this is a stale guard or missing post-processing, so it
// is kept as a visible, reportable Unsupported diagnostic rather than
// silently dropped.
func (c *Compiler) compileNamespaceDecl(decl *program.NamespaceDecl) {
	el, ok := c.Program.Element(decl.Name)
	if ok {
		if ns, ok := el.(*program.Namespace); ok {
			for _, member := range ns.Members {
				c.materializeExport(member, member.Name())
			}
		}
	}
	// TODO: compileNamespaceDecl always reports Unsupported even after
	// fully compiling its members; unclear whether this guard is stale.
	c.Diag.Report(diag.KindUnsupported, "", "namespace %q compilation is not implemented", decl.Name)
}
