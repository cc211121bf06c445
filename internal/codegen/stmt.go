package codegen

import (
	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
	"github.com/ascendlang/ascend/internal/types"
)

// compileStmt lowers stmt to a single backend node. WebAssembly makes
// every statement an expression of result type none (spec.md §4.2), so
// every branch here returns exactly one ir.Node.
func (c *Compiler) compileStmt(stmt program.Stmt) ir.Node {
	switch s := stmt.(type) {
	case *program.BlockStmt:
		return c.compileBlockStmt(s)
	case *program.IfStmt:
		return c.compileIfStmt(s)
	case *program.WhileStmt:
		return c.compileWhileStmt(s)
	case *program.DoWhileStmt:
		return c.compileDoWhileStmt(s)
	case *program.ForStmt:
		return c.compileForStmt(s)
	case *program.SwitchStmt:
		return c.compileSwitchStmt(s)
	case *program.BreakStmt:
		return c.compileBreakStmt()
	case *program.ContinueStmt:
		return c.compileContinueStmt()
	case *program.ReturnStmt:
		return c.compileReturnStmt(s)
	case *program.ThrowStmt:
		return c.compileThrowStmt(s)
	case *program.TryStmt:
		c.Diag.Report(diag.KindUnsupported, "", "try/catch is not implemented")
		return c.Builder.CreateUnreachable()
	case *program.VariableStmt:
		return c.compileVariableStmt(s)
	case *program.ExpressionStmt:
		return c.compileExpressionStmt(s)
	case *program.EmptyStmt:
		return c.Builder.CreateNop()
	default:
		diag.Fatal("unhandled statement kind %T", stmt)
		return c.Builder.CreateUnreachable()
	}
}

func (c *Compiler) compileBlockStmt(s *program.BlockStmt) ir.Node {
	nodes := make([]ir.Node, 0, len(s.Members))
	for _, m := range s.Members {
		nodes = append(nodes, c.compileStmt(m))
	}
	return c.Builder.CreateBlock("", nodes, nil)
}

func (c *Compiler) compileIfStmt(s *program.IfStmt) ir.Node {
	cond := c.compileExpression(s.Cond, types.TypeI32, true)
	then := c.compileStmt(s.Then)
	if s.Else == nil {
		return c.Builder.CreateIf(cond, then, nil)
	}
	els := c.compileStmt(s.Else)
	return c.Builder.CreateIf(cond, then, &els)
}

// compileWhileStmt lowers `while (cond) body` to the skeleton in
// spec.md §4.2:
//
//	block break$L {
//	  loop continue$L {
//	    if (cond) block { body ; br continue$L }
//	  }
//	}
func (c *Compiler) compileWhileStmt(s *program.WhileStmt) ir.Node {
	stem := c.currentFunction.EnterBreakContext()
	cond := c.compileExpression(s.Cond, types.TypeI32, true)
	body := c.compileStmt(s.Body)
	c.currentFunction.LeaveBreakContext()

	backEdge := c.Builder.CreateBreak(continueLabel(stem), nil)
	innerBlock := c.Builder.CreateBlock("", []ir.Node{body, backEdge}, nil)
	ifNode := c.Builder.CreateIf(cond, innerBlock, nil)
	loop := c.Builder.CreateLoop(continueLabel(stem), ifNode)
	return c.Builder.CreateBlock(breakLabel(stem), []ir.Node{loop}, nil)
}

// compileDoWhileStmt mirrors compileWhileStmt, placing the conditional
// back-edge after the body (spec.md §4.2): `br_if continue$L, cond`.
func (c *Compiler) compileDoWhileStmt(s *program.DoWhileStmt) ir.Node {
	stem := c.currentFunction.EnterBreakContext()
	body := c.compileStmt(s.Body)
	cond := c.compileExpression(s.Cond, types.TypeI32, true)
	c.currentFunction.LeaveBreakContext()

	backEdge := c.Builder.CreateBreak(continueLabel(stem), &cond)
	loopBody := c.Builder.CreateBlock("", []ir.Node{body, backEdge}, nil)
	loop := c.Builder.CreateLoop(continueLabel(stem), loopBody)
	return c.Builder.CreateBlock(breakLabel(stem), []ir.Node{loop}, nil)
}

// compileForStmt lowers `for (init; cond; inc) body`, defaulting a
// missing init/inc to nop and a missing cond to `i32.const 1`
// (spec.md §4.2). The skeleton mirrors while, with init above the loop
// and inc between body and the back-edge.
func (c *Compiler) compileForStmt(s *program.ForStmt) ir.Node {
	var initNode ir.Node
	if s.Init != nil {
		initNode = c.compileStmt(s.Init)
	} else {
		initNode = c.Builder.CreateNop()
	}

	stem := c.currentFunction.EnterBreakContext()
	var cond ir.Node
	if s.Cond != nil {
		cond = c.compileExpression(s.Cond, types.TypeI32, true)
	} else {
		cond = c.Builder.CreateI32(1)
	}
	body := c.compileStmt(s.Body)
	var inc ir.Node
	if s.Inc != nil {
		inc = c.compileStmt(s.Inc)
	} else {
		inc = c.Builder.CreateNop()
	}
	c.currentFunction.LeaveBreakContext()

	backEdge := c.Builder.CreateBreak(continueLabel(stem), nil)
	innerBlock := c.Builder.CreateBlock("", []ir.Node{body, inc, backEdge}, nil)
	ifNode := c.Builder.CreateIf(cond, innerBlock, nil)
	loop := c.Builder.CreateLoop(continueLabel(stem), ifNode)
	outer := c.Builder.CreateBlock(breakLabel(stem), []ir.Node{loop}, nil)
	return c.Builder.CreateBlock("", []ir.Node{initNode, outer}, nil)
}

// compileSwitchStmt implements spec.md §4.2's cascade-of-nested-blocks
// lowering. `disallowContinue` is set for the duration of the body so
// `continue` inside a switch (but not inside a loop enclosing it) is
// rejected, and the break context brackets the whole statement so `break`
// exits the switch.
func (c *Compiler) compileSwitchStmt(s *program.SwitchStmt) ir.Node {
	tag := c.compileExpression(s.Tag, types.TypeI32, true)
	tagLocal := c.currentFunction.AddLocal(types.TypeI32, "")
	setTag := c.Builder.CreateSetLocal(tagLocal.Index, tag)

	stem := c.currentFunction.EnterBreakContext()
	savedDisallow := c.disallowContinue
	c.disallowContinue = true

	var labelledCases []int // indices into s.Cases that are not default
	defaultIndex := -1
	for i, cs := range s.Cases {
		if cs.IsDefault {
			defaultIndex = i
		} else {
			labelledCases = append(labelledCases, i)
		}
	}

	// The br_if cascade tests labels in declaration order and lives in the
	// innermost block, labelled for the first case (or for the fallback
	// target, if there are no labelled cases at all): falling off the end of that block without
	// having matched anything means none of the br_ifs fired, so it ends
	// with an explicit branch to the default case (or straight to break).
	fallback := breakLabel(stem)
	if defaultIndex != -1 {
		fallback = defaultCaseLabel(stem)
	}
	cascadeLabel := fallback
	if len(labelledCases) > 0 {
		cascadeLabel = caseLabel(stem, labelledCases[0])
	}
	cascadeBody := make([]ir.Node, 0, len(labelledCases)+1)
	for _, idx := range labelledCases {
		cs := s.Cases[idx]
		tagGet := c.Builder.CreateGetLocal(tagLocal.Index, ir.I32)
		labelValue := c.compileExpression(cs.Label, types.TypeI32, true)
		eq := c.Builder.CreateBinary(ir.OpI32Eq, ir.I32, tagGet, labelValue)
		cascadeBody = append(cascadeBody, c.Builder.CreateBreak(caseLabel(stem, idx), &eq))
	}
	cascadeBody = append(cascadeBody, c.Builder.CreateBreak(fallback, nil))
	cascade := c.Builder.CreateBlock(cascadeLabel, cascadeBody, nil)

	// Each slot (a labelled case, then the default if one exists) gets a
	// wrapping block named after the *next* slot's label: exiting a block
	// via its own label lands immediately before the following slot's
	// body, which is exactly WASM-native fall-through. The innermost
	// block is the br_if cascade itself, named for the first slot; the
	// last slot's body sits outside every wrap, directly inside the break
	// block.
	type slot struct {
		label string
		body  []program.Stmt
	}
	slots := make([]slot, 0, len(labelledCases)+1)
	for _, idx := range labelledCases {
		slots = append(slots, slot{caseLabel(stem, idx), s.Cases[idx].Body})
	}
	if defaultIndex != -1 {
		slots = append(slots, slot{defaultCaseLabel(stem), s.Cases[defaultIndex].Body})
	}

	headerBlock := cascade
	if len(slots) > 0 {
		current := cascade
		for j := 1; j < len(slots); j++ {
			prevBody := c.compileCaseBody(slots[j-1].body)
			current = c.Builder.CreateBlock(slots[j].label, []ir.Node{current, prevBody}, nil)
		}
		lastBody := c.compileCaseBody(slots[len(slots)-1].body)
		current = c.Builder.CreateBlock("", []ir.Node{current, lastBody}, nil)
		headerBlock = current
	}

	c.disallowContinue = savedDisallow
	c.currentFunction.LeaveBreakContext()

	full := c.Builder.CreateBlock(breakLabel(stem), []ir.Node{headerBlock}, nil)
	return c.Builder.CreateBlock("", []ir.Node{setTag, full}, nil)
}

func (c *Compiler) compileCaseBody(body []program.Stmt) ir.Node {
	nodes := make([]ir.Node, 0, len(body))
	for _, s := range body {
		nodes = append(nodes, c.compileStmt(s))
	}
	return c.Builder.CreateBlock("", nodes, nil)
}

func (c *Compiler) compileBreakStmt() ir.Node {
	if c.currentFunction == nil {
		c.Diag.Report(diag.KindStructural, "", "break outside any enclosing context")
		return c.Builder.CreateUnreachable()
	}
	stem, ok := c.currentFunction.CurrentBreakContext()
	if !ok {
		c.Diag.Report(diag.KindStructural, "", "break outside any enclosing loop or switch")
		return c.Builder.CreateUnreachable()
	}
	return c.Builder.CreateBreak(breakLabel(stem), nil)
}

func (c *Compiler) compileContinueStmt() ir.Node {
	if c.currentFunction == nil {
		c.Diag.Report(diag.KindStructural, "", "continue outside any enclosing context")
		return c.Builder.CreateUnreachable()
	}
	stem, ok := c.currentFunction.CurrentBreakContext()
	if !ok || c.disallowContinue {
		c.Diag.Report(diag.KindStructural, "", "continue outside any enclosing loop")
		return c.Builder.CreateUnreachable()
	}
	return c.Builder.CreateBreak(continueLabel(stem), nil)
}

func (c *Compiler) compileReturnStmt(s *program.ReturnStmt) ir.Node {
	if s.Value == nil {
		return c.Builder.CreateReturn(nil)
	}
	value := c.compileExpression(s.Value, c.currentFunction.ReturnType, true)
	return c.Builder.CreateReturn(&value)
}

// compileExpressionStmt lowers a bare expression used for its side
// effects; the value, if any, is discarded since a statement's result
// type is always none (spec.md §4.2).
func (c *Compiler) compileExpressionStmt(s *program.ExpressionStmt) ir.Node {
	value := c.compileExpression(s.Value, types.TypeVoid, false)
	if !c.currentType.IsVoid() {
		return c.Builder.CreateDrop(value)
	}
	return value
}

func (c *Compiler) compileThrowStmt(s *program.ThrowStmt) ir.Node {
	// Exception-handling lowering is out of scope (spec.md §1 Non-goals);
	// `throw` compiles its operand (so its diagnostics are reported) but
	// discards the resulting node, so the operand is not evaluated at run
	// time; only the trap is emitted.
	c.compileExpression(s.Value, types.TypeVoid, true)
	return c.Builder.CreateUnreachable()
}

// compileVariableStmt implements spec.md §4.2's variable-statement
// lowering, including the top-level-routes-to-globals rule.
func (c *Compiler) compileVariableStmt(s *program.VariableStmt) ir.Node {
	nodes := make([]ir.Node, 0, len(s.Declarators))
	for _, d := range s.Declarators {
		if c.currentFunction == c.startFunction {
			nodes = append(nodes, c.compileGlobalDeclaration(d))
			continue
		}
		nodes = append(nodes, c.compileLocalDeclaration(d))
	}
	return c.Builder.CreateBlock("", nodes, nil)
}

// compileGlobalDeclaration handles a VariableDeclarator reached while
// currentFunction is the start function (spec.md §4.2 "variable"): like
// a top-level VariableStmt, the declarator's Global was already resolved
// by the front end into the element table, so this just looks it up and
// compiles it in place, the same way compileTopLevelVariableStmt does.
func (c *Compiler) compileGlobalDeclaration(d program.VariableDeclarator) ir.Node {
	el, ok := c.Program.Element(d.Name)
	if !ok {
		diag.Fatal("resolver promised global %q but it is not in the element table", d.Name)
	}
	g, ok := el.(*program.Global)
	if !ok {
		diag.Fatal("element %q is not a Global", d.Name)
	}
	c.compileGlobal(g)
	return c.Builder.CreateNop()
}

func (c *Compiler) compileLocalDeclaration(d program.VariableDeclarator) ir.Node {
	if _, exists := c.currentFunction.FindLocal(d.Name); exists {
		c.Diag.Report(diag.KindStructural, "", "duplicate local %q", d.Name)
	}
	if d.Type == nil {
		c.Diag.Report(diag.KindType, "", "local %q requires an explicit type", d.Name)
		return c.Builder.CreateUnreachable()
	}
	t, ok := c.Program.ResolveType(*d.Type, nil, true)
	if !ok {
		c.Diag.Report(diag.KindType, "", "cannot resolve type of local %q", d.Name)
		return c.Builder.CreateUnreachable()
	}
	local := c.currentFunction.AddLocal(t, d.Name)
	if d.Initializer == nil {
		return c.Builder.CreateNop()
	}
	value := c.compileExpression(d.Initializer, t, true)
	return c.compileAssignmentToLocal(&local, value, false)
}
