package codegen

import (
	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/program"
)

// compileFunction implements spec.md §4.1's compileFunction.
func (c *Compiler) compileFunction(fn *program.Function) {
	if fn.IsCompiled {
		return
	}
	fn.IsCompiled = true

	paramsNative := make([]ir.NativeType, len(fn.Parameters))
	for i, p := range fn.Parameters {
		paramsNative[i] = c.nativeType(p.Type)
	}
	var resultsNative []ir.NativeType
	if !fn.ReturnType.IsVoid() {
		resultsNative = []ir.NativeType{c.nativeType(fn.ReturnType)}
	}
	ft := &ir.FunctionType{Params: paramsNative, Results: resultsNative}
	typeIdx := c.Builder.AddFunctionType(ft)

	if fn.IsImport {
		fnIdx := c.Builder.AddFunction(&ir.Function{
			TypeIndex:    typeIdx,
			Name:         fn.InternalName,
			IsImport:     true,
			ImportModule: fn.ImportModule,
			ImportName:   fn.ImportName,
		})
		fn.FuncIndex = fnIdx
		if fn.GlobalExportName != "" {
			c.Builder.AddExport(ir.Export{Name: fn.GlobalExportName, Kind: ir.ExportFunc, Index: fnIdx})
		}
		return
	}

	if fn.Prototype == nil || fn.Prototype.Decl == nil || fn.Prototype.Decl.Body == nil {
		c.Diag.Report(diag.KindStructural, "", "function %q has no body", fn.InternalName)
		return
	}

	saved := c.saveContext()
	c.currentFunction = fn
	var bodyNodes []ir.Node
	for _, stmt := range fn.Prototype.Decl.Body {
		bodyNodes = append(bodyNodes, c.compileStmt(stmt))
	}
	bodyBlock := c.Builder.CreateBlock("", bodyNodes, resultsNative)
	c.restoreContext(saved)

	localsNative := make([]ir.NativeType, len(fn.AdditionalLocals))
	for i, l := range fn.AdditionalLocals {
		localsNative[i] = c.nativeType(l.Type)
	}

	fnIdx := c.Builder.AddFunction(&ir.Function{
		TypeIndex: typeIdx,
		Locals:    localsNative,
		Body:      bodyBlock,
		Name:      fn.InternalName,
	})
	fn.FuncIndex = fnIdx
	if fn.GlobalExportName != "" {
		c.Builder.AddExport(ir.Export{Name: fn.GlobalExportName, Kind: ir.ExportFunc, Index: fnIdx})
	}
}

// compileClass is the placeholder spec.md §4.1 describes: the seam
// reserved for layout computation, field offset assignment, and method
// dispatch emission, none of which this core implements.
func (c *Compiler) compileClass(class *program.Class) {
	if class.IsCompiled {
		return
	}
	class.IsCompiled = true
	c.Diag.Report(diag.KindUnsupported, "", "class %q compilation (layout/vtable emission) is not implemented", class.InternalName)
}
