package ir

// Builder is the single seam the code-generation core uses to reach the
// backend. Wrapping *Module behind Builder (rather than calling Module's
// methods directly) is what makes the noEmit dry-run toggle possible: the
// driver flips NoEmit around a scoped "what type would this be?" probe,
// and every Create*/Add* call becomes inert for that probe's duration,
// exactly as spec.md §6 describes for the backend's noEmit option.
type Builder struct {
	Module *Module
	NoEmit bool
}

// NewBuilder returns a Builder over a fresh Module.
func NewBuilder() *Builder {
	return &Builder{Module: NewModule()}
}

// WithNoEmit runs fn with NoEmit temporarily set to true, then restores the
// previous value. This is the "dry run" used by assignment-target type
// discovery (spec.md §4.3, compileAssignExpr's determineExpressionType).
func (b *Builder) WithNoEmit(fn func()) {
	prev := b.NoEmit
	b.NoEmit = true
	defer func() { b.NoEmit = prev }()
	fn()
}

func (b *Builder) CreateI32(v int32) Node {
	if b.NoEmit {
		return inert
	}
	return CreateI32(v)
}

func (b *Builder) CreateI64(v int64) Node {
	if b.NoEmit {
		return inert
	}
	return CreateI64(v)
}

func (b *Builder) CreateF32(v float32) Node {
	if b.NoEmit {
		return inert
	}
	return CreateF32(v)
}

func (b *Builder) CreateF64(v float64) Node {
	if b.NoEmit {
		return inert
	}
	return CreateF64(v)
}

func (b *Builder) CreateUnary(op Opcode, result NativeType, x Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateUnary(op, result, x)
}

func (b *Builder) CreateBinary(op Opcode, result NativeType, a, bb Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateBinary(op, result, a, bb)
}

func (b *Builder) CreateNullary(op Opcode, result NativeType) Node {
	if b.NoEmit {
		return inert
	}
	return CreateNullary(op, result)
}

func (b *Builder) CreateHost(name string, result NativeType, operands ...Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateHost(name, result, operands...)
}

func (b *Builder) CreateBlock(label string, exprs []Node, results []NativeType) Node {
	if b.NoEmit {
		return inert
	}
	return CreateBlock(label, exprs, results)
}

func (b *Builder) CreateLoop(label string, body Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateLoop(label, body)
}

func (b *Builder) CreateIf(cond, then Node, els *Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateIf(cond, then, els)
}

func (b *Builder) CreateBreak(label string, cond *Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateBreak(label, cond)
}

func (b *Builder) CreateReturn(x *Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateReturn(x)
}

func (b *Builder) CreateNop() Node {
	if b.NoEmit {
		return inert
	}
	return CreateNop()
}

func (b *Builder) CreateUnreachable() Node {
	if b.NoEmit {
		return inert
	}
	return CreateUnreachable()
}

func (b *Builder) CreateDrop(x Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateDrop(x)
}

func (b *Builder) CreateSelect(cond, a, bb Node, result NativeType) Node {
	if b.NoEmit {
		return inert
	}
	return CreateSelect(cond, a, bb, result)
}

func (b *Builder) CreateGetLocal(index uint32, t NativeType) Node {
	if b.NoEmit {
		return inert
	}
	return CreateGetLocal(index, t)
}

func (b *Builder) CreateSetLocal(index uint32, value Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateSetLocal(index, value)
}

func (b *Builder) CreateTeeLocal(index uint32, value Node, t NativeType) Node {
	if b.NoEmit {
		return inert
	}
	return CreateTeeLocal(index, value, t)
}

func (b *Builder) CreateGetGlobal(index uint32, t NativeType) Node {
	if b.NoEmit {
		return inert
	}
	return CreateGetGlobal(index, t)
}

func (b *Builder) CreateSetGlobal(index uint32, value Node) Node {
	if b.NoEmit {
		return inert
	}
	return CreateSetGlobal(index, value)
}

func (b *Builder) CreateCall(funcIndex uint32, args []Node, result NativeType, hasResult bool) Node {
	if b.NoEmit {
		return inert
	}
	return CreateCall(funcIndex, args, result, hasResult)
}

func (b *Builder) CreateCallImport(funcIndex uint32, args []Node, result NativeType, hasResult bool) Node {
	if b.NoEmit {
		return inert
	}
	return CreateCallImport(funcIndex, args, result, hasResult)
}

// AddFunctionType registers ft unless NoEmit, in which case it reports
// whether an identical signature already exists without registering a new
// one, so dry runs never grow the shared type cache.
func (b *Builder) AddFunctionType(ft *FunctionType) uint32 {
	if b.NoEmit {
		if idx, ok := b.Module.GetFunctionTypeBySignature(ft); ok {
			return idx
		}
		return 0
	}
	return b.Module.AddFunctionType(ft)
}

func (b *Builder) GetFunctionTypeBySignature(ft *FunctionType) (uint32, bool) {
	return b.Module.GetFunctionTypeBySignature(ft)
}

func (b *Builder) AddGlobal(g *Global) uint32 {
	if b.NoEmit {
		return 0
	}
	return b.Module.AddGlobal(g)
}

func (b *Builder) AddFunction(fn *Function) uint32 {
	if b.NoEmit {
		return 0
	}
	return b.Module.AddFunction(fn)
}

func (b *Builder) AddExport(e Export) {
	if b.NoEmit {
		return
	}
	b.Module.AddExport(e)
}

func (b *Builder) SetStart(fnIndex uint32) {
	if b.NoEmit {
		return
	}
	b.Module.SetStart(fnIndex)
}

func (b *Builder) SetMemory(initialPages, maxPages uint32) {
	if b.NoEmit {
		return
	}
	b.Module.SetMemory(initialPages, maxPages)
}

func (b *Builder) AddDataSegment(offset uint64, bytes []byte) *DataSegment {
	if b.NoEmit {
		return &DataSegment{Offset: offset, Bytes: bytes}
	}
	return b.Module.AddDataSegment(offset, bytes)
}
