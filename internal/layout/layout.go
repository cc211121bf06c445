// Package layout manages linear-memory offset allocation for data
// segments, plus the well-known heap-start pointer segment. See spec.md
// §4.5.
package layout

import (
	"encoding/binary"

	"github.com/ascendlang/ascend/internal/diag"
	"github.com/ascendlang/ascend/internal/ir"
	"github.com/ascendlang/ascend/internal/types"
)

const pageSize = 64 * 1024

// Manager tracks the next free linear-memory offset and the segments
// allocated so far. The null sentinel and heap-start pointer together
// occupy the first 2*sizeof(usize) bytes (spec.md §3).
type Manager struct {
	target      types.Target
	memoryOffset uint64
	segments    []*ir.DataSegment
	builder     *ir.Builder
}

// NewManager returns a Manager with memoryOffset initialized past the
// null sentinel and heap-start pointer slots.
func NewManager(target types.Target, builder *ir.Builder) *Manager {
	ptrSize := uint64(target.PointerSize())
	return &Manager{
		target:       target,
		memoryOffset: 2 * ptrSize,
		builder:      builder,
	}
}

// MemoryOffset returns the next free byte, monotonically non-decreasing.
func (m *Manager) MemoryOffset() uint64 { return m.memoryOffset }

// AddSegment allocates bytes at the next 8-byte-aligned offset and
// advances memoryOffset past it.
func (m *Manager) AddSegment(bytes []byte) *ir.DataSegment {
	aligned := align8(m.memoryOffset)
	seg := m.builder.AddDataSegment(aligned, bytes)
	m.memoryOffset = aligned + uint64(len(bytes))
	m.segments = append(m.segments, seg)
	return seg
}

func align8(offset uint64) uint64 {
	const mask = 7
	if offset&mask == 0 {
		return offset
	}
	return (offset + mask) &^ mask
}

// Segments returns every user segment allocated via AddSegment, in
// allocation order (the heap-start segment, written separately by
// Finalize, is not included).
func (m *Manager) Segments() []*ir.DataSegment { return m.segments }

// Finalize writes the heap-start pointer segment at offset
// sizeof(usize), and returns the initial page count the module's memory
// declaration should use. target == WASM32 and a final memoryOffset that
// does not fit in 32 bits is a fatal error (spec.md §4.1 step 4).
func (m *Manager) Finalize() (initialPages uint32) {
	ptrSize := m.target.PointerSize()
	if m.target == types.WASM32 && m.memoryOffset > 0xFFFFFFFF {
		diag.Fatal("linear memory offset %d exceeds the 32-bit target's address space", m.memoryOffset)
	}

	buf := make([]byte, ptrSize)
	if ptrSize == 8 {
		binary.LittleEndian.PutUint64(buf, m.memoryOffset)
	} else {
		binary.LittleEndian.PutUint32(buf, uint32(m.memoryOffset))
	}
	heapStart := &ir.DataSegment{Offset: uint64(ptrSize), Bytes: buf}
	// Emitted as the first data segment (spec.md §4.1 step 4), ahead of
	// any user segments AddSegment already appended during compilation.
	m.builder.Module.Data = append([]*ir.DataSegment{heapStart}, m.builder.Module.Data...)

	pages := (m.memoryOffset + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	return uint32(pages)
}
