// Package logging formats compiled IR nodes for tracing, independent of
// the higher-level structured events internal/codegen emits through
// logrus.
package logging

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ascendlang/ascend/internal/ir"
)

// Scope is a bitmask of independently toggleable tracing scopes, the same
// shape as the teacher's LogScopes: callers enable only the scopes they
// care about rather than an all-or-nothing switch.
type Scope uint32

const (
	ScopeNone Scope = 0
	ScopeCall Scope = 1 << iota
	ScopeConst
	ScopeLocal
	ScopeAll = Scope(0xffffffff)
)

func scopeName(s Scope) string {
	switch s {
	case ScopeCall:
		return "call"
	case ScopeConst:
		return "const"
	case ScopeLocal:
		return "local"
	default:
		return ""
	}
}

// IsEnabled returns true if scope (or any scope in a group) is enabled.
func (s Scope) IsEnabled(scope Scope) bool { return s&scope != 0 }

// String implements fmt.Stringer by listing each enabled scope.
func (s Scope) String() string {
	if s == ScopeAll {
		return "all"
	}
	var out string
	for i := 0; i <= 31; i++ {
		target := Scope(1 << i)
		if s.IsEnabled(target) {
			if name := scopeName(target); name != "" {
				if out != "" {
					out += "|"
				}
				out += name
			}
		}
	}
	return out
}

// Writer is what a Tracer writes formatted nodes to.
type Writer interface {
	io.Writer
	io.StringWriter
}

// Tracer writes a short, single-line rendering of a Node to w whenever its
// kind matches an enabled Scope, the IR-level analogue of the teacher's
// per-call WASI parameter logging.
type Tracer struct {
	W     Writer
	Scope Scope
}

// Trace writes label (typically a function or local name) followed by a
// rendering of n, if Scope has the relevant bit enabled. It is a no-op
// otherwise, so callers can trace unconditionally without branching.
func (t *Tracer) Trace(label string, n ir.Node) {
	if t == nil || t.W == nil {
		return
	}
	switch n.Kind {
	case ir.KindCall, ir.KindCallImport:
		if !t.Scope.IsEnabled(ScopeCall) {
			return
		}
		t.W.WriteString(fmt.Sprintf("call %s -> func#%d (%d args)\n", label, n.Index, len(n.Children)))
	case ir.KindI32Const, ir.KindI64Const, ir.KindF32Const, ir.KindF64Const:
		if !t.Scope.IsEnabled(ScopeConst) {
			return
		}
		t.W.WriteString(fmt.Sprintf("const %s -> %s\n", label, formatConst(n)))
	case ir.KindGetLocal, ir.KindSetLocal, ir.KindTeeLocal:
		if !t.Scope.IsEnabled(ScopeLocal) {
			return
		}
		t.W.WriteString(fmt.Sprintf("local %s -> #%d\n", label, n.Index))
	}
}

func formatConst(n ir.Node) string {
	switch n.Kind {
	case ir.KindI32Const:
		return strconv.FormatInt(int64(n.I32), 10)
	case ir.KindI64Const:
		return strconv.FormatInt(n.I64, 10)
	case ir.KindF32Const:
		return strconv.FormatFloat(float64(n.F32), 'g', -1, 32)
	case ir.KindF64Const:
		return strconv.FormatFloat(n.F64, 'g', -1, 64)
	default:
		return "?"
	}
}
