// Package diag implements the diagnostic sink the code-generation core
// reports into. Diagnostics are additive (spec.md §7): a compilation that
// emits errors still returns a Module, and callers decide whether the
// result is usable by inspecting the Sink afterwards.
package diag

import "fmt"

// Kind classifies a Diagnostic, matching the taxonomy in spec.md §7.
type Kind byte

const (
	KindLookup Kind = iota
	KindStructural
	KindType
	KindUnsupported
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindLookup:
		return "lookup"
	case KindStructural:
		return "structural"
	case KindType:
		return "type"
	case KindUnsupported:
		return "unsupported"
	case KindWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem. Source, when non-empty, names the
// source path the problem was found in.
type Diagnostic struct {
	Kind    Kind
	Message string
	Source  string
}

func (d Diagnostic) String() string {
	if d.Source != "" {
		return fmt.Sprintf("%s: %s: %s", d.Source, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Sink collects diagnostics for one compilation. It is not safe for
// concurrent use, matching the single-threaded compilation driver.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink returns an empty Sink.
func NewSink() *Sink { return &Sink{} }

// Report appends a recoverable diagnostic. Compilation continues past
// this call; callers that detected the problem mid-expression should
// still produce a well-formed (if unreachable-laden) IR node.
func (s *Sink) Report(kind Kind, source, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
	})
}

// Diagnostics returns every diagnostic reported so far, in report order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diagnostics }

// HasErrors reports whether any non-warning diagnostic was reported. Per
// spec.md §7, consumers should treat this as "compilation failure".
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.Kind != KindWarning {
			return true
		}
	}
	return false
}

// Fatal reports an internal-invariant violation: the resolver/driver
// disagreed about something that was promised to exist. These are bugs in
// the core or its collaborators, not user errors, so they panic rather
// than continue compiling over inconsistent state (spec.md §7).
func Fatal(format string, args ...any) {
	panic(fmt.Sprintf("ascend: internal invariant violated: "+format, args...))
}
