package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ascendlang/ascend/internal/ir"
)

func TestScope_IsEnabled(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
	}{
		{name: "call", scope: ScopeCall},
		{name: "const", scope: ScopeConst},
		{name: "local", scope: ScopeLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScopeNone
			require.False(t, s.IsEnabled(tt.scope))

			s |= tt.scope
			require.True(t, s.IsEnabled(tt.scope))

			s ^= tt.scope
			require.False(t, s.IsEnabled(tt.scope))
		})
	}
}

func TestScope_String(t *testing.T) {
	require.Equal(t, "call", ScopeCall.String())
	require.Equal(t, "call|const", (ScopeCall | ScopeConst).String())
	require.Equal(t, "all", ScopeAll.String())
}

func TestTracer_Trace(t *testing.T) {
	var buf bytes.Buffer
	tracer := &Tracer{W: &buf, Scope: ScopeCall | ScopeConst}

	tracer.Trace("add", ir.CreateCall(3, []ir.Node{ir.CreateI32(1), ir.CreateI32(2)}, ir.I32, true))
	tracer.Trace("x", ir.CreateI32(42))
	tracer.Trace("y", ir.CreateGetLocal(0, ir.I32)) // ScopeLocal not enabled, should be silent

	require.Equal(t, "call add -> func#3 (2 args)\nconst x -> 42\n", buf.String())
}

func TestTracer_NilIsNoop(t *testing.T) {
	var tracer *Tracer
	require.NotPanics(t, func() { tracer.Trace("x", ir.CreateI32(1)) })
}
