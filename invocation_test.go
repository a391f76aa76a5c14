package qsharp_bridge_go

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvocation_String(t *testing.T) {
	t.Run("should render the qubit record in field order", func(t *testing.T) {
		req := require.New(t)
		q := &QubitMetadata{id: "q1", Label: "Alice Qubit", Role: "Sender", State: "|0>"}

		code := NewInvocation(OpProcessSingleQubit).Bind("qInfo", q).String()

		req.Equal(`let qInfo = QuantumEntanglement.QubitInfo("q1", "Alice Qubit", "Sender", false, "|0>", []);
QuantumEntanglement.ProcessSingleQubit(qInfo)`, code)
	})

	t.Run("should be byte for byte reproducible", func(t *testing.T) {
		req := require.New(t)
		q := &QubitMetadata{id: "q1", Label: "Alice Qubit", Role: "Sender", State: "|0>"}

		first := NewInvocation(OpProcessSingleQubit).Bind("qInfo", q).String()
		second := NewInvocation(OpProcessSingleQubit).Bind("qInfo", q).String()

		req.Equal(first, second)
	})

	t.Run("should never forward entanglement partners", func(t *testing.T) {
		req := require.New(t)
		q := &QubitMetadata{id: "q1", Label: "A", Role: "Sender", IsEntangled: true, State: "|+>", EntangledWith: []string{"q2"}}

		code := NewInvocation(OpProcessSingleQubit).Bind("qInfo", q).String()

		req.Contains(code, `QubitInfo("q1", "A", "Sender", true, "|+>", []);`)
		req.NotContains(code, "q2")
	})

	t.Run("should append scalar arguments after the bound qubits", func(t *testing.T) {
		req := require.New(t)
		q := &QubitMetadata{id: "m", State: "|0>"}

		code := NewInvocation(OpTeleportWorkflow).Bind("msgInfo", q).Arg("zero").String()

		req.Contains(code, `QuantumEntanglement.TeleportWorkflow(msgInfo, "zero")`)
	})

	t.Run("should render a bare call without bindings", func(t *testing.T) {
		req := require.New(t)

		req.Equal("QuantumEntanglement.CreateBellStatesSimple()", NewInvocation(OpCreateBellStatesSimple).String())
	})

	t.Run("should escape quotes and control characters", func(t *testing.T) {
		req := require.New(t)
		q := &QubitMetadata{id: `q"1`, Label: "line\nbreak", Role: `back\slash`, State: "bell\a"}

		code := NewInvocation(OpProcessSingleQubit).Bind("qInfo", q).String()

		req.Contains(code, `QubitInfo("q\"1", "line\nbreak", "back\\slash", false, "bell", []);`)
	})

	t.Run("should use the configured namespace", func(t *testing.T) {
		req := require.New(t)
		inv := NewInvocation(OpCreateBellStatesSimple)
		inv.Namespace = "Teleport.Lab"

		req.Equal("Teleport.Lab.CreateBellStatesSimple()", inv.String())
	})
}
