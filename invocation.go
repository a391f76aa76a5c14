package qsharp_bridge_go

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// DefaultNamespace is the Q# namespace the operation definitions are declared in
	DefaultNamespace = "QuantumEntanglement"
	// QubitInfoType is the evaluator-side record type qubit metadata is declared as
	QubitInfoType = "QubitInfo"
)

// Operations defined by the QuantumEntanglement library
const (
	OpProcessSingleQubit     = "ProcessSingleQubit"
	OpProcessQubits          = "ProcessQubits"
	OpCreateBellStates       = "CreateBellStates"
	OpCreateBellStatesSimple = "CreateBellStatesSimple"
	OpTeleportWorkflow       = "TeleportWorkflow"
)

// Binding declares a qubit as a named local variable ahead of the operation call
type Binding struct {
	Name  string
	Qubit *QubitMetadata
}

// Invocation is one request to run a named operation.
// It renders to evaluator source text with String.
type Invocation struct {
	Namespace string
	Operation string
	Bindings  []Binding
	Args      []string
}

// NewInvocation returns an invocation of op in the default namespace
func NewInvocation(op string) *Invocation {
	return &Invocation{
		Namespace: DefaultNamespace,
		Operation: op,
	}
}

// Bind declares q under name and passes it to the operation, in call order
func (inv *Invocation) Bind(name string, q *QubitMetadata) *Invocation {
	inv.Bindings = append(inv.Bindings, Binding{Name: name, Qubit: q})
	return inv
}

// Arg appends a scalar string argument after the bound qubits
func (inv *Invocation) Arg(s string) *Invocation {
	inv.Args = append(inv.Args, s)
	return inv
}

// String renders the invocation as evaluator source text
func (inv *Invocation) String() string {
	var b strings.Builder

	for _, binding := range inv.Bindings {
		b.WriteString(qubitInfoDecl(inv.Namespace, binding))
		b.WriteString("\n")
	}

	args := lo.Map(inv.Bindings, func(binding Binding, _ int) string {
		return binding.Name
	})
	args = append(args, lo.Map(inv.Args, func(arg string, _ int) string {
		return quote(arg)
	})...)

	fmt.Fprintf(&b, "%s.%s(%s)", inv.Namespace, inv.Operation, strings.Join(args, ", "))
	return b.String()
}

// qubitInfoDecl emits the record literal for a binding.
// EntangledWith is never forwarded, the trailing collection is always empty.
func qubitInfoDecl(ns string, binding Binding) string {
	q := binding.Qubit
	return fmt.Sprintf("let %s = %s.%s(%s, %s, %s, %t, %s, []);",
		binding.Name, ns, QubitInfoType,
		quote(q.id), quote(q.Label), quote(q.Role), q.IsEntangled, quote(q.State))
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote renders s as a string literal
func quote(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return `"` + literalEscaper.Replace(s) + `"`
}
