package qsharp_bridge_go

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefinitionsLostMarker is the substring an evaluator error description carries when the
// evaluator no longer recognizes previously loaded definitions
const DefinitionsLostMarker = "NotFound"

// KindDefinitionsNotFound is the structured error kind an evaluator reports for lost definitions
const KindDefinitionsNotFound = "definitions_not_found"

var (
	// ErrDefinitionsNotFound means the evaluator lost its loaded operation definitions
	ErrDefinitionsNotFound = errors.New("evaluator definitions not found")
	// ErrDefinitionsUnavailable means no definitions source has been loaded into the session yet
	ErrDefinitionsUnavailable = errors.New("evaluator definitions unavailable")
	// ErrUnexpectedResult means the evaluator returned a value of the wrong shape for the operation
	ErrUnexpectedResult = errors.New("unexpected evaluator result")
	// ErrBadArity means an operation was called with an unsupported number of qubits
	ErrBadArity = errors.New("unsupported number of qubits")
	// ErrEmptyQubitId means a qubit was created without an id
	ErrEmptyQubitId = errors.New("qubit id must not be empty")
)

// EvalErr is an error reported by the evaluator while resetting or evaluating source text
type EvalErr struct {
	usrMsg, devMsg string
	kind           string
}

func (e EvalErr) Error() string {
	if e.devMsg == "" {
		return e.usrMsg
	}
	return fmt.Sprintf("usr_msg: %s\ndev_msg: %s", e.usrMsg, e.devMsg)
}

// Kind returns the classification the evaluator attached to the error, if any
func (e EvalErr) Kind() string { return e.kind }

// Is reports a match against ErrDefinitionsNotFound when the evaluator classified the error as such
func (e EvalErr) Is(target error) bool {
	return target == ErrDefinitionsNotFound && e.kind == KindDefinitionsNotFound
}

// NewEvalErr returns an evaluator error with the given kind
func NewEvalErr(kind, usrMsg, devMsg string) error {
	return EvalErr{usrMsg: usrMsg, devMsg: devMsg, kind: kind}
}

// IsDefinitionsLost reports whether err means the evaluator lost its loaded definitions.
// A structured classification wins; evaluators that only report text fall back to the marker substring.
func IsDefinitionsLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDefinitionsNotFound) {
		return true
	}
	return strings.Contains(err.Error(), DefinitionsLostMarker)
}

func newUnexpectedResultErr(op string, value []byte) error {
	return fmt.Errorf("%w: %s returned %s", ErrUnexpectedResult, op, truncate(string(value), 120))
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
