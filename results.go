package qsharp_bridge_go

import (
	"encoding/json"
	"fmt"
)

// DefaultMessageState is the message state teleported when none is given
const DefaultMessageState = "superposition"

// MessageStates maps the message state tags the TeleportWorkflow operation understands to their kets.
// It is informational only, the evaluator validates the tag.
var MessageStates = map[string]string{
	"zero":          "|0>",
	"one":           "|1>",
	"plus":          "|+>",
	"minus":         "|->",
	"superposition": "(|0> + |1>)/√2",
}

// Measurement is the classical outcome of measuring one qubit
type Measurement int

const (
	Zero Measurement = 0
	One  Measurement = 1
)

// Ket returns the basis state the qubit collapsed to
func (m Measurement) Ket() string {
	if m == One {
		return "|1>"
	}
	return "|0>"
}

// BellPair holds the correlated outcomes of measuring both halves of a Bell pair
type BellPair struct {
	First  Measurement `json:"measurement1"`
	Second Measurement `json:"measurement2"`
}

// EntangleResult is the value the ProcessQubits operation returned
type EntangleResult struct {
	Raw json.RawMessage
	// Entangled is true when the evaluator returned a truthy value
	Entangled bool
}

func (r EntangleResult) String() string { return string(r.Raw) }

// TeleportResult represents the four values returned by the TeleportWorkflow operation
type TeleportResult struct {
	MessageMeasurement Measurement `json:"messageMeasurement"`
	SenderMeasurement  Measurement `json:"senderMeasurement"`
	ReceiverState      string      `json:"receiverState"`
	Success            bool        `json:"success"`
}

// ClassicalBits returns the two bits the sender communicates to the receiver
func (r TeleportResult) ClassicalBits() string {
	return fmt.Sprintf("%d%d", r.MessageMeasurement, r.SenderMeasurement)
}

// Truthy reports whether an evaluator value counts as a successful outcome.
// null, false, zero, empty strings and empty collections do not.
func Truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return truthy(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// measurementOf converts a decoded evaluator value into a Measurement.
// Q# results arrive as 0/1 or as their names.
func measurementOf(v any) (Measurement, bool) {
	switch t := v.(type) {
	case float64:
		switch t {
		case 0:
			return Zero, true
		case 1:
			return One, true
		}
	case string:
		switch t {
		case "Zero", "0":
			return Zero, true
		case "One", "1":
			return One, true
		}
	}
	return 0, false
}

func decodeMeasurement(op string, raw json.RawMessage) (Measurement, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, newUnexpectedResultErr(op, raw)
	}

	m, ok := measurementOf(v)
	if !ok {
		return 0, newUnexpectedResultErr(op, raw)
	}
	return m, nil
}

func decodeTuple(op string, raw json.RawMessage, n int) ([]any, error) {
	var vs []any
	if err := json.Unmarshal(raw, &vs); err != nil || len(vs) < n {
		return nil, newUnexpectedResultErr(op, raw)
	}
	return vs, nil
}

func decodeBellPair(op string, raw json.RawMessage) (BellPair, error) {
	vs, err := decodeTuple(op, raw, 2)
	if err != nil {
		return BellPair{}, err
	}

	first, ok1 := measurementOf(vs[0])
	second, ok2 := measurementOf(vs[1])
	if !ok1 || !ok2 {
		return BellPair{}, newUnexpectedResultErr(op, raw)
	}
	return BellPair{First: first, Second: second}, nil
}

func decodeTeleportResult(raw json.RawMessage) (TeleportResult, error) {
	vs, err := decodeTuple(OpTeleportWorkflow, raw, 4)
	if err != nil {
		return TeleportResult{}, err
	}

	msg, ok1 := measurementOf(vs[0])
	sender, ok2 := measurementOf(vs[1])
	if !ok1 || !ok2 {
		return TeleportResult{}, newUnexpectedResultErr(OpTeleportWorkflow, raw)
	}

	state, ok := vs[2].(string)
	if !ok {
		state = fmt.Sprint(vs[2])
	}

	return TeleportResult{
		MessageMeasurement: msg,
		SenderMeasurement:  sender,
		ReceiverState:      state,
		Success:            truthy(vs[3]),
	}, nil
}
