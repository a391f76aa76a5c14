package qsharp_bridge_go

import "encoding/json"

// DefaultQubitState is the nominal state a qubit is described with before any operation
const DefaultQubitState = "|0>"

// QubitMetadata describes one simulated qubit on the caller's side.
// The evaluator never sees EntangledWith; it is filled in by the Bridge after an entangling operation.
type QubitMetadata struct {
	id string

	Label         string
	Role          string
	IsEntangled   bool
	State         string
	EntangledWith []string
}

// NewQubit returns a qubit in the default state
func NewQubit(id, label, role string) (*QubitMetadata, error) {
	if id == "" {
		return nil, ErrEmptyQubitId
	}
	return &QubitMetadata{
		id:            id,
		Label:         label,
		Role:          role,
		State:         DefaultQubitState,
		EntangledWith: []string{},
	}, nil
}

// ID returns the caller assigned identifier
func (q *QubitMetadata) ID() string { return q.id }

// markEntangled records other as the only entanglement partner of q
func (q *QubitMetadata) markEntangled(other *QubitMetadata) {
	q.IsEntangled = true
	q.EntangledWith = []string{other.id}
}

type qubitJSON struct {
	Id            string   `json:"id"`
	Label         string   `json:"label"`
	Role          string   `json:"role"`
	IsEntangled   bool     `json:"isEntangled"`
	State         string   `json:"state"`
	EntangledWith []string `json:"entangleWith"`
}

// MarshalJSON encodes the qubit with the field names the HTTP clients use
func (q *QubitMetadata) MarshalJSON() ([]byte, error) {
	with := q.EntangledWith
	if with == nil {
		with = []string{}
	}
	return json.Marshal(qubitJSON{
		Id:            q.id,
		Label:         q.Label,
		Role:          q.Role,
		IsEntangled:   q.IsEntangled,
		State:         q.State,
		EntangledWith: with,
	})
}

// UnmarshalJSON decodes a qubit, rejecting an empty id and defaulting the state
func (q *QubitMetadata) UnmarshalJSON(b []byte) error {
	var v qubitJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v.Id == "" {
		return ErrEmptyQubitId
	}
	if v.State == "" {
		v.State = DefaultQubitState
	}
	if v.EntangledWith == nil {
		v.EntangledWith = []string{}
	}

	*q = QubitMetadata{
		id:            v.Id,
		Label:         v.Label,
		Role:          v.Role,
		IsEntangled:   v.IsEntangled,
		State:         v.State,
		EntangledWith: v.EntangledWith,
	}
	return nil
}
