package server

import (
	"github.com/samber/lo"

	qsharp "github.com/Zaba505/qsharp-bridge-go"
)

// qubitReq matches the qubit records sent by the frontend
type qubitReq struct {
	Id           string   `json:"id" validate:"required"`
	Label        string   `json:"label"`
	Role         string   `json:"role"`
	IsEntangled  bool     `json:"isEntangled"`
	State        string   `json:"state"`
	EntangleWith []string `json:"entangleWith"`
}

func (r *qubitReq) metadata() (*qsharp.QubitMetadata, error) {
	q, err := qsharp.NewQubit(r.Id, r.Label, r.Role)
	if err != nil {
		return nil, err
	}
	q.IsEntangled = r.IsEntangled
	q.State = lo.CoalesceOrEmpty(r.State, qsharp.DefaultQubitState)
	if r.EntangleWith != nil {
		q.EntangledWith = r.EntangleWith
	}
	return q, nil
}

type entangleReq struct {
	Qubit1 *qubitReq `json:"qubit1" validate:"required"`
	Qubit2 *qubitReq `json:"qubit2" validate:"required"`
}

// bellStateReq takes both qubits or neither
type bellStateReq struct {
	Alice *qubitReq `json:"alice" validate:"required_with=Bob"`
	Bob   *qubitReq `json:"bob" validate:"required_with=Alice"`
}

type teleportReq struct {
	MessageQubit *qubitReq `json:"messageQubit" validate:"required"`
	AliceQubit   *qubitReq `json:"aliceQubit" validate:"required"`
	BobQubit     *qubitReq `json:"bobQubit" validate:"required"`
	MessageState string    `json:"messageState"`
}

type infoResp struct {
	Service        string            `json:"service"`
	Status         string            `json:"status"`
	QuantumBackend string            `json:"quantum_backend"`
	Endpoints      map[string]string `json:"endpoints"`
}

type measureResp struct {
	Success     bool               `json:"success"`
	Measurement qsharp.Measurement `json:"measurement"`
	StateAfter  string             `json:"state_after"`
}

type qubitView struct {
	Id           string   `json:"id"`
	Label        string   `json:"label"`
	IsEntangled  bool     `json:"isEntangled"`
	EntangleWith []string `json:"entangleWith"`
}

func viewOf(q *qsharp.QubitMetadata) qubitView {
	return qubitView{
		Id:           q.ID(),
		Label:        q.Label,
		IsEntangled:  q.IsEntangled,
		EntangleWith: q.EntangledWith,
	}
}

type entangleResp struct {
	Success   bool      `json:"success"`
	Entangled bool      `json:"entangled"`
	Qubit1    qubitView `json:"qubit1"`
	Qubit2    qubitView `json:"qubit2"`
	Result    string    `json:"result"`
}

type bellStateResp struct {
	Success      bool               `json:"success"`
	Measurement1 qsharp.Measurement `json:"measurement1"`
	Measurement2 qsharp.Measurement `json:"measurement2"`
	BellState    string             `json:"bellState"`
	Explanation  string             `json:"explanation"`
}

type teleportResults struct {
	MessageMeasurement   qsharp.Measurement `json:"messageMeasurement"`
	AliceMeasurement     qsharp.Measurement `json:"aliceMeasurement"`
	BobFinalState        string             `json:"bobFinalState"`
	ClassicalBits        string             `json:"classicalBits"`
	TeleportationSuccess bool               `json:"teleportationSuccess"`
}

type quantumStep struct {
	Phase       string `json:"phase"`
	Description string `json:"description"`
}

type teleportResp struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Results      teleportResults `json:"results"`
	QuantumSteps []quantumStep   `json:"quantumSteps"`
}

type errorResp struct {
	Detail string `json:"detail"`
}
