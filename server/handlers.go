package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	qsharp "github.com/Zaba505/qsharp-bridge-go"
)

const bellState = "(|00⟩ + |11⟩)/√2"

func (s *server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResp{
		Service:        "Quantum Teleportation API",
		Status:         "operational",
		QuantumBackend: s.backend,
		Endpoints: map[string]string{
			"teleport":   "/api/teleport",
			"bell-state": "/api/bell-state",
			"entangle":   "/api/entangle",
			"measure":    "/api/measure",
		},
	})
}

func (s *server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	var req qubitReq
	if !s.bind(w, r, &req) {
		return
	}
	q, err := req.metadata()
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.ops.MeasureQubit(r.Context(), q)
	if err != nil {
		s.fail(w, r, qsharp.OpProcessSingleQubit, err)
		return
	}

	writeJSON(w, http.StatusOK, measureResp{
		Success:     true,
		Measurement: m,
		StateAfter:  m.Ket(),
	})
}

func (s *server) handleEntangle(w http.ResponseWriter, r *http.Request) {
	var req entangleReq
	if !s.bind(w, r, &req) {
		return
	}
	qs, err := metadataOf(req.Qubit1, req.Qubit2)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.ops.EntangleQubits(r.Context(), qs[0], qs[1])
	if err != nil {
		s.fail(w, r, qsharp.OpProcessQubits, err)
		return
	}

	writeJSON(w, http.StatusOK, entangleResp{
		Success:   true,
		Entangled: res.Entangled,
		Qubit1:    viewOf(qs[0]),
		Qubit2:    viewOf(qs[1]),
		Result:    res.String(),
	})
}

func (s *server) handleBellState(w http.ResponseWriter, r *http.Request) {
	var req bellStateReq
	if !s.bind(w, r, &req) {
		return
	}

	var qs []*qsharp.QubitMetadata
	if req.Alice != nil {
		var err error
		qs, err = metadataOf(req.Alice, req.Bob)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	pair, err := s.ops.CreateBellState(r.Context(), qs...)
	if err != nil {
		s.fail(w, r, lo.Ternary(len(qs) == 0, qsharp.OpCreateBellStatesSimple, qsharp.OpCreateBellStates), err)
		return
	}

	writeJSON(w, http.StatusOK, bellStateResp{
		Success:      true,
		Measurement1: pair.First,
		Measurement2: pair.Second,
		BellState:    bellState,
		Explanation:  fmt.Sprintf("Qubits measured as %d and %d (correlated due to entanglement)", pair.First, pair.Second),
	})
}

func (s *server) handleTeleport(w http.ResponseWriter, r *http.Request) {
	var req teleportReq
	if !s.bind(w, r, &req) {
		return
	}
	qs, err := metadataOf(req.MessageQubit, req.AliceQubit, req.BobQubit)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	state := lo.CoalesceOrEmpty(req.MessageState, qsharp.DefaultMessageState)

	res, err := s.ops.Teleport(r.Context(), qs[0], qs[1], qs[2], state)
	if err != nil {
		s.fail(w, r, qsharp.OpTeleportWorkflow, err)
		return
	}

	writeJSON(w, http.StatusOK, teleportResp{
		Success: res.Success,
		Message: "Quantum teleportation completed successfully",
		Results: teleportResults{
			MessageMeasurement:   res.MessageMeasurement,
			AliceMeasurement:     res.SenderMeasurement,
			BobFinalState:        res.ReceiverState,
			ClassicalBits:        res.ClassicalBits(),
			TeleportationSuccess: res.Success,
		},
		QuantumSteps: teleportSteps(state, res),
	})
}

func teleportSteps(state string, res qsharp.TeleportResult) []quantumStep {
	return []quantumStep{
		{Phase: "initialization", Description: fmt.Sprintf("Message qubit prepared in %s state", state)},
		{Phase: "entanglement", Description: "Bell pair created between Alice and Bob: " + bellState},
		{Phase: "bell_measurement", Description: fmt.Sprintf("Alice measured: message=%d, alice=%d", res.MessageMeasurement, res.SenderMeasurement)},
		{Phase: "classical_communication", Description: fmt.Sprintf("Classical bits %s sent to Bob", res.ClassicalBits())},
		{Phase: "correction", Description: "Bob applied correction gates based on measurements"},
		{Phase: "verification", Description: fmt.Sprintf("Bob's final state: %s", res.ReceiverState)},
	}
}

func metadataOf(reqs ...*qubitReq) ([]*qsharp.QubitMetadata, error) {
	qs := make([]*qsharp.QubitMetadata, 0, len(reqs))
	for _, req := range reqs {
		q, err := req.metadata()
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// bind decodes and validates the request body into v, writing a 400 on failure.
// An empty body decodes as an empty object.
func (s *server) bind(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	err := s.validate.Struct(v)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
			return fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag())
		})
		writeDetail(w, http.StatusBadRequest, strings.Join(msgs, "; "))
		return false
	}
	writeDetail(w, http.StatusBadRequest, err.Error())
	return false
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.log.WithError(err).
		WithField("operation", op).
		WithField("request_id", RequestIDFrom(r.Context())).
		Error("✗ quantum operation failed")
	writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Quantum operation failed: %v", err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResp{Detail: detail})
}
