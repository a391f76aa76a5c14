// Package server exposes the bridge operations as a JSON HTTP API
package server

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	qsharp "github.com/Zaba505/qsharp-bridge-go"
)

// Operations is the set of bridge operations served over HTTP, *qsharp.Bridge implements it
type Operations interface {
	MeasureQubit(ctx context.Context, q *qsharp.QubitMetadata) (qsharp.Measurement, error)
	EntangleQubits(ctx context.Context, q1, q2 *qsharp.QubitMetadata) (qsharp.EntangleResult, error)
	CreateBellState(ctx context.Context, qubits ...*qsharp.QubitMetadata) (qsharp.BellPair, error)
	Teleport(ctx context.Context, message, sender, receiver *qsharp.QubitMetadata, messageState string) (qsharp.TeleportResult, error)
}

var serverLogger = logrus.New()

type options struct {
	logger  logrus.FieldLogger
	backend string
}

// Option configures the handler
type Option func(*options)

// WithLogger configures the logger used for access logs and operation failures
func WithLogger(logger logrus.FieldLogger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithBackendName configures the quantum_backend reported by the service info endpoint
func WithBackendName(name string) Option {
	return func(opts *options) {
		opts.backend = name
	}
}

type server struct {
	ops      Operations
	log      logrus.FieldLogger
	backend  string
	validate *validator.Validate
}

// New returns the API handler serving ops
func New(ops Operations, opts ...Option) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = serverLogger
	}
	if o.backend == "" {
		o.backend = "Q# via Python"
	}

	s := &server{
		ops:      ops,
		log:      o.logger,
		backend:  o.backend,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("POST /api/measure", s.handleMeasure)
	mux.HandleFunc("POST /api/entangle", s.handleEntangle)
	mux.HandleFunc("POST /api/bell-state", s.handleBellState)
	mux.HandleFunc("POST /api/teleport", s.handleTeleport)

	return requestID(accessLog(o.logger, cors(mux)))
}
