package qsharp_bridge_go

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var bridgeLogger = logrus.New()

// Bridge runs QuantumEntanglement operations for QubitMetadata records against one evaluator session.
// Calls are serialized on the session.
type Bridge struct {
	opts    bridgeOptions
	eval    Evaluator
	session *session
	log     logrus.FieldLogger
}

// NewBridge returns a Bridge over eval and initializes its session.
// A failed initialize is logged and leaves operations unavailable until Initialize is called again.
func NewBridge(ctx context.Context, eval Evaluator, options ...Option) *Bridge {
	if eval == nil {
		panic("qsharp: Evaluator must not be nil")
	}

	var opts bridgeOptions
	for _, option := range options {
		option(&opts)
	}

	// Set defaults
	if opts.logger == nil {
		opts.logger = bridgeLogger
	}
	if opts.definitionsPath == "" {
		opts.definitionsPath = DefaultDefinitionsPath
	}
	if opts.namespace == "" {
		opts.namespace = DefaultNamespace
	}

	b := &Bridge{
		opts:    opts,
		eval:    eval,
		session: newSession(eval, opts),
		log:     opts.logger,
	}
	_ = b.session.Initialize(ctx)
	return b
}

// Initialize resets the evaluator and reloads the operation definitions
func (b *Bridge) Initialize(ctx context.Context) error {
	return b.session.Initialize(ctx)
}

// Available reports whether the operation definitions are currently loaded
func (b *Bridge) Available() bool {
	return b.session.Available()
}

// Close releases the evaluator if it holds resources
func (b *Bridge) Close() error {
	if c, ok := b.eval.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *Bridge) invocation(op string) *Invocation {
	inv := NewInvocation(op)
	inv.Namespace = b.opts.namespace
	return inv
}

// MeasureQubit runs ProcessSingleQubit on q and returns the measured outcome
func (b *Bridge) MeasureQubit(ctx context.Context, q *QubitMetadata) (Measurement, error) {
	inv := b.invocation(OpProcessSingleQubit).Bind("qInfo", q)

	raw, err := b.session.Exec(ctx, inv.String())
	if err != nil {
		return 0, err
	}

	m, err := decodeMeasurement(OpProcessSingleQubit, raw)
	if err != nil {
		b.logUnexpected(OpProcessSingleQubit, err)
		return 0, err
	}
	return m, nil
}

// EntangleQubits runs ProcessQubits on q1 and q2.
// When the evaluator returns a truthy value both qubits are marked as entangled with each other.
func (b *Bridge) EntangleQubits(ctx context.Context, q1, q2 *QubitMetadata) (EntangleResult, error) {
	inv := b.invocation(OpProcessQubits).
		Bind("q1Info", q1).
		Bind("q2Info", q2)

	raw, err := b.session.Exec(ctx, inv.String())
	if err != nil {
		return EntangleResult{}, err
	}

	res := EntangleResult{Raw: raw, Entangled: Truthy(raw)}
	if res.Entangled {
		q1.markEntangled(q2)
		q2.markEntangled(q1)
	}
	return res, nil
}

// CreateBellState prepares a Bell pair and measures it.
// With no qubits it runs the parameterless operation, with two it passes their metadata along.
func (b *Bridge) CreateBellState(ctx context.Context, qubits ...*QubitMetadata) (BellPair, error) {
	var inv *Invocation
	switch len(qubits) {
	case 0:
		inv = b.invocation(OpCreateBellStatesSimple)
	case 2:
		inv = b.invocation(OpCreateBellStates).
			Bind("q1Info", qubits[0]).
			Bind("q2Info", qubits[1])
	default:
		return BellPair{}, fmt.Errorf("%w: bell state takes 0 or 2 qubits, got %d", ErrBadArity, len(qubits))
	}

	raw, err := b.session.Exec(ctx, inv.String())
	if err != nil {
		return BellPair{}, err
	}

	pair, err := decodeBellPair(inv.Operation, raw)
	if err != nil {
		b.logUnexpected(inv.Operation, err)
		return BellPair{}, err
	}
	return pair, nil
}

// Teleport runs the full teleportation workflow moving message's state from sender to receiver.
// An empty messageState teleports DefaultMessageState. On success sender and receiver end up entangled with each other.
func (b *Bridge) Teleport(ctx context.Context, message, sender, receiver *QubitMetadata, messageState string) (TeleportResult, error) {
	if messageState == "" {
		messageState = DefaultMessageState
	}

	inv := b.invocation(OpTeleportWorkflow).
		Bind("msgInfo", message).
		Bind("aliceInfo", sender).
		Bind("bobInfo", receiver).
		Arg(messageState)

	raw, err := b.session.Exec(ctx, inv.String())
	if err != nil {
		return TeleportResult{}, err
	}

	res, err := decodeTeleportResult(raw)
	if err != nil {
		b.logUnexpected(OpTeleportWorkflow, err)
		return TeleportResult{}, err
	}

	if Truthy(raw) {
		sender.markEntangled(receiver)
		receiver.markEntangled(sender)
	}
	return res, nil
}

func (b *Bridge) logUnexpected(op string, err error) {
	b.log.WithError(err).WithField("operation", op).Error("✗ unexpected evaluator result")
}
