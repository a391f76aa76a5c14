package qsharp_bridge_go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// session owns the lifecycle of the definitions loaded into one evaluator.
// Initialize and Exec hold the same lock, so a recovery reload never interleaves with another invocation.
type session struct {
	mu sync.Mutex

	eval Evaluator
	log  logrus.FieldLogger

	path   string
	source string

	// loaded is the definitions text the evaluator accepted, empty once a load fails
	loaded    string
	available bool
}

func newSession(eval Evaluator, opts bridgeOptions) *session {
	return &session{
		eval:   eval,
		log:    opts.logger,
		path:   opts.definitionsPath,
		source: opts.definitions,
	}
}

// Initialize resets the evaluator and loads the definitions source into it.
// On failure the session stays unavailable until Initialize succeeds.
func (s *session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.readDefinitions()
	if err != nil {
		s.available = false
		s.loaded = ""
		// Still reset so stale definitions do not outlive a failed initialize
		if resetErr := s.eval.Reset(ctx); resetErr != nil {
			err = errors.Join(err, resetErr)
		}
		s.log.WithError(err).Error("✗ failed to load Q# operations")
		return err
	}

	if err := s.load(ctx, src); err != nil {
		s.log.WithError(err).Error("✗ failed to load Q# operations")
		return err
	}

	s.log.WithField("source", s.describeSource()).Info("✓ Q# operations loaded")
	return nil
}

// Available reports whether the last initialize loaded the definitions
func (s *session) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// Exec runs code and returns its value.
// If the evaluator lost its definitions and some were loaded before, they are reloaded and code is resubmitted once.
func (s *session) Exec(ctx context.Context, code string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.eval.Eval(ctx, code)
	if err == nil {
		return value, nil
	}

	if !IsDefinitionsLost(err) || s.loaded == "" {
		s.log.WithError(err).Error("✗ Q# execution error")
		if s.loaded == "" {
			return nil, fmt.Errorf("%w: %w", ErrDefinitionsUnavailable, err)
		}
		return nil, err
	}

	s.log.WithError(err).Warn("⟳ Q# definitions lost, reloading")
	if err := s.load(ctx, s.loaded); err != nil {
		s.log.WithError(err).Error("✗ Q# reload failed")
		return nil, fmt.Errorf("reload definitions: %w", err)
	}

	value, err = s.eval.Eval(ctx, code)
	if err != nil {
		s.log.WithError(err).Error("✗ Q# execution error after reload")
		return nil, err
	}
	return value, nil
}

// load resets the evaluator and evaluates src, caller holds mu.
// A failed load forgets the previous text so recovery cannot revive it.
func (s *session) load(ctx context.Context, src string) error {
	s.available = false
	s.loaded = ""

	if err := s.eval.Reset(ctx); err != nil {
		return fmt.Errorf("reset evaluator: %w", err)
	}
	if _, err := s.eval.Eval(ctx, src); err != nil {
		return fmt.Errorf("load definitions: %w", err)
	}

	s.loaded = src
	s.available = true
	return nil
}

func (s *session) readDefinitions() (string, error) {
	if s.source != "" {
		return s.source, nil
	}
	if s.path == "" {
		return "", fmt.Errorf("%w: no definitions source configured", ErrDefinitionsUnavailable)
	}

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s file not found", ErrDefinitionsUnavailable, s.path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDefinitionsUnavailable, err)
	}
	return string(b), nil
}

func (s *session) describeSource() string {
	if s.source != "" {
		return "inline"
	}
	return s.path
}
