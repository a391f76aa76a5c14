package qsharp_bridge_go

import "github.com/sirupsen/logrus"

// DefaultDefinitionsPath is the Q# source file the operation library is loaded from
const DefaultDefinitionsPath = "QuantumEntanglement.qs"

type bridgeOptions struct {
	logger logrus.FieldLogger

	definitionsPath string
	definitions     string
	namespace       string
}

// Option configures how the Bridge is set up
type Option func(*bridgeOptions)

// WithLogger configures the Bridge to log through logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(options *bridgeOptions) {
		options.logger = logger
	}
}

// WithDefinitionsFile configures the Q# source file loaded into the evaluator on every initialize
func WithDefinitionsFile(path string) Option {
	return func(options *bridgeOptions) {
		options.definitionsPath = path
	}
}

// WithDefinitions configures the Q# source text loaded into the evaluator on every initialize.
// It takes precedence over WithDefinitionsFile.
func WithDefinitions(source string) Option {
	return func(options *bridgeOptions) {
		options.definitions = source
	}
}

// WithNamespace configures the namespace operations are invoked in
func WithNamespace(ns string) Option {
	return func(options *bridgeOptions) {
		options.namespace = ns
	}
}
