//go:generate go run go.uber.org/mock/mockgen -source=evaluator.go -destination=mocks/mock_evaluator.go -package=mocks
package qsharp_bridge_go

import (
	"context"
	"encoding/json"
)

// Evaluator is an external quantum evaluator runtime holding loaded operation definitions
type Evaluator interface {
	// Reset discards every definition and value the evaluator holds
	Reset(ctx context.Context) error
	// Eval runs source text and returns its value encoded as JSON
	Eval(ctx context.Context, source string) (json.RawMessage, error)
}
