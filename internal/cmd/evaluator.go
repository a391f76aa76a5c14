package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	qsharp "github.com/Zaba505/qsharp-bridge-go"
	"github.com/Zaba505/qsharp-bridge-go/internal/config"
)

// newEvaluator builds the evaluator selected by cfg
func newEvaluator(ctx context.Context, cfg *config.Config) (qsharp.Evaluator, error) {
	switch cfg.Evaluator.Kind {
	case config.EvaluatorProcess:
		p, err := qsharp.StartProcess(ctx, qsharp.WithPython(cfg.Evaluator.Python))
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.EvaluatorHTTP:
		c, err := qsharp.Dial(
			qsharp.WithEvaluatorUrl(cfg.Evaluator.URL),
			qsharp.WithTimeout(cfg.Evaluator.Timeout),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown evaluator kind %q", cfg.Evaluator.Kind)
	}
}

// openBridge loads the configuration and returns a bridge with its definitions loading attempted
func openBridge(ctx context.Context) (*qsharp.Bridge, *config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config error: %w", err)
	}
	logger := cfg.Logger()

	ev, err := newEvaluator(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	b := qsharp.NewBridge(ctx, ev,
		qsharp.WithLogger(logger.WithField("evaluator", cfg.Evaluator.Kind)),
		qsharp.WithDefinitionsFile(cfg.Definitions.Path),
	)
	return b, cfg, logger, nil
}

func backendName(cfg *config.Config) string {
	if cfg.Evaluator.Kind == config.EvaluatorHTTP {
		return "Q# via " + cfg.Evaluator.URL
	}
	return "Q# via Python"
}
