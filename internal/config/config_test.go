package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	req := require.New(t)

	cfg := Default()

	req.NoError(cfg.Validate())
	req.Equal(EvaluatorProcess, cfg.Evaluator.Kind)
	req.Equal("QuantumEntanglement.qs", cfg.Definitions.Path)
	req.Equal("0.0.0.0:8000", cfg.Server.Addr())
}

func TestLoad(t *testing.T) {
	t.Run("should read a config file over the defaults", func(t *testing.T) {
		req := require.New(t)
		viper.Reset()
		t.Cleanup(viper.Reset)

		path := filepath.Join(t.TempDir(), "config.yaml")
		req.NoError(os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
evaluator:
  kind: http
  url: http://evaluator:8081
  timeout: 5s
server:
  port: 9000
`), 0o644))

		SetDefaults()
		viper.SetConfigFile(path)
		req.NoError(viper.ReadInConfig())

		cfg, err := Load()

		req.NoError(err)
		req.Equal(EvaluatorHTTP, cfg.Evaluator.Kind)
		req.Equal("http://evaluator:8081", cfg.Evaluator.URL)
		req.Equal(5*time.Second, cfg.Evaluator.Timeout)
		req.Equal("0.0.0.0:9000", cfg.Server.Addr())
		req.Equal(10*time.Second, cfg.Server.ShutdownTimeout)
		req.Equal(logrus.DebugLevel, cfg.Logger().GetLevel())
		req.IsType(&logrus.JSONFormatter{}, cfg.Logger().Formatter)
	})

	t.Run("should report every invalid setting", func(t *testing.T) {
		req := require.New(t)
		viper.Reset()
		t.Cleanup(viper.Reset)

		SetDefaults()
		viper.Set("evaluator.kind", "grpc")
		viper.Set("log.level", "loud")
		viper.Set("server.shutdown_timeout", "0s")

		_, err := Load()

		req.Error(err)
		req.Contains(err.Error(), "invalid evaluator.kind")
		req.Contains(err.Error(), "invalid log.level")
		req.Contains(err.Error(), "invalid server.shutdown_timeout")
	})
}
