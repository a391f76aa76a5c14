package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	qsharp "github.com/Zaba505/qsharp-bridge-go"
)

// Evaluator kinds
const (
	EvaluatorProcess = "process"
	EvaluatorHTTP    = "http"
)

// Config represents the complete teleport configuration
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Evaluator   EvaluatorConfig   `mapstructure:"evaluator"`
	Definitions DefinitionsConfig `mapstructure:"definitions"`
	Server      ServerConfig      `mapstructure:"server"`
}

// LogConfig controls logging
type LogConfig struct {
	// Level is any level logrus understands, e.g. "debug" or "warning"
	Level string `mapstructure:"level" validate:"required"`
	// Format is "text" or "json"
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// EvaluatorConfig selects and configures the Q# evaluator
type EvaluatorConfig struct {
	// Kind is "process" for a local Python qsharp runtime, "http" for an evaluator service
	Kind    string        `mapstructure:"kind" validate:"oneof=process http"`
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	Python  string        `mapstructure:"python" validate:"required_if=Kind process"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// DefinitionsConfig locates the Q# operation definitions
type DefinitionsConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the address the server listens on
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Evaluator: EvaluatorConfig{
			Kind:    EvaluatorProcess,
			URL:     qsharp.DefaultUrl,
			Python:  qsharp.DefaultPython,
			Timeout: qsharp.DefaultTimeout,
		},
		Definitions: DefinitionsConfig{
			Path: qsharp.DefaultDefinitionsPath,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)

	viper.SetDefault("evaluator.kind", defaults.Evaluator.Kind)
	viper.SetDefault("evaluator.url", defaults.Evaluator.URL)
	viper.SetDefault("evaluator.python", defaults.Evaluator.Python)
	viper.SetDefault("evaluator.timeout", defaults.Evaluator.Timeout)

	viper.SetDefault("definitions.path", defaults.Definitions.Path)

	viper.SetDefault("server.host", defaults.Server.Host)
	viper.SetDefault("server.port", defaults.Server.Port)
	viper.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field, reporting all problems at once
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		errs = append(errs, lo.Map(fieldErrs, func(fe validator.FieldError, _ int) error {
			return fmt.Errorf("invalid %s: %q failed on %s", configKey(fe), fmt.Sprint(fe.Value()), fe.Tag())
		})...)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		errs = append(errs, fmt.Errorf("invalid log.level: %w", err))
	}
	return errors.Join(errs...)
}

// configKey maps a validator namespace such as Config.Server.ShutdownTimeout to server.shutdown_timeout
func configKey(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")[1:]
	return strings.Join(lo.Map(parts, func(p string, _ int) string {
		return toSnake(p)
	}), ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Logger builds the logger described by the log settings
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
