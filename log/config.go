package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// Config declares the default log level plus per-logger overrides. The
// overrides match named loggers by prefix.
type Config struct {
	DefaultLevel string            `yaml:"defaultLevel"`
	Loggers      map[string]string `yaml:"loggers"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{DefaultLevel: "info"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse log config: %w", err)
	}
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = "info"
	}
	return cfg, nil
}

func (c *Config) rules() string {
	parts := make([]string, 0, len(c.Loggers)+1)
	for name, level := range c.Loggers {
		parts = append(parts, fmt.Sprintf("%s+:%s*", level, name))
	}
	sort.Strings(parts)
	parts = append(parts, fmt.Sprintf("%s+:*", c.DefaultLevel))
	return strings.Join(parts, " ")
}

// NewWithConfig creates a logger whose named sub-loggers are filtered
// according to cfg.
func NewWithConfig(cfg *Config, out io.Writer, format string, opts ...Option) (*Logger, error) {
	filter, err := zapfilter.ParseRules(cfg.rules())
	if err != nil {
		return nil, fmt.Errorf("parse log config rules: %w", err)
	}
	if out == nil {
		out = os.Stderr
	}
	var enc zapcore.Encoder
	switch format {
	case "json":
		ecfg := zap.NewProductionEncoderConfig()
		ecfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ecfg)
	default:
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(out), zapcore.DebugLevel)
	return &Logger{
		l:     zap.New(zapfilter.NewFilteringCore(core, filter), opts...),
		level: DebugLevel,
	}, nil
}
