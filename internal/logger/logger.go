package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config string to a zap level. Unknown values fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Init builds a development logger at the given level and installs it as the global logger.
func Init(level string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level.SetLevel(ParseLevel(level))
	cfg.OutputPaths = []string{"stderr"}

	lgr, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	zap.ReplaceGlobals(lgr)
	return nil
}
