// Package logger builds the zap logger used by the critpath commands.
package logger

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joshharrison/critpath/internal/config"
)

// Logger wraps the zap logger shared by the commands.
type Logger struct {
	*zap.Logger
}

// Build sets up the base logger. Everything is written to w, which the
// commands point at stderr so stdout stays reserved for reports.
// Errors pass regardless of the configured level.
func Build(cfg config.Logger, w io.Writer) (*Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logger.level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("logger.encoding: unsupported value %q (use console or json)", cfg.Encoding)
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return level.Enabled(lvl) && lvl < zapcore.ErrorLevel
	})

	sink := zapcore.Lock(zapcore.AddSync(w))
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, sink, lowPriority),
		zapcore.NewCore(encoder.Clone(), sink, highPriority),
	)

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	return &Logger{Logger: zap.New(core, opts...)}, nil
}
