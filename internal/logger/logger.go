// Package logger builds the zap logger shared by every scholarscout command and the field helpers
// used to tag scholarship and AI log entries.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MessageKey names the message field. Each log line describes a pipeline step
// (loading, scoring, a filter, a review), so the key reads as "step".
const MessageKey = "step"

// New builds the logger for a CLI run. Logs go to stdout next to the match report so a run can be
// piped as one stream; zap's own errors go to stderr. json switches the console encoder to JSON
// for machine consumption, and debug exposes request previews and filter statuses.
func New(json bool, debug bool) (*zap.Logger, error) {
	cfg := zap.Config{
		Encoding:         encoding(json),
		Level:            zap.NewAtomicLevelAt(level(debug)),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig(),
	}

	return cfg.Build()
}

func encoding(json bool) string {
	if json {
		return "json"
	}
	return "console"
}

func level(debug bool) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:   MessageKey,
		LevelKey:     "level",
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		TimeKey:      "time",
		EncodeTime:   zapcore.RFC3339TimeEncoder,
		CallerKey:    "caller",
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}
