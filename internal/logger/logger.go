package logger

import (
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop()

// Init installs the production JSON logger at the given level.
// Unknown levels fall back to info.
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}

	l, err := cfg.Build()
	if err != nil {
		return
	}

	base = l
	base.Info("logger initialized", zap.String("level", lvl.String()))
}

// Set replaces the package logger. Tests use it with zaptest or observer cores.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base = l
}

// L returns the underlying zap logger for middleware that wants typed fields.
func L() *zap.Logger {
	return base
}

func Sync() {
	_ = base.Sync()
}

func Info(msg string, fields map[string]any) {
	base.Info(msg, toFields(fields)...)
}

func Warn(msg string, fields map[string]any) {
	base.Warn(msg, toFields(fields)...)
}

func Error(msg string, fields map[string]any) {
	base.Error(msg, toFields(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	base.Error(msg, toFields(fields)...)
	Sync()
	os.Exit(1)
}

func toFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
