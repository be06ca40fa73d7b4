package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is an alias for zapcore.Level
type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// level is shared by every logger built with New so it can change at runtime.
var level = zap.NewAtomicLevelAt(InfoLevel)

// SetLevel changes the log level at runtime.
func SetLevel(l Level) { level.SetLevel(l) }

// GetLevel returns the current log level.
func GetLevel() Level { return level.Level() }

// New builds a JSON logger writing to file, or to stderr when file is empty.
// The terminal UI owns stdout, so the reader should always log to a file.
func New(levelName, file string) (*zap.Logger, error) {
	if levelName != "" {
		l, err := zapcore.ParseLevel(strings.ToLower(levelName))
		if err != nil {
			return nil, errors.Wrapf(err, "log level %q", levelName)
		}
		SetLevel(l)
	}

	sink := zapcore.Lock(os.Stderr)
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		sink = zapcore.Lock(f)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	return zap.New(core, zap.AddCaller()), nil
}
