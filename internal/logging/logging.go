// Package logging provides the structured logger shared by the driver
// and pipeline components, built on go.uber.org/zap. It carries forward
// the teacher's LogScopes bit-flag idea (experimental/logging's scoped
// function listeners) as a Scopes selector gating which pipeline areas
// emit Debug-level output, while Info/Warn/Error always pass through.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Scopes is a bit flag of pipeline areas to log at debug level. e.g.
// ScopeLexer. For multiple scopes, OR them together:
//
//	scopes := logging.ScopeLexer | logging.ScopeTypeset
//
// Numeric values are not intended to be interpreted except as bit flags.
type Scopes uint32

const (
	ScopeNone Scopes = 0
	// ScopeLocator enables debug logging for page offset resolution.
	ScopeLocator Scopes = 1 << iota
	// ScopeLexer enables debug logging for opcode decoding, including
	// every Unknown token encountered.
	ScopeLexer
	// ScopeTypeset enables debug logging for typesetter dispatch.
	ScopeTypeset
	// ScopeStore enables debug logging for persistence operations.
	ScopeStore

	ScopeAll = ScopeLocator | ScopeLexer | ScopeTypeset | ScopeStore
)

// Logger wraps a *zap.Logger with scope-gated Debug output.
type Logger struct {
	z      *zap.Logger
	scopes Scopes
}

// New builds a Logger. verbose raises the base level to debug for
// everything in scopes; Info/Warn/Error are always emitted regardless
// of scopes.
func New(verbose bool, scopes Scopes) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = ""
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z, scopes: scopes}, nil
}

// Debugf logs at debug level only if scope is enabled.
func (l *Logger) Debugf(scope Scopes, format string, args ...any) {
	if l.scopes&scope == 0 {
		return
	}
	l.z.Sugar().Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) { l.z.Sugar().Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any) { l.z.Sugar().Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.z.Sugar().Errorf(format, args...) }
func (l *Logger) Sync() error                       { return l.z.Sync() }
