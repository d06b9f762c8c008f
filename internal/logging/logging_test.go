package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(scopes Scopes) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{z: zap.New(core), scopes: scopes}, logs
}

func TestDebugfGatedByScope(t *testing.T) {
	l, logs := newObservedLogger(ScopeLexer)

	l.Debugf(ScopeLexer, "lexer says %s", "hi")
	l.Debugf(ScopeStore, "store says %s", "bye")

	all := logs.All()
	assert.Len(t, all, 1)
	assert.Contains(t, all[0].Message, "lexer says hi")
}

func TestDebugfScopeNoneSuppressesEverything(t *testing.T) {
	l, logs := newObservedLogger(ScopeNone)
	l.Debugf(ScopeLexer, "should not appear")
	assert.Empty(t, logs.All())
}

func TestDebugfScopeAllEnablesEverything(t *testing.T) {
	l, logs := newObservedLogger(ScopeAll)
	l.Debugf(ScopeLocator, "a")
	l.Debugf(ScopeLexer, "b")
	l.Debugf(ScopeTypeset, "c")
	l.Debugf(ScopeStore, "d")
	assert.Len(t, logs.All(), 4)
}

func TestInfoWarnErrorAlwaysEmit(t *testing.T) {
	l, logs := newObservedLogger(ScopeNone)
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error")

	all := logs.All()
	assert.Len(t, all, 3)
	assert.Equal(t, zapcore.InfoLevel, all[0].Level)
	assert.Equal(t, zapcore.WarnLevel, all[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, all[2].Level)
}
