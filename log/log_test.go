package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/web-algebra/webalgebra/log"
)

func TestLog(t *testing.T) {
	original := log.Default
	t.Cleanup(func() { log.Default = original })
	stub := &countLogger{}
	log.Default = stub

	log.Debug("test")
	log.Debugf("test %s", "x")
	log.Info("test")
	log.Infof("test %s", "x")
	log.Warn("test")
	log.Warnf("test %s", "x")
	log.Error("test")
	log.Errorf("test %s", "x")

	assert.Equal(t, 1, stub.debugCalls)
	assert.Equal(t, 1, stub.debugfCalls)
	assert.Equal(t, 1, stub.infoCalls)
	assert.Equal(t, 1, stub.infofCalls)
	assert.Equal(t, 1, stub.warnCalls)
	assert.Equal(t, 1, stub.warnfCalls)
	assert.Equal(t, 1, stub.errorCalls)
	assert.Equal(t, 1, stub.errorfCalls)
}

type countLogger struct {
	debugCalls, debugfCalls   int
	infoCalls, infofCalls     int
	warnCalls, warnfCalls     int
	errorCalls, errorfCalls   int
}

func (c *countLogger) Debug(args ...any)                 { c.debugCalls++ }
func (c *countLogger) Debugf(format string, args ...any) { c.debugfCalls++ }
func (c *countLogger) Info(args ...any)                  { c.infoCalls++ }
func (c *countLogger) Infof(format string, args ...any)  { c.infofCalls++ }
func (c *countLogger) Warn(args ...any)                  { c.warnCalls++ }
func (c *countLogger) Warnf(format string, args ...any)  { c.warnfCalls++ }
func (c *countLogger) Error(args ...any)                 { c.errorCalls++ }
func (c *countLogger) Errorf(format string, args ...any) { c.errorfCalls++ }
