package observability

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureSyncLogger(t *testing.T, table string) (*SyncLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	old := GlobalLogger
	GlobalLogger = NewLogger(&buf, slog.LevelInfo)
	t.Cleanup(func() { GlobalLogger = old })
	return NewSyncLogger(table), &buf
}

func TestSyncLoggerPull(t *testing.T) {
	l, buf := captureSyncLogger(t, "beer_sessions")

	l.LogPull(5, 2)

	out := buf.String()
	assert.Contains(t, out, `"msg":"sync pull"`)
	assert.Contains(t, out, `"table":"beer_sessions"`)
	assert.Contains(t, out, `"received":5`)
	assert.Contains(t, out, `"skipped":2`)
}

func TestSyncLoggerWrite(t *testing.T) {
	l, buf := captureSyncLogger(t, "friendships")

	l.LogWrite("accept", "123")

	out := buf.String()
	assert.Contains(t, out, `"msg":"sync write"`)
	assert.Contains(t, out, `"operation":"accept"`)
	assert.Contains(t, out, `"id":"123"`)
}

func TestSyncLoggerDisabled(t *testing.T) {
	l, buf := captureSyncLogger(t, "events")
	old := Config.EnableSyncLogging
	Config.EnableSyncLogging = false
	t.Cleanup(func() { Config.EnableSyncLogging = old })

	l.LogPull(3, 0)
	l.LogWrite("create", "123")

	assert.Empty(t, buf.String())
}
