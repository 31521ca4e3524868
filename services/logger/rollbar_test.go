package logsvc

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/user"
)

func newTestLogger(t *testing.T) (*RollbarLogger, *bytes.Buffer) {
	t.Helper()
	conf := core.NewTestConfig()
	var buf bytes.Buffer
	l := NewRollbarLogger(NewStdLogger(conf, &buf), conf)
	l.Enable(false)
	return l, &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestRollbarLogger_Fields(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Error("sending email", errors.New("boom"), map[string]interface{}{"to": "alice@example.com"}, user.User{ID: "u1"})
	entry := lastEntry(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "sending email", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "alice@example.com", entry["to"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "EduMentor", entry["app"])
}

func TestRollbarLogger_Levels(t *testing.T) {
	l, buf := newTestLogger(t)

	// the test config is not in debug mode
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("realtime: writing to u1: broken pipe")
	assert.Equal(t, "warn", lastEntry(t, buf)["level"])

	l.Info("server listening")
	assert.Equal(t, "info", lastEntry(t, buf)["level"])
}
