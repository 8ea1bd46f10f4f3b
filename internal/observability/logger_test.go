package observability

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturedLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := &Logger{
		out:        &buf,
		llmLogPath: filepath.Join(t.TempDir(), "llm.jsonl"),
		maxSize:    1024,
	}
	return l, &buf
}

func decodeEvent(t *testing.T, buf *bytes.Buffer) Event {
	t.Helper()
	var evt Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &evt))
	return evt
}

func TestLogger_LogRegistration(t *testing.T) {
	l, buf := newCapturedLogger(t)

	l.LogRegistration("travel")

	evt := decodeEvent(t, buf)
	assert.Equal(t, EventTypeRegistry, evt.Type)
	assert.Equal(t, "travel", evt.TaskType)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestLogger_LogStage(t *testing.T) {
	l, buf := newCapturedLogger(t)

	l.LogStage("req-1", "analyzer", "READY")

	evt := decodeEvent(t, buf)
	assert.Equal(t, EventTypeStage, evt.Type)
	assert.Equal(t, "req-1", evt.RequestID)

	data, ok := evt.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "analyzer", data["stage"])
	assert.Equal(t, "READY", data["status"])
}
