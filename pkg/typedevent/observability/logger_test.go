package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds channel_id and channel", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "ch-123", "plugin.loaded")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ch-123", record["channel_id"])
		assert.Equal(t, "plugin.loaded", record["channel"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "ch", "name"))
	})
}

func TestLogRegister(t *testing.T) {
	t.Run("logs at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		LogRegister(slog.New(h), 7, "once")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "handler registered", record["msg"])
		assert.Equal(t, float64(7), record["registration_id"]) // JSON decodes ints as float64
		assert.Equal(t, "once", record["kind"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogRegister(nil, 1, "handler")
			LogUnregister(nil, 1)
		})
	})
}

func TestLogUnregister(t *testing.T) {
	h := newTestHandler()
	LogUnregister(slog.New(h), 3)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "handler unregistered", record["msg"])
	assert.Equal(t, float64(3), record["registration_id"])
}

func TestLogEmitStartAndComplete(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogEmitStart(logger, "emit-1", 4)
	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "emit starting", record["msg"])
	assert.Equal(t, "emit-1", record["emit_id"])
	assert.Equal(t, float64(4), record["handlers"])

	LogEmitComplete(logger, "emit-1", 12500*time.Microsecond, 4)
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "emit completed", record["msg"])
	assert.Equal(t, 12.5, record["duration_ms"])
	assert.Equal(t, float64(4), record["handlers_invoked"])

	assert.NotPanics(t, func() {
		LogEmitStart(nil, "x", 0)
		LogEmitComplete(nil, "x", 0, 0)
	})
}

func TestLogEmitError(t *testing.T) {
	t.Run("logs at WARN level with handler index", func(t *testing.T) {
		h := newTestHandler()
		LogEmitError(slog.New(h), "emit-err", errors.New("plugin refused"), 3*time.Millisecond, 2)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, "emit aborted", record["msg"])
		assert.Equal(t, "plugin refused", record["error"])
		assert.Equal(t, float64(2), record["handler_index"])
		assert.Equal(t, 3.0, record["duration_ms"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogEmitError(nil, "x", errors.New("err"), 0, 0)
		})
	})
}

func TestLogExpectTimeout(t *testing.T) {
	h := newTestHandler()
	LogExpectTimeout(slog.New(h), 9, 50*time.Millisecond)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "expect timed out", record["msg"])
	assert.Equal(t, float64(9), record["registration_id"])

	assert.NotPanics(t, func() {
		LogExpectTimeout(nil, 1, time.Second)
	})
}
