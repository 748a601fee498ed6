package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter(t *testing.T) {
	t.Run("json格式", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
		l.Debug("不输出")
		l.Info("新增图书", "id", "B1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "新增图书", entry["msg"])
		assert.Equal(t, "B1", entry["id"])
	})

	t.Run("文本格式", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(Config{Level: "debug", Format: "console"}, &buf)
		l.Debug("查询图书", "count", 3)
		assert.Contains(t, buf.String(), "count=3")
	})
}

func TestWithTrace(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(Config{Format: "json"}, &buf)

	assert.Same(t, base, WithTrace(context.Background(), base), "无span时原样返回")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	WithTrace(ctx, base).Info("x")
	assert.Contains(t, buf.String(), "4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Contains(t, buf.String(), "00f067aa0ba902b7")
}
