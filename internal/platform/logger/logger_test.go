// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/scry-notes/internal/config"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreDefault puts back the process-wide default logger after a test.
func restoreDefault(t *testing.T) {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupWithWriter_JSONOutput(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info", Port: 8080}, &buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("note created", "note_id", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "note created", entry["msg"])
	assert.Equal(t, float64(42), entry["note_id"])

	// Setup also installs the logger as the slog default.
	buf.Reset()
	slog.Info("via default")
	assert.Contains(t, buf.String(), "via default")
}

func TestSetupWithWriter_Levels(t *testing.T) {
	testCases := []struct {
		level        string
		debugVisible bool
		infoVisible  bool
		warnVisible  bool
	}{
		{level: "debug", debugVisible: true, infoVisible: true, warnVisible: true},
		{level: "INFO", debugVisible: false, infoVisible: true, warnVisible: true},
		{level: "warn", debugVisible: false, infoVisible: false, warnVisible: true},
		{level: "error", debugVisible: false, infoVisible: false, warnVisible: false},
		{level: "bogus", debugVisible: false, infoVisible: true, warnVisible: true},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			restoreDefault(t)

			var buf bytes.Buffer
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.level}, &buf)
			require.NoError(t, err)

			l.Debug("debug-line")
			l.Info("info-line")
			l.Warn("warn-line")

			out := buf.String()
			assert.Equal(t, tc.debugVisible, strings.Contains(out, "debug-line"))
			assert.Equal(t, tc.infoVisible, strings.Contains(out, "info-line"))
			assert.Equal(t, tc.warnVisible, strings.Contains(out, "warn-line"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("fatal")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelError, level)

	level, ok = logger.ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	scoped := slog.New(slog.NewJSONHandler(&buf, nil)).With("trace_id", "abc123")
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	ctx := logger.WithLogger(context.Background(), scoped)

	assert.Same(t, scoped, logger.FromContext(ctx))
	assert.Same(t, scoped, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))

	logger.FromContext(ctx).Info("scoped")
	assert.Contains(t, buf.String(), `"trace_id":"abc123"`)
}
