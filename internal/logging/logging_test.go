package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claude/logbook/internal/config"
)

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, Level(name), name)
	}
}

// TestNewJSONFiltersLevel verifies the JSON handler is used and records below
// the configured level are dropped.
func TestNewJSONFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	defer closer.Close()

	log.Info("hidden")
	log.Warn("shown", "sets", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, 3.0, rec["sets"])
}

// TestNewTeesToFile verifies a configured file receives the same records as
// the primary writer.
func TestNewTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logbook.log")
	var buf bytes.Buffer
	log, closer := New(config.LogConfig{Level: "info", Format: "text", File: path}, &buf)

	log.Info("session saved", "id", 7)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session saved")
	assert.Contains(t, buf.String(), "id=7")
}
