package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/mediascout/config"
)

func TestInitLoggerWritesRotatingFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "mediascout.log")
	closeLog := initLogger(config.LogConfig{Level: "debug", Format: "json", File: path, MaxSizeMB: 1})

	slog.Debug("probe finished", "url", "https://anime.example.com/")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"probe finished"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}

func TestInitLoggerLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closeLog := initLogger(config.LogConfig{Level: "warn", Format: "text"})
	defer closeLog()

	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelWarn))
}
