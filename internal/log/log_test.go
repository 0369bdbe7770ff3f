package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetOutput_WritesCategoryAndFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelDebug)
	t.Cleanup(func() { SetOutput(io.Discard, slog.LevelInfo) })

	Debug(CatEngine, "started", "elapsed_ns", int64(42))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "started", line["msg"])
	require.Equal(t, "engine", line["cat"])
	require.Equal(t, float64(42), line["elapsed_ns"])
}

func TestErrorErr_IncludesError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelInfo)
	t.Cleanup(func() { SetOutput(io.Discard, slog.LevelInfo) })

	ErrorErr(CatSound, "playback failed", errors.New("no device"))

	require.Contains(t, buf.String(), `"error":"no device"`)
	require.Contains(t, buf.String(), `"cat":"sound"`)
}

func TestDebug_SuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelInfo)
	t.Cleanup(func() { SetOutput(io.Discard, slog.LevelInfo) })

	Debug(CatCue, "queued")
	Info(CatCue, "worker started")

	require.NotContains(t, buf.String(), "queued")
	require.Contains(t, buf.String(), "worker started")
}

func TestInit_EmptyPathIsNoop(t *testing.T) {
	closeFn, err := Init(Options{})
	require.NoError(t, err)
	require.NoError(t, closeFn())
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tickwatch.log")

	closeFn, err := Init(Options{Path: path, Debug: true})
	require.NoError(t, err)

	Warn(CatConfig, "config reloaded", "path", "x.yaml")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "config reloaded"))
}
