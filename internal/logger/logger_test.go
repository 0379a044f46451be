package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true

	t.Run("should filter records below the configured level", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

		// Act
		l.Info("hidden")
		l.Warn("visible", "project", "api")

		// Assert
		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "[WARN]")
		assert.Contains(t, out, "visible project=api")
	})

	t.Run("should prefix grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		l.WithGroup("engine").Debug("spawned", "pid", 42)

		assert.Contains(t, buf.String(), "engine.pid=42")
	})

	t.Run("should print handler attributes before record attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})).With("run_id", "r1")

		l.Info("done", "exit_code", 0)

		line := buf.String()
		assert.Less(t, strings.Index(line, "run_id=r1"), strings.Index(line, "exit_code=0"))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("should return the default logger when none is stored", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("should carry attributes through the context", func(t *testing.T) {
		var buf bytes.Buffer
		base := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := With(WithLogger(context.Background(), base), "project_id", "p-1")

		Warn(ctx, "careful")

		assert.Contains(t, buf.String(), "project_id=p-1")
	})
}

func TestNewProjectLogger(t *testing.T) {
	t.Run("should append json records to the project log", func(t *testing.T) {
		// Arrange
		dir := filepath.Join(t.TempDir(), "projects", "p-1")

		// Act
		pl, err := NewProjectLogger(dir, "p-1")
		require.NoError(t, err)
		pl.Info("analysis started", "run_id", "r-1")
		require.NoError(t, pl.Close())

		// Assert
		data, err := os.ReadFile(filepath.Join(dir, projectLogFile))
		require.NoError(t, err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
		assert.Equal(t, "analysis started", record["msg"])
		assert.Equal(t, "p-1", record["project_id"])
		assert.Equal(t, "r-1", record["run_id"])
	})
}
