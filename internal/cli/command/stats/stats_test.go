package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/config"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/store"
	"github.com/Tomas-vilte/brainlift/internal/services"
	"github.com/Tomas-vilte/brainlift/internal/services/insights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const usageJSON = `{
  "total_tokens": 12000,
  "total_cost": 0.024,
  "commits": {
    "aaaaaaa111": {"tokens": 4000, "cost": 0.008, "model": "gpt-4o", "timestamp": 1717200000},
    "bbbbbbb222": {"tokens": 8000, "cost": 0.016, "model": "gpt-4o", "timestamp": 1717300000}
  },
  "daily_usage": {
    "2024-06-01": {"tokens": 4000, "cost": 0.008},
    "2024-06-02": {"tokens": 8000, "cost": 0.016}
  },
  "model_breakdown": {
    "gpt-4o": {"tokens": 12000, "cost": 0.024}
  }
}`

const cacheJSON = `{
  "project_id": "p",
  "overall": {"hit_rate": 0.42, "total_requests": 50, "avg_latency_ms": 12.5},
  "exact_cache": {"hit_count": 15, "entries": 30},
  "semantic_cache": {"hit_count": 6, "entries": 20},
  "embeddings": {"generations": 20, "estimated_cost": 0.001}
}`

type fixture struct {
	registry *services.ProjectRegistry
	out      *bytes.Buffer
	app      *cli.Command
}

func setupStatsTest(t *testing.T, withProject bool) *fixture {
	t.Helper()
	ctx := context.Background()

	reg, err := services.NewProjectRegistry(ctx, store.NewMemoryStore(), t.TempDir())
	require.NoError(t, err)
	if withProject {
		p, err := reg.CreateProject(ctx, t.TempDir(), "api")
		require.NoError(t, err)
		_, err = reg.SwitchProject(ctx, p.ID)
		require.NoError(t, err)
	}

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	cmd := NewStatsCommand(
		func(context.Context) (ProjectSource, error) { return reg, nil },
		func(context.Context) (InsightsReader, error) { return insights.NewReader(reg.DataDir), nil },
	)
	cmd.now = func() time.Time { return time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC) }

	out := &bytes.Buffer{}
	app := &cli.Command{
		Name:     "brainlift",
		Writer:   out,
		Commands: []*cli.Command{cmd.CreateCommand(translations, &config.Config{})},
	}
	return &fixture{registry: reg, out: out, app: app}
}

func (f *fixture) writeData(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(f.registry.DataDir(f.registry.GetCurrent().ID), rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStatsBudget(t *testing.T) {
	t.Run("should summarize the usage record as JSON", func(t *testing.T) {
		// Arrange
		f := setupStatsTest(t, true)
		f.writeData(t, filepath.Join("budget", "usage.json"), usageJSON)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "stats", "budget", "--json"})

		// Assert
		require.NoError(t, err)
		var got budgetView
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
		assert.Equal(t, 12000, got.Summary.Total.Tokens)
		assert.Equal(t, 8000, got.Summary.Today.Tokens)
		assert.Equal(t, 12000, got.Summary.Week.Tokens)
		require.NotNil(t, got.LastCommit)
		assert.Equal(t, "bbbbbbb222", got.LastCommit.Hash)
		assert.Equal(t, 10000, got.LastCommit.Limit)
		assert.True(t, got.LastCommit.IsWarning)
		assert.Equal(t, 75, got.LastCommit.WarningLevel)
	})

	t.Run("should print an empty summary when nothing was recorded", func(t *testing.T) {
		// Arrange
		f := setupStatsTest(t, true)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "stats", "budget"})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, f.out.String(), "0 tokens")
	})

	t.Run("should fail without a current project", func(t *testing.T) {
		// Arrange
		f := setupStatsTest(t, false)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "stats", "budget"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrNoProjectSelected))
	})
}

func TestStatsCache(t *testing.T) {
	t.Run("should print cache statistics", func(t *testing.T) {
		// Arrange
		f := setupStatsTest(t, true)
		f.writeData(t, filepath.Join("cache", "stats.json"), cacheJSON)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "stats", "cache"})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, f.out.String(), "42.0%")
		assert.Contains(t, f.out.String(), "15 hits / 30 entries")
	})

	t.Run("should print both sections by default", func(t *testing.T) {
		// Arrange
		f := setupStatsTest(t, true)
		f.writeData(t, filepath.Join("budget", "usage.json"), usageJSON)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "stats"})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, f.out.String(), "gpt-4o")
	})
}
