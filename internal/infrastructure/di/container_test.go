package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	contract models.EngineContract
}

func (s *stubRunner) Run(_ context.Context, contract models.EngineContract, _ ports.ChunkFunc) (int, error) {
	s.contract = contract
	return 0, nil
}

func newTestContainer(t *testing.T, backend config.StoreBackend) *Container {
	t.Helper()
	cfg := &config.Config{
		Language:     "en",
		DataDir:      t.TempDir(),
		StoreBackend: backend,
		Engine:       config.EngineConfig{Interpreter: "python3", Script: "agent.py"},
	}
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	c := NewContainer(cfg, trans)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestContainer_GetProjectRegistry(t *testing.T) {
	for _, backend := range []config.StoreBackend{config.StoreJSON, config.StoreSQLite} {
		t.Run("should build a registry on the "+string(backend)+" backend", func(t *testing.T) {
			// Arrange
			c := newTestContainer(t, backend)
			ctx := context.Background()

			// Act
			first, err := c.GetProjectRegistry(ctx)
			require.NoError(t, err)
			second, err := c.GetProjectRegistry(ctx)
			require.NoError(t, err)

			// Assert
			assert.Same(t, first, second)
			assert.Equal(t, 10000, first.GetGlobalSettings().CommitTokenLimit)
		})
	}

	t.Run("should fail on an unknown backend", func(t *testing.T) {
		c := newTestContainer(t, config.StoreBackend("redis"))

		_, err := c.GetProjectRegistry(context.Background())

		assert.Error(t, err)
	})
}

func TestContainer_GetOrchestrator(t *testing.T) {
	t.Run("should wire the registry and the runner", func(t *testing.T) {
		// Arrange
		c := newTestContainer(t, config.StoreJSON)
		c.SetStore(store.NewMemoryStore())
		runner := &stubRunner{}
		c.SetEngineRunner(runner)
		ctx := context.Background()

		registry, err := c.GetProjectRegistry(ctx)
		require.NoError(t, err)
		dir := filepath.Join(t.TempDir(), "api")
		require.NoError(t, os.MkdirAll(dir, 0755))
		p, err := registry.CreateProject(ctx, dir, "")
		require.NoError(t, err)
		_, err = registry.SwitchProject(ctx, p.ID)
		require.NoError(t, err)

		orch, err := c.GetOrchestrator(ctx)
		require.NoError(t, err)

		// Act
		result, err := orch.Run(ctx, models.AnalysisRequest{Mode: models.ModeWIP}, nil)

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "python3", runner.contract.Command)
		assert.Equal(t, dir, runner.contract.Dir)
		assert.Equal(t, p.ID, runner.contract.Env["PROJECT_ID"])
	})
}

func TestContainer_GetInsightsReader(t *testing.T) {
	c := newTestContainer(t, config.StoreJSON)
	c.SetStore(store.NewMemoryStore())

	reader, err := c.GetInsightsReader(context.Background())
	require.NoError(t, err)

	usage, err := reader.BudgetUsage("missing")
	require.NoError(t, err)
	assert.Zero(t, usage.TotalTokens)
}
