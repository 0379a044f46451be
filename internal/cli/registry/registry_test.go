package registry

import (
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type mockCommandFactory struct {
	name string
}

func (m *mockCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name: m.name,
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return NewRegistry(&config.Config{}, translations)
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should register new factory successfully", func(t *testing.T) {
		registry := newTestRegistry(t)

		// act
		err := registry.Register("analyze", &mockCommandFactory{name: "analyze"})

		// assert
		assert.NoError(t, err)
		assert.Len(t, registry.factories, 1)
		assert.Contains(t, registry.factories, "analyze")
	})

	t.Run("should return error when registering duplicate factory", func(t *testing.T) {
		// arrange
		registry := newTestRegistry(t)
		factory := &mockCommandFactory{name: "project"}

		// act
		_ = registry.Register("project", factory)
		err := registry.Register("project", factory)

		// assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project")
		assert.Len(t, registry.factories, 1)
	})
}

func TestRegistry_CreateCommands(t *testing.T) {
	t.Run("should create commands in name order", func(t *testing.T) {
		// Arrange
		registry := newTestRegistry(t)
		_ = registry.Register("watch", &mockCommandFactory{name: "watch"})
		_ = registry.Register("analyze", &mockCommandFactory{name: "analyze"})
		_ = registry.Register("project", &mockCommandFactory{name: "project"})

		// Act
		commands := registry.CreateCommands()

		// Assert
		require.Len(t, commands, 3)
		assert.Equal(t, "analyze", commands[0].Name)
		assert.Equal(t, "project", commands[1].Name)
		assert.Equal(t, "watch", commands[2].Name)
	})

	t.Run("should return empty slice when no factories registered", func(t *testing.T) {
		registry := newTestRegistry(t)

		assert.Empty(t, registry.CreateCommands())
	})
}
