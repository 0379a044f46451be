package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettings struct {
	current *models.Project
	global  models.GlobalSettings
}

func (s staticSettings) GetCurrent() *models.Project              { return s.current }
func (s staticSettings) GetGlobalSettings() models.GlobalSettings { return s.global }

type repoChecker bool

func (r repoChecker) IsRepository(string) bool { return bool(r) }

func TestDoctorCommand(t *testing.T) {
	t.Run("should pass every check on a complete setup", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)
		cfg.Engine.EngineDir = t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(cfg.Engine.EngineDir, cfg.Engine.Script), []byte("print()"), 0o644))

		src := staticSettings{
			current: &models.Project{Name: "api", Path: t.TempDir()},
			global:  models.GlobalSettings{APIKey: "sk-test"},
		}
		doctor := NewDoctorCommand(func(context.Context) (SettingsSource, error) { return src, nil }, repoChecker(true))
		doctor.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
		out := &bytes.Buffer{}

		// Act
		err := doctor.runHealthCheck(context.Background(), out, translations, cfg)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), "/usr/bin/python3")
		assert.Contains(t, out.String(), translations.GetMessage("doctor.all_good", 0, nil))
	})

	t.Run("should report a missing interpreter and script", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)
		cfg.Engine.EngineDir = t.TempDir()

		doctor := NewDoctorCommand(func(context.Context) (SettingsSource, error) { return staticSettings{}, nil }, repoChecker(false))
		doctor.lookPath = func(string) (string, error) { return "", errors.New("not found") }
		out := &bytes.Buffer{}

		// Act
		err := doctor.runHealthCheck(context.Background(), out, translations, cfg)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), translations.GetMessage("doctor.has_errors", 0, nil))
		assert.Contains(t, out.String(), "set-engine")
	})

	t.Run("should warn about a project outside a repository", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)
		doctor := NewDoctorCommand(func(context.Context) (SettingsSource, error) {
			return staticSettings{current: &models.Project{Name: "notes", Path: t.TempDir()}}, nil
		}, repoChecker(false))

		// Act
		result := doctor.checkProject(context.Background(), translations, cfg)

		// Assert
		assert.Equal(t, checkStatusWarning, result.status)
	})

	t.Run("should warn when Slack is enabled without a token", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)
		doctor := NewDoctorCommand(func(context.Context) (SettingsSource, error) {
			return staticSettings{global: models.GlobalSettings{SlackEnabled: true}}, nil
		}, repoChecker(true))

		// Act
		result := doctor.checkSlack(context.Background(), translations, cfg)

		// Assert
		assert.Equal(t, checkStatusWarning, result.status)
		assert.Contains(t, result.suggestion, "slackToken")
	})
}
