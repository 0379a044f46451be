package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func setupAnalyzeTest(t *testing.T) (*MockOrchestrator, *bytes.Buffer, *cli.Command) {
	t.Helper()

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	orchestrator := &MockOrchestrator{}
	factory := NewAnalyzeCommandFactory(func(context.Context) (Orchestrator, error) {
		return orchestrator, nil
	})
	out := &bytes.Buffer{}
	app := &cli.Command{
		Name:     "brainlift",
		Writer:   out,
		Commands: []*cli.Command{factory.CreateCommand(translations, &config.Config{})},
	}
	return orchestrator, out, app
}

func successResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Success:      true,
		Message:      "Analysis completed",
		ProjectID:    "id-1",
		State:        models.StateSucceeded,
		ReportPath:   "/tmp/brainlifts/2024-01-01_10-00-00_abc.md",
		Notification: models.NotifySent,
		Report: &models.ParsedReport{
			OverallScore:   8,
			SecurityScore:  9,
			QualityScore:   7,
			CommitHash:     "abc1234",
			CommitMessage:  "Add login",
			CriticalIssues: []string{"Hardcoded secret"},
		},
	}
}

func TestAnalyzeCommand(t *testing.T) {
	t.Run("should analyze the head commit by default", func(t *testing.T) {
		// Arrange
		orchestrator, out, app := setupAnalyzeTest(t)
		orchestrator.On("Run", mock.Anything, models.AnalysisRequest{Mode: models.ModeCommit}, mock.Anything).
			Return(successResult(), nil)

		// Act
		err := app.Run(context.Background(), []string{"brainlift", "analyze"})

		// Assert
		require.NoError(t, err)
		orchestrator.AssertExpectations(t)
		assert.Contains(t, out.String(), "abc1234")
		assert.Contains(t, out.String(), "Hardcoded secret")
	})

	t.Run("should pass an explicit commit ref", func(t *testing.T) {
		// Arrange
		orchestrator, _, app := setupAnalyzeTest(t)
		orchestrator.On("Run", mock.Anything, models.AnalysisRequest{Mode: models.ModeCommit, CommitRef: "HEAD~2"}, mock.Anything).
			Return(successResult(), nil)

		// Act
		err := app.Run(context.Background(), []string{"brainlift", "analyze", "--commit", "HEAD~2"})

		// Assert
		require.NoError(t, err)
		orchestrator.AssertExpectations(t)
	})

	t.Run("should request a work-in-progress analysis", func(t *testing.T) {
		// Arrange
		orchestrator, _, app := setupAnalyzeTest(t)
		orchestrator.On("Run", mock.Anything, models.AnalysisRequest{Mode: models.ModeWIP, WIPMode: models.WIPStaged}, mock.Anything).
			Return(successResult(), nil)

		// Act
		err := app.Run(context.Background(), []string{"brainlift", "analyze", "--wip", "staged"})

		// Assert
		require.NoError(t, err)
		orchestrator.AssertExpectations(t)
	})

	t.Run("should reject an unknown work-in-progress mode", func(t *testing.T) {
		// Arrange
		orchestrator, _, app := setupAnalyzeTest(t)

		// Act
		err := app.Run(context.Background(), []string{"brainlift", "analyze", "--wip", "everything"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrConfigInvalid))
		orchestrator.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject --commit together with --wip", func(t *testing.T) {
		// Arrange
		_, _, app := setupAnalyzeTest(t)

		// Act
		err := app.Run(context.Background(), []string{"brainlift", "analyze", "--commit", "abc", "--wip", "all"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrConfigInvalid))
	})

	t.Run("should return the engine failure", func(t *testing.T) {
		// Arrange
		orchestrator, _, app := setupAnalyzeTest(t)
		engineErr := appErrors.ErrEngineFailure.WithMessage("Analysis engine exited with code 1")
		orchestrator.On("Run", mock.Anything, mock.Anything, mock.Anything).
			Return(&models.AnalysisResult{State: models.StateFailed, ExitCode: 1}, engineErr)

		// Act
		err := app.Run(context.Background(), []string{"brainlift", "analyze"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrEngineFailure))
	})

	t.Run("should print the result as JSON even when the run failed", func(t *testing.T) {
		// Arrange
		orchestrator, out, app := setupAnalyzeTest(t)
		engineErr := appErrors.ErrEngineFailure.WithMessage("Analysis engine exited with code 3")
		orchestrator.On("Run", mock.Anything, mock.Anything, mock.Anything).
			Return(&models.AnalysisResult{
				Error:    "Analysis engine exited with code 3",
				State:    models.StateFailed,
				ExitCode: 3,
			}, engineErr)

		// Act
		err := app.Run(context.Background(), []string{"brainlift", "analyze", "--json"})

		// Assert
		assert.Error(t, err)
		var got models.AnalysisResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, 3, got.ExitCode)
		assert.False(t, got.Success)
	})

	t.Run("should surface the provider error", func(t *testing.T) {
		// Arrange
		translations, err := i18n.NewTranslations("en", "")
		require.NoError(t, err)
		factory := NewAnalyzeCommandFactory(func(context.Context) (Orchestrator, error) {
			return nil, appErrors.ErrStoreFailure
		})
		app := &cli.Command{
			Name:     "brainlift",
			Writer:   &bytes.Buffer{},
			Commands: []*cli.Command{factory.CreateCommand(translations, &config.Config{})},
		}

		// Act
		err = app.Run(context.Background(), []string{"brainlift", "analyze"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrStoreFailure))
	})
}
