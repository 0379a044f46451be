package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/store"
	"github.com/Tomas-vilte/brainlift/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type fixture struct {
	registry *services.ProjectRegistry
	notifier *MockNotifier
	out      *bytes.Buffer
	app      *cli.Command
}

func setupNotifyTest(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	reg, err := services.NewProjectRegistry(ctx, store.NewMemoryStore(), t.TempDir())
	require.NoError(t, err)
	p, err := reg.CreateProject(ctx, t.TempDir(), "api")
	require.NoError(t, err)
	_, err = reg.SwitchProject(ctx, p.ID)
	require.NoError(t, err)
	_, err = reg.UpdateGlobalSettings(ctx, map[string]any{
		"slackEnabled":    true,
		"slackToken":      "xoxb-stored",
		"slackNotifyRule": "critical",
	})
	require.NoError(t, err)

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	notifier := &MockNotifier{}
	factory := NewNotifyCommandFactory(func(context.Context) (ProjectSource, error) { return reg, nil }, notifier)
	out := &bytes.Buffer{}
	app := &cli.Command{
		Name:     "brainlift",
		Writer:   out,
		Commands: []*cli.Command{factory.CreateCommand(translations, &config.Config{})},
	}
	return &fixture{registry: reg, notifier: notifier, out: out, app: app}
}

func (f *fixture) writeReport(t *testing.T, content string) {
	t.Helper()
	paths, err := f.registry.OutputPaths(f.registry.GetCurrent().ID)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(paths.Brainlifts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(paths.Brainlifts, "report.md"), []byte(content), 0o644))
}

func TestNotifyTest(t *testing.T) {
	t.Run("should use the stored token", func(t *testing.T) {
		// Arrange
		f := setupNotifyTest(t)
		f.notifier.On("TestConnection", mock.Anything, "xoxb-stored").
			Return(&models.ConnectionInfo{Team: "acme", User: "brainlift-bot"}, nil)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "notify", "test"})

		// Assert
		require.NoError(t, err)
		f.notifier.AssertExpectations(t)
		assert.Contains(t, f.out.String(), "acme")
	})

	t.Run("should prefer the token flag", func(t *testing.T) {
		// Arrange
		f := setupNotifyTest(t)
		f.notifier.On("TestConnection", mock.Anything, "xoxb-flag").
			Return(nil, appErrors.ErrUnauthorized)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "notify", "test", "--token", "xoxb-flag"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
		f.notifier.AssertExpectations(t)
	})
}

func TestNotifySend(t *testing.T) {
	t.Run("should send the latest report with the stored rule", func(t *testing.T) {
		// Arrange
		f := setupNotifyTest(t)
		f.writeReport(t, "Overall Score: 40/100\nSecurity Score: 50/100\nQuality Score: 45/100\n")
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(s models.GlobalSettings) bool {
			return s.SlackNotifyRule == "critical"
		}), mock.MatchedBy(func(r models.ParsedReport) bool {
			return r.OverallScore == 40
		}), "api").Return(models.NotifySent, nil)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "notify", "send"})

		// Assert
		require.NoError(t, err)
		f.notifier.AssertExpectations(t)
	})

	t.Run("should bypass the rule with --force", func(t *testing.T) {
		// Arrange
		f := setupNotifyTest(t)
		f.writeReport(t, "Overall Score: 95/100\n")
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(s models.GlobalSettings) bool {
			return s.SlackNotifyRule == "all"
		}), mock.Anything, "api").Return(models.NotifySent, nil)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "notify", "send", "--force"})

		// Assert
		require.NoError(t, err)
		f.notifier.AssertExpectations(t)
	})

	t.Run("should fail when there is no report", func(t *testing.T) {
		// Arrange
		f := setupNotifyTest(t)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "notify", "send"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrNoReport))
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should return dispatch failures", func(t *testing.T) {
		// Arrange
		f := setupNotifyTest(t)
		f.writeReport(t, "Overall Score: 40/100\n")
		f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, "api").
			Return(models.NotifyFailed, appErrors.ErrChannelUnreachable)

		// Act
		err := f.app.Run(context.Background(), []string{"brainlift", "notify", "send"})

		// Assert
		assert.True(t, errors.Is(err, appErrors.ErrChannelUnreachable))
	})
}
