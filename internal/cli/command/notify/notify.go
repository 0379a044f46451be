package notify

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/services/notification"
	"github.com/Tomas-vilte/brainlift/internal/services/report"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

type Notifier interface {
	Notify(ctx context.Context, settings models.GlobalSettings, report models.ParsedReport, projectName string) (models.NotifyOutcome, error)
	TestConnection(ctx context.Context, token string) (*models.ConnectionInfo, error)
}

type ProjectSource interface {
	GetCurrent() *models.Project
	GetGlobalSettings() models.GlobalSettings
	OutputPaths(id string) (models.OutputPaths, error)
}

type ProjectSourceProvider func(ctx context.Context) (ProjectSource, error)

// NotifyCommandFactory is the factory to create the notify command.
type NotifyCommandFactory struct {
	projects ProjectSourceProvider
	notifier Notifier
}

func NewNotifyCommandFactory(projects ProjectSourceProvider, notifier Notifier) *NotifyCommandFactory {
	return &NotifyCommandFactory{projects: projects, notifier: notifier}
}

func (f *NotifyCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: t.GetMessage("notify.command_usage", 0, nil),
		Commands: []*cli.Command{
			f.newTestCommand(t),
			f.newSendCommand(t),
		},
	}
}

func (f *NotifyCommandFactory) newTestCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: t.GetMessage("notify.test_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "token",
				Usage: t.GetMessage("notify.token_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token := cmd.String("token")
			if token == "" {
				src, err := f.projects(ctx)
				if err != nil {
					return err
				}
				token = src.GetGlobalSettings().SlackToken
			}

			var info *models.ConnectionInfo
			err := ui.WithSpinner(t.GetMessage("notify.testing", 0, nil), func() error {
				var err error
				info, err = f.notifier.TestConnection(ctx, token)
				return err
			})
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			ui.PrintSuccess(w, t.GetMessage("notify.connected", 0, nil))
			ui.FprintKeyValue(w, t.GetMessage("notify.team_label", 0, nil), info.Team)
			ui.FprintKeyValue(w, t.GetMessage("notify.user_label", 0, nil), info.User)
			return nil
		},
	}
}

func (f *NotifyCommandFactory) newSendCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: t.GetMessage("notify.send_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: t.GetMessage("notify.force_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src, err := f.projects(ctx)
			if err != nil {
				return err
			}
			project := src.GetCurrent()
			if project == nil {
				return appErrors.ErrNoProjectSelected
			}
			paths, err := src.OutputPaths(project.ID)
			if err != nil {
				return err
			}
			file, err := report.LoadLatest(paths.Brainlifts)
			if err != nil {
				return err
			}

			settings := src.GetGlobalSettings()
			if cmd.Bool("force") {
				settings.SlackNotifyRule = string(notification.RuleAll)
			}

			outcome, err := f.notifier.Notify(ctx, settings, report.Parse(file.Content), project.Name)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			switch outcome {
			case models.NotifySent:
				ui.PrintSuccess(w, t.GetMessage("analyze.notification_sent", 0, nil))
			case models.NotifyDisabled:
				ui.PrintWarning(t.GetMessage("notify.disabled", 0, nil))
			case models.NotifySuppressed:
				ui.PrintInfo(t.GetMessage("analyze.notification_suppressed", 0, nil))
			}
			return nil
		},
	}
}
