package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/cli/completion_helper"
	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

type Orchestrator interface {
	Run(ctx context.Context, req models.AnalysisRequest, listener ports.ProgressListener) (*models.AnalysisResult, error)
}

type OrchestratorProvider func(ctx context.Context) (Orchestrator, error)

// AnalyzeCommandFactory is the factory to create the analyze command.
type AnalyzeCommandFactory struct {
	orchestratorProvider OrchestratorProvider
}

func NewAnalyzeCommandFactory(orchestratorProvider OrchestratorProvider) *AnalyzeCommandFactory {
	return &AnalyzeCommandFactory{orchestratorProvider: orchestratorProvider}
}

func (f *AnalyzeCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   t.GetMessage("analyze.command_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "commit",
				Aliases: []string{"c"},
				Usage:   t.GetMessage("analyze.commit_flag", 0, nil),
			},
			&cli.StringFlag{
				Name:    "wip",
				Aliases: []string{"w"},
				Usage:   t.GetMessage("analyze.wip_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("json_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   t.GetMessage("analyze.verbose_flag", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			orchestrator, err := f.orchestratorProvider(ctx)
			if err != nil {
				return err
			}

			req, err := requestFromFlags(cmd)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if cmd.Bool("json") {
				return runJSON(ctx, w, orchestrator, req)
			}
			return runInteractive(ctx, w, t, orchestrator, req, cmd.Bool("verbose"))
		},
	}
}

func requestFromFlags(cmd *cli.Command) (models.AnalysisRequest, error) {
	if cmd.IsSet("wip") {
		if cmd.IsSet("commit") {
			return models.AnalysisRequest{}, appErrors.ErrConfigInvalid.WithMessage("--commit and --wip cannot be combined")
		}
		mode, err := models.ParseWIPMode(cmd.String("wip"))
		if err != nil {
			return models.AnalysisRequest{}, appErrors.ErrConfigInvalid.WithError(err).
				WithSuggestion("Use one of: staged, unstaged, all")
		}
		return models.AnalysisRequest{Mode: models.ModeWIP, WIPMode: mode}, nil
	}
	return models.AnalysisRequest{Mode: models.ModeCommit, CommitRef: cmd.String("commit")}, nil
}

func runJSON(ctx context.Context, w io.Writer, orchestrator Orchestrator, req models.AnalysisRequest) error {
	result, runErr := orchestrator.Run(ctx, req, nil)
	if result != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	}
	return runErr
}

func runInteractive(ctx context.Context, w io.Writer, t *i18n.Translations, orchestrator Orchestrator, req models.AnalysisRequest, verbose bool) error {
	spin := ui.NewSmartSpinner(t.GetMessage("analyze.starting", 0, nil))
	spin.Start()
	start := time.Now()

	result, err := orchestrator.Run(ctx, req, ui.ProgressPrinter(spin, verbose))
	if err != nil {
		spin.Error(t.GetMessage("analyze.failed", 0, nil))
		return err
	}

	spin.Success(fmt.Sprintf("%s %s", t.GetMessage("analysis_completed", 0, nil),
		ui.Dim.Sprintf("(%s)", time.Since(start).Round(100*time.Millisecond))))

	if result.Report != nil {
		_, _ = fmt.Fprintln(w)
		ui.PrintReportSummary(w, *result.Report, t)
	}
	if result.ReportPath != "" {
		ui.FprintKeyValue(w, t.GetMessage("analyze.report_path", 0, nil), result.ReportPath)
	}
	printNotification(w, t, result)
	return nil
}

func printNotification(w io.Writer, t *i18n.Translations, result *models.AnalysisResult) {
	switch result.Notification {
	case models.NotifySent:
		ui.PrintSuccess(w, t.GetMessage("analyze.notification_sent", 0, nil))
	case models.NotifySuppressed:
		ui.FprintKeyValue(w, "Slack", t.GetMessage("analyze.notification_suppressed", 0, nil))
	case models.NotifyFailed:
		ui.PrintError(w, t.GetMessage("analyze.notification_failed", 0, map[string]interface{}{
			"Error": result.NotificationError,
		}))
	}
}
