package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	fswatch "github.com/Tomas-vilte/brainlift/internal/infrastructure/watch"
	"github.com/Tomas-vilte/brainlift/internal/logger"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

type Orchestrator interface {
	Run(ctx context.Context, req models.AnalysisRequest, listener ports.ProgressListener) (*models.AnalysisResult, error)
}

type ProjectSource interface {
	GetCurrent() *models.Project
}

type GitDirResolver interface {
	GitDir(path string) (string, error)
}

type Watcher interface {
	Run(ctx context.Context) error
}

type (
	OrchestratorProvider  func(ctx context.Context) (Orchestrator, error)
	ProjectSourceProvider func(ctx context.Context) (ProjectSource, error)
	WatcherFactory        func(gitDir string, debounce time.Duration, onCommit fswatch.CommitFunc) Watcher
)

// WatchCommandFactory is the factory to create the watch command.
type WatchCommandFactory struct {
	projects     ProjectSourceProvider
	orchestrator OrchestratorProvider
	git          GitDirResolver
	newWatcher   WatcherFactory
}

func NewWatchCommandFactory(projects ProjectSourceProvider, orchestrator OrchestratorProvider, git GitDirResolver) *WatchCommandFactory {
	return &WatchCommandFactory{
		projects:     projects,
		orchestrator: orchestrator,
		git:          git,
		newWatcher: func(gitDir string, debounce time.Duration, onCommit fswatch.CommitFunc) Watcher {
			return fswatch.NewCommitWatcher(gitDir, debounce, onCommit)
		},
	}
}

func (f *WatchCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: t.GetMessage("watch.command_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: fswatch.DefaultDebounce,
				Usage: t.GetMessage("watch.debounce_flag", 0, nil),
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

			gitDir, err := f.git.GitDir(project.Path)
			if err != nil {
				return appErrors.ErrNotARepository.WithError(err).WithContext("path", project.Path)
			}

			orchestrator, err := f.orchestrator(ctx)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.Root().Writer
			_, _ = fmt.Fprintf(w, "%s %s\n", ui.BrainEmoji, t.GetMessage("watch.started", 0, map[string]interface{}{
				"Name": project.Name,
				"Path": project.Path,
			}))

			onCommit := func(ctx context.Context, hash, message string) {
				analyzeCommit(ctx, w, t, orchestrator, hash, message)
			}
			err = f.newWatcher(gitDir, cmd.Duration("debounce"), onCommit).Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			_, _ = fmt.Fprintln(w, t.GetMessage("watch.stopped", 0, nil))
			return nil
		},
	}
}

// analyzeCommit runs one analysis and reports the outcome without stopping the watch loop.
func analyzeCommit(ctx context.Context, w io.Writer, t *i18n.Translations, orchestrator Orchestrator, hash, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", ui.RocketEmoji, t.GetMessage("watch.commit_detected", 0, map[string]interface{}{
		"Hash":    shortHash(hash),
		"Message": message,
	}))

	result, err := orchestrator.Run(ctx, models.AnalysisRequest{Mode: models.ModeCommit, CommitRef: hash}, nil)
	if err != nil {
		logger.Error(ctx, "watch analysis failed", err, "commit", hash)
		ui.WriteAppError(w, err, t)
		return
	}

	ui.PrintSuccess(w, t.GetMessage("analysis_completed", 0, nil))
	if result.Report != nil {
		ui.PrintReportSummary(w, *result.Report, t)
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
