package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/services/insights"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

type ProjectSource interface {
	GetCurrent() *models.Project
	GetGlobalSettings() models.GlobalSettings
}

type InsightsReader interface {
	CacheStats(projectID string) (*models.CacheStats, error)
	BudgetUsage(projectID string) (*models.BudgetUsage, error)
}

type (
	ProjectSourceProvider  func(ctx context.Context) (ProjectSource, error)
	InsightsReaderProvider func(ctx context.Context) (InsightsReader, error)
)

type StatsCommand struct {
	projects ProjectSourceProvider
	insights InsightsReaderProvider
	now      func() time.Time
}

func NewStatsCommand(projects ProjectSourceProvider, insights InsightsReaderProvider) *StatsCommand {
	return &StatsCommand{projects: projects, insights: insights, now: time.Now}
}

// budgetView is the JSON shape of the budget subcommand.
type budgetView struct {
	Summary    insights.UsageSummary        `json:"summary"`
	LastCommit *insights.CommitBudgetStatus `json:"lastCommit,omitempty"`
}

func (c *StatsCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	jsonFlag := &cli.BoolFlag{
		Name:  "json",
		Usage: t.GetMessage("json_flag", 0, nil),
	}
	return &cli.Command{
		Name:    "stats",
		Aliases: []string{"cost"},
		Usage:   t.GetMessage("stats.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "budget",
				Usage: t.GetMessage("stats.budget_usage", 0, nil),
				Flags: []cli.Flag{jsonFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return c.showBudget(ctx, cmd.Root().Writer, t, cmd.Bool("json"))
				},
			},
			{
				Name:  "cache",
				Usage: t.GetMessage("stats.cache_usage", 0, nil),
				Flags: []cli.Flag{jsonFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return c.showCache(ctx, cmd.Root().Writer, t, cmd.Bool("json"))
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			if err := c.showBudget(ctx, w, t, false); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(w)
			return c.showCache(ctx, w, t, false)
		},
	}
}

func (c *StatsCommand) current(ctx context.Context) (*models.Project, models.GlobalSettings, InsightsReader, error) {
	src, err := c.projects(ctx)
	if err != nil {
		return nil, models.GlobalSettings{}, nil, err
	}
	project := src.GetCurrent()
	if project == nil {
		return nil, models.GlobalSettings{}, nil, appErrors.ErrNoProjectSelected
	}
	reader, err := c.insights(ctx)
	if err != nil {
		return nil, models.GlobalSettings{}, nil, err
	}
	return project, src.GetGlobalSettings(), reader, nil
}

func (c *StatsCommand) showBudget(ctx context.Context, w io.Writer, t *i18n.Translations, asJSON bool) error {
	project, global, reader, err := c.current(ctx)
	if err != nil {
		return err
	}

	usage, err := reader.BudgetUsage(project.ID)
	if err != nil {
		return err
	}

	limit := project.Settings.CommitTokenLimit
	if limit <= 0 {
		limit = global.CommitTokenLimit
	}

	view := budgetView{
		Summary:    insights.Summarize(*usage, c.now()),
		LastCommit: insights.LastCommitStatus(*usage, limit),
	}
	if asJSON {
		return encode(w, view)
	}
	ui.PrintBudgetSummary(w, view.Summary, view.LastCommit, t)
	return nil
}

func (c *StatsCommand) showCache(ctx context.Context, w io.Writer, t *i18n.Translations, asJSON bool) error {
	project, _, reader, err := c.current(ctx)
	if err != nil {
		return err
	}

	stats, err := reader.CacheStats(project.ID)
	if err != nil {
		return err
	}
	if asJSON {
		return encode(w, stats)
	}
	ui.PrintCacheStats(w, stats, t)
	return nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
