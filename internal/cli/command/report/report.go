package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	reports "github.com/Tomas-vilte/brainlift/internal/services/report"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	kindBrainlift = "brainlift"
	kindContext   = "context"
	kindErrors    = "errors"
)

type ProjectSource interface {
	GetCurrent() *models.Project
	OutputPaths(id string) (models.OutputPaths, error)
}

type ProjectSourceProvider func(ctx context.Context) (ProjectSource, error)

// ReportCommandFactory is the factory to create the report command.
type ReportCommandFactory struct {
	provider ProjectSourceProvider
	render   func(md string, plain bool) (string, error)
}

func NewReportCommandFactory(provider ProjectSourceProvider) *ReportCommandFactory {
	return &ReportCommandFactory{
		provider: provider,
		render:   ui.RenderMarkdown,
	}
}

func (f *ReportCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   t.GetMessage("report.command_usage", 0, nil),
		Commands: []*cli.Command{
			f.newShowCommand(t),
			f.newParseCommand(t),
		},
	}
}

func kindFlag(t *i18n.Translations) cli.Flag {
	return &cli.StringFlag{
		Name:    "kind",
		Aliases: []string{"k"},
		Value:   kindBrainlift,
		Usage:   t.GetMessage("report.kind_flag", 0, nil),
	}
}

func (f *ReportCommandFactory) newShowCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("report.show_usage", 0, nil),
		Flags: []cli.Flag{
			kindFlag(t),
			&cli.BoolFlag{
				Name:  "raw",
				Usage: t.GetMessage("report.raw_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: t.GetMessage("report.plain_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			file, err := f.latest(ctx, cmd.String("kind"))
			if err != nil {
				return err
			}
			w := cmd.Root().Writer

			_, _ = fmt.Fprintf(w, "%s %s\n", ui.BrainEmoji, ui.Dim.Sprint(file.Path))
			if cmd.Bool("raw") {
				_, err := io.WriteString(w, file.Content)
				return err
			}

			rendered, err := f.render(file.Content, cmd.Bool("plain"))
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, rendered)
			return err
		},
	}
}

func (f *ReportCommandFactory) newParseCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     t.GetMessage("report.parse_usage", 0, nil),
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			kindFlag(t),
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("json_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var parsed models.ParsedReport
			if path := cmd.Args().First(); path != "" {
				p, err := reports.ParseFile(path)
				if err != nil {
					return appErrors.ErrNoReport.WithError(err).WithContext("file", path)
				}
				parsed = p
			} else {
				file, err := f.latest(ctx, cmd.String("kind"))
				if err != nil {
					return err
				}
				parsed = reports.Parse(file.Content)
			}

			w := cmd.Root().Writer
			if cmd.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(parsed)
			}
			ui.PrintReportSummary(w, parsed, t)
			return nil
		},
	}
}

func (f *ReportCommandFactory) latest(ctx context.Context, kind string) (*models.ReportFile, error) {
	src, err := f.provider(ctx)
	if err != nil {
		return nil, err
	}
	project := src.GetCurrent()
	if project == nil {
		return nil, appErrors.ErrNoProjectSelected
	}

	paths, err := src.OutputPaths(project.ID)
	if err != nil {
		return nil, err
	}

	var dir string
	switch kind {
	case kindBrainlift, "":
		dir = paths.Brainlifts
	case kindContext:
		dir = paths.ContextLogs
	case kindErrors:
		dir = paths.ErrorLogs
	default:
		return nil, appErrors.ErrConfigInvalid.
			WithMessage(fmt.Sprintf("Unknown report kind %q", kind)).
			WithSuggestion("Use one of: brainlift, context, errors")
	}
	return reports.LoadLatest(dir)
}
