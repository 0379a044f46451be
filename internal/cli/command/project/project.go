package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/cli/completion_helper"
	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/ide"
	"github.com/Tomas-vilte/brainlift/internal/logger"
	"github.com/Tomas-vilte/brainlift/internal/services"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

const timeLayout = "2006-01-02 15:04"

// Registry is the part of the project registry the command needs.
type Registry interface {
	CreateProject(ctx context.Context, path, name string) (*models.Project, error)
	SwitchProject(ctx context.Context, id string) (*models.Project, error)
	RemoveProject(ctx context.Context, id string) error
	GetCurrent() *models.Project
	Get(id string) (*models.Project, error)
	FindByPath(path string) (*models.Project, bool)
	ListAll() []models.Project
	UpdateProjectSettings(ctx context.Context, id string, partial map[string]any) (*models.Project, error)
	GetGlobalSettings() models.GlobalSettings
	UpdateGlobalSettings(ctx context.Context, partial map[string]any) (models.GlobalSettings, error)
	OutputPaths(id string) (models.OutputPaths, error)
	DataDir(id string) string
}

type RegistryProvider func(ctx context.Context) (Registry, error)

// RuleManager writes the editor rule file of a project.
type RuleManager interface {
	Enable(projectPath, projectName string, mode ide.Mode) (string, error)
	Disable(projectPath string) error
}

// ProjectCommandFactory is the factory to create the project command.
type ProjectCommandFactory struct {
	registryProvider RegistryProvider
	rules            RuleManager
	confirm          func(question string) bool
}

func NewProjectCommandFactory(registryProvider RegistryProvider, rules RuleManager) *ProjectCommandFactory {
	return &ProjectCommandFactory{
		registryProvider: registryProvider,
		rules:            rules,
		confirm:          ui.AskConfirmation,
	}
}

func (f *ProjectCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   t.GetMessage("project.command_usage", 0, nil),
		Commands: []*cli.Command{
			f.newAddCommand(t),
			f.newListCommand(t),
			f.newSwitchCommand(t),
			f.newRemoveCommand(t),
			f.newCurrentCommand(t),
			f.newSetCommand(t),
			f.newRulesCommand(t),
		},
	}
}

func (f *ProjectCommandFactory) projectComplete() cli.ShellCompleteFunc {
	return completion_helper.ProjectComplete(func(ctx context.Context) ([]models.Project, error) {
		reg, err := f.registryProvider(ctx)
		if err != nil {
			return nil, err
		}
		return reg.ListAll(), nil
	})
}

func (f *ProjectCommandFactory) newAddCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     t.GetMessage("project.add_usage", 0, nil),
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   t.GetMessage("project.name_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "switch",
				Aliases: []string{"s"},
				Usage:   t.GetMessage("project.switch_flag", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := f.registryProvider(ctx)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer

			path := cmd.Args().First()
			if path == "" {
				path = "."
			}

			project, err := reg.CreateProject(ctx, path, cmd.String("name"))
			var dup *services.DuplicatePathError
			switch {
			case errors.As(err, &dup):
				ui.PrintWarning(t.GetMessage("project.already_registered", 0, map[string]interface{}{
					"Name": dup.Existing.Name,
					"ID":   dup.Existing.ID,
				}))
			case err != nil:
				return err
			default:
				ui.PrintSuccess(w, t.GetMessage("project.created", 0, map[string]interface{}{
					"Name": project.Name,
					"ID":   project.ID,
				}))
			}

			if !cmd.Bool("switch") {
				return nil
			}
			return f.switchTo(ctx, w, t, reg, project.ID)
		},
	}
}

func (f *ProjectCommandFactory) newListCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   t.GetMessage("project.list_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := f.registryProvider(ctx)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer

			projects := reg.ListAll()
			if len(projects) == 0 {
				_, _ = fmt.Fprintln(w, t.GetMessage("project.none_registered", 0, nil))
				return nil
			}

			currentID := ""
			if current := reg.GetCurrent(); current != nil {
				currentID = current.ID
			}

			_, _ = fmt.Fprintf(w, "%s %s\n", ui.StatsEmoji, ui.Accent.Sprint(t.GetMessage("project.list_title", len(projects), map[string]interface{}{
				"Count": len(projects),
			})))
			for _, p := range projects {
				marker := "  "
				name := p.Name
				if p.ID == currentID {
					marker = ui.Success.Sprint("➜ ")
					name = ui.Success.Sprint(p.Name)
				}
				_, _ = fmt.Fprintf(w, "%s%s %s\n", marker, name, ui.Dim.Sprintf("(%s)", p.ID))
				_, _ = fmt.Fprintf(w, "    %s  %s\n", p.Path, ui.Dim.Sprint(formatTime(p.LastAccessedAt)))
			}
			return nil
		},
	}
}

func (f *ProjectCommandFactory) newSwitchCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:          "switch",
		Aliases:       []string{"use"},
		Usage:         t.GetMessage("project.switch_usage", 0, nil),
		ArgsUsage:     "<id|name|path>",
		ShellComplete: f.projectComplete(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := f.registryProvider(ctx)
			if err != nil {
				return err
			}
			project, err := resolve(reg, cmd.Args().First())
			if err != nil {
				return err
			}
			return f.switchTo(ctx, cmd.Root().Writer, t, reg, project.ID)
		},
	}
}

func (f *ProjectCommandFactory) switchTo(ctx context.Context, w io.Writer, t *i18n.Translations, reg Registry, id string) error {
	project, err := reg.SwitchProject(ctx, id)
	if err != nil {
		return err
	}
	ui.PrintSuccess(w, t.GetMessage("project_switched", 0, map[string]interface{}{
		"Name": project.Name,
	}))

	global := reg.GetGlobalSettings()
	if global.CursorRulesEnabled && f.rules != nil {
		if _, err := f.rules.Enable(project.Path, project.Name, ide.ParseMode(global.CursorRulesMode)); err != nil {
			logger.Warn(ctx, "could not write editor rules", "project", project.Name, "error", err)
		}
	}
	return nil
}

func (f *ProjectCommandFactory) newRemoveCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     t.GetMessage("project.remove_usage", 0, nil),
		ArgsUsage: "<id|name|path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   t.GetMessage("project.yes_flag", 0, nil),
			},
		},
		ShellComplete: f.projectComplete(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := f.registryProvider(ctx)
			if err != nil {
				return err
			}
			project, err := resolve(reg, cmd.Args().First())
			if err != nil {
				return err
			}

			if !cmd.Bool("yes") && !f.confirm(t.GetMessage("project.remove_confirm", 0, map[string]interface{}{
				"Name": project.Name,
			})) {
				_, _ = fmt.Fprintln(cmd.Root().Writer, t.GetMessage("project.remove_cancelled", 0, nil))
				return nil
			}

			if err := reg.RemoveProject(ctx, project.ID); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("project.removed", 0, map[string]interface{}{
				"Name": project.Name,
			}))
			return nil
		},
	}
}

func (f *ProjectCommandFactory) newCurrentCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "current",
		Usage: t.GetMessage("project.current_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("json_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := f.registryProvider(ctx)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer

			project := reg.GetCurrent()
			if project == nil {
				return appErrors.ErrNoProjectSelected
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(project)
			}

			printProject(w, t, reg, *project)
			return nil
		},
	}
}

func printProject(w io.Writer, t *i18n.Translations, reg Registry, p models.Project) {
	_, _ = fmt.Fprintf(w, "%s %s\n", ui.BrainEmoji, ui.Accent.Sprint(p.Name))
	ui.FprintKeyValue(w, "ID", p.ID)
	ui.FprintKeyValue(w, t.GetMessage("project.path_label", 0, nil), p.Path)
	ui.FprintKeyValue(w, t.GetMessage("project.created_label", 0, nil), formatTime(p.CreatedAt))
	ui.FprintKeyValue(w, t.GetMessage("project.accessed_label", 0, nil), formatTime(p.LastAccessedAt))

	lastCommit := "-"
	if p.LastProcessedCommit != nil {
		lastCommit = *p.LastProcessedCommit
	}
	ui.FprintKeyValue(w, t.GetMessage("project.last_commit_label", 0, nil), lastCommit)
	ui.FprintKeyValue(w, t.GetMessage("project.data_dir_label", 0, nil), reg.DataDir(p.ID))

	if paths, err := reg.OutputPaths(p.ID); err == nil {
		ui.FprintKeyValue(w, t.GetMessage("project.reports_label", 0, nil), paths.Brainlifts)
	}

	s := p.Settings
	_, _ = fmt.Fprintf(w, "\n%s\n", t.GetMessage("project.settings_title", 0, nil))
	ui.FprintKeyValue(w, "executionMode", s.ExecutionMode)
	ui.FprintKeyValue(w, "budgetEnabled", fmt.Sprint(s.BudgetEnabled))
	ui.FprintKeyValue(w, "commitTokenLimit", fmt.Sprint(s.CommitTokenLimit))
	ui.FprintKeyValue(w, "cursorChat", fmt.Sprintf("%t (%s)", s.CursorChatEnabled, s.CursorChatMode))
	if s.StyleGuide != nil {
		ui.FprintKeyValue(w, "styleGuide", s.StyleGuide.Path)
	}
	for _, name := range models.KnownAgents {
		agent := s.Agents[name]
		state := ui.Dim.Sprint("off")
		if agent.Enabled {
			state = ui.Success.Sprint("on")
		}
		ui.FprintKeyValue(w, "agents."+name, fmt.Sprintf("%s %s", state, agent.Model))
	}
}

// resolve finds a project by id, then by name, then by path.
func resolve(reg Registry, ref string) (*models.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, appErrors.ErrProjectNotFound.WithMessage("Project id, name or path is required")
	}

	if p, err := reg.Get(ref); err == nil {
		return p, nil
	}

	var matches []models.Project
	for _, p := range reg.ListAll() {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
	default:
		return nil, appErrors.ErrProjectNotFound.
			WithMessage(fmt.Sprintf("Several projects are named %q", ref)).
			WithSuggestion("Use the project id shown by: brainlift project list")
	}

	if p, ok := reg.FindByPath(ref); ok {
		return p, nil
	}
	return nil, appErrors.ErrProjectNotFound.WithContext("project", ref)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
