package project

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/cli/kv"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *ProjectCommandFactory) newSetCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("project.set_usage", 0, nil),
		ArgsUsage: "key=value [key=value...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Usage:   t.GetMessage("project.project_flag", 0, nil),
			},
		},
		ShellComplete: f.projectComplete(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := f.registryProvider(ctx)
			if err != nil {
				return err
			}

			target, err := targetProject(reg, cmd.String("project"))
			if err != nil {
				return err
			}

			partial, err := kv.Parse(cmd.Args().Slice())
			if err != nil {
				return appErrors.ErrInvalidSettings.WithError(err)
			}

			updated, err := reg.UpdateProjectSettings(ctx, target.ID, partial)
			if err != nil {
				return err
			}

			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("project.settings_updated", 0, map[string]interface{}{
				"Name": updated.Name,
			}))
			return nil
		},
	}
}

// targetProject picks the referenced project or, when ref is empty, the current one.
func targetProject(reg Registry, ref string) (*models.Project, error) {
	if ref != "" {
		return resolve(reg, ref)
	}
	current := reg.GetCurrent()
	if current == nil {
		return nil, appErrors.ErrNoProjectSelected
	}
	return current, nil
}
