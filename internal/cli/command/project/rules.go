package project

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/ide"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *ProjectCommandFactory) newRulesCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: t.GetMessage("project.rules_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "disable",
				Usage: t.GetMessage("project.rules_disable_flag", 0, nil),
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: t.GetMessage("project.rules_mode_flag", 0, nil),
			},
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
			w := cmd.Root().Writer

			target, err := targetProject(reg, cmd.String("project"))
			if err != nil {
				return err
			}

			if cmd.Bool("disable") {
				if err := f.rules.Disable(target.Path); err != nil {
					return err
				}
				if _, err := reg.UpdateGlobalSettings(ctx, map[string]any{"cursorRulesEnabled": false}); err != nil {
					return err
				}
				ui.PrintSuccess(w, t.GetMessage("project.rules_disabled", 0, map[string]interface{}{
					"Name": target.Name,
				}))
				return nil
			}

			mode := reg.GetGlobalSettings().CursorRulesMode
			if cmd.IsSet("mode") {
				mode = string(ide.ParseMode(cmd.String("mode")))
			}

			path, err := f.rules.Enable(target.Path, target.Name, ide.ParseMode(mode))
			if err != nil {
				return err
			}
			if _, err := reg.UpdateGlobalSettings(ctx, map[string]any{
				"cursorRulesEnabled": true,
				"cursorRulesMode":    mode,
			}); err != nil {
				return err
			}

			ui.PrintSuccess(w, t.GetMessage("project.rules_enabled", 0, map[string]interface{}{
				"Path": path,
				"Mode": mode,
			}))
			return nil
		},
	}
}
