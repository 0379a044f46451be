package config

import (
	"context"
	"path/filepath"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetEngineCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "set-engine",
		Usage: t.GetMessage("config_set_engine_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "interpreter",
				Usage: t.GetMessage("config.interpreter_flag", 0, nil),
			},
			&cli.StringFlag{
				Name:  "script",
				Usage: t.GetMessage("config.script_flag", 0, nil),
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: t.GetMessage("config.engine_dir_flag", 0, nil),
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: t.GetMessage("config.timeout_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			updated := cfg.Engine
			if command.IsSet("interpreter") {
				updated.Interpreter = command.String("interpreter")
			}
			if command.IsSet("script") {
				updated.Script = command.String("script")
			}
			if command.IsSet("dir") {
				dir, err := filepath.Abs(command.String("dir"))
				if err != nil {
					return err
				}
				updated.EngineDir = dir
			}
			if command.IsSet("timeout") {
				updated.TimeoutMinutes = int(command.Int("timeout"))
			}

			previous := cfg.Engine
			cfg.Engine = updated
			if err := config.SaveConfig(cfg); err != nil {
				cfg.Engine = previous
				return err
			}

			ui.PrintSuccess(command.Root().Writer, t.GetMessage("config.engine_updated", 0, map[string]interface{}{
				"Script": updated.ScriptPath(),
			}))
			return nil
		},
	}
}
