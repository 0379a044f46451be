package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("json_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			w := command.Root().Writer
			if command.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			_, _ = fmt.Fprintln(w, t.GetMessage("current_config", 0, nil))
			_, _ = fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━")

			ui.FprintKeyValue(w, t.GetMessage("config.file_label", 0, nil), cfg.PathFile)
			ui.FprintKeyValue(w, t.GetMessage("config.language_label", 0, nil), cfg.Language)
			ui.FprintKeyValue(w, t.GetMessage("config.data_dir_label", 0, nil), cfg.DataDir)
			ui.FprintKeyValue(w, t.GetMessage("config.store_label", 0, nil), string(cfg.StoreBackend))

			_, _ = fmt.Fprintf(w, "\n%s\n", t.GetMessage("config.engine_title", 0, nil))
			ui.FprintKeyValue(w, "interpreter", cfg.Engine.Interpreter)
			ui.FprintKeyValue(w, "script", cfg.Engine.ScriptPath())
			timeout := t.GetMessage("config.no_timeout", 0, nil)
			if d := cfg.Engine.Timeout(); d > 0 {
				timeout = d.String()
			}
			ui.FprintKeyValue(w, "timeout", timeout)
			return nil
		},
	}
}
