package config

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetStoreCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-store",
		Usage:     t.GetMessage("config_set_store_usage", 0, nil),
		ArgsUsage: "<json|sqlite>",
		Action: func(ctx context.Context, command *cli.Command) error {
			backend := config.StoreBackend(command.Args().First())
			switch backend {
			case config.StoreJSON, config.StoreSQLite:
			default:
				return fmt.Errorf("%s: %q", t.GetMessage("config.unsupported_store", 0, nil), backend)
			}

			previous := cfg.StoreBackend
			cfg.StoreBackend = backend
			if err := config.SaveConfig(cfg); err != nil {
				cfg.StoreBackend = previous
				return err
			}

			ui.PrintSuccess(command.Root().Writer, t.GetMessage("config.store_updated", 0, map[string]interface{}{
				"Backend": backend,
			}))
			return nil
		},
	}
}
