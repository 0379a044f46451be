package config

import (
	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/urfave/cli/v3"
)

// ConfigCommandFactory is the factory to create the config command. It edits
// the CLI config file; project and global analysis settings live in the
// settings store.
type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config_command_usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, cfg),
			c.newSetLangCommand(t, cfg),
			c.newSetEngineCommand(t, cfg),
			c.newSetStoreCommand(t, cfg),
			c.newEditCommand(t, cfg),
		},
	}
}
