package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Tomas-vilte/brainlift/internal/cli/completion_helper"
	"github.com/Tomas-vilte/brainlift/internal/cli/kv"
	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

type GlobalSettingsStore interface {
	GetGlobalSettings() models.GlobalSettings
	UpdateGlobalSettings(ctx context.Context, partial map[string]any) (models.GlobalSettings, error)
}

type StoreProvider func(ctx context.Context) (GlobalSettingsStore, error)

// SettingsCommandFactory is the factory to create the settings command.
type SettingsCommandFactory struct {
	provider StoreProvider
}

func NewSettingsCommandFactory(provider StoreProvider) *SettingsCommandFactory {
	return &SettingsCommandFactory{provider: provider}
}

func (f *SettingsCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: t.GetMessage("settings.command_usage", 0, nil),
		Commands: []*cli.Command{
			f.newShowCommand(t),
			f.newSetCommand(t),
		},
	}
}

func (f *SettingsCommandFactory) newShowCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("settings.show_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("json_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			st, err := f.provider(ctx)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer

			global := Masked(st.GetGlobalSettings())
			if cmd.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(global)
			}

			printSettings(w, t, global)
			return nil
		},
	}
}

func (f *SettingsCommandFactory) newSetCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:          "set",
		Usage:         t.GetMessage("settings.set_usage", 0, nil),
		ArgsUsage:     "key=value [key=value...]",
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			st, err := f.provider(ctx)
			if err != nil {
				return err
			}

			partial, err := kv.Parse(cmd.Args().Slice())
			if err != nil {
				return appErrors.ErrInvalidSettings.WithError(err)
			}

			if _, err := st.UpdateGlobalSettings(ctx, partial); err != nil {
				return err
			}

			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("settings.updated", 0, map[string]interface{}{
				"Keys": strings.Join(sortedKeys(partial), ", "),
			}))
			return nil
		},
	}
}

func printSettings(w io.Writer, t *i18n.Translations, g models.GlobalSettings) {
	_, _ = fmt.Fprintf(w, "%s %s\n", ui.BrainEmoji, ui.Accent.Sprint(t.GetMessage("settings.title", 0, nil)))

	ui.FprintKeyValue(w, "apiKey", orUnset(t, g.APIKey))
	ui.FprintKeyValue(w, "budgetEnabled", fmt.Sprint(g.BudgetEnabled))
	ui.FprintKeyValue(w, "commitTokenLimit", fmt.Sprint(g.CommitTokenLimit))
	ui.FprintKeyValue(w, "costPer1kTokens", fmt.Sprint(g.CostPer1kTokens))
	ui.FprintKeyValue(w, "gitVisibility", fmt.Sprint(g.GitVisibility))

	_, _ = fmt.Fprintln(w)
	ui.FprintKeyValue(w, "slackEnabled", fmt.Sprint(g.SlackEnabled))
	ui.FprintKeyValue(w, "slackToken", orUnset(t, g.SlackToken))
	ui.FprintKeyValue(w, "slackChannel", g.SlackChannel)
	ui.FprintKeyValue(w, "slackNotifyRule", g.SlackNotifyRule)

	_, _ = fmt.Fprintln(w)
	ui.FprintKeyValue(w, "cursorRulesEnabled", fmt.Sprint(g.CursorRulesEnabled))
	ui.FprintKeyValue(w, "cursorRulesMode", g.CursorRulesMode)
}

func orUnset(t *i18n.Translations, v string) string {
	if v == "" {
		return t.GetMessage("settings.not_set", 0, nil)
	}
	return v
}

// Masked hides the secrets of g, keeping the last four characters.
func Masked(g models.GlobalSettings) models.GlobalSettings {
	g.APIKey = mask(g.APIKey)
	g.SlackToken = mask(g.SlackToken)
	return g
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
