package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/urfave/cli/v3"
)

type SettingsSource interface {
	GetCurrent() *models.Project
	GetGlobalSettings() models.GlobalSettings
}

type SettingsSourceProvider func(ctx context.Context) (SettingsSource, error)

type RepositoryChecker interface {
	IsRepository(path string) bool
}

type DoctorCommand struct {
	settings SettingsSourceProvider
	git      RepositoryChecker
	lookPath func(file string) (string, error)
}

func NewDoctorCommand(settings SettingsSourceProvider, git RepositoryChecker) *DoctorCommand {
	return &DoctorCommand{settings: settings, git: git, lookPath: exec.LookPath}
}

func (d *DoctorCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "doctor",
		Aliases: []string{"dr"},
		Usage:   t.GetMessage("doctor.command_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			return d.runHealthCheck(ctx, command.Root().Writer, t, cfg)
		},
	}
}

type healthCheck struct {
	name string
	fn   func(context.Context, *i18n.Translations, *config.Config) checkResult
}

type checkStatus int

const (
	checkStatusOK checkStatus = iota
	checkStatusWarning
	checkStatusError
)

type checkResult struct {
	status     checkStatus
	message    string
	suggestion string
}

func (d *DoctorCommand) runHealthCheck(ctx context.Context, w io.Writer, t *i18n.Translations, cfg *config.Config) error {
	_, _ = fmt.Fprintf(w, "%s %s\n", ui.RocketEmoji, ui.Accent.Sprint(t.GetMessage("doctor.running_checks", 0, nil)))

	checks := []healthCheck{
		{name: "doctor.check_config_file", fn: d.checkConfigFile},
		{name: "doctor.check_interpreter", fn: d.checkInterpreter},
		{name: "doctor.check_engine_script", fn: d.checkEngineScript},
		{name: "doctor.check_data_dir", fn: d.checkDataDir},
		{name: "doctor.check_api_key", fn: d.checkAPIKey},
		{name: "doctor.check_slack", fn: d.checkSlack},
		{name: "doctor.check_project", fn: d.checkProject},
	}

	var warnings, failures int
	for _, check := range checks {
		checkName := t.GetMessage(check.name, 0, nil)
		result := check.fn(ctx, t, cfg)

		switch result.status {
		case checkStatusOK:
			_, _ = fmt.Fprintf(w, "%s %s %s\n", ui.SuccessEmoji, checkName, ui.Dim.Sprint(result.message))
		case checkStatusWarning:
			warnings++
			_, _ = fmt.Fprintf(w, "%s %s %s\n", ui.WarningEmoji, checkName, ui.Warning.Sprint(result.message))
		case checkStatusError:
			failures++
			_, _ = fmt.Fprintf(w, "%s %s %s\n", ui.Error.Sprint("❌"), checkName, ui.Error.Sprint(result.message))
		}
		if result.suggestion != "" && result.status != checkStatusOK {
			_, _ = fmt.Fprintf(w, "   → %s\n", result.suggestion)
		}
	}

	_, _ = fmt.Fprintln(w)
	switch {
	case failures > 0:
		ui.PrintError(w, t.GetMessage("doctor.has_errors", 0, nil))
	case warnings > 0:
		_, _ = fmt.Fprintf(w, "%s %s\n", ui.WarningEmoji, t.GetMessage("doctor.has_warnings", 0, nil))
	default:
		ui.PrintSuccess(w, t.GetMessage("doctor.all_good", 0, nil))
	}
	return nil
}

func (d *DoctorCommand) checkConfigFile(_ context.Context, t *i18n.Translations, cfg *config.Config) checkResult {
	if cfg.PathFile == "" || !fileExists(cfg.PathFile) {
		return checkResult{
			status:  checkStatusError,
			message: t.GetMessage("doctor.config_not_found", 0, nil),
		}
	}
	return checkResult{status: checkStatusOK, message: fmt.Sprintf("(%s)", cfg.PathFile)}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (d *DoctorCommand) checkInterpreter(_ context.Context, t *i18n.Translations, cfg *config.Config) checkResult {
	path, err := d.lookPath(cfg.Engine.Interpreter)
	if err != nil {
		return checkResult{
			status:     checkStatusError,
			message:    t.GetMessage("doctor.interpreter_not_found", 0, map[string]interface{}{"Interpreter": cfg.Engine.Interpreter}),
			suggestion: "brainlift config set-engine --interpreter <path>",
		}
	}
	return checkResult{status: checkStatusOK, message: fmt.Sprintf("(%s)", path)}
}

func (d *DoctorCommand) checkEngineScript(_ context.Context, t *i18n.Translations, cfg *config.Config) checkResult {
	script := cfg.Engine.ScriptPath()
	if !fileExists(script) {
		return checkResult{
			status:     checkStatusError,
			message:    t.GetMessage("doctor.script_not_found", 0, map[string]interface{}{"Script": script}),
			suggestion: "brainlift config set-engine --dir <engine directory>",
		}
	}
	return checkResult{status: checkStatusOK, message: fmt.Sprintf("(%s)", script)}
}

func (d *DoctorCommand) checkDataDir(_ context.Context, t *i18n.Translations, cfg *config.Config) checkResult {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return checkResult{status: checkStatusError, message: err.Error()}
	}
	f, err := os.CreateTemp(cfg.DataDir, ".doctor-*")
	if err != nil {
		return checkResult{
			status:  checkStatusError,
			message: t.GetMessage("doctor.data_dir_not_writable", 0, map[string]interface{}{"Dir": cfg.DataDir}),
		}
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return checkResult{status: checkStatusOK, message: fmt.Sprintf("(%s)", cfg.DataDir)}
}

func (d *DoctorCommand) checkAPIKey(ctx context.Context, t *i18n.Translations, _ *config.Config) checkResult {
	src, err := d.settings(ctx)
	if err != nil {
		return checkResult{status: checkStatusError, message: err.Error()}
	}
	if src.GetGlobalSettings().APIKey == "" {
		return checkResult{
			status:     checkStatusWarning,
			message:    t.GetMessage("doctor.api_key_missing", 0, nil),
			suggestion: "brainlift settings set apiKey=<key>",
		}
	}
	return checkResult{status: checkStatusOK}
}

func (d *DoctorCommand) checkSlack(ctx context.Context, t *i18n.Translations, _ *config.Config) checkResult {
	src, err := d.settings(ctx)
	if err != nil {
		return checkResult{status: checkStatusError, message: err.Error()}
	}
	global := src.GetGlobalSettings()
	switch {
	case !global.SlackEnabled:
		return checkResult{status: checkStatusOK, message: t.GetMessage("doctor.slack_disabled", 0, nil)}
	case global.SlackToken == "":
		return checkResult{
			status:     checkStatusWarning,
			message:    t.GetMessage("doctor.slack_token_missing", 0, nil),
			suggestion: "brainlift settings set slackToken=<token>",
		}
	default:
		return checkResult{status: checkStatusOK, message: global.SlackChannel}
	}
}

func (d *DoctorCommand) checkProject(ctx context.Context, t *i18n.Translations, _ *config.Config) checkResult {
	src, err := d.settings(ctx)
	if err != nil {
		return checkResult{status: checkStatusError, message: err.Error()}
	}
	project := src.GetCurrent()
	if project == nil {
		return checkResult{
			status:     checkStatusWarning,
			message:    t.GetMessage("doctor.no_project", 0, nil),
			suggestion: "brainlift project add --switch <path>",
		}
	}
	if !d.git.IsRepository(project.Path) {
		return checkResult{
			status:  checkStatusWarning,
			message: t.GetMessage("doctor.project_not_repo", 0, map[string]interface{}{"Name": project.Name}),
		}
	}
	return checkResult{status: checkStatusOK, message: fmt.Sprintf("(%s)", project.Name)}
}
