package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Tomas-vilte/brainlift/internal/cli/command/analyze"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/completion"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/config"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/notify"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/project"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/report"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/settings"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/stats"
	"github.com/Tomas-vilte/brainlift/internal/cli/command/watch"
	"github.com/Tomas-vilte/brainlift/internal/cli/registry"
	cfg "github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/di"
	"github.com/Tomas-vilte/brainlift/internal/logger"
	"github.com/Tomas-vilte/brainlift/internal/ui"
	"github.com/Tomas-vilte/brainlift/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, container, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting the cli: %v", err)
	}

	runErr := app.Run(context.Background(), os.Args)
	if err := container.Close(); err != nil {
		log.Printf("Warning: could not close the settings store: %v", err)
	}
	if runErr != nil {
		ui.StopActiveSpinner()
		ui.HandleAppError(runErr, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *di.Container, *i18n.Translations, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not resolve the home directory: %w", err)
	}

	cfgApp, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Initialize(cfgApp.Debug, cfgApp.Verbose)

	translations, err := i18n.NewTranslations(cfg.GetLocaleConfig(cfgApp.Language), "")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	container := di.NewContainer(cfgApp, translations)

	registryProvider := func(ctx context.Context) (project.Registry, error) {
		return container.GetProjectRegistry(ctx)
	}
	settingsProvider := func(ctx context.Context) (settings.GlobalSettingsStore, error) {
		return container.GetProjectRegistry(ctx)
	}
	analyzeProvider := func(ctx context.Context) (analyze.Orchestrator, error) {
		return container.GetOrchestrator(ctx)
	}
	reportProvider := func(ctx context.Context) (report.ProjectSource, error) {
		return container.GetProjectRegistry(ctx)
	}
	statsProjects := func(ctx context.Context) (stats.ProjectSource, error) {
		return container.GetProjectRegistry(ctx)
	}
	statsInsights := func(ctx context.Context) (stats.InsightsReader, error) {
		return container.GetInsightsReader(ctx)
	}
	notifyProvider := func(ctx context.Context) (notify.ProjectSource, error) {
		return container.GetProjectRegistry(ctx)
	}
	watchProjects := func(ctx context.Context) (watch.ProjectSource, error) {
		return container.GetProjectRegistry(ctx)
	}
	watchOrchestrator := func(ctx context.Context) (watch.Orchestrator, error) {
		return container.GetOrchestrator(ctx)
	}
	doctorProvider := func(ctx context.Context) (config.SettingsSource, error) {
		return container.GetProjectRegistry(ctx)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"project", project.NewProjectCommandFactory(registryProvider, container.GetRuleManager())},
		{"settings", settings.NewSettingsCommandFactory(settingsProvider)},
		{"analyze", analyze.NewAnalyzeCommandFactory(analyzeProvider)},
		{"report", report.NewReportCommandFactory(reportProvider)},
		{"stats", stats.NewStatsCommand(statsProjects, statsInsights)},
		{"notify", notify.NewNotifyCommandFactory(notifyProvider, container.GetNotifier())},
		{"watch", watch.NewWatchCommandFactory(watchProjects, watchOrchestrator, container.GetGitService())},
		{"config", config.NewConfigCommandFactory()},
		{"doctor", config.NewDoctorCommand(doctorProvider, container.GetGitService())},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, nil, nil, fmt.Errorf("error registering the %q command: %w", f.name, err)
		}
	}

	commands := registerCommand.CreateCommands()
	commands = append(commands, completion.NewCompletionCommand(translations))

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	return &cli.Command{
		Name:                  "brainlift",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.FullVersion(),
		Description:           translations.GetMessage("app_description", 0, nil),
		Commands:              commands,
		EnableShellCompletion: true,
	}, container, translations, nil
}
