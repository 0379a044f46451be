package di

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/engine"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/git"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/ide"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/slack"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/store"
	"github.com/Tomas-vilte/brainlift/internal/services"
	"github.com/Tomas-vilte/brainlift/internal/services/insights"
	"github.com/Tomas-vilte/brainlift/internal/services/notification"
)

// Container manages the application dependencies. Services that touch the
// settings store are created on first use.
type Container struct {
	config       *config.Config
	translations *i18n.Translations

	mu           sync.Mutex
	store        store.Store
	registry     *services.ProjectRegistry
	orchestrator *services.AnalysisOrchestrator
	notifier     *notification.Notifier

	gitService  *git.GitService
	rules       *ide.RuleManager
	runner      ports.EngineRunner
	chatFactory ports.ChatClientFactory
}

// NewContainer creates a new dependency container
func NewContainer(cfg *config.Config, trans *i18n.Translations) *Container {
	return &Container{
		config:       cfg,
		translations: trans,
		gitService:   git.NewGitService(),
		rules:        ide.NewRuleManager(),
		runner:       engine.NewRunner(),
		chatFactory:  slack.Factory(),
	}
}

// SetStore replaces the settings store opened from the configuration.
func (c *Container) SetStore(s store.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = s
}

// SetEngineRunner replaces the subprocess runner.
func (c *Container) SetEngineRunner(r ports.EngineRunner) {
	c.runner = r
}

// SetChatClientFactory replaces the Slack client factory.
func (c *Container) SetChatClientFactory(f ports.ChatClientFactory) {
	c.chatFactory = f
}

func (c *Container) GetGitService() *git.GitService {
	return c.gitService
}

func (c *Container) GetRuleManager() *ide.RuleManager {
	return c.rules
}

// GetStore opens the configured settings store (lazy initialization)
func (c *Container) GetStore(ctx context.Context) (store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getStoreLocked(ctx)
}

func (c *Container) getStoreLocked(ctx context.Context) (store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	s, err := store.New(ctx, c.config)
	if err != nil {
		return nil, err
	}
	c.store = s
	return s, nil
}

// GetProjectRegistry returns the project registry (lazy initialization)
func (c *Container) GetProjectRegistry(ctx context.Context) (*services.ProjectRegistry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getRegistryLocked(ctx)
}

func (c *Container) getRegistryLocked(ctx context.Context) (*services.ProjectRegistry, error) {
	if c.registry != nil {
		return c.registry, nil
	}
	s, err := c.getStoreLocked(ctx)
	if err != nil {
		return nil, err
	}
	r, err := services.NewProjectRegistry(ctx, s, c.config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error loading project registry: %w", err)
	}
	c.registry = r
	return r, nil
}

// GetNotifier returns the Slack notifier
func (c *Container) GetNotifier() *notification.Notifier {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notifier == nil {
		c.notifier = notification.NewNotifier(c.chatFactory)
	}
	return c.notifier
}

// GetOrchestrator returns the analysis orchestrator (lazy initialization)
func (c *Container) GetOrchestrator(ctx context.Context) (*services.AnalysisOrchestrator, error) {
	notifier := c.GetNotifier()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orchestrator != nil {
		return c.orchestrator, nil
	}

	registry, err := c.getRegistryLocked(ctx)
	if err != nil {
		return nil, err
	}

	engineCfg := c.config.Engine
	engineCfg.Interpreter = engine.ResolveInterpreter(engineCfg.EngineDir, engineCfg.Interpreter)

	c.orchestrator = services.NewAnalysisOrchestrator(registry, c.runner, c.gitService, notifier, engineCfg)
	return c.orchestrator, nil
}

// GetInsightsReader returns a reader over the engine-maintained summaries.
func (c *Container) GetInsightsReader(ctx context.Context) (*insights.Reader, error) {
	registry, err := c.GetProjectRegistry(ctx)
	if err != nil {
		return nil, err
	}
	return insights.NewReader(registry.DataDir), nil
}

// Close releases the settings store.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.registry = nil
	c.orchestrator = nil
	return err
}
