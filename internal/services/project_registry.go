package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/logger"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

const (
	keyProjects      = "projects"
	keyCurrentID     = "currentProjectId"
	keyGlobal        = "globalSettings"
	projectsDirName  = "projects"
	brainliftsDir    = "brainlifts"
	contextLogsDir   = "context_logs"
	errorLogsDir     = "error_logs"
	projectDirPerm   = 0755
	styleGuideField  = "styleGuide"
	agentsField      = "agents"
	unknownAgentHint = "known agents: cursor_chat, documentation, quality, security"
)

var projectSubdirs = []string{"cache", "outputs", "budget"}

// DuplicatePathError is returned by CreateProject when the path is already
// registered. It matches ErrDuplicatePath and carries the existing project.
type DuplicatePathError struct {
	Existing models.Project
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", appErrors.ErrDuplicatePath.Message, e.Existing.Path, e.Existing.ID)
}

func (e *DuplicatePathError) Unwrap() error {
	return appErrors.ErrDuplicatePath.
		WithContext("project_id", e.Existing.ID).
		WithContext("path", e.Existing.Path)
}

// ProjectRegistry owns the set of projects, the current selection and the
// global settings. It is the only writer of the settings store.
type ProjectRegistry struct {
	mu        sync.RWMutex
	store     ports.SettingsStore
	dataDir   string
	projects  map[string]models.Project
	currentID string
	global    models.GlobalSettings
	now       func() time.Time
	newID     func() string
}

type RegistryOption func(*ProjectRegistry)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *ProjectRegistry) { r.now = now }
}

// WithIDGenerator replaces the project id generator.
func WithIDGenerator(newID func() string) RegistryOption {
	return func(r *ProjectRegistry) { r.newID = newID }
}

// NewProjectRegistry seeds any missing store keys with defaults and loads the
// registry state.
func NewProjectRegistry(ctx context.Context, store ports.SettingsStore, dataDir string, opts ...RegistryOption) (*ProjectRegistry, error) {
	r := &ProjectRegistry{
		store:    store,
		dataDir:  dataDir,
		projects: make(map[string]models.Project),
		global:   models.DefaultGlobalSettings(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.seed(ctx); err != nil {
		return nil, err
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ProjectRegistry) seed(ctx context.Context) error {
	defaults := map[string]any{
		keyProjects:  map[string]models.Project{},
		keyCurrentID: nil,
		keyGlobal:    models.DefaultGlobalSettings(),
	}
	for _, key := range []string{keyProjects, keyCurrentID, keyGlobal} {
		ok, err := r.store.Has(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		data, err := json.Marshal(defaults[key])
		if err != nil {
			return fmt.Errorf("error encoding default %s: %w", key, err)
		}
		if err := r.store.Set(ctx, key, data); err != nil {
			return err
		}
		logger.Debug(ctx, "seeded settings key", "key", key)
	}
	return nil
}

func (r *ProjectRegistry) load(ctx context.Context) error {
	if err := r.getJSON(ctx, keyProjects, &r.projects); err != nil {
		return err
	}
	if r.projects == nil {
		r.projects = make(map[string]models.Project)
	}
	for id, p := range r.projects {
		if p.Settings.Agents == nil {
			p.Settings.Agents = models.DefaultProjectSettings().Agents
			r.projects[id] = p
		}
	}

	var current *string
	if err := r.getJSON(ctx, keyCurrentID, &current); err != nil {
		return err
	}
	if current != nil {
		if _, ok := r.projects[*current]; ok {
			r.currentID = *current
		} else {
			logger.Warn(ctx, "current project is not registered, ignoring selection", "project_id", *current)
		}
	}

	// stored fields override defaults; missing ones keep them
	if err := r.getJSON(ctx, keyGlobal, &r.global); err != nil {
		return err
	}

	logger.Debug(ctx, "project registry loaded", "projects", len(r.projects), "current", r.currentID)
	return nil
}

func (r *ProjectRegistry) getJSON(ctx context.Context, key string, v any) error {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return appErrors.ErrStoreFailure.WithError(fmt.Errorf("error decoding %s: %w", key, err)).WithContext("key", key)
	}
	return nil
}

// CreateProject registers the directory at path. name defaults to the base
// name of the path. It does not change the current project.
func (r *ProjectRegistry) CreateProject(ctx context.Context, path, name string) (*models.Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, appErrors.ErrPathNotFound.WithError(err).WithContext("path", path)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", abs)
		}
		return nil, appErrors.ErrPathNotFound.WithError(err).WithContext("path", abs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.findByPathLocked(abs); ok {
		logger.Info(ctx, "project already registered", "path", abs, "project_id", existing.ID)
		clone := existing.Clone()
		return &clone, &DuplicatePathError{Existing: existing.Clone()}
	}

	if name == "" {
		name = filepath.Base(abs)
	}
	now := r.now().UTC()
	project := models.Project{
		ID:             r.newID(),
		Name:           name,
		Path:           abs,
		CreatedAt:      now,
		LastAccessedAt: now,
		Settings:       models.DefaultProjectSettings(),
	}

	if err := r.provision(project.ID); err != nil {
		return nil, err
	}

	next := r.projectsWith(project)
	if err := r.persist(ctx, map[string]any{keyProjects: next}); err != nil {
		return nil, err
	}
	r.projects = next

	logger.Info(ctx, "project created", "project_id", project.ID, "project", project.Name, "path", project.Path)
	clone := project.Clone()
	return &clone, nil
}

func (r *ProjectRegistry) provision(id string) error {
	base := r.DataDir(id)
	for _, sub := range projectSubdirs {
		if err := os.MkdirAll(filepath.Join(base, sub), projectDirPerm); err != nil {
			return appErrors.ErrStoreFailure.WithError(fmt.Errorf("error creating project directory: %w", err)).WithContext("path", base)
		}
	}
	return nil
}

// SwitchProject makes id the current project and refreshes its access time.
// Both keys are written together; memory changes only once they are stored.
func (r *ProjectRegistry) SwitchProject(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, appErrors.ErrProjectNotFound.WithContext("project_id", id)
	}

	project = project.Clone()
	project.LastAccessedAt = r.now().UTC()
	next := r.projectsWith(project)

	if err := r.persist(ctx, map[string]any{keyProjects: next, keyCurrentID: id}); err != nil {
		return nil, err
	}
	r.projects = next
	r.currentID = id

	logger.Info(ctx, "switched project", "project_id", id, "project", project.Name)
	clone := project.Clone()
	return &clone, nil
}

// RemoveProject unregisters id, clearing the current selection when it pointed there.
// The project's data directory is left in place.
func (r *ProjectRegistry) RemoveProject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return appErrors.ErrProjectNotFound.WithContext("project_id", id)
	}

	next := make(map[string]models.Project, len(r.projects))
	for k, v := range r.projects {
		if k != id {
			next[k] = v
		}
	}

	writes := map[string]any{keyProjects: next}
	clearCurrent := r.currentID == id
	if clearCurrent {
		writes[keyCurrentID] = nil
	}
	if err := r.persist(ctx, writes); err != nil {
		return err
	}
	r.projects = next
	if clearCurrent {
		r.currentID = ""
	}

	logger.Info(ctx, "project removed", "project_id", id, "cleared_current", clearCurrent)
	return nil
}

// GetCurrent returns a copy of the current project, or nil if none is selected.
func (r *ProjectRegistry) GetCurrent() *models.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.currentID == "" {
		return nil
	}
	p, ok := r.projects[r.currentID]
	if !ok {
		return nil
	}
	clone := p.Clone()
	return &clone
}

func (r *ProjectRegistry) Get(id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, appErrors.ErrProjectNotFound.WithContext("project_id", id)
	}
	clone := p.Clone()
	return &clone, nil
}

// FindByPath looks a project up by its directory.
func (r *ProjectRegistry) FindByPath(path string) (*models.Project, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.findByPathLocked(abs)
	if !ok {
		return nil, false
	}
	clone := p.Clone()
	return &clone, true
}

func (r *ProjectRegistry) findByPathLocked(abs string) (models.Project, bool) {
	for _, p := range r.projects {
		if p.Path == abs {
			return p, true
		}
	}
	return models.Project{}, false
}

// ListAll returns every project, most recently accessed first.
func (r *ProjectRegistry) ListAll() []models.Project {
	r.mu.RLock()
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
			return a.LastAccessedAt.After(b.LastAccessedAt)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out
}

// UpdateProjectSettings merges partial into the project's settings. Keys use
// the JSON field names; fields not named keep their values.
func (r *ProjectRegistry) UpdateProjectSettings(ctx context.Context, id string, partial map[string]any) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, appErrors.ErrProjectNotFound.WithContext("project_id", id)
	}

	project = project.Clone()
	if err := mergeProjectSettings(&project.Settings, partial); err != nil {
		return nil, err
	}

	next := r.projectsWith(project)
	if err := r.persist(ctx, map[string]any{keyProjects: next}); err != nil {
		return nil, err
	}
	r.projects = next

	logger.Info(ctx, "project settings updated", "project_id", id, "keys", keysOf(partial))
	clone := project.Clone()
	return &clone, nil
}

func (r *ProjectRegistry) GetGlobalSettings() models.GlobalSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.global
}

// UpdateGlobalSettings merges partial into the global settings.
func (r *ProjectRegistry) UpdateGlobalSettings(ctx context.Context, partial map[string]any) (models.GlobalSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.global
	if err := decodeInto(&next, partial); err != nil {
		return models.GlobalSettings{}, err
	}
	if next.CommitTokenLimit < 0 || next.CostPer1kTokens < 0 {
		return models.GlobalSettings{}, appErrors.ErrInvalidSettings.WithError(errors.New("limits must not be negative"))
	}

	if err := r.persist(ctx, map[string]any{keyGlobal: next}); err != nil {
		return models.GlobalSettings{}, err
	}
	r.global = next

	logger.Info(ctx, "global settings updated", "keys", keysOf(partial))
	return next, nil
}

// UpdateLastProcessedCommit records the last commit analyzed for a project.
func (r *ProjectRegistry) UpdateLastProcessedCommit(ctx context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok {
		return appErrors.ErrProjectNotFound.WithContext("project_id", id)
	}

	project = project.Clone()
	project.LastProcessedCommit = &hash
	next := r.projectsWith(project)
	if err := r.persist(ctx, map[string]any{keyProjects: next}); err != nil {
		return err
	}
	r.projects = next
	return nil
}

// DataDir is <dataDir>/projects/<id>.
func (r *ProjectRegistry) DataDir(id string) string {
	return filepath.Join(r.dataDir, projectsDirName, id)
}

// OutputPaths returns the report directories the engine writes inside the project.
func (r *ProjectRegistry) OutputPaths(id string) (models.OutputPaths, error) {
	r.mu.RLock()
	project, ok := r.projects[id]
	r.mu.RUnlock()
	if !ok {
		return models.OutputPaths{}, appErrors.ErrProjectNotFound.WithContext("project_id", id)
	}
	return models.OutputPaths{
		Brainlifts:  filepath.Join(project.Path, brainliftsDir),
		ContextLogs: filepath.Join(project.Path, contextLogsDir),
		ErrorLogs:   filepath.Join(project.Path, errorLogsDir),
	}, nil
}

func (r *ProjectRegistry) projectsWith(p models.Project) map[string]models.Project {
	next := make(map[string]models.Project, len(r.projects)+1)
	for k, v := range r.projects {
		next[k] = v
	}
	next[p.ID] = p
	return next
}

// persist writes all values together. Stores without batch support get
// sequential writes, and keys already written are restored if a later one fails.
func (r *ProjectRegistry) persist(ctx context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return appErrors.ErrStoreFailure.WithError(fmt.Errorf("error encoding %s: %w", key, err))
		}
		encoded[key] = data
	}

	if batch, ok := r.store.(ports.BatchStore); ok && len(encoded) > 1 {
		return batch.SetAll(ctx, encoded)
	}

	keys := keysOf(values)
	previous := make(map[string][]byte, len(keys))
	for _, key := range keys {
		old, _, err := r.store.Get(ctx, key)
		if err != nil {
			return err
		}
		previous[key] = old
	}

	for i, key := range keys {
		if err := r.store.Set(ctx, key, encoded[key]); err != nil {
			for _, done := range keys[:i] {
				if previous[done] == nil {
					continue
				}
				if rbErr := r.store.Set(ctx, done, previous[done]); rbErr != nil {
					logger.Error(ctx, "failed to roll back settings key", rbErr, "key", done)
				}
			}
			return err
		}
	}
	return nil
}

func mergeProjectSettings(dst *models.ProjectSettings, partial map[string]any) error {
	rest := make(map[string]any, len(partial))
	for k, v := range partial {
		rest[k] = v
	}

	if v, ok := rest[styleGuideField]; ok && v == nil {
		dst.StyleGuide = nil
		delete(rest, styleGuideField)
	}

	// agents merge per field so a partial agent update keeps the others
	if raw, ok := rest[agentsField]; ok {
		delete(rest, agentsField)
		agents, ok := raw.(map[string]any)
		if !ok {
			return appErrors.ErrInvalidSettings.WithError(fmt.Errorf("agents must be an object, got %T", raw))
		}
		if dst.Agents == nil {
			dst.Agents = make(map[string]models.AgentSettings)
		}
		for name, fields := range agents {
			if !isKnownAgent(name) {
				return appErrors.ErrInvalidSettings.WithError(fmt.Errorf("unknown agent %q", name)).WithSuggestion(unknownAgentHint)
			}
			current := dst.Agents[name]
			m, ok := fields.(map[string]any)
			if !ok {
				return appErrors.ErrInvalidSettings.WithError(fmt.Errorf("agent %s must be an object, got %T", name, fields))
			}
			if err := decodeInto(&current, m); err != nil {
				return err
			}
			dst.Agents[name] = current
		}
	}

	if err := decodeInto(dst, rest); err != nil {
		return err
	}
	return validateProjectSettings(*dst)
}

func validateProjectSettings(s models.ProjectSettings) error {
	switch {
	case s.ExecutionMode != models.ExecutionParallel && s.ExecutionMode != models.ExecutionSequential:
		return appErrors.ErrInvalidSettings.WithError(fmt.Errorf("executionMode must be parallel or sequential, got %q", s.ExecutionMode))
	case s.CursorChatMode != models.CursorChatLight && s.CursorChatMode != models.CursorChatFull:
		return appErrors.ErrInvalidSettings.WithError(fmt.Errorf("cursorChatMode must be light or full, got %q", s.CursorChatMode))
	case s.CommitTokenLimit < 0:
		return appErrors.ErrInvalidSettings.WithError(errors.New("commitTokenLimit must not be negative"))
	}
	return nil
}

func decodeInto(dst any, partial map[string]any) error {
	if len(partial) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("error creating settings decoder: %w", err)
	}
	if err := dec.Decode(partial); err != nil {
		return appErrors.ErrInvalidSettings.WithError(err)
	}
	return nil
}

func isKnownAgent(name string) bool {
	for _, a := range models.KnownAgents {
		if a == name {
			return true
		}
	}
	return false
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
