package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/logger"
	"github.com/Tomas-vilte/brainlift/internal/services/report"
	"github.com/google/uuid"
)

const (
	msgAnalysisCompleted = "Analysis completed"
	progressBuffer       = 64
)

// ReportNotifier delivers a parsed report according to the global settings.
type ReportNotifier interface {
	Notify(ctx context.Context, settings models.GlobalSettings, report models.ParsedReport, projectName string) (models.NotifyOutcome, error)
}

// AnalysisOrchestrator runs the engine against the current project and turns
// its report into a result.
type AnalysisOrchestrator struct {
	projects ports.ProjectSource
	runner   ports.EngineRunner
	commits  ports.CommitResolver
	notifier ReportNotifier
	engine   config.EngineConfig
	now      func() time.Time
	newID    func() string

	mu     sync.Mutex
	active map[string]string
}

// NewAnalysisOrchestrator expects engineCfg.Interpreter to be already resolved.
// commits and notifier may be nil.
func NewAnalysisOrchestrator(projects ports.ProjectSource, runner ports.EngineRunner, commits ports.CommitResolver, notifier ReportNotifier, engineCfg config.EngineConfig) *AnalysisOrchestrator {
	return &AnalysisOrchestrator{
		projects: projects,
		runner:   runner,
		commits:  commits,
		notifier: notifier,
		engine:   engineCfg,
		now:      time.Now,
		newID:    uuid.NewString,
		active:   make(map[string]string),
	}
}

// Run executes one analysis of the current project. listener may be nil; when
// set it receives every event of the run in order, the terminal one last.
// A failed run returns both the result and the error.
func (o *AnalysisOrchestrator) Run(ctx context.Context, req models.AnalysisRequest, listener ports.ProgressListener) (*models.AnalysisResult, error) {
	project := o.projects.GetCurrent()
	if project == nil {
		return nil, appErrors.ErrNoProjectSelected
	}

	run := &models.AnalysisRun{
		ID:        o.newID(),
		ProjectID: project.ID,
		State:     models.StateIdle,
		StartedAt: o.now(),
	}
	if activeRun, ok := o.acquire(project.ID, run.ID); !ok {
		return nil, appErrors.ErrAnalysisInProgress.
			WithContext("project_id", project.ID).
			WithContext("run_id", activeRun)
	}
	defer o.release(project.ID)

	ctx = logger.With(ctx, "run_id", run.ID, "project_id", project.ID)
	projectLog := o.openProjectLog(ctx, project.ID)
	defer func() {
		if projectLog != nil {
			_ = projectLog.Close()
		}
	}()

	mustTransition(run, models.StateResolving)
	var pending int
	run.Request, pending = o.resolveRequest(ctx, *project, req)
	run.Contract = BuildContract(*project, o.projects.GetGlobalSettings(), run.Request, o.engine, o.projects.DataDir(project.ID))

	events := newProgressQueue(listener)
	emit := func(status models.ProgressStatus, stream, msg string) {
		events.send(models.ProgressEvent{
			RunID:     run.ID,
			ProjectID: project.ID,
			Status:    status,
			Stream:    stream,
			Message:   msg,
			Timestamp: o.now(),
		})
	}

	mustTransition(run, models.StateSpawned)
	logger.Info(ctx, "starting analysis",
		"mode", string(run.Request.Mode),
		"commit", run.Request.CommitRef,
		"command", run.Contract.Command)
	if projectLog != nil {
		projectLog.Info("analysis started", "run_id", run.ID, "mode", string(run.Request.Mode), "commit", run.Request.CommitRef)
	}
	startMsg := fmt.Sprintf("Starting %s analysis for %s", run.Request.Mode, project.Name)
	if pending >= 0 {
		startMsg += fmt.Sprintf(" (%d pending changes)", pending)
	}
	emit(models.ProgressStarted, "", startMsg)

	runCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	exitCode, runErr := o.runner.Run(runCtx, run.Contract, func(stream, chunk string) {
		if run.State == models.StateSpawned {
			mustTransition(run, models.StateRunning)
		}
		if stream == models.StreamStderr {
			run.Stderr.WriteString(chunk)
		} else {
			run.Stdout.WriteString(chunk)
		}
		emit(models.ProgressOutput, stream, chunk)
	})
	run.ExitCode = exitCode

	result := &models.AnalysisResult{
		ProjectID: project.ID,
		ExitCode:  exitCode,
	}

	if err := o.classify(ctx, run, runErr); err != nil {
		mustTransition(run, models.StateFailed)
		appErr := toAppError(err)
		result.State = run.State
		result.Error = appErr.Message
		result.Detail = appErr.Detail()
		if result.Detail == "" && appErr.Err != nil {
			result.Detail = appErr.Err.Error()
		}
		result.Timestamp = o.now()

		logger.Error(ctx, "analysis failed", err, "exit_code", exitCode)
		if projectLog != nil {
			projectLog.Error("analysis failed", "run_id", run.ID, "exit_code", exitCode, "error", err.Error(), "stderr", run.Stderr.String())
		}
		events.finish(models.ProgressEvent{
			RunID: run.ID, ProjectID: project.ID, Status: models.ProgressError,
			Message: appErr.Message, Timestamp: result.Timestamp,
		})
		return result, err
	}

	if run.State == models.StateSpawned {
		mustTransition(run, models.StateRunning)
	}
	mustTransition(run, models.StateSucceeded)
	run.Success = true
	result.Success = true
	result.State = run.State
	result.Message = msgAnalysisCompleted

	o.collectReport(ctx, *project, run, result)
	result.Timestamp = o.now()

	if projectLog != nil {
		projectLog.Info("analysis completed", "run_id", run.ID, "report", result.ReportPath, "notification", string(result.Notification))
	}
	logger.Info(ctx, "analysis completed", "report", result.ReportPath, "notification", string(result.Notification))
	events.finish(models.ProgressEvent{
		RunID: run.ID, ProjectID: project.ID, Status: models.ProgressComplete,
		Message: result.Message, Timestamp: result.Timestamp,
	})
	return result, nil
}

// classify maps the runner outcome to nil on success or an engine error.
func (o *AnalysisOrchestrator) classify(ctx context.Context, run *models.AnalysisRun, runErr error) error {
	switch {
	case errors.Is(runErr, appErrors.ErrLaunchFailure):
		return runErr
	case errors.Is(runErr, context.DeadlineExceeded) && ctx.Err() == nil:
		return appErrors.ErrEngineFailure.
			WithError(runErr).
			WithMessage(fmt.Sprintf("Analysis timed out after %s", o.engine.Timeout())).
			WithContext("stderr", run.FailureDetail())
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		return appErrors.ErrEngineFailure.
			WithError(runErr).
			WithMessage("Analysis cancelled").
			WithContext("stderr", run.FailureDetail())
	case runErr != nil:
		return appErrors.ErrEngineFailure.WithError(runErr).WithContext("stderr", run.FailureDetail())
	case run.ExitCode != 0:
		return appErrors.ErrEngineFailure.
			WithMessage(fmt.Sprintf("Analysis engine exited with code %d", run.ExitCode)).
			WithContext("exit_code", run.ExitCode).
			WithContext("stderr", run.FailureDetail())
	}
	return nil
}

// collectReport parses the newest report and notifies. Nothing here can fail the run.
func (o *AnalysisOrchestrator) collectReport(ctx context.Context, project models.Project, run *models.AnalysisRun, result *models.AnalysisResult) {
	result.Notification = models.NotifySkipped

	paths, err := o.projects.OutputPaths(project.ID)
	if err != nil {
		logger.Warn(ctx, "could not resolve output paths", "error", err)
		return
	}

	file, err := report.LoadLatest(paths.Brainlifts)
	if err != nil {
		logger.Warn(ctx, "no report produced", "dir", paths.Brainlifts, "error", err)
	} else {
		parsed := report.Parse(file.Content)
		result.ReportPath = file.Path
		result.Report = &parsed
		if parsed.ScoresInferred {
			logger.Debug(ctx, "report has no explicit scores, using inferred ones", "report", file.Path)
		}
	}

	if run.Request.Mode == models.ModeCommit {
		hash := run.Request.CommitRef
		if hash == "" && result.Report != nil {
			hash = result.Report.CommitHash
		}
		if hash != "" {
			if err := o.projects.UpdateLastProcessedCommit(ctx, project.ID, hash); err != nil {
				logger.Warn(ctx, "could not record last processed commit", "commit", hash, "error", err)
			}
		}
	}

	if result.Report == nil || o.notifier == nil {
		return
	}

	outcome, err := o.notifier.Notify(ctx, o.projects.GetGlobalSettings(), *result.Report, project.Name)
	result.Notification = outcome
	if err != nil {
		result.Notification = models.NotifyFailed
		result.NotificationError = err.Error()
		logger.Error(ctx, "notification failed", err)
	}
}

// resolveRequest fills in defaults. In work-in-progress mode it also returns
// the number of pending changes, or -1 when it was not counted.
func (o *AnalysisOrchestrator) resolveRequest(ctx context.Context, project models.Project, req models.AnalysisRequest) (models.AnalysisRequest, int) {
	pending := -1
	if req.Mode == "" {
		req.Mode = models.ModeCommit
	}

	switch req.Mode {
	case models.ModeWIP:
		if req.WIPMode == "" {
			req.WIPMode = models.WIPAll
		}
		if o.commits != nil {
			n, err := o.commits.PendingChanges(project.Path, req.WIPMode)
			if err != nil {
				logger.Warn(ctx, "could not count pending changes", "path", project.Path, "error", err)
				break
			}
			pending = n
		}
	case models.ModeCommit:
		req.WIPMode = ""
		if req.CommitRef != "" || o.commits == nil {
			break
		}
		hash, msg, err := o.commits.ResolveHead(project.Path)
		if err != nil {
			logger.Warn(ctx, "could not resolve HEAD, the engine will use its own", "path", project.Path, "error", err)
			break
		}
		logger.Debug(ctx, "resolved HEAD", "commit", hash, "message", msg)
		req.CommitRef = hash
	}
	return req, pending
}

func (o *AnalysisOrchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := o.engine.Timeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func (o *AnalysisOrchestrator) openProjectLog(ctx context.Context, projectID string) *logger.ProjectLogger {
	pl, err := logger.NewProjectLogger(o.projects.DataDir(projectID), projectID)
	if err != nil {
		logger.Warn(ctx, "project log unavailable", "error", err)
		return nil
	}
	return pl
}

func (o *AnalysisOrchestrator) acquire(projectID, runID string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if active, busy := o.active[projectID]; busy {
		return active, false
	}
	o.active[projectID] = runID
	return "", true
}

func (o *AnalysisOrchestrator) release(projectID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, projectID)
}

// Running reports whether a run is active for the project.
func (o *AnalysisOrchestrator) Running(projectID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.active[projectID]
	return ok
}

// BuildContract derives the engine invocation from the registry state. The
// same inputs always yield the same contract.
func BuildContract(project models.Project, global models.GlobalSettings, req models.AnalysisRequest, engineCfg config.EngineConfig, dataDir string) models.EngineContract {
	s := project.Settings

	limit := s.CommitTokenLimit
	if limit <= 0 {
		limit = global.CommitTokenLimit
	}
	executionMode := s.ExecutionMode
	if executionMode == "" {
		executionMode = models.ExecutionParallel
	}
	chatMode := s.CursorChatMode
	if chatMode == "" {
		chatMode = models.CursorChatLight
	}

	env := map[string]string{
		"OPENAI_API_KEY":       global.APIKey,
		"PROJECT_ID":           project.ID,
		"PROJECT_NAME":         project.Name,
		"PROJECT_PATH":         project.Path,
		"PROJECT_DATA_DIR":     dataDir,
		"BUDGET_ENABLED":       strconv.FormatBool(s.BudgetEnabled || global.BudgetEnabled),
		"COMMIT_TOKEN_LIMIT":   strconv.Itoa(limit),
		"COST_PER_1K_TOKENS":   strconv.FormatFloat(global.CostPer1kTokens, 'f', -1, 64),
		"AGENT_EXECUTION_MODE": executionMode,
		"CURSOR_CHAT_ENABLED":  strconv.FormatBool(s.CursorChatEnabled),
		"CURSOR_CHAT_MODE":     chatMode,
		"GIT_VISIBILITY":       strconv.FormatBool(global.GitVisibility),
		"SLACK_ENABLED":        strconv.FormatBool(global.SlackEnabled),
		"ANALYSIS_MODE":        string(req.Mode),
	}
	for _, name := range models.KnownAgents {
		agent, ok := s.Agents[name]
		if !ok {
			agent = models.DefaultProjectSettings().Agents[name]
		}
		model := agent.Model
		if model == "" {
			model = models.DefaultAgentModel
		}
		prefix := strings.ToUpper(name) + "_AGENT_"
		env[prefix+"ENABLED"] = strconv.FormatBool(agent.Enabled)
		env[prefix+"MODEL"] = model
	}
	if s.StyleGuide != nil && s.StyleGuide.Path != "" {
		env["STYLE_GUIDE_PATH"] = s.StyleGuide.Path
	}

	args := []string{engineCfg.ScriptPath()}
	switch req.Mode {
	case models.ModeWIP:
		env["WIP_MODE"] = string(req.WIPMode)
		args = append(args, "--wip", string(req.WIPMode))
	default:
		if req.CommitRef != "" {
			args = append(args, req.CommitRef)
		}
	}

	return models.EngineContract{
		Dir:     project.Path,
		Command: engineCfg.Interpreter,
		Args:    args,
		Env:     env,
	}
}

func mustTransition(run *models.AnalysisRun, next models.RunState) {
	if err := run.Transition(next); err != nil {
		panic(err)
	}
}

func toAppError(err error) *appErrors.AppError {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.ErrEngineFailure.WithError(err)
}

// progressQueue delivers events to a listener from a single goroutine.
type progressQueue struct {
	events chan models.ProgressEvent
	done   chan struct{}
}

func newProgressQueue(listener ports.ProgressListener) *progressQueue {
	q := &progressQueue{done: make(chan struct{})}
	if listener == nil {
		close(q.done)
		return q
	}
	q.events = make(chan models.ProgressEvent, progressBuffer)
	go func() {
		defer close(q.done)
		for ev := range q.events {
			listener(ev)
		}
	}()
	return q
}

func (q *progressQueue) send(ev models.ProgressEvent) {
	if q.events != nil {
		q.events <- ev
	}
}

// finish delivers the terminal event and waits until the listener has seen it.
func (q *progressQueue) finish(ev models.ProgressEvent) {
	if q.events != nil {
		q.events <- ev
		close(q.events)
	}
	<-q.done
}
