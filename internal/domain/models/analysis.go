package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type AnalysisMode string

const (
	ModeCommit AnalysisMode = "commit"
	ModeWIP    AnalysisMode = "wip"
)

type WIPMode string

const (
	WIPStaged   WIPMode = "staged"
	WIPUnstaged WIPMode = "unstaged"
	WIPAll      WIPMode = "all"
)

// ParseWIPMode validates a work-in-progress sub-mode.
func ParseWIPMode(s string) (WIPMode, error) {
	switch m := WIPMode(strings.ToLower(strings.TrimSpace(s))); m {
	case WIPStaged, WIPUnstaged, WIPAll:
		return m, nil
	case "":
		return WIPAll, nil
	default:
		return "", fmt.Errorf("unknown work-in-progress mode %q", s)
	}
}

// AnalysisRequest parameterizes a single "run analysis" call.
type AnalysisRequest struct {
	Mode      AnalysisMode
	CommitRef string
	WIPMode   WIPMode
}

// RunState is the lifecycle state of one engine invocation.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateResolving RunState = "resolving"
	StateSpawned   RunState = "spawned"
	StateRunning   RunState = "running"
	StateSucceeded RunState = "succeeded"
	StateFailed    RunState = "failed"
)

var runTransitions = map[RunState][]RunState{
	StateIdle:      {StateResolving},
	StateResolving: {StateSpawned, StateFailed},
	StateSpawned:   {StateRunning, StateFailed},
	StateRunning:   {StateSucceeded, StateFailed},
}

// Terminal reports whether no further transition is allowed.
func (s RunState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// EngineContract is everything needed to launch the engine for one run.
type EngineContract struct {
	Dir     string
	Command string
	Args    []string
	Env     map[string]string
}

// EnvList renders Env as sorted KEY=VALUE pairs.
func (c EngineContract) EnvList() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}

// AnalysisRun holds the state of one engine invocation. It is never persisted.
type AnalysisRun struct {
	ID        string
	ProjectID string
	Request   AnalysisRequest
	Contract  EngineContract
	State     RunState
	Stdout    strings.Builder
	Stderr    strings.Builder
	ExitCode  int
	Success   bool
	StartedAt time.Time
}

// Transition moves the run to next, rejecting moves the state machine does not allow.
func (r *AnalysisRun) Transition(next RunState) error {
	for _, allowed := range runTransitions[r.State] {
		if allowed == next {
			r.State = next
			return nil
		}
	}
	return fmt.Errorf("invalid run transition %s -> %s", r.State, next)
}

// FailureDetail is stderr when present, stdout otherwise.
func (r *AnalysisRun) FailureDetail() string {
	if detail := strings.TrimSpace(r.Stderr.String()); detail != "" {
		return detail
	}
	return strings.TrimSpace(r.Stdout.String())
}

type NotifyOutcome string

const (
	NotifySkipped    NotifyOutcome = "skipped"
	NotifyDisabled   NotifyOutcome = "disabled"
	NotifySuppressed NotifyOutcome = "suppressed"
	NotifySent       NotifyOutcome = "sent"
	NotifyFailed     NotifyOutcome = "failed"
)

// AnalysisResult is what callers of a run receive.
type AnalysisResult struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	Error        string        `json:"error,omitempty"`
	Detail       string        `json:"-"`
	Timestamp    time.Time     `json:"timestamp"`
	ProjectID    string        `json:"projectId"`
	State        RunState      `json:"state"`
	ExitCode     int           `json:"exitCode"`
	ReportPath   string        `json:"reportPath,omitempty"`
	Report       *ParsedReport `json:"report,omitempty"`
	Notification NotifyOutcome `json:"notification,omitempty"`

	// NotificationError is set when the report was produced but delivery failed.
	NotificationError string `json:"notificationError,omitempty"`
}

type ProgressStatus string

const (
	ProgressStarted  ProgressStatus = "started"
	ProgressOutput   ProgressStatus = "output"
	ProgressComplete ProgressStatus = "complete"
	ProgressError    ProgressStatus = "error"
)

const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// ProgressEvent is emitted while a run is in flight.
type ProgressEvent struct {
	RunID     string
	ProjectID string
	Status    ProgressStatus
	Stream    string
	Message   string
	Timestamp time.Time
}

// Terminal reports whether this is the last event of its run.
func (e ProgressEvent) Terminal() bool {
	return e.Status == ProgressComplete || e.Status == ProgressError
}
