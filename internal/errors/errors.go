package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeRegistry      ErrorType = "REGISTRY"
	TypeAnalysis      ErrorType = "ANALYSIS"
	TypeEngine        ErrorType = "ENGINE"
	TypeNotification  ErrorType = "NOTIFICATION"
	TypeStore         ErrorType = "STORE"
	TypeGit           ErrorType = "GIT"
	TypeInternal      ErrorType = "INTERNAL"
)

// ErrorCode identifies a specific failure inside a category. Copies produced by
// WithError/WithContext/WithSuggestion keep the code, so errors.Is still matches
// them against the sentinel they came from.
type ErrorCode string

const (
	CodeProjectNotFound    ErrorCode = "PROJECT_NOT_FOUND"
	CodeDuplicatePath      ErrorCode = "DUPLICATE_PATH"
	CodePathNotFound       ErrorCode = "PATH_NOT_FOUND"
	CodeNoProjectSelected  ErrorCode = "NO_PROJECT_SELECTED"
	CodeAnalysisInProgress ErrorCode = "ANALYSIS_IN_PROGRESS"
	CodeLaunchFailure      ErrorCode = "LAUNCH_FAILURE"
	CodeEngineFailure      ErrorCode = "ENGINE_FAILURE"
	CodeChannelUnreachable ErrorCode = "CHANNEL_UNREACHABLE"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeStoreFailure       ErrorCode = "STORE_FAILURE"
	CodeInvalidSettings    ErrorCode = "INVALID_SETTINGS"
	CodeConfigInvalid      ErrorCode = "CONFIG_INVALID"
	CodeNotARepository     ErrorCode = "NOT_A_REPOSITORY"
	CodeNoReport           ErrorCode = "NO_REPORT"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Code       ErrorCode
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if detail, ok := e.Context["stderr"].(string); ok && detail != "" {
			msg += fmt.Sprintf(" - %s", detail)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// WithMessage replaces the human-readable message, keeping type and code.
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    msg,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

// Detail returns the diagnostic text attached under the "stderr" context key.
func (e *AppError) Detail() string {
	if e.Context == nil {
		return ""
	}
	detail, _ := e.Context["stderr"].(string)
	return detail
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

func newCoded(t ErrorType, code ErrorCode, msg string) *AppError {
	return &AppError{
		Type:    t,
		Code:    code,
		Message: msg,
	}
}

// Registry errors
var (
	ErrProjectNotFound = newCoded(TypeRegistry, CodeProjectNotFound, "Project not found").
				WithSuggestion("List the registered projects: brainlift project list")

	ErrDuplicatePath = newCoded(TypeRegistry, CodeDuplicatePath, "Project already exists at this path").
				WithSuggestion("Switch to the existing project: brainlift project switch <id>")

	ErrPathNotFound = newCoded(TypeRegistry, CodePathNotFound, "Path does not exist").
			WithSuggestion("Check the directory exists and is readable")

	ErrInvalidSettings = newCoded(TypeRegistry, CodeInvalidSettings, "Invalid settings update").
				WithSuggestion("Use key=value pairs with the names shown by: brainlift settings show")
)

// Analysis errors
var (
	ErrNoProjectSelected = newCoded(TypeAnalysis, CodeNoProjectSelected, "No project selected").
				WithSuggestion("Add a project with: brainlift project add <path>\nor select one with: brainlift project switch <id>")

	ErrAnalysisInProgress = newCoded(TypeAnalysis, CodeAnalysisInProgress, "An analysis is already running for this project").
				WithSuggestion("Wait for the current analysis to finish")

	ErrNoReport = newCoded(TypeAnalysis, CodeNoReport, "No report found for this project").
			WithSuggestion("Run an analysis first: brainlift analyze")
)

// Engine errors
var (
	ErrLaunchFailure = newCoded(TypeEngine, CodeLaunchFailure, "Failed to start the analysis engine").
				WithSuggestion("Check the engine interpreter and script: brainlift config show")

	ErrEngineFailure = newCoded(TypeEngine, CodeEngineFailure, "Analysis engine failed")
)

// Notification errors
var (
	ErrChannelUnreachable = newCoded(TypeNotification, CodeChannelUnreachable, "Slack channel is unreachable").
				WithSuggestion("Check your network connection and the configured channel")

	ErrUnauthorized = newCoded(TypeNotification, CodeUnauthorized, "Slack token was rejected").
			WithSuggestion("Update the token: brainlift settings set slackToken=<token>")
)

// Store and configuration errors
var (
	ErrStoreFailure = newCoded(TypeStore, CodeStoreFailure, "Failed to access the settings store")

	ErrConfigInvalid = newCoded(TypeConfiguration, CodeConfigInvalid, "Configuration is invalid").
				WithSuggestion("Review ~/.brainlift/config.json")

	ErrNotARepository = newCoded(TypeGit, CodeNotARepository, "Not a git repository")
)
