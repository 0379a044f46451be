package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type contextKey struct{}

var loggerKey = contextKey{}

const projectLogFile = "project.log"

func Initialize(debug, verbose bool) {
	InitializeWriter(os.Stderr, debug, verbose)
}

// InitializeWriter installs the CLI handler writing to w as the default logger.
func InitializeWriter(w io.Writer, debug, verbose bool) {
	level := slog.LevelWarn

	if debug {
		level = slog.LevelDebug
	} else if verbose {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}

	slog.SetDefault(slog.New(NewPrettyHandler(w, opts)))
}

// ProjectLogger writes JSON records to a project's log file and closes it on Close.
type ProjectLogger struct {
	*slog.Logger
	file *os.File
}

// NewProjectLogger opens (appending) <projectDir>/project.log.
func NewProjectLogger(projectDir, projectID string) (*ProjectLogger, error) {
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating project log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(projectDir, projectLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening project log: %w", err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &ProjectLogger{
		Logger: slog.New(handler).With("project_id", projectID),
		file:   f,
	}, nil
}

func (p *ProjectLogger) Close() error {
	return p.file.Close()
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).Error(msg, args...)
}
