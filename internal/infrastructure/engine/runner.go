// Package engine launches the external analysis engine as a child process.
package engine

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the
// process has been killed.
const waitDelay = 5 * time.Second

// Runner starts one engine process per Run call. The child inherits the
// current environment with the contract's variables layered on top.
type Runner struct {
	baseEnv []string
}

func NewRunner() *Runner {
	return &Runner{baseEnv: os.Environ()}
}

var _ ports.EngineRunner = (*Runner)(nil)

// Run streams stdout and stderr line by line to onChunk and blocks until the
// process exits. onChunk is never called concurrently. A process that could
// not be started returns exit code -1 and an ErrLaunchFailure; a process that
// exits on its own returns its exit code and a nil error; a process killed
// because ctx ended returns ctx.Err().
func (r *Runner) Run(ctx context.Context, contract models.EngineContract, onChunk ports.ChunkFunc) (int, error) {
	cmd := exec.CommandContext(ctx, contract.Command, contract.Args...) //nolint:gosec // command comes from the engine config
	cmd.Dir = contract.Dir
	cmd.Env = append(slices.Clone(r.baseEnv), contract.EnvList()...)
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, launchError(contract, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, launchError(contract, err)
	}

	if err := cmd.Start(); err != nil {
		return -1, launchError(contract, err)
	}

	slog.Debug("engine started",
		"pid", cmd.Process.Pid,
		"command", contract.Command,
		"dir", contract.Dir)

	var mu sync.Mutex
	emit := func(stream, chunk string) {
		if onChunk == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onChunk(stream, chunk)
	}

	// both pipes must be drained before Wait closes them
	var g errgroup.Group
	g.Go(func() error { return pump(stdout, models.StreamStdout, emit) })
	g.Go(func() error { return pump(stderr, models.StreamStderr, emit) })
	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return exitCode(cmd, waitErr), ctxErr
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return -1, appErrors.ErrEngineFailure.WithError(waitErr)
		}
	}
	if pumpErr != nil {
		slog.Warn("engine output was truncated", "error", pumpErr)
	}

	return exitCode(cmd, waitErr), nil
}

func pump(r io.Reader, stream string, emit func(stream, chunk string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			emit(stream, line)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func launchError(contract models.EngineContract, err error) error {
	return appErrors.ErrLaunchFailure.
		WithError(err).
		WithContext("command", contract.Command).
		WithContext("dir", contract.Dir)
}

// ResolveInterpreter prefers a virtualenv interpreter inside engineDir and
// falls back to the configured one.
func ResolveInterpreter(engineDir, fallback string) string {
	if engineDir == "" {
		return fallback
	}

	candidates := []string{
		filepath.Join(engineDir, "venv", "bin", "python"),
		filepath.Join(engineDir, ".venv", "bin", "python"),
	}
	if runtime.GOOS == "windows" {
		candidates = []string{
			filepath.Join(engineDir, "venv", "Scripts", "python.exe"),
			filepath.Join(engineDir, ".venv", "Scripts", "python.exe"),
		}
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return fallback
}
