// Package watch triggers work when a repository records a new commit.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Tomas-vilte/brainlift/internal/regex"
)

const DefaultDebounce = 750 * time.Millisecond

// CommitFunc is called once per new commit recorded in the HEAD reflog.
type CommitFunc func(ctx context.Context, hash, message string)

// CommitWatcher follows <gitDir>/logs/HEAD and reports commit entries.
// Checkouts, resets and rebases also append to the reflog; they are ignored.
type CommitWatcher struct {
	gitDir   string
	debounce time.Duration
	onCommit CommitFunc
	lastHash string
}

func NewCommitWatcher(gitDir string, debounce time.Duration, onCommit CommitFunc) *CommitWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &CommitWatcher{
		gitDir:   gitDir,
		debounce: debounce,
		onCommit: onCommit,
	}
}

func (w *CommitWatcher) headLog() string {
	return filepath.Join(w.gitDir, "logs", "HEAD")
}

// Run blocks until ctx is done or the watcher fails.
func (w *CommitWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.gitDir); err != nil {
		return fmt.Errorf("error watching %s: %w", w.gitDir, err)
	}
	logsDir := filepath.Dir(w.headLog())
	if _, err := os.Stat(logsDir); err == nil {
		if err := fw.Add(logsDir); err != nil {
			return fmt.Errorf("error watching %s: %w", logsDir, err)
		}
	}

	if entry, ok := w.lastEntry(); ok {
		w.lastHash = entry.hash
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Name == logsDir && event.Has(fsnotify.Create) {
				if err := fw.Add(logsDir); err != nil {
					slog.Warn("could not watch reflog directory", "dir", logsDir, "error", err)
				}
				continue
			}
			if event.Name != w.headLog() || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)

		case <-timer.C:
			w.check(ctx)
		}
	}
}

func (w *CommitWatcher) check(ctx context.Context) {
	entry, ok := w.lastEntry()
	if !ok || !entry.commit || entry.hash == w.lastHash {
		return
	}
	w.lastHash = entry.hash
	slog.Info("new commit detected", "hash", entry.hash)
	w.onCommit(ctx, entry.hash, entry.message)
}

type reflogEntry struct {
	hash    string
	message string
	commit  bool
}

func (w *CommitWatcher) lastEntry() (reflogEntry, bool) {
	f, err := os.Open(w.headLog())
	if err != nil {
		return reflogEntry{}, false
	}
	defer func() { _ = f.Close() }()

	var last string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = scanner.Text()
		}
	}
	if last == "" {
		return reflogEntry{}, false
	}

	if m := regex.ReflogCommit.FindStringSubmatch(last); m != nil {
		return reflogEntry{hash: m[1], message: m[2], commit: true}, true
	}
	fields := strings.Fields(last)
	if len(fields) < 2 {
		return reflogEntry{}, false
	}
	return reflogEntry{hash: fields[1]}, true
}
