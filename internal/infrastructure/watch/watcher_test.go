package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func reflogLine(old, next, action string) string {
	return fmt.Sprintf("%s %s Test <test@example.com> 1714560000 +0000\t%s\n", old, next, action)
}

func appendLine(t *testing.T, path, line string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(line)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestCommitWatcher(t *testing.T) {
	t.Run("should report new commits and ignore other reflog entries", func(t *testing.T) {
		// Arrange
		gitDir := t.TempDir()
		head := filepath.Join(gitDir, "logs", "HEAD")
		require.NoError(t, os.MkdirAll(filepath.Dir(head), 0755))
		first := strings.Repeat("a", 40)
		second := strings.Repeat("b", 40)
		third := strings.Repeat("c", 40)
		appendLine(t, head, reflogLine(strings.Repeat("0", 40), first, "commit (initial): Initial commit"))

		commits := make(chan string, 4)
		w := NewCommitWatcher(gitDir, 50*time.Millisecond, func(_ context.Context, hash, message string) {
			commits <- hash + " " + message
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()
		time.Sleep(100 * time.Millisecond)

		// Act
		appendLine(t, head, reflogLine(first, second, "checkout: moving from main to feature"))
		time.Sleep(200 * time.Millisecond)
		appendLine(t, head, reflogLine(second, third, "commit: Fix bug"))

		// Assert
		select {
		case got := <-commits:
			assert.Equal(t, third+" Fix bug", got)
		case <-time.After(3 * time.Second):
			t.Fatal("commit was not reported")
		}
		assert.Empty(t, commits)

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		w := NewCommitWatcher(t.TempDir(), 0, func(context.Context, string, string) {})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NoError(t, w.Run(ctx))
	})

	t.Run("should fail on a missing git directory", func(t *testing.T) {
		w := NewCommitWatcher(filepath.Join(t.TempDir(), "missing"), 0, func(context.Context, string, string) {})

		assert.Error(t, w.Run(context.Background()))
	})
}

func TestLastEntry(t *testing.T) {
	gitDir := t.TempDir()
	head := filepath.Join(gitDir, "logs", "HEAD")
	require.NoError(t, os.MkdirAll(filepath.Dir(head), 0755))
	hash := strings.Repeat("d", 40)
	appendLine(t, head, reflogLine(strings.Repeat("c", 40), hash, "commit (amend): Reword message"))

	entry, ok := NewCommitWatcher(gitDir, 0, nil).lastEntry()

	require.True(t, ok)
	assert.True(t, entry.commit)
	assert.Equal(t, hash, entry.hash)
	assert.Equal(t, "Reword message", entry.message)
}
