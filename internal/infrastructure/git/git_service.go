package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
)

var _ ports.CommitResolver = (*GitService)(nil)

// GitService reads repository state with go-git; it never writes.
type GitService struct{}

func NewGitService() *GitService {
	return &GitService{}
}

func open(path string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, appErrors.ErrNotARepository.WithContext("path", path)
	}
	if err != nil {
		return nil, appErrors.ErrNotARepository.WithError(err).WithContext("path", path)
	}
	return repo, nil
}

func (s *GitService) IsRepository(path string) bool {
	_, err := open(path)
	return err == nil
}

// ResolveHead returns the HEAD commit hash and the first line of its message.
func (s *GitService) ResolveHead(path string) (string, string, error) {
	repo, err := open(path)
	if err != nil {
		return "", "", err
	}

	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", "", appErrors.NewAppError(appErrors.TypeGit, "Repository has no commits yet", err)
	}
	if err != nil {
		return "", "", appErrors.NewAppError(appErrors.TypeGit, "Could not resolve HEAD", err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return "", "", appErrors.NewAppError(appErrors.TypeGit, "Could not read HEAD commit", err)
	}

	message, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")
	return ref.Hash().String(), message, nil
}

// PendingChanges counts files with changes of the given work-in-progress kind.
func (s *GitService) PendingChanges(path string, mode models.WIPMode) (int, error) {
	repo, err := open(path)
	if err != nil {
		return 0, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return 0, appErrors.NewAppError(appErrors.TypeGit, "Repository has no worktree", err)
	}

	status, err := wt.Status()
	if err != nil {
		return 0, appErrors.NewAppError(appErrors.TypeGit, "Could not read worktree status", err)
	}

	count := 0
	for _, st := range status {
		staged := st.Staging != gogit.Unmodified && st.Staging != gogit.Untracked
		unstaged := st.Worktree != gogit.Unmodified
		switch mode {
		case models.WIPStaged:
			if staged {
				count++
			}
		case models.WIPUnstaged:
			if unstaged {
				count++
			}
		default:
			if staged || unstaged {
				count++
			}
		}
	}
	return count, nil
}

// GitDir returns the directory holding the repository metadata.
func (s *GitService) GitDir(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", err
	}

	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", fmt.Errorf("repository at %s is not backed by the filesystem", path)
	}
	return storage.Filesystem().Root(), nil
}
