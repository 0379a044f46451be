package ports

import "github.com/Tomas-vilte/brainlift/internal/domain/models"

// CommitResolver reads commit information from a working tree.
type CommitResolver interface {
	ResolveHead(path string) (hash string, message string, err error)
	PendingChanges(path string, mode models.WIPMode) (int, error)
	IsRepository(path string) bool
}
