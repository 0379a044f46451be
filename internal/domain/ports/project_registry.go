package ports

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
)

// ProjectSource is the read side of the registry used by the orchestrator.
type ProjectSource interface {
	GetCurrent() *models.Project
	GetGlobalSettings() models.GlobalSettings
	DataDir(projectID string) string
	OutputPaths(projectID string) (models.OutputPaths, error)
	UpdateLastProcessedCommit(ctx context.Context, projectID, hash string) error
}
