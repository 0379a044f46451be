package ports

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
)

// ChunkFunc receives raw output chunks in the order the engine produced them.
type ChunkFunc func(stream string, chunk string)

// EngineRunner launches the external analysis engine and waits for it to exit.
// A failure to start the process is returned as an error and exitCode is -1;
// a process that ran and exited non-zero returns its exit code and a nil error.
type EngineRunner interface {
	Run(ctx context.Context, contract models.EngineContract, onChunk ChunkFunc) (exitCode int, err error)
}

// ProgressListener observes a run while it is in flight.
type ProgressListener func(event models.ProgressEvent)
