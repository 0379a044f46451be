package ports

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
)

type ChatClient interface {
	TestConnection(ctx context.Context) (*models.ConnectionInfo, error)
	PostMessage(ctx context.Context, channel string, blocks []models.MessageBlock, fallbackText string) error
}

// ChatClientFactory builds a client bound to a token.
type ChatClientFactory func(token string) ChatClient
