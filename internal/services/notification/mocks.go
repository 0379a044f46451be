package notification

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) TestConnection(ctx context.Context) (*models.ConnectionInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConnectionInfo), args.Error(1)
}

func (m *MockChatClient) PostMessage(ctx context.Context, channel string, blocks []models.MessageBlock, fallbackText string) error {
	args := m.Called(ctx, channel, blocks, fallbackText)
	return args.Error(0)
}
