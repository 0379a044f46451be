package notify

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, settings models.GlobalSettings, report models.ParsedReport, projectName string) (models.NotifyOutcome, error) {
	args := m.Called(ctx, settings, report, projectName)
	return args.Get(0).(models.NotifyOutcome), args.Error(1)
}

func (m *MockNotifier) TestConnection(ctx context.Context, token string) (*models.ConnectionInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConnectionInfo), args.Error(1)
}
