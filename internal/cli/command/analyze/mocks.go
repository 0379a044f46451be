package analyze

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

type MockOrchestrator struct {
	mock.Mock
}

func (m *MockOrchestrator) Run(ctx context.Context, req models.AnalysisRequest, listener ports.ProgressListener) (*models.AnalysisResult, error) {
	args := m.Called(ctx, req, listener)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}
