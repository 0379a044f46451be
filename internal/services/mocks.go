package services

import (
	"context"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

type (
	MockEngineRunner struct {
		mock.Mock
	}

	MockCommitResolver struct {
		mock.Mock
	}

	MockReportNotifier struct {
		mock.Mock
	}
)

func (m *MockEngineRunner) Run(ctx context.Context, contract models.EngineContract, onChunk ports.ChunkFunc) (int, error) {
	args := m.Called(ctx, contract, onChunk)
	return args.Int(0), args.Error(1)
}

func (m *MockCommitResolver) ResolveHead(path string) (string, string, error) {
	args := m.Called(path)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockCommitResolver) PendingChanges(path string, mode models.WIPMode) (int, error) {
	args := m.Called(path, mode)
	return args.Int(0), args.Error(1)
}

func (m *MockCommitResolver) IsRepository(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockReportNotifier) Notify(ctx context.Context, settings models.GlobalSettings, report models.ParsedReport, projectName string) (models.NotifyOutcome, error) {
	args := m.Called(ctx, settings, report, projectName)
	return args.Get(0).(models.NotifyOutcome), args.Error(1)
}
