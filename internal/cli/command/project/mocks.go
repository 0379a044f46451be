package project

import (
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/ide"
	"github.com/stretchr/testify/mock"
)

type MockRuleManager struct {
	mock.Mock
}

func (m *MockRuleManager) Enable(projectPath, projectName string, mode ide.Mode) (string, error) {
	args := m.Called(projectPath, projectName, mode)
	return args.String(0), args.Error(1)
}

func (m *MockRuleManager) Disable(projectPath string) error {
	args := m.Called(projectPath)
	return args.Error(0)
}
