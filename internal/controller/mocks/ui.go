// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	m "github.com/rivamed/cabpack/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI that registers its expectations with the
// test's cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mockUI := &MockUI{}
	mockUI.Mock.Test(t)

	t.Cleanup(func() { mockUI.AssertExpectations(t) })

	return mockUI
}

// Start provides a mock function.
func (mu *MockUI) Start(ctx context.Context) error {
	ret := mu.Called(ctx)

	return ret.Error(0)
}

// Close provides a mock function.
func (mu *MockUI) Close(ctx context.Context) {
	mu.Called(ctx)
}

// Wait provides a mock function.
func (mu *MockUI) Wait(ctx context.Context) {
	mu.Called(ctx)
}

// DisplayStageStart provides a mock function.
func (mu *MockUI) DisplayStageStart(ctx context.Context, stage m.Stage) {
	mu.Called(ctx, stage)
}

// DisplayStageResult provides a mock function.
func (mu *MockUI) DisplayStageResult(ctx context.Context, result m.StageResult) {
	mu.Called(ctx, result)
}

// DisplayNote provides a mock function.
func (mu *MockUI) DisplayNote(ctx context.Context, note string) {
	mu.Called(ctx, note)
}

// DisplayPatchDiff provides a mock function.
func (mu *MockUI) DisplayPatchDiff(ctx context.Context, diff string) {
	mu.Called(ctx, diff)
}

// DisplaySummary provides a mock function.
func (mu *MockUI) DisplaySummary(ctx context.Context, result m.BuildResult) {
	mu.Called(ctx, result)
}
