// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rivamed/cabpack/internal/domain"
	m "github.com/rivamed/cabpack/internal/model"
)

// MockPipeline is a mock implementation of domain.Pipeline.
type MockPipeline struct {
	mock.Mock
}

// NewMockPipeline creates a MockPipeline that registers its expectations
// with the test's cleanup.
func NewMockPipeline(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPipeline {
	mockPipeline := &MockPipeline{}
	mockPipeline.Mock.Test(t)

	t.Cleanup(func() { mockPipeline.AssertExpectations(t) })

	return mockPipeline
}

// Build provides a mock function.
func (mp *MockPipeline) Build(ctx context.Context, args domain.BuildArgs) (m.BuildResult, error) {
	ret := mp.Called(ctx, args)

	return ret.Get(0).(m.BuildResult), ret.Error(1)
}

// Refresh provides a mock function.
func (mp *MockPipeline) Refresh(ctx context.Context, args domain.RefreshArgs) (m.BuildResult, error) {
	ret := mp.Called(ctx, args)

	return ret.Get(0).(m.BuildResult), ret.Error(1)
}
