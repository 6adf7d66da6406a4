package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rivamed/cabpack/internal/adapter"
	m "github.com/rivamed/cabpack/internal/model"
)

// MockFreezeRunner is a mock implementation of adapter.FreezeRunner.
type MockFreezeRunner struct {
	mock.Mock
}

// NewMockFreezeRunner creates a MockFreezeRunner that registers its
// expectations with the test's cleanup.
func NewMockFreezeRunner(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFreezeRunner {
	mockRunner := &MockFreezeRunner{}
	mockRunner.Mock.Test(t)

	t.Cleanup(func() { mockRunner.AssertExpectations(t) })

	return mockRunner
}

// Freeze provides a mock function.
func (mr *MockFreezeRunner) Freeze(ctx context.Context, workDir m.Path, interpreter m.Path, args []string) (adapter.FreezeResult, error) {
	ret := mr.Called(ctx, workDir, interpreter, args)

	return ret.Get(0).(adapter.FreezeResult), ret.Error(1)
}
