// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	m "github.com/rivamed/cabpack/internal/model"
)

// MockToolchain is a mock implementation of adapter.Toolchain.
type MockToolchain struct {
	mock.Mock
}

// NewMockToolchain creates a MockToolchain that registers its expectations
// with the test's cleanup.
func NewMockToolchain(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockToolchain {
	mockToolchain := &MockToolchain{}
	mockToolchain.Mock.Test(t)

	t.Cleanup(func() { mockToolchain.AssertExpectations(t) })

	return mockToolchain
}

// LocatePython provides a mock function.
func (mt *MockToolchain) LocatePython() (m.Path, string, error) {
	ret := mt.Called()

	return ret.Get(0).(m.Path), ret.String(1), ret.Error(2)
}

// EnvInterpreter provides a mock function.
func (mt *MockToolchain) EnvInterpreter(venvDir m.Path) m.Path {
	ret := mt.Called(venvDir)

	return ret.Get(0).(m.Path)
}

// EnsureEnv provides a mock function.
func (mt *MockToolchain) EnsureEnv(ctx context.Context, python m.Path, venvDir m.Path) (m.Path, error) {
	ret := mt.Called(ctx, python, venvDir)

	return ret.Get(0).(m.Path), ret.Error(1)
}

// InstallDeps provides a mock function.
func (mt *MockToolchain) InstallDeps(ctx context.Context, envPython m.Path, freezeTool string, requirements m.Path) error {
	ret := mt.Called(ctx, envPython, freezeTool, requirements)

	return ret.Error(0)
}
