package mocks

import (
	"github.com/stretchr/testify/mock"

	m "github.com/rivamed/cabpack/internal/model"
)

// MockBrowser is a mock implementation of adapter.Browser.
type MockBrowser struct {
	mock.Mock
}

// NewMockBrowser creates a MockBrowser that registers its expectations with
// the test's cleanup.
func NewMockBrowser(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBrowser {
	mockBrowser := &MockBrowser{}
	mockBrowser.Mock.Test(t)

	t.Cleanup(func() { mockBrowser.AssertExpectations(t) })

	return mockBrowser
}

// Reveal provides a mock function.
func (mb *MockBrowser) Reveal(path m.Path) error {
	ret := mb.Called(path)

	return ret.Error(0)
}
