package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rivamed/cabpack/internal/domain"
	m "github.com/rivamed/cabpack/internal/model"
)

// MockDoctor is a mock implementation of domain.Doctor.
type MockDoctor struct {
	mock.Mock
}

// NewMockDoctor creates a MockDoctor that registers its expectations with
// the test's cleanup.
func NewMockDoctor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDoctor {
	mockDoctor := &MockDoctor{}
	mockDoctor.Mock.Test(t)

	t.Cleanup(func() { mockDoctor.AssertExpectations(t) })

	return mockDoctor
}

// Diagnose provides a mock function.
func (md *MockDoctor) Diagnose(ctx context.Context, args domain.DoctorArgs) (m.DoctorReport, error) {
	ret := md.Called(ctx, args)

	return ret.Get(0).(m.DoctorReport), ret.Error(1)
}
