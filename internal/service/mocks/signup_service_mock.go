package mocks

import (
	"context"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSignupService struct {
	mock.Mock
}

func NewMockSignupService() *MockSignupService {
	return &MockSignupService{}
}

func (m *MockSignupService) GetForEvent(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error) {
	args := m.Called(ctx, actor, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Signup), args.Error(1)
}

func (m *MockSignupService) ListByUser(ctx context.Context, actor auth.Actor, page, size int) ([]*model.Signup, int, error) {
	args := m.Called(ctx, actor, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Signup), args.Int(1), args.Error(2)
}

func (m *MockSignupService) SignupToEvent(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error) {
	args := m.Called(ctx, actor, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Signup), args.Error(1)
}

func (m *MockSignupService) DeleteSignup(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error) {
	args := m.Called(ctx, actor, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Signup), args.Error(1)
}
