package mocks

import (
	"context"

	"go-event-platform/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAuditLogService struct {
	mock.Mock
}

func NewMockAuditLogService() *MockAuditLogService {
	return &MockAuditLogService{}
}

func (m *MockAuditLogService) List(ctx context.Context, page, size int) ([]*model.AuditLog, int, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.AuditLog), args.Int(1), args.Error(2)
}
