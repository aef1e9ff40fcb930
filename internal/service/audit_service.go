package service

import (
	"context"

	"go-event-platform/internal/model"
	"go-event-platform/internal/queue"
	"go-event-platform/internal/repository"
	"go-event-platform/pkg/logger"

	"go.uber.org/zap"
)

// AuditRecorder 供其他 service 發審計日誌。寫入是 best-effort，
// 發送失敗不會讓業務操作失敗。
type AuditRecorder interface {
	Record(ctx context.Context, message string, userID int, level model.LogLevel)
}

type QueueAuditRecorderImpl struct {
	queue queue.AuditQueue
}

func NewQueueAuditRecorder(queue queue.AuditQueue) AuditRecorder {
	return &QueueAuditRecorderImpl{queue: queue}
}

func (r *QueueAuditRecorderImpl) Record(ctx context.Context, message string, userID int, level model.LogLevel) {
	entry := &model.AuditLog{
		Message: message,
		UserID:  userID,
		Level:   level,
	}
	if err := r.queue.PublishEntry(ctx, entry); err != nil {
		logger.WithComponent("service").Warn("publish audit entry failed",
			zap.String("message", message), zap.Error(err))
	}
}

type AuditLogService interface {
	List(ctx context.Context, page, size int) ([]*model.AuditLog, int, error)
}

type AuditLogServiceImpl struct {
	repo repository.AuditLogRepository
}

func NewAuditLogService(repo repository.AuditLogRepository) AuditLogService {
	return &AuditLogServiceImpl{repo: repo}
}

func (s *AuditLogServiceImpl) List(ctx context.Context, page, size int) ([]*model.AuditLog, int, error) {
	return s.repo.List(ctx, page, size)
}
