package worker

import (
	"context"

	"go-event-platform/internal/queue"
	"go-event-platform/internal/repository"
	"go-event-platform/pkg/logger"

	"go.uber.org/zap"
)

type AuditWorker interface {
	// 訂閱審計日誌隊列並持久化
	Start(ctx context.Context) error
}

type AuditWorkerImpl struct {
	repo  repository.AuditLogRepository
	queue queue.AuditQueue
}

func NewAuditWorker(repo repository.AuditLogRepository, queue queue.AuditQueue) AuditWorker {
	return &AuditWorkerImpl{
		repo:  repo,
		queue: queue,
	}
}

func (w *AuditWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeEntries(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			_, err := w.repo.Create(ctx, msg.Data)
			if err != nil {
				// 資料庫暫時寫不進去，留在隊列裡重試
				logger.WithComponent("worker").Warn("persist audit entry failed", zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
