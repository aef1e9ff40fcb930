package queue

import (
	"context"

	"go-event-platform/internal/model"
)

type Delivery struct {
	Data *model.AuditLog
	Ack  func()
	Nack func(requeue bool)
}

type AuditQueue interface {
	// 發送審計日誌到隊列
	PublishEntry(ctx context.Context, entry *model.AuditLog) error
	// 訂閱審計日誌隊列
	SubscribeEntries(ctx context.Context) (<-chan Delivery, error)
}

type MemoryAuditQueueImpl struct {
	// 使用 Go channel 模擬 MQ 隊列，單機部署與測試用
	ch chan *model.AuditLog
}

func NewMemoryAuditQueue(bufferSize int) AuditQueue {
	return &MemoryAuditQueueImpl{
		ch: make(chan *model.AuditLog, bufferSize),
	}
}

func (q *MemoryAuditQueueImpl) PublishEntry(ctx context.Context, entry *model.AuditLog) error {
	select {
	case q.ch <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryAuditQueueImpl) SubscribeEntries(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: entry,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- entry // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
