package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-event-platform/internal/model"
	"go-event-platform/internal/queue"
	"go-event-platform/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuditLogRepo 可設定前 failures 次寫入失敗，驗證 Nack 重試
type fakeAuditLogRepo struct {
	mu       sync.Mutex
	failures int
	entries  []*model.AuditLog
}

func (r *fakeAuditLogRepo) Create(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("db unavailable")
	}
	stored := *entry
	stored.ID = len(r.entries) + 1
	r.entries = append(r.entries, &stored)
	return &stored, nil
}

func (r *fakeAuditLogRepo) List(ctx context.Context, page, size int) ([]*model.AuditLog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out, len(out), nil
}

func (r *fakeAuditLogRepo) stored() []*model.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}

func waitForEntries(t *testing.T, repo *fakeAuditLogRepo, want int) []*model.AuditLog {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if entries := repo.stored(); len(entries) >= want {
			return entries
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit entries", want)
	return nil
}

func TestAuditWorker_PersistsEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &fakeAuditLogRepo{}
	q := queue.NewMemoryAuditQueue(10)
	w := worker.NewAuditWorker(repo, q)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.PublishEntry(ctx, &model.AuditLog{
		Message: "Event 'Go Meetup' created successfully",
		UserID:  1,
		Level:   model.LogLevelInfo,
	}))

	entries := waitForEntries(t, repo, 1)
	assert.Equal(t, "Event 'Go Meetup' created successfully", entries[0].Message)
	assert.Equal(t, 1, entries[0].UserID)
	assert.Equal(t, model.LogLevelInfo, entries[0].Level)
}

func TestAuditWorker_RetriesOnPersistFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 第一次寫入失敗，訊息要重回隊列再寫成功
	repo := &fakeAuditLogRepo{failures: 1}
	q := queue.NewMemoryAuditQueue(10)
	w := worker.NewAuditWorker(repo, q)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.PublishEntry(ctx, &model.AuditLog{
		Message: "retry me",
		UserID:  2,
		Level:   model.LogLevelWarning,
	}))

	entries := waitForEntries(t, repo, 1)
	assert.Equal(t, "retry me", entries[0].Message)
}
