package service

import (
	"context"
	"errors"
	"fmt"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/cache"
	"go-event-platform/internal/model"
	"go-event-platform/internal/repository"
	apperrors "go-event-platform/pkg/app_errors"
	"go-event-platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SignupService interface {
	// GetForEvent 回傳 actor 在該活動的報名；不存在時回傳 (nil, nil)
	GetForEvent(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error)
	ListByUser(ctx context.Context, actor auth.Actor, page, size int) ([]*model.Signup, int, error)
	SignupToEvent(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error)
	DeleteSignup(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error)
}

type SignupServiceImpl struct {
	db            repository.TxBeginner
	events        repository.EventRepository
	signups       repository.SignupRepository
	capacityCache cache.EventCapacityCache
	audit         AuditRecorder
}

func NewSignupService(
	db repository.TxBeginner,
	events repository.EventRepository,
	signups repository.SignupRepository,
	capacityCache cache.EventCapacityCache,
	audit AuditRecorder,
) SignupService {
	return &SignupServiceImpl{
		db:            db,
		events:        events,
		signups:       signups,
		capacityCache: capacityCache,
		audit:         audit,
	}
}

func (s *SignupServiceImpl) GetForEvent(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error) {
	event, err := s.events.FindByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return nil, nil
		}
		return nil, err
	}

	signup, err := s.signups.FindByEventAndUser(ctx, event.ID, actor.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSignupNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return signup, nil
}

func (s *SignupServiceImpl) ListByUser(ctx context.Context, actor auth.Actor, page, size int) ([]*model.Signup, int, error) {
	return s.signups.ListByUserID(ctx, actor.ID, page, size)
}

func (s *SignupServiceImpl) SignupToEvent(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error) {
	event, err := s.events.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// 1. 檢查是否已報名
	_, err = s.signups.FindByEventAndUser(ctx, event.ID, actor.ID)
	if err == nil {
		return nil, apperrors.ErrAlreadySignedUp
	}
	if !errors.Is(err, apperrors.ErrSignupNotFound) {
		return nil, err
	}

	// 2. 快取的剩餘名額為 0 就直接拒絕，省掉資料庫往返；
	//    快取讀不到或出錯時一律走資料庫
	if left, ok, cacheErr := s.capacityCache.GetCapacityLeft(ctx, event.ID); cacheErr == nil && ok && left <= 0 {
		return nil, apperrors.ErrEventFull
	}

	// 3. 扣減與報名寫入必須同一個 tx 落地：名額絕不會處於
	//    「已佔走但看不到報名」的中間狀態，任何失敗都由 rollback 歸還
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	capacityLeft, err := s.events.ReserveSlot(ctx, tx, event.ID)
	if err != nil {
		return nil, err
	}

	signup := &model.Signup{
		SignupID: uuid.New(),
		EventID:  event.ID,
		UserID:   actor.ID,
		Paid:     !event.IsFree(),
	}

	created, err := s.signups.Create(ctx, tx, signup)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.refreshCapacityCache(ctx, event.ID, capacityLeft)
	s.audit.Record(ctx, fmt.Sprintf("Signed-up to event ID '%s' successfully", eventID), actor.ID, model.LogLevelInfo)

	return created, nil
}

func (s *SignupServiceImpl) DeleteSignup(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Signup, error) {
	event, err := s.events.FindByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return nil, apperrors.ErrSignupNotFound
		}
		return nil, err
	}

	// 刪除與歸還名額同一個 tx，對稱於報名
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	deleted, err := s.signups.DeleteByEventAndUser(ctx, tx, event.ID, actor.ID)
	if err != nil {
		return nil, err
	}

	capacityLeft, err := s.events.ReleaseSlot(ctx, tx, event.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.refreshCapacityCache(ctx, event.ID, capacityLeft)
	s.audit.Record(ctx, fmt.Sprintf("Event sign-up for event ID '%s' deleted successfully", eventID), actor.ID, model.LogLevelInfo)

	return deleted, nil
}

// refreshCapacityCache 以 commit 後的剩餘名額同步快取，失敗只記 log
func (s *SignupServiceImpl) refreshCapacityCache(ctx context.Context, eventID int, capacityLeft *int) {
	if err := s.capacityCache.SetCapacityLeft(ctx, eventID, capacityLeft); err != nil {
		logger.WithComponent("service").Warn("refresh capacity cache failed",
			zap.Int("event_id", eventID), zap.Error(err))
	}
}
