package service

import (
	"context"
	"fmt"
	"strings"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/cache"
	"go-event-platform/internal/model"
	"go-event-platform/internal/repository"
	apperrors "go-event-platform/pkg/app_errors"
	"go-event-platform/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context, page, size int) ([]*model.Event, int, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, actor auth.Actor, event *model.Event) (*model.Event, error)
	UpdateByEventID(ctx context.Context, actor auth.Actor, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	DeleteByEventID(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Event, error)
}

type EventServiceImpl struct {
	repo          repository.EventRepository
	userRepo      repository.UserRepository
	capacityCache cache.EventCapacityCache
	audit         AuditRecorder
}

func NewEventService(
	repo repository.EventRepository,
	userRepo repository.UserRepository,
	capacityCache cache.EventCapacityCache,
	audit AuditRecorder,
) EventService {
	return &EventServiceImpl{
		repo:          repo,
		userRepo:      userRepo,
		capacityCache: capacityCache,
		audit:         audit,
	}
}

func (s *EventServiceImpl) List(ctx context.Context, page, size int) ([]*model.Event, int, error) {
	return s.repo.List(ctx, page, size)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, actor auth.Actor, event *model.Event) (*model.Event, error) {
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return nil, apperrors.ErrMissingFields
	}
	if err := validateEventFields(event.Category, &event.Price, event.Capacity); err != nil {
		return nil, err
	}
	if !event.EndDate.After(event.StartDate) {
		return nil, apperrors.ErrInvalidInput
	}

	// 建立者必須存在於使用者目錄
	if _, err := s.userRepo.FindByID(ctx, actor.ID); err != nil {
		return nil, err
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	event.OwnerID = actor.ID

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.refreshCapacityCache(ctx, created)
	s.audit.Record(ctx, fmt.Sprintf("Event '%s' created successfully", created.Name), actor.ID, model.LogLevelInfo)

	return created, nil
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, actor auth.Actor, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !auth.CanManageEvent(actor, event) {
		return nil, apperrors.ErrUnauthorized
	}
	if !params.HasChanges() {
		return nil, apperrors.ErrInvalidInput
	}
	if err := validateEventFields(params.Category, params.Price, params.Capacity); err != nil {
		return nil, err
	}

	// 轉讓對象必須存在，不能養出指向幽靈使用者的活動
	if params.OwnerID != nil {
		if _, err := s.userRepo.FindByID(ctx, *params.OwnerID); err != nil {
			return nil, err
		}
	}

	// capacity 與重算後的 capacity_left 由 repo 在同一條 SQL 落地
	updated, err := s.repo.Update(ctx, event.ID, params)
	if err != nil {
		return nil, err
	}

	if params.Capacity != nil {
		s.refreshCapacityCache(ctx, updated)
	}

	s.audit.Record(ctx, fmt.Sprintf("Event '%s' updated successfully", updated.Name), actor.ID, model.LogLevelInfo)

	return updated, nil
}

func (s *EventServiceImpl) DeleteByEventID(ctx context.Context, actor auth.Actor, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !auth.CanManageEvent(actor, event) {
		return nil, apperrors.ErrUnauthorized
	}

	// 報名紀錄由 DB 的 ON DELETE CASCADE 一併刪除
	deleted, err := s.repo.Delete(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	if err := s.capacityCache.Invalidate(ctx, deleted.ID); err != nil {
		logger.WithComponent("service").Warn("invalidate capacity cache failed",
			zap.Int("event_id", deleted.ID), zap.Error(err))
	}
	s.audit.Record(ctx, fmt.Sprintf("Event '%s' deleted successfully", deleted.Name), actor.ID, model.LogLevelInfo)

	return deleted, nil
}

func (s *EventServiceImpl) refreshCapacityCache(ctx context.Context, event *model.Event) {
	if err := s.capacityCache.SetCapacityLeft(ctx, event.ID, event.CapacityLeft); err != nil {
		logger.WithComponent("service").Warn("refresh capacity cache failed",
			zap.Int("event_id", event.ID), zap.Error(err))
	}
}

func validateEventFields(category *model.EventCategory, price *float64, capacity *int) error {
	if category != nil && !category.IsValid() {
		return apperrors.ErrInvalidInput
	}
	if price != nil && *price < 0 {
		return apperrors.ErrInvalidInput
	}
	if capacity != nil && *capacity < 0 {
		return apperrors.ErrInvalidInput
	}
	return nil
}
