package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-event-platform/internal/model"
	apperrors "go-event-platform/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context, page, size int) ([]*model.Event, int, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id int) (*model.Event, error)
	// ReserveSlot 原子性佔用一個名額：capacity_left > 0 才扣減，
	// 不限人數的活動直接通過。滿了回傳 ErrEventFull。
	// 必須與報名寫入同一個 tx，讓扣減與報名一起 commit 或一起消失。
	ReserveSlot(ctx context.Context, tx pgx.Tx, id int) (*int, error)
	// ReleaseSlot 歸還一個名額，上限是 capacity。與報名刪除同一個 tx。
	ReleaseSlot(ctx context.Context, tx pgx.Tx, id int) (*int, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, name, description, owner_id, start_date, end_date,
		location, category, price, capacity, capacity_left, created_at, updated_at`

func scanEvent(row pgx.Row, event *model.Event) error {
	return row.Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.OwnerID,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.Category,
		&event.Price,
		&event.Capacity,
		&event.CapacityLeft,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := fmt.Sprintf(`
		INSERT INTO events (
			event_id, name, description, owner_id, start_date, end_date,
			location, category, price, capacity, capacity_left
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING %s
	`, eventColumns)

	// capacity_left 在建立時直接複製 capacity（含 NULL）
	err := scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID, event.Name, event.Description, event.OwnerID,
		event.StartDate, event.EndDate, event.Location, event.Category,
		event.Price, event.Capacity,
	), event)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, page, size int) ([]*model.Event, int, error) {
	query := `
		SELECT e.id, e.event_id, e.name, e.description, e.owner_id, e.start_date, e.end_date,
		       e.location, e.category, e.price, e.capacity, e.capacity_left, e.created_at, e.updated_at,
		       u.id, u.user_id, u.name, u.email, u.username, u.role, u.created_at, u.updated_at
		FROM events e
		JOIN users u ON u.id = e.owner_id
		ORDER BY e.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		var owner model.User
		err := rows.Scan(
			&event.ID,
			&event.EventID,
			&event.Name,
			&event.Description,
			&event.OwnerID,
			&event.StartDate,
			&event.EndDate,
			&event.Location,
			&event.Category,
			&event.Price,
			&event.Capacity,
			&event.CapacityLeft,
			&event.CreatedAt,
			&event.UpdatedAt,
			&owner.ID,
			&owner.UserID,
			&owner.Name,
			&owner.Email,
			&owner.Username,
			&owner.Role,
			&owner.CreatedAt,
			&owner.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		event.Owner = &owner
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return nil, 0, err
	}

	return events, count, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, id), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE event_id = $1`, eventColumns)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, eventID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.OwnerID != nil {
		addSet("owner_id", *params.OwnerID)
	}
	if params.StartDate != nil {
		addSet("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		addSet("end_date", *params.EndDate)
	}
	if params.Location != nil {
		addSet("location", *params.Location)
	}
	if params.Category != nil {
		addSet("category", *params.Category)
	}
	if params.Price != nil {
		addSet("price", *params.Price)
	}
	if params.Capacity != nil {
		// capacity 與重算後的 capacity_left 必須在同一條 SQL 落地，
		// 中間狀態絕不能被其他請求讀到
		addSet("capacity", *params.Capacity)
		sets = append(sets, fmt.Sprintf(`capacity_left = GREATEST($%d - (
			SELECT COUNT(*) FROM event_signups WHERE event_id = events.id
		), 0)`, argPos))
		args = append(args, *params.Capacity)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, args...), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) (*model.Event, error) {
	query := fmt.Sprintf(`
		DELETE FROM events
		WHERE id = $1
		RETURNING %s
	`, eventColumns)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, id), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) ReserveSlot(ctx context.Context, tx pgx.Tx, id int) (*int, error) {
	// 條件式扣減：滿了就不會有任何 row 被更新，
	// check-then-insert 的競爭由這一條 SQL 保證原子性
	query := `
		UPDATE events
		SET capacity_left = CASE WHEN capacity IS NULL THEN NULL ELSE capacity_left - 1 END,
		    updated_at = $2
		WHERE id = $1 AND (capacity IS NULL OR capacity_left > 0)
		RETURNING capacity_left
	`

	var capacityLeft *int
	err := tx.QueryRow(ctx, query, id, time.Now().UTC()).Scan(&capacityLeft)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventFull
		}
		return nil, err
	}
	return capacityLeft, nil
}

func (r *EventRepositoryImpl) ReleaseSlot(ctx context.Context, tx pgx.Tx, id int) (*int, error) {
	// 相對加減不會受並行操作干擾，LEAST 守住不超過 capacity
	query := `
		UPDATE events
		SET capacity_left = CASE WHEN capacity IS NULL THEN NULL ELSE LEAST(capacity_left + 1, capacity) END,
		    updated_at = $2
		WHERE id = $1
		RETURNING capacity_left
	`

	var capacityLeft *int
	err := tx.QueryRow(ctx, query, id, time.Now().UTC()).Scan(&capacityLeft)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return capacityLeft, nil
}
