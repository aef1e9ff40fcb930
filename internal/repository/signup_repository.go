package repository

import (
	"context"
	"errors"

	"go-event-platform/internal/model"
	apperrors "go-event-platform/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type SignupRepository interface {
	// Create 寫入報名，(event_id, user_id) 撞到唯一約束回傳 ErrAlreadySignedUp。
	// 與 ReserveSlot 同一個 tx。
	Create(ctx context.Context, tx pgx.Tx, signup *model.Signup) (*model.Signup, error)
	FindByEventAndUser(ctx context.Context, eventID, userID int) (*model.Signup, error)
	ListByUserID(ctx context.Context, userID, page, size int) ([]*model.Signup, int, error)
	// DeleteByEventAndUser 與 ReleaseSlot 同一個 tx
	DeleteByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID int) (*model.Signup, error)
	CountByEventID(ctx context.Context, eventID int) (int, error)
}

type SignupRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSignupRepository(pool *pgxpool.Pool) SignupRepository {
	return &SignupRepositoryImpl{
		pool: pool,
	}
}

func (r *SignupRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, signup *model.Signup) (*model.Signup, error) {
	query := `
		INSERT INTO event_signups (signup_id, event_id, user_id, paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, signup_id, event_id, user_id, paid, created_at
	`

	err := tx.QueryRow(ctx, query,
		signup.SignupID, signup.EventID, signup.UserID, signup.Paid,
	).Scan(
		&signup.ID,
		&signup.SignupID,
		&signup.EventID,
		&signup.UserID,
		&signup.Paid,
		&signup.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.ErrAlreadySignedUp
		}
		return nil, err
	}
	return signup, nil
}

func (r *SignupRepositoryImpl) FindByEventAndUser(ctx context.Context, eventID, userID int) (*model.Signup, error) {
	query := `
		SELECT id, signup_id, event_id, user_id, paid, created_at
		FROM event_signups
		WHERE event_id = $1 AND user_id = $2
	`

	var signup model.Signup
	err := r.pool.QueryRow(ctx, query, eventID, userID).Scan(
		&signup.ID,
		&signup.SignupID,
		&signup.EventID,
		&signup.UserID,
		&signup.Paid,
		&signup.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSignupNotFound
		}
		return nil, err
	}
	return &signup, nil
}

func (r *SignupRepositoryImpl) ListByUserID(ctx context.Context, userID, page, size int) ([]*model.Signup, int, error) {
	query := `
		SELECT s.id, s.signup_id, s.event_id, s.user_id, s.paid, s.created_at,
		       e.id, e.event_id, e.name, e.description, e.owner_id, e.start_date, e.end_date,
		       e.location, e.category, e.price, e.capacity, e.capacity_left, e.created_at, e.updated_at
		FROM event_signups s
		JOIN events e ON e.id = s.event_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	signups := make([]*model.Signup, 0)
	for rows.Next() {
		var signup model.Signup
		var event model.Event
		err := rows.Scan(
			&signup.ID,
			&signup.SignupID,
			&signup.EventID,
			&signup.UserID,
			&signup.Paid,
			&signup.CreatedAt,
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
		if err != nil {
			return nil, 0, err
		}
		signup.Event = &event
		signups = append(signups, &signup)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM event_signups WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	return signups, count, nil
}

func (r *SignupRepositoryImpl) DeleteByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID int) (*model.Signup, error) {
	query := `
		DELETE FROM event_signups
		WHERE event_id = $1 AND user_id = $2
		RETURNING id, signup_id, event_id, user_id, paid, created_at
	`

	var signup model.Signup
	err := tx.QueryRow(ctx, query, eventID, userID).Scan(
		&signup.ID,
		&signup.SignupID,
		&signup.EventID,
		&signup.UserID,
		&signup.Paid,
		&signup.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSignupNotFound
		}
		return nil, err
	}
	return &signup, nil
}

func (r *SignupRepositoryImpl) CountByEventID(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM event_signups WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
