package repository

import (
	"context"

	"go-event-platform/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error)
	List(ctx context.Context, page, size int) ([]*model.AuditLog, int, error)
}

type AuditLogRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &AuditLogRepositoryImpl{
		pool: pool,
	}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error) {
	query := `
		INSERT INTO audit_logs (message, user_id, level)
		VALUES ($1, $2, $3)
		RETURNING id, message, user_id, level, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		entry.Message, entry.UserID, entry.Level,
	).Scan(
		&entry.ID,
		&entry.Message,
		&entry.UserID,
		&entry.Level,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *AuditLogRepositoryImpl) List(ctx context.Context, page, size int) ([]*model.AuditLog, int, error) {
	query := `
		SELECT id, message, user_id, level, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := make([]*model.AuditLog, 0)
	for rows.Next() {
		var entry model.AuditLog
		err := rows.Scan(
			&entry.ID,
			&entry.Message,
			&entry.UserID,
			&entry.Level,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&count); err != nil {
		return nil, 0, err
	}

	return logs, count, nil
}
