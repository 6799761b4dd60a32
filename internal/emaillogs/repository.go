// Package emaillogs records confirmation email attempts.
package emaillogs

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitingroom/backend/internal/models"
)

// Repository handles email log persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an email log row.
func (r *Repository) Create(ctx context.Context, log *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, room_id, registrant_id, recipient, subject, status, error)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, log.RoomID, log.RegistrantID, log.Recipient, log.Subject, log.Status, log.Error).
		Scan(&log.ID, &log.CreatedAt)
}

// ListByRoom returns email logs for a room, newest first.
func (r *Repository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.EmailLog, error) {
	const q = `SELECT id, room_id, registrant_id, recipient, subject, status, error, created_at
		FROM email_logs WHERE room_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.RoomID, &l.RegistrantID, &l.Recipient, &l.Subject, &l.Status, &l.Error, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
