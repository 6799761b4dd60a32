package registrants

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitingroom/backend/internal/models"
)

const registrantColumns = `id, room_id, legal_name, email, id_number, id_type, phone_number,
	event_choice, turnstile_success, turnstile_timestamp, turnstile_fail_reason, created_at, updated_at`

// Repository handles registrant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrants repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a registrant. Too-early attempts are inserted as well; the
// audit columns record the challenge outcome either way.
func (r *Repository) Create(ctx context.Context, reg *models.Registrant) error {
	const q = `INSERT INTO registrants (id, room_id, legal_name, email, id_number, id_type, phone_number, event_choice, turnstile_success, turnstile_timestamp, turnstile_fail_reason)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, reg.RoomID, reg.LegalName, reg.Email, reg.IDNumber,
		reg.IDType, reg.PhoneNumber, reg.EventChoice, reg.TurnstileSuccess,
		reg.TurnstileTimestamp, reg.TurnstileFailReason).
		Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

// CountByRoom returns the number of registrants for a room.
func (r *Repository) CountByRoom(ctx context.Context, roomID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrants WHERE room_id = $1`, roomID).Scan(&count)
	return count, err
}

// ListByRoom returns all registrants for a room, newest first.
func (r *Repository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Registrant, error) {
	const q = `SELECT ` + registrantColumns + ` FROM registrants WHERE room_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Registrant
	for rows.Next() {
		var reg models.Registrant
		if err := rows.Scan(&reg.ID, &reg.RoomID, &reg.LegalName, &reg.Email, &reg.IDNumber,
			&reg.IDType, &reg.PhoneNumber, &reg.EventChoice, &reg.TurnstileSuccess,
			&reg.TurnstileTimestamp, &reg.TurnstileFailReason, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}
