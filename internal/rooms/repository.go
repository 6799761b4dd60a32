package rooms

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitingroom/backend/internal/models"
)

const roomColumns = `id, title, markdown, opens_at, closes_at, published, event_choices,
	desktop_image_blob, mobile_image_blob, owner_id, created_at, updated_at`

// Repository handles waiting room persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a rooms repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRoom(row interface{ Scan(...any) error }, r *models.Room) error {
	return row.Scan(&r.ID, &r.Title, &r.Markdown, &r.OpensAt, &r.ClosesAt, &r.Published,
		&r.EventChoices, &r.DesktopImageBlob, &r.MobileImageBlob, &r.OwnerID,
		&r.CreatedAt, &r.UpdatedAt)
}

// Create inserts a new waiting room.
func (r *Repository) Create(ctx context.Context, room *models.Room) error {
	const q = `INSERT INTO waiting_rooms (id, title, markdown, opens_at, closes_at, published, event_choices, desktop_image_blob, mobile_image_blob, owner_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, room.Title, room.Markdown, room.OpensAt, room.ClosesAt,
		room.Published, room.EventChoices, room.DesktopImageBlob, room.MobileImageBlob, room.OwnerID).
		Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID returns a waiting room by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM waiting_rooms WHERE id = $1`
	var room models.Room
	if err := scanRoom(r.pool.QueryRow(ctx, q, id), &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListByOwner returns all waiting rooms owned by ownerID, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]models.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM waiting_rooms WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Room
	for rows.Next() {
		var room models.Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, err
		}
		list = append(list, room)
	}
	return list, rows.Err()
}

// Update replaces the editable room fields wholesale.
func (r *Repository) Update(ctx context.Context, room *models.Room) error {
	const q = `UPDATE waiting_rooms
		SET title = $1, markdown = $2, opens_at = $3, closes_at = $4, event_choices = $5,
			desktop_image_blob = $6, mobile_image_blob = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING published, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, room.Title, room.Markdown, room.OpensAt, room.ClosesAt,
		room.EventChoices, room.DesktopImageBlob, room.MobileImageBlob, room.ID).
		Scan(&room.Published, &room.CreatedAt, &room.UpdatedAt)
}

// SetPublished flips the publish state and returns the updated room.
func (r *Repository) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*models.Room, error) {
	const q = `UPDATE waiting_rooms SET published = $1, updated_at = NOW() WHERE id = $2
		RETURNING ` + roomColumns
	var room models.Room
	if err := scanRoom(r.pool.QueryRow(ctx, q, published, id), &room); err != nil {
		return nil, err
	}
	return &room, nil
}
