package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/waitingroom/backend/internal/models"
)

// CacheTTL is how long a room read stays cached. Published rooms rarely
// change; organizer edits invalidate explicitly so the registration gate
// tracks them without waiting out the TTL.
const CacheTTL = 5 * time.Minute

// ErrRoomNotFound is returned when no room exists for the given id.
var ErrRoomNotFound = errors.New("waiting room not found")

// cachedRoom mirrors models.Room for cache serialization; the API-facing
// struct hides owner_id from JSON, the cache must not.
type cachedRoom struct {
	models.Room
	OwnerID string `json:"ownerId"`
}

// Cache is a Redis read-through cache in front of the rooms repository. The
// registration hot path hits this instead of Postgres.
type Cache struct {
	repo   *Repository
	client *redis.Client
	logger *zap.Logger
}

// NewCache creates a room read cache. logger may be nil.
func NewCache(repo *Repository, client *redis.Client, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{repo: repo, client: client, logger: logger}
}

func cacheKey(id uuid.UUID) string {
	return "room:" + id.String()
}

// Get returns the room from cache, falling back to the repository and
// populating the cache on miss. Returns ErrRoomNotFound for unknown ids.
func (c *Cache) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	if raw, err := c.client.Get(ctx, cacheKey(id)).Bytes(); err == nil {
		var cached cachedRoom
		if err := json.Unmarshal(raw, &cached); err == nil {
			room := cached.Room
			room.OwnerID = cached.OwnerID
			return &room, nil
		}
		// corrupt entry; fall through to the repository
	} else if err != redis.Nil {
		c.logger.Warn("room cache read failed", zap.Error(err), zap.String("room_id", id.String()))
	}

	room, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	raw, err := json.Marshal(cachedRoom{Room: *room, OwnerID: room.OwnerID})
	if err == nil {
		if err := c.client.Set(ctx, cacheKey(id), raw, CacheTTL).Err(); err != nil {
			c.logger.Warn("room cache write failed", zap.Error(err), zap.String("room_id", id.String()))
		}
	}
	return room, nil
}

// Invalidate drops the cached entry after an organizer edit.
func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn("room cache invalidate failed", zap.Error(err), zap.String("room_id", id.String()))
	}
}
