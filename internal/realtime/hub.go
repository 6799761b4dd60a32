// Package realtime pushes live registrant counts to organizer dashboards
// over WebSocket, fanned out across server instances via Redis pub/sub.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CountEvent is the payload broadcast when a room gains a registrant.
type CountEvent struct {
	RoomID uuid.UUID `json:"room_id"`
	Count  int       `json:"count"`
}

// RedisPublisher publishes room events for cross-instance fanout.
type RedisPublisher interface {
	PublishRoomCount(roomID uuid.UUID, payload []byte) error
}

// RedisSubscriber subscribes to a room's channel and invokes handler for
// incoming events.
type RedisSubscriber interface {
	SubscribeRoom(roomID uuid.UUID, handler func(payload []byte)) (cancel func(), err error)
}

// Hub maintains room_id -> set of dashboard connections. Counts are
// published to Redis and delivered locally through the per-room
// subscription, so every instance (including the publisher) fans out once.
type Hub struct {
	rooms  map[uuid.UUID]map[string]*Client
	subs   map[uuid.UUID]func()
	mu     sync.RWMutex
	logger *zap.Logger
	pub    RedisPublisher
	sub    RedisSubscriber
}

// NewHub creates a stats hub. pub and sub may be nil for single-instance
// deployments; broadcasts then stay local.
func NewHub(logger *zap.Logger, pub RedisPublisher, sub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:  make(map[uuid.UUID]map[string]*Client),
		subs:   make(map[uuid.UUID]func()),
		logger: logger,
		pub:    pub,
		sub:    sub,
	}
}

// Register adds a client to a room. Starts the Redis subscription for the
// room when the first client joins.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.RoomID] == nil {
		h.rooms[c.RoomID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeRoom(c.RoomID, func(payload []byte) {
				h.deliver(c.RoomID, payload)
			})
			if err == nil {
				h.subs[c.RoomID] = cancel
			} else {
				h.logger.Warn("room subscription failed", zap.Error(err), zap.String("room_id", c.RoomID.String()))
			}
		}
	}
	h.rooms[c.RoomID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("dashboard client joined", zap.String("client_id", c.ID), zap.String("room_id", c.RoomID.String()))
}

// Unregister removes a client. Cancels the Redis subscription when the last
// client for the room leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.RoomID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.rooms, c.RoomID)
			if cancel, ok := h.subs[c.RoomID]; ok {
				cancel()
				delete(h.subs, c.RoomID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("dashboard client left", zap.String("client_id", c.ID), zap.String("room_id", c.RoomID.String()))
}

// BroadcastCount announces a new registrant count for a room. With Redis
// configured the event travels through pub/sub so all instances deliver it;
// without, it is delivered locally.
func (h *Hub) BroadcastCount(roomID uuid.UUID, count int) {
	payload, err := json.Marshal(CountEvent{RoomID: roomID, Count: count})
	if err != nil {
		return
	}
	if h.pub != nil {
		if err := h.pub.PublishRoomCount(roomID, payload); err == nil {
			return
		}
		h.logger.Warn("redis publish failed, delivering locally", zap.String("room_id", roomID.String()))
	}
	h.deliver(roomID, payload)
}

// deliver sends the event to all local clients of the room.
func (h *Hub) deliver(roomID uuid.UUID, payload []byte) {
	msg := WSMessage{Event: "registrants_count", Data: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomID] {
		select {
		case c.send <- msg:
		default:
			// slow consumer; drop the update rather than block the hub
		}
	}
}
