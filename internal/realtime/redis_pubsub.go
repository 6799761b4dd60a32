package realtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPubSub implements RedisPublisher and RedisSubscriber over go-redis.
type RedisPubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPubSub creates the pub/sub bridge.
func NewRedisPubSub(client *redis.Client, logger *zap.Logger) *RedisPubSub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPubSub{client: client, logger: logger}
}

func roomChannel(roomID uuid.UUID) string {
	return "room:stats:" + roomID.String()
}

// PublishRoomCount publishes a count event to the room's channel.
func (p *RedisPubSub) PublishRoomCount(roomID uuid.UUID, payload []byte) error {
	return p.client.Publish(context.Background(), roomChannel(roomID), payload).Err()
}

// SubscribeRoom subscribes to the room's channel. The returned cancel closes
// the subscription and stops the reader goroutine.
func (p *RedisPubSub) SubscribeRoom(roomID uuid.UUID, handler func(payload []byte)) (func(), error) {
	sub := p.client.Subscribe(context.Background(), roomChannel(roomID))
	if _, err := sub.Receive(context.Background()); err != nil {
		_ = sub.Close()
		return nil, err
	}
	ch := sub.Channel()
	go func() {
		for msg := range ch {
			handler([]byte(msg.Payload))
		}
	}()
	return func() {
		if err := sub.Close(); err != nil {
			p.logger.Warn("pubsub close failed", zap.Error(err), zap.String("room_id", roomID.String()))
		}
	}, nil
}
