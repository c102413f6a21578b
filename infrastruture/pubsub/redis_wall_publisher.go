package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix      = "maze"
	wallsChannelKeyFmt = "%s:%s:walls"
)

// RedisWallPublisher publishes wall events on a per-session Redis channel.
type RedisWallPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisWallPublisher creates a publisher. An empty prefix falls back to "maze".
func NewRedisWallPublisher(client *redis.Client, prefix string) *RedisWallPublisher {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisWallPublisher{
		client: client,
		prefix: prefix,
	}
}

// Publish sends the event as JSON to the session's channel.
func (p *RedisWallPublisher) Publish(ctx context.Context, event i.WallEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.Channel(event.SessionID), payload).Err()
}

// Subscribe listens for wall events of one session until ctx is cancelled.
// Malformed messages are skipped.
func (p *RedisWallPublisher) Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan i.WallEvent, error) {
	sub := p.client.Subscribe(ctx, p.Channel(sessionID))
	// Wait for the subscription to be confirmed so no event is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	events := make(chan i.WallEvent)
	go func() {
		defer close(events)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event i.WallEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

// Channel returns the channel name wall events of a session are published on.
func (p *RedisWallPublisher) Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf(wallsChannelKeyFmt, p.prefix, sessionID)
}
