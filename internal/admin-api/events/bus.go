package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const channel = "admin:changes"

// Event describes one entity change in the admin store.
type Event struct {
	Entity string    `json:"entity"` // book, category, coupon, user, notification
	Action string    `json:"action"` // created, updated, deleted
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

// Bus fans entity-change events out over Redis pub/sub. List views watch
// the feed and must release their subscription when they go away.
type Bus struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewBus(rdb *redis.Client, logger *slog.Logger) *Bus {
	return &Bus{rdb: rdb, logger: logger}
}

// Publish is best-effort: a publish failure is logged, never propagated to
// the write that triggered it.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if b == nil || b.rdb == nil {
		// No-op for testing/mock mode
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		b.logger.Error("marshal change event", "error", err)
		return
	}
	if err := b.rdb.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("publish change event", "entity", e.Entity, "error", err)
	}
}

// Subscribe returns a channel of events plus an unsubscribe func. The caller
// owns the subscription and must invoke unsubscribe on teardown.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	out := make(chan Event, 16)

	if b == nil || b.rdb == nil {
		close(out)
		return out, func() {}
	}

	pubsub := b.rdb.Subscribe(ctx, channel)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				b.logger.Warn("drop malformed change event", "error", err)
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() {
		if err := pubsub.Close(); err != nil {
			b.logger.Warn("close change subscription", "error", err)
		}
	}
}
