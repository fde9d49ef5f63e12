package realtime

import (
	"context"
	"encoding/json"
	"time"

	"courtbook/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Channel carries slot occupancy changes so clients can refresh their
// catalogs promptly. Purely advisory; correctness never depends on it.
const Channel = "slots:changed"

type SlotEvent struct {
	ResourceID int       `json:"resource_id"`
	Date       string    `json:"date"`
	At         time.Time `json:"at"`
}

type Publisher struct {
	redis *redis.Client
}

func NewPublisher(redisAddr string) *Publisher {
	return &Publisher{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

// SlotChanged publishes best effort; a failed publish only delays a
// client refresh until its next poll.
func (p *Publisher) SlotChanged(ctx context.Context, resourceID int, date time.Time) {
	event := SlotEvent{
		ResourceID: resourceID,
		Date:       date.Format("2006-01-02"),
		At:         time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Failed to marshal slot event: %v", err)
		return
	}

	if err := p.redis.Publish(ctx, Channel, data).Err(); err != nil {
		logger.Errorf("Failed to publish slot change for resource %d: %v", resourceID, err)
	}
}

// Subscribe hands back the raw pubsub so a websocket/SSE layer can
// fan events out to clients.
func (p *Publisher) Subscribe(ctx context.Context) *redis.PubSub {
	return p.redis.Subscribe(ctx, Channel)
}

func (p *Publisher) Close() error {
	return p.redis.Close()
}
