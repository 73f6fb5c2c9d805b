package mirror

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

const (
	keyPrefix     = "stock:"
	channelPrefix = "prices."
)

// Compile-time check to ensure RedisSink implements Sink
var _ Sink = (*RedisSink)(nil)

// RedisSink caches the latest tick per symbol and publishes it on the
// symbol's channel, both in a single pipeline so readers never observe the
// key without the notification.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSink(client *redis.Client, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, ttl: ttl}
}

func (s *RedisSink) PublishTick(ctx context.Context, tick models.PriceTick) error {
	payload, err := json.Marshal(tick)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, keyPrefix+tick.Symbol, payload, s.ttl) // TTL prevents unbounded memory growth
	pipe.Publish(ctx, channelPrefix+tick.Symbol, payload)

	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
