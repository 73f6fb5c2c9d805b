package mirror_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/mirror"
	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

func TestRedisSink_CachesAndPublishes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sink := mirror.NewRedisSink(rdb, time.Hour)
	defer sink.Close()

	ctx := context.Background()
	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()}).Subscribe(ctx, "prices.AAPL")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	tick := models.PriceTick{Symbol: "AAPL", Price: 172.53, Change: 0.42}
	if err := sink.PublishTick(ctx, tick); err != nil {
		t.Fatalf("PublishTick failed: %v", err)
	}

	cached, err := rdb.Get(ctx, "stock:AAPL").Result()
	if err != nil {
		t.Fatalf("Latest tick should be cached: %v", err)
	}
	var got models.PriceTick
	if err := json.Unmarshal([]byte(cached), &got); err != nil {
		t.Fatalf("Cached payload is not a tick: %v", err)
	}
	if got != tick {
		t.Errorf("Cached %+v, want %+v", got, tick)
	}

	select {
	case msg := <-sub.Channel():
		if !strings.Contains(msg.Payload, "172.53") {
			t.Errorf("Published payload %q should carry the price", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No message published on prices.AAPL")
	}
}

type recordingWriter struct {
	messages []kafka.Message
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_WritesKeyedMessage(t *testing.T) {
	writer := &recordingWriter{}
	sink := mirror.NewKafkaSink(writer)

	tick := models.PriceTick{Symbol: "TSLA", Price: 244.8, Change: -0.8}
	if err := sink.PublishTick(context.Background(), tick); err != nil {
		t.Fatalf("PublishTick failed: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("Expected one message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "TSLA" {
		t.Errorf("Message key %q, want TSLA (per-symbol partition ordering)", msg.Key)
	}
	var got models.PriceTick
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("Value is not a tick: %v", err)
	}
	if got != tick {
		t.Errorf("Value %+v, want %+v", got, tick)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !writer.closed {
		t.Errorf("Close should close the writer")
	}
}
