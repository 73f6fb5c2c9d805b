package mirror

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

// Writer abstracts the kafka producer for deterministic tests.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ Sink = (*KafkaSink)(nil)

// KafkaSink streams ticks to a topic, keyed by symbol so per-symbol order
// survives partitioning.
type KafkaSink struct {
	writer Writer
}

func NewKafkaSink(writer Writer) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// NewKafkaWriter builds a producer tuned for a steady tick stream: batched,
// async writes to keep the hub's publish path non-blocking.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}
}

func (s *KafkaSink) PublishTick(ctx context.Context, tick models.PriceTick) error {
	payload, err := json.Marshal(tick)
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(tick.Symbol), // Key ensures partition ordering
		Value: payload,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
