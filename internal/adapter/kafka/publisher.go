// Package kafka publishes freshly fetched weather snapshots to a topic for
// downstream consumers (analytics, alerting). Fan-out is best-effort: the
// aggregator logs failures and keeps serving.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/config"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
)

// Publisher produces snapshot messages to the configured Kafka topic.
// It implements weather.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the snapshot topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one snapshot and writes it to the topic, keyed by the
// normalized location key so per-location ordering is preserved.
func (p *Publisher) Publish(ctx context.Context, key string, data domain.WeatherData) error {
	msg, err := serializeSnapshot(key, data)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeSnapshot marshals a WeatherData into a Kafka message.
func serializeSnapshot(key string, data domain.WeatherData) (kafkago.Message, error) {
	value, err := json.Marshal(data)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "location_key", Value: []byte(key)},
			{Key: "fetched_at", Value: []byte(data.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
