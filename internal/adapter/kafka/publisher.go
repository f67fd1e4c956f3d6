// Package kafka publishes scored planet records to a Kafka topic so
// downstream consumers (catalog builders, alerting on Earth-like finds) see
// every search result. Publishing is optional infrastructure.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/exoplanet-habitability/internal/config"
	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

// Publisher produces scored records to the configured topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the scored-records topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and produces one scored record.
func (p *Publisher) Publish(ctx context.Context, record domain.PlanetRecord) error {
	msg, err := serializeToMessage(record)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a PlanetRecord into a Kafka message. The record
// ID keys the message so repeated searches of one planet land in one
// partition.
func serializeToMessage(record domain.PlanetRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize planet record: %w", err)
	}

	category := ""
	if record.Habitability != nil {
		category = record.Habitability.Category
	}

	return kafkago.Message{
		Key:   []byte(record.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(category)},
			{Key: "computed_at", Value: []byte(record.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
