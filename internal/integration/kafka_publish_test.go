//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/exoplanet-habitability/internal/adapter/kafka"
	"github.com/couchcryptid/exoplanet-habitability/internal/config"
	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

const testTopic = "habitability-scores-test"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("habitability-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func fptr(v float64) *float64 { return &v }

// TestPublishScoredRecord verifies the publisher end to end: a scored record
// written through the adapter arrives on the topic with its key, headers, and
// full JSON payload intact.
func TestPublishScoredRecord(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	record := domain.PlanetRecord{
		ID:         "exo-0011aabbccddeeff",
		Name:       "Kepler-452 b",
		Query:      "Kepler-452 b",
		SearchType: "name",
		PhysicalParams: domain.PhysicalParams{
			Mass:   fptr(5.0),
			Radius: fptr(1.63),
		},
		Habitability: &domain.HabitabilityScore{
			TotalScore:     78.5,
			SurvivalChance: 86.3,
			Category:       domain.CategoryPromising,
		},
		SourcesUsed: []string{"NASA Exoplanet Archive"},
		Timestamp:   time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.Publish(ctx, record))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read published record")

	assert.Equal(t, record.ID, string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, domain.CategoryPromising, headers["category"])
	_, err = time.Parse(time.RFC3339, headers["computed_at"])
	assert.NoError(t, err, "computed_at should be valid RFC3339")

	var got domain.PlanetRecord
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, record.Name, got.Name)
	require.NotNil(t, got.Habitability)
	assert.Equal(t, 78.5, got.Habitability.TotalScore)
	assert.Equal(t, 86.3, got.Habitability.SurvivalChance)
	require.NotNil(t, got.PhysicalParams.Mass)
	assert.Equal(t, 5.0, *got.PhysicalParams.Mass)
}
