//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/fieldwatch/pest-alert-service/internal/adapter/kafka"
	"github.com/fieldwatch/pest-alert-service/internal/domain"
)

const testAlertTopic = "test-pest-alerts"

// startKafka launches a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPublisherRoundTrip verifies that a published alert event arrives on the
// alert topic with the expected key, headers, and payload.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	publisher := kafkaadapter.NewPublisher([]string{broker}, testAlertTopic, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	ts := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	farm := domain.Farm{ID: 7, Name: "Farm A", Latitude: 10, Longitude: 20}
	alert := domain.Alert{
		ID:        42,
		FarmID:    7,
		Message:   domain.AlertMessage("Farm A", []string{domain.RiskAphids}),
		Timestamp: ts,
	}

	// Retry the first write: the freshly created topic may still be
	// propagating metadata when the producer connects.
	var publishErr error
	for attempt := 0; attempt < 5; attempt++ {
		publishErr = publisher.PublishAlert(ctx, farm, alert, []string{domain.RiskAphids})
		if publishErr == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	require.NoError(t, publishErr)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	assert.Equal(t, []byte("7"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "7", headers["farm_id"])
	assert.Equal(t, ts.Format(time.RFC3339), headers["created_at"])

	var event kafkaadapter.AlertEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, uint(42), event.AlertID)
	assert.Equal(t, uint(7), event.FarmID)
	assert.Equal(t, "Farm A", event.FarmName)
	assert.Equal(t, []string{domain.RiskAphids}, event.Risks)
	assert.NotEmpty(t, event.EventID)
}
