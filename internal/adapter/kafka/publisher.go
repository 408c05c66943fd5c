// Package kafka publishes alert events to a Kafka topic for downstream
// consumers (notification fan-out, dashboards). Publishing is optional and
// best-effort; the service runs fine without a broker.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/fieldwatch/pest-alert-service/internal/domain"
)

// AlertEvent is the wire format published to the alert topic.
type AlertEvent struct {
	EventID   string    `json:"event_id"`
	AlertID   uint      `json:"alert_id"`
	FarmID    uint      `json:"farm_id"`
	FarmName  string    `json:"farm_name"`
	Message   string    `json:"message"`
	Risks     []string  `json:"risks"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher produces alert events to a Kafka topic.
// It implements checker.AlertPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the alert topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishAlert serializes and publishes one alert event, keyed by farm ID so
// alerts for the same farm stay ordered within a partition.
func (p *Publisher) PublishAlert(ctx context.Context, farm domain.Farm, alert domain.Alert, risks []string) error {
	msg, err := serializeToMessage(farm, alert, risks)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an alert into a Kafka message.
func serializeToMessage(farm domain.Farm, alert domain.Alert, risks []string) (kafkago.Message, error) {
	event := AlertEvent{
		EventID:   uuid.NewString(),
		AlertID:   alert.ID,
		FarmID:    farm.ID,
		FarmName:  farm.Name,
		Message:   alert.Message,
		Risks:     risks,
		Timestamp: alert.Timestamp,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatUint(uint64(farm.ID), 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "farm_id", Value: []byte(strconv.FormatUint(uint64(farm.ID), 10))},
			{Key: "created_at", Value: []byte(alert.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
