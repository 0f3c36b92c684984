package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/envdata-hub/internal/config"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces computed dashboard reports to a Kafka topic.
// It implements pipeline.ReportPublisher.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured report topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, topic: cfg.KafkaReportTopic, logger: logger}
}

// Publish serializes report as JSON keyed by dashboard, so every report for one
// dashboard lands on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, dashboard string, generatedAt time.Time, report any) error {
	msg, err := reportMessage(dashboard, generatedAt, report)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s report to %s: %w", dashboard, p.topic, err)
	}
	p.logger.Debug("report published", "dashboard", dashboard, "topic", p.topic, "bytes", len(msg.Value))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func reportMessage(dashboard string, generatedAt time.Time, report any) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s report: %w", dashboard, err)
	}
	return kafkago.Message{
		Key:   []byte(dashboard),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dashboard", Value: []byte(dashboard)},
			{Key: "generated_at", Value: []byte(generatedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
