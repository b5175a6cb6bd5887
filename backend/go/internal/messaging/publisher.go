package messaging

import (
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON messages to one topic.
type Publisher struct {
	writer MessageWriter
	topic  string
	logger *logger.Logger
}

// NewPublisher creates a Publisher writing to topic through writer.
func NewPublisher(writer MessageWriter, topic string, logger *logger.Logger) *Publisher {
	return &Publisher{writer: writer, topic: topic, logger: logger}
}

// Publish marshals value and writes it under key.
func (p *Publisher) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		p.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to marshal message for Kafka")
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data}); err != nil {
		p.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{"topic": p.topic}).Error("Failed to write message to Kafka")
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
