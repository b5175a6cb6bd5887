// Package messaging wraps the Kafka reader and writer shared by the job API and the worker.
package messaging

import (
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one message. Errors are logged and the message is still committed.
type Handler func(ctx context.Context, msg kafka.Message) error

// Consumer reads a topic one message at a time.
type Consumer struct {
	reader MessageReader
	logger *logger.Logger
	name   string
}

// NewConsumer creates a Consumer over reader. name is used in log messages.
func NewConsumer(reader MessageReader, name string, logger *logger.Logger) *Consumer {
	return &Consumer{reader: reader, logger: logger, name: name}
}

// Start runs the consume loop in a goroutine until ctx is cancelled.
// The returned channel is closed when the loop exits.
func (c *Consumer) Start(ctx context.Context, handler Handler) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, handler)
	}()
	return done
}

// Run consumes messages until ctx is cancelled. Messages are handled in order
// and committed after the handler returns.
func (c *Consumer) Run(ctx context.Context, handler Handler) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Stopping Kafka consumer for " + c.name)
				return
			}
			c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error fetching message from Kafka")
			continue
		}

		if err := handler(ctx, msg); err != nil {
			c.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
				"topic":     msg.Topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Error("Error handling Kafka message")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to commit Kafka message")
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
