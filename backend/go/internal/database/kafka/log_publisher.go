package kafka

import (
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter 是 *kafka.Writer 中发布消息所需的部分。
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// LogPublisher 把任务进度写入日志主题，以任务 ID 作为消息 key。
type LogPublisher struct {
	writer MessageWriter
}

// NewLogPublisher 创建写入 topic 的 LogPublisher。
func NewLogPublisher(client *KafkaClient, topic string) *LogPublisher {
	return &LogPublisher{writer: client.NewWriter(topic)}
}

// NewLogPublisherWithWriter 使用给定的 writer，便于测试。
func NewLogPublisherWithWriter(w MessageWriter) *LogPublisher {
	return &LogPublisher{writer: w}
}

// LogTaskProgress 将 TaskLogEntry 序列化为 JSON 并发送。未设置时间戳时补上当前时间。
func (p *LogPublisher) LogTaskProgress(ctx context.Context, entry *models.TaskLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.TaskID),
		Value: data,
	}); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

// Close 关闭底层 writer。
func (p *LogPublisher) Close() error {
	return p.writer.Close()
}
