package kafka

import (
	"MotifFinderSampler/backend/go/internal/config"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaClient 持有管理连接和 broker 配置，按主题创建 reader / writer。
type KafkaClient struct {
	Conn   *kafka.Conn
	Config *config.KafkaConfig
}

var (
	client  *KafkaClient
	once    sync.Once
	initErr error
)

// GetClient 以单例方式连接 Kafka，并创建配置中缺失的主题。
func GetClient(cfg *config.KafkaConfig) (*KafkaClient, error) {
	once.Do(func() {
		if len(cfg.Brokers) == 0 {
			initErr = fmt.Errorf("未配置 Kafka brokers")
			return
		}

		conn, err := kafka.Dial("tcp", cfg.Brokers[0])
		if err != nil {
			initErr = fmt.Errorf("kafka 初始化连接失败: %w", err)
			return
		}

		if err := ensureTopics(conn, cfg.Topics); err != nil {
			initErr = err
			conn.Close()
			return
		}

		log.Println("✅ 成功初始化 Kafka 客户端!")
		client = &KafkaClient{Conn: conn, Config: cfg}
	})

	return client, initErr
}

func ensureTopics(conn *kafka.Conn, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("无法读取 Kafka 分区信息: %w", err)
	}
	existing := make(map[string]struct{}, len(partitions))
	for _, p := range partitions {
		existing[p.Topic] = struct{}{}
	}

	var create []kafka.TopicConfig
	for _, name := range topics {
		if _, ok := existing[name]; ok {
			continue
		}
		log.Printf("主题 '%s' 不存在，准备创建...", name)
		create = append(create, kafka.TopicConfig{
			Topic:             name,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
	}
	if len(create) == 0 {
		return nil
	}
	if err := conn.CreateTopics(create...); err != nil {
		return fmt.Errorf("自动创建 Kafka 主题失败: %w", err)
	}
	log.Printf("成功创建 %d 个 Kafka 主题。", len(create))
	return nil
}

// NewWriter 创建写入 topic 的 writer，调用方负责关闭。
func (c *KafkaClient) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Config.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
}

// NewReader 创建属于 groupID 的 topic 消费者，调用方负责关闭。
func (c *KafkaClient) NewReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.Config.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		MaxAttempts: 10,
		Dialer: &kafka.Dialer{
			Timeout: 10 * time.Second,
		},
	})
}

// Close 关闭管理连接。
func (c *KafkaClient) Close() error {
	if c == nil || c.Conn == nil {
		return nil
	}
	if err := c.Conn.Close(); err != nil {
		return fmt.Errorf("关闭 Kafka 管理连接失败: %w", err)
	}
	return nil
}

// HealthCheck 通过查询 controller 检查 Kafka 是否可用。
func (c *KafkaClient) HealthCheck(ctx context.Context) error {
	if c == nil || c.Conn == nil {
		return fmt.Errorf("kafka 客户端未初始化，无法进行健康检查")
	}
	if deadline, ok := ctx.Deadline(); ok {
		c.Conn.SetDeadline(deadline)
		defer c.Conn.SetDeadline(time.Time{})
	}
	_, err := c.Conn.Controller()
	return err
}
