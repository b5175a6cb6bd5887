package minio

import (
	"MotifFinderSampler/backend/go/internal/config"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	client  *minio.Client
	once    sync.Once
	initErr error
)

// GetClient 以单例方式创建 MinIO 客户端，并确保报告存储桶存在。
// assembly 存储桶由上游写入，这里只检查它是否可访问。
func GetClient(cfg *config.MinIOConfig) (*minio.Client, error) {
	once.Do(func() {
		c, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.Secure,
		})
		if err != nil {
			initErr = fmt.Errorf("无法创建 MinIO 客户端: %w", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := ensureBucket(ctx, c, cfg.Bucket); err != nil {
			initErr = err
			return
		}
		if cfg.AssemblyBucket != "" {
			ok, err := c.BucketExists(ctx, cfg.AssemblyBucket)
			if err != nil {
				initErr = fmt.Errorf("检查 assembly 存储桶失败: %w", err)
				return
			}
			if !ok {
				log.Printf("⚠️ assembly 存储桶 '%s' 不存在，背景模型将无法从基因组构建", cfg.AssemblyBucket)
			}
		}

		log.Println("✅ 成功连接到 MinIO!")
		client = c
	})

	return client, initErr
}

func ensureBucket(ctx context.Context, c *minio.Client, bucket string) error {
	if bucket == "" {
		return fmt.Errorf("未配置 MinIO 存储桶")
	}
	ok, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 '%s' 失败: %w", bucket, err)
	}
	if ok {
		return nil
	}
	if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("创建存储桶 '%s' 失败: %w", bucket, err)
	}
	log.Printf("已创建存储桶 '%s'", bucket)
	return nil
}

// HealthCheck 通过列出存储桶验证连接和认证。
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("MinIO 客户端未初始化")
	}
	if _, err := client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("MinIO 健康检查失败: %w", err)
	}
	return nil
}
