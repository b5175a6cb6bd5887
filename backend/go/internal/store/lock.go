package store

import (
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript 只在锁仍属于调用方时删除它。
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// WorkdirLock 用 Redis 锁住共享的工作目录。工具的输出文件名是固定的，
// 同一目录下同时只能有一个任务在运行。
type WorkdirLock struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewWorkdirLock 创建 WorkdirLock。ttl 是锁的最长持有时间，释放失败时写入 log。
func NewWorkdirLock(client *redis.Client, ttl time.Duration, log *logger.Logger) *WorkdirLock {
	return &WorkdirLock{client: client, ttl: ttl, logger: log}
}

// LockKey 返回目录对应的 Redis key。
func LockKey(dir string) string {
	return "sampler:workdir:" + dir
}

// Acquire 尝试锁住 dir。锁已被占用时返回 ErrLocked。
// 返回的 release 函数可以安全地多次调用。
func (l *WorkdirLock) Acquire(ctx context.Context, dir string) (func(), error) {
	key := LockKey(dir)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrLocked)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		deleted, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
		log := l.logger.WithPayload(map[string]interface{}{"key": key, "ttl": l.ttl.String()})
		switch {
		case err != nil:
			log.WithError(models.ErrorInfo{Message: err.Error(), Type: "lock_release"}).Warn("Failed to release work directory lock")
		case deleted == 0:
			log.Warn("Work directory lock expired before release")
		}
	}, nil
}
