package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// StatusOK 是健康后端在状态表中的值。
const StatusOK = "ok"

// ErrUnhealthy 表示至少一个后端健康检查失败。
var ErrUnhealthy = errors.New("backend unhealthy")

// HealthCheck 检查一个后端连接是否可用，例如 mongo.HealthCheck。
type HealthCheck func(ctx context.Context) error

// Checks 按后端名称组织健康检查。
type Checks map[string]HealthCheck

// Run 按名称顺序运行所有检查，返回 名称 -> 状态 的映射（StatusOK 或错误信息）。
// 任一检查失败时返回包装了 ErrUnhealthy 的错误。
func (c Checks) Run(ctx context.Context) (map[string]string, error) {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(c))
	var failed []string
	for _, name := range names {
		if err := c[name](ctx); err != nil {
			status[name] = err.Error()
			failed = append(failed, name+": "+err.Error())
			continue
		}
		status[name] = StatusOK
	}
	if len(failed) > 0 {
		return status, fmt.Errorf("%w: %s", ErrUnhealthy, strings.Join(failed, "; "))
	}
	return status, nil
}
