// Package store 包含服务依赖的各个存储适配器：对象注册表 (MySQL)、
// 对象文档 (MongoDB)、报告与原始输出 (MinIO) 以及工作目录锁 (Redis)。
package store

import "errors"

var (
	// ErrNotFound 表示请求的对象不存在。
	ErrNotFound = errors.New("object not found")
	// ErrLocked 表示工作目录正被其他任务占用。
	ErrLocked = errors.New("work directory is locked")
)
