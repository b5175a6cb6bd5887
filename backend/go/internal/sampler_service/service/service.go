package service

import (
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/sampler"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"
	"errors"
	"time"
)

// ErrInvalidParams 表示方法参数缺失或不合法。
var ErrInvalidParams = errors.New("invalid parameters")

// Workspace 保存和读取带版本的对象。
type Workspace interface {
	SaveObject(ctx context.Context, workspace, name, typ string, data interface{}) (models.ObjectInfo, error)
	GetObject(ctx context.Context, typ, ref string, out interface{}) (models.ObjectInfo, error)
}

// Artifacts 负责基因组下载和报告文件上传。
type Artifacts interface {
	DownloadAssembly(ctx context.Context, genomeRef, dst string) error
	UploadFile(ctx context.Context, prefix, localPath string) (string, error)
}

// Locker 独占工作目录，返回释放函数。
type Locker interface {
	Acquire(ctx context.Context, dir string) (func(), error)
}

// ProgressPublisher 发布任务进度。
type ProgressPublisher interface {
	LogTaskProgress(ctx context.Context, entry *models.TaskLogEntry) error
}

// SamplerService 实现 motif 发现的全部方法：准备 FASTA、运行外部工具、
// 解析并保存 MotifSet、生成报告。
type SamplerService struct {
	opts      Options
	runner    sampler.Runner
	workspace Workspace
	artifacts Artifacts
	locker    Locker
	progress  ProgressPublisher
	log       *logger.Logger
	now       func() time.Time
}

// Option 配置 SamplerService 的可选依赖。
type Option func(*SamplerService)

// WithLocker 设置工作目录锁。未设置时不加锁。
func WithLocker(l Locker) Option {
	return func(s *SamplerService) { s.locker = l }
}

// WithProgress 设置进度发布器。
func WithProgress(p ProgressPublisher) Option {
	return func(s *SamplerService) { s.progress = p }
}

// WithLogger 设置日志记录器。
func WithLogger(l *logger.Logger) Option {
	return func(s *SamplerService) { s.log = l }
}

// NewSamplerService 创建 SamplerService。
func NewSamplerService(opts Options, runner sampler.Runner, workspace Workspace, artifacts Artifacts, options ...Option) *SamplerService {
	s := &SamplerService{
		opts:      opts,
		runner:    runner,
		workspace: workspace,
		artifacts: artifacts,
		log:       logger.New("sampler_service", "", ""),
		now:       time.Now,
	}
	for _, o := range options {
		o(s)
	}
	if s.opts.MotifLength <= 0 {
		s.opts.MotifLength = 8
	}
	return s
}

type taskIDKey struct{}

// WithTaskID 把任务 ID 放入 ctx，进度事件和日志会带上它。
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey{}, taskID)
}

func taskIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(taskIDKey{}).(string)
	return id
}

// lockWorkdir 独占 Layout.WorkDir。未配置 Locker 时返回空释放函数。
func (s *SamplerService) lockWorkdir(ctx context.Context) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	return s.locker.Acquire(ctx, s.opts.Layout.WorkDir)
}

func (s *SamplerService) taskLogger(ctx context.Context) *logger.Logger {
	return s.log.WithTask(taskIDFrom(ctx))
}

func (s *SamplerService) logProgress(ctx context.Context, status models.TaskLogStatus, message string, content interface{}) {
	if s.progress == nil {
		return
	}
	taskID := taskIDFrom(ctx)
	entry := &models.TaskLogEntry{
		TaskID:    taskID,
		Timestamp: s.now().UTC(),
		Status:    status,
		Message:   message,
		Content:   content,
	}
	if err := s.progress.LogTaskProgress(ctx, entry); err != nil {
		s.taskLogger(ctx).WithError(models.ErrorInfo{Message: err.Error()}).Warn("Failed to publish task progress")
	}
}

// Status 返回服务状态和版本信息。
func (s *SamplerService) Status() StatusOutput {
	return StatusOutput{
		State:         "OK",
		Message:       "",
		Version:       s.opts.Version,
		GitURL:        s.opts.GitURL,
		GitCommitHash: s.opts.GitCommitHash,
	}
}
