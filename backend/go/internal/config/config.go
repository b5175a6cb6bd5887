package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// DefaultPath 是未设置 SAMPLER_CONFIG 环境变量时使用的配置文件路径。
const DefaultPath = "config.yaml"

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// MinIOConfig 定义了 MinIO 对象存储的连接配置。
type MinIOConfig struct {
	Endpoint       string `yaml:"endpoint"`       // MinIO 服务端点
	AccessKey      string `yaml:"accessKey"`      // 访问密钥
	SecretKey      string `yaml:"secretKey"`      // Secret 密钥
	Bucket         string `yaml:"bucket"`         // 报告和原始输出所在的存储桶
	AssemblyBucket string `yaml:"assemblyBucket"` // 基因组 assembly FASTA 所在的存储桶
	Secure         bool   `yaml:"secure"`         // 是否使用HTTPS
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Address  string `yaml:"address"`  // MongoDB 服务器地址
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// EtcdConfig 定义了 Etcd 服务发现的连接配置。
type EtcdConfig struct {
	Endpoints []string `yaml:"endpoints"` // Etcd 节点地址列表
	LeaseTTL  int64    `yaml:"leaseTTL"`  // 服务注册租约 (秒)
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
	Topics  []string `yaml:"topics"`  // 启动时需要确保存在的主题
}

// DatabaseConfigs 包含所有存储后端的配置。
type DatabaseConfigs struct {
	Redis   RedisConfig `yaml:"redis"`
	MySQL   MySQLConfig `yaml:"mysql"`
	MinIO   MinIOConfig `yaml:"minio"`
	MongoDB MongoConfig `yaml:"mongodb"`
	Etcd    EtcdConfig  `yaml:"etcd"`
	Kafka   KafkaConfig `yaml:"kafka"`
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name          string `yaml:"name"`
	Version       string `yaml:"version"`
	GitURL        string `yaml:"gitURL"`
	GitCommitHash string `yaml:"gitCommitHash"`
	Environment   string `yaml:"environment"`
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// SamplerConfig 定义了外部 motif 发现工具及工作目录的配置。
type SamplerConfig struct {
	BinDir           string   `yaml:"binDir"`                // MotifSampler 与 CreateBackgroundModel 所在目录
	WorkDir          string   `yaml:"workDir"`               // 临时工作目录
	ScratchDir       string   `yaml:"scratchDir"`            // HTML 报告目录的父目录
	MotifLength      int      `yaml:"motifLength"`           // 默认 motif 宽度
	NumMotifs        int      `yaml:"numMotifs"`             // -n，每条序列期望的 motif 数，0 表示使用工具默认值
	NumRuns          int      `yaml:"numRuns"`               // -r，重复运行次数，0 表示使用工具默认值
	BackgroundOrder  int      `yaml:"backgroundOrder"`       // CreateBackgroundModel 的 -o，0 表示使用工具默认值
	Timeout          string   `yaml:"timeout"`               // 单次工具调用超时，例如 "30m"
	ArchivePatterns  []string `yaml:"archivePatterns"`       // 需要归档上传的原始输出文件 glob
	TestGenomePath   string   `yaml:"testGenomePath"`        // TESTFLAG 模式下使用的本地基因组 FASTA
	SequenceSetColl  string   `yaml:"sequenceSetCollection"` // 序列集集合名
	MotifSetColl     string   `yaml:"motifSetCollection"`    // MotifSet 集合名
	ReportColl       string   `yaml:"reportCollection"`      // 报告集合名
	LockTTL          string   `yaml:"lockTTL"`               // 工作目录锁的过期时间
	HTMLWindowHeight int      `yaml:"htmlWindowHeight"`      // 报告 HTML 窗口高度
	DefaultCondition string   `yaml:"defaultCondition"`      // MotifSet 的默认条件标签
	WorkerAddress    string   `yaml:"workerAddress"`         // 注册到 etcd 的 worker 标识
}

// JobServiceConfig 定义了任务接入服务的配置。
type JobServiceConfig struct {
	ServerAddress     string `yaml:"serverAddress"`
	MongoCollection   string `yaml:"mongoCollection"`
	KafkaJobsTopic    string `yaml:"kafkaJobsTopic"`
	KafkaResultsTopic string `yaml:"kafkaResultsTopic"`
	KafkaLogsTopic    string `yaml:"kafkaLogsTopic"`
	ConsumerGroup     string `yaml:"consumerGroup"`     // worker 消费任务的消费组
	ResultsGroup      string `yaml:"resultsGroup"`      // API 消费结果和日志的消费组
	MotifSetCacheSize int    `yaml:"motifSetCacheSize"` // 内存中缓存的 MotifSet 数量
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter RateLimiterConfig `yaml:"rateLimiter"`
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Algorithm   string            `yaml:"algorithm"` // 支持: "fixedWindow", "tokenBucket"
	FixedWindow FixedWindowConfig `yaml:"fixedWindow"`
	TokenBucket TokenBucketConfig `yaml:"tokenBucket"`
}

// FixedWindowConfig 定义了固定窗口计数器算法的配置。
type FixedWindowConfig struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"` // 例如: "1m", "30s"
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Logger     LoggerConfig     `yaml:"logger"`
	Databases  DatabaseConfigs  `yaml:"databases"`
	Sampler    SamplerConfig    `yaml:"sampler"`
	JobService JobServiceConfig `yaml:"jobService"`
	Middleware MiddlewareConfig `yaml:"middleware"`
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件，并为未设置的字段填充默认值。
//
// 参数:
//
//	path: YAML 配置文件的路径。为空时依次尝试 SAMPLER_CONFIG 环境变量和 DefaultPath。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	if path == "" {
		path = os.Getenv("SAMPLER_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults 为缺省字段填充默认值。
func (c *AppConfig) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "MotifFinderSampler"
	}
	if c.App.Version == "" {
		c.App.Version = "0.0.1"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	s := &c.Sampler
	if s.BinDir == "" {
		s.BinDir = "/kb/module/deps/kb_sampler"
	}
	if s.WorkDir == "" {
		s.WorkDir = "/kb/module/work/tmp"
	}
	if s.ScratchDir == "" {
		s.ScratchDir = s.WorkDir
	}
	if s.MotifLength == 0 {
		s.MotifLength = 8
	}
	if s.Timeout == "" {
		s.Timeout = "1h"
	}
	if len(s.ArchivePatterns) == 0 {
		s.ArchivePatterns = []string{"SeqSet.*", "sampler_obj.txt"}
	}
	if s.SequenceSetColl == "" {
		s.SequenceSetColl = "sequence_sets"
	}
	if s.MotifSetColl == "" {
		s.MotifSetColl = "motif_sets"
	}
	if s.ReportColl == "" {
		s.ReportColl = "reports"
	}
	if s.LockTTL == "" {
		s.LockTTL = "2h"
	}
	if s.HTMLWindowHeight == 0 {
		s.HTMLWindowHeight = 220
	}
	if s.DefaultCondition == "" {
		s.DefaultCondition = "temp"
	}
	j := &c.JobService
	if j.ServerAddress == "" {
		j.ServerAddress = ":8081"
	}
	if j.MongoCollection == "" {
		j.MongoCollection = "sampler_jobs"
	}
	if j.KafkaJobsTopic == "" {
		j.KafkaJobsTopic = "sampler_jobs"
	}
	if j.KafkaResultsTopic == "" {
		j.KafkaResultsTopic = "sampler_results"
	}
	if j.KafkaLogsTopic == "" {
		j.KafkaLogsTopic = "sampler_logs"
	}
	if j.ConsumerGroup == "" {
		j.ConsumerGroup = "sampler-worker-group"
	}
	if j.ResultsGroup == "" {
		j.ResultsGroup = "sampler-api-group"
	}
	if j.MotifSetCacheSize == 0 {
		j.MotifSetCacheSize = 128
	}
	if c.Databases.Etcd.LeaseTTL == 0 {
		c.Databases.Etcd.LeaseTTL = 10
	}
}
