package main

import (
	"MotifFinderSampler/backend/go/internal/config"
	"MotifFinderSampler/backend/go/internal/database/kafka"
	"MotifFinderSampler/backend/go/internal/database/minio"
	"MotifFinderSampler/backend/go/internal/database/mongo"
	"MotifFinderSampler/backend/go/internal/database/mysql"
	"MotifFinderSampler/backend/go/internal/database/redis"
	"MotifFinderSampler/backend/go/internal/discovery/etcd"
	"MotifFinderSampler/backend/go/internal/messaging"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/sampler"
	"MotifFinderSampler/backend/go/internal/sampler_service/service"
	"MotifFinderSampler/backend/go/internal/sampler_service/worker"
	"MotifFinderSampler/backend/go/internal/store"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logLevel, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		log.Fatalf("Invalid logger level: %v", err)
	}
	logger.Init(logLevel)
	workerLogger := logger.New("SamplerWorker", "", "")

	timeout, err := time.ParseDuration(cfg.Sampler.Timeout)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Invalid sampler timeout")
	}
	lockTTL, err := time.ParseDuration(cfg.Sampler.LockTTL)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Invalid work directory lock TTL")
	}

	// Storage backends
	mongoDB, err := mongo.GetDatabase(&cfg.Databases.MongoDB)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to MongoDB")
	}
	registryDB, err := mysql.GetDB(&cfg.Databases.MySQL, store.RegistryModels()...)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to MySQL")
	}
	minioClient, err := minio.GetClient(&cfg.Databases.MinIO)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to MinIO")
	}
	redisClient, err := redis.GetClient(&cfg.Databases.Redis)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to Redis")
	}
	kafkaClient, err := kafka.GetClient(&cfg.Databases.Kafka)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to Kafka")
	}

	workspace := store.NewWorkspaceStore(store.NewGormRegistry(registryDB), mongoDB, store.Collections(&cfg.Sampler))
	artifacts := store.NewArtifactStore(minioClient, cfg.Databases.MinIO.Bucket, cfg.Databases.MinIO.AssemblyBucket)
	progress := kafka.NewLogPublisher(kafkaClient, cfg.JobService.KafkaLogsTopic)

	samplerService := service.NewSamplerService(
		service.OptionsFromConfig(cfg),
		sampler.NewExecRunner(timeout, workerLogger),
		workspace,
		artifacts,
		service.WithLocker(store.NewWorkdirLock(redisClient, lockTTL, workerLogger)),
		service.WithProgress(progress),
		service.WithLogger(workerLogger),
	)

	results := messaging.NewPublisher(kafkaClient.NewWriter(cfg.JobService.KafkaResultsTopic), cfg.JobService.KafkaResultsTopic, workerLogger)
	jobs := messaging.NewConsumer(kafkaClient.NewReader(cfg.JobService.KafkaJobsTopic, cfg.JobService.ConsumerGroup), cfg.JobService.KafkaJobsTopic, workerLogger)
	w := worker.NewWorker(samplerService, results, progress, workerLogger)
	w.AddHealthCheck("mongodb", mongo.HealthCheck)
	w.AddHealthCheck("mysql", mysql.HealthCheck)
	w.AddHealthCheck("minio", minio.HealthCheck)
	w.AddHealthCheck("redis", redis.HealthCheck)
	w.AddHealthCheck("kafka", kafkaClient.HealthCheck)

	ctx, cancel := context.WithCancel(context.Background())

	// Register in etcd so the job API can list live workers
	discovery, err := etcd.NewServiceDiscovery(cfg.Databases.Etcd.Endpoints)
	if err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to etcd")
	}
	if err := discovery.Register(ctx, etcd.WorkerService, workerAddress(cfg), cfg.Databases.Etcd.LeaseTTL); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to register worker in etcd")
	}

	done := jobs.Start(ctx, w.HandleJob)
	workerLogger.Info("Sampler worker started, consuming " + cfg.JobService.KafkaJobsTopic)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	workerLogger.Info("Shutting down worker...")

	cancel()
	<-done

	if err := jobs.Close(); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka consumer")
	}
	if err := results.Close(); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka result publisher")
	}
	if err := progress.Close(); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka log publisher")
	}
	if err := kafkaClient.Close(); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka client")
	}
	if err := discovery.Close(); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing etcd client")
	}
	if err := redis.Close(); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Redis")
	}
	if err := mysql.Close(); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing MySQL")
	}
	if err := mongo.Close(context.Background()); err != nil {
		workerLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error disconnecting from MongoDB")
	}

	workerLogger.Info("Worker gracefully stopped")
}

func workerAddress(cfg *config.AppConfig) string {
	if cfg.Sampler.WorkerAddress != "" {
		return cfg.Sampler.WorkerAddress
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}
