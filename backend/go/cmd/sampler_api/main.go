package main

import (
	"MotifFinderSampler/backend/go/internal/config"
	"MotifFinderSampler/backend/go/internal/database/kafka"
	"MotifFinderSampler/backend/go/internal/database/mongo"
	"MotifFinderSampler/backend/go/internal/database/mysql"
	"MotifFinderSampler/backend/go/internal/discovery/etcd"
	"MotifFinderSampler/backend/go/internal/job_service/api"
	"MotifFinderSampler/backend/go/internal/job_service/service"
	jobstore "MotifFinderSampler/backend/go/internal/job_service/store"
	"MotifFinderSampler/backend/go/internal/messaging"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/store"
	"MotifFinderSampler/backend/go/pkg/httpmiddleware"
	"MotifFinderSampler/backend/go/pkg/logger"
	"MotifFinderSampler/backend/go/pkg/ratelimiter"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
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
	serviceLogger := logger.New("SamplerJobAPI", "", "")

	// Storage backends
	db, err := mongo.GetDatabase(&cfg.Databases.MongoDB)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to MongoDB")
	}
	serviceLogger.Info("Successfully connected to MongoDB")
	registryDB, err := mysql.GetDB(&cfg.Databases.MySQL, store.RegistryModels()...)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to MySQL")
	}
	kafkaClient, err := kafka.GetClient(&cfg.Databases.Kafka)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to Kafka")
	}
	discovery, err := etcd.NewServiceDiscovery(cfg.Databases.Etcd.Endpoints)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to etcd")
	}

	// Create components with logger injection
	js := cfg.JobService
	taskStore := jobstore.NewMongoTaskStore(db, js.MongoCollection)
	objects := store.NewWorkspaceStore(store.NewGormRegistry(registryDB), db, store.Collections(&cfg.Sampler))
	jobPublisher := messaging.NewPublisher(kafkaClient.NewWriter(js.KafkaJobsTopic), js.KafkaJobsTopic, serviceLogger)
	taskService := service.NewTaskService(taskStore, service.NewConnectionManager(), jobPublisher, objects, discovery, etcd.WorkerService,
		service.BuildInfo{Version: cfg.App.Version, GitURL: cfg.App.GitURL, GitCommitHash: cfg.App.GitCommitHash},
		serviceLogger)
	if err := taskService.UseMotifSetCache(js.MotifSetCacheSize); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Invalid motif set cache size")
	}
	taskService.AddHealthCheck("mongodb", mongo.HealthCheck)
	taskService.AddHealthCheck("mysql", mysql.HealthCheck)
	taskService.AddHealthCheck("kafka", kafkaClient.HealthCheck)
	resultConsumer := messaging.NewConsumer(kafkaClient.NewReader(js.KafkaResultsTopic, js.ResultsGroup), js.KafkaResultsTopic, serviceLogger)
	progressConsumer := messaging.NewConsumer(kafkaClient.NewReader(js.KafkaLogsTopic, js.ResultsGroup+"-progress"), js.KafkaLogsTopic, serviceLogger)

	// Start Kafka consumers
	ctx, cancel := context.WithCancel(context.Background())
	resultsDone := resultConsumer.Start(ctx, taskService.HandleResult)
	progressDone := progressConsumer.Start(ctx, taskService.HandleProgress)
	serviceLogger.Info("Kafka result and progress consumers started")

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), httpmiddleware.RequestLogger(serviceLogger))
	if rl := cfg.Middleware.RateLimiter; rl.Enabled {
		limiter, err := newRateLimiter(rl)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Invalid rate limiter configuration")
		}
		router.Use(httpmiddleware.RateLimit(limiter))
	}
	api.RegisterRoutes(router, api.NewAPI(taskService, serviceLogger))

	srv := &http.Server{
		Addr:    js.ServerAddress,
		Handler: router,
	}

	go func() {
		serviceLogger.Info("Starting HTTP server on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("HTTP server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serviceLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Server forced to shutdown")
	}

	cancel()
	<-resultsDone
	<-progressDone

	if err := jobPublisher.Close(); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka publisher")
	}
	if err := resultConsumer.Close(); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka result consumer")
	}
	if err := progressConsumer.Close(); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka progress consumer")
	}
	if err := kafkaClient.Close(); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka client")
	}
	if err := discovery.Close(); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing etcd client")
	}
	if err := mysql.Close(); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing MySQL")
	}
	if err := mongo.Close(context.Background()); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error disconnecting from MongoDB")
	}

	serviceLogger.Info("Server gracefully stopped")
}

func newRateLimiter(cfg config.RateLimiterConfig) (ratelimiter.RateLimiter, error) {
	s := ratelimiter.Settings{
		Algorithm: cfg.Algorithm,
		Rate:      cfg.TokenBucket.Rate,
		Capacity:  cfg.TokenBucket.Capacity,
		Limit:     cfg.FixedWindow.Limit,
	}
	if cfg.Algorithm == ratelimiter.AlgorithmFixedWindow {
		window, err := time.ParseDuration(cfg.FixedWindow.Window)
		if err != nil {
			return nil, err
		}
		s.Window = window
	}
	return ratelimiter.New(s)
}
