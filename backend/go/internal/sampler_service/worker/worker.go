// Package worker runs discovery jobs taken from the jobs topic and reports
// their outcome on the results topic.
package worker

import (
	"MotifFinderSampler/backend/go/internal/database"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/sampler_service/service"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Discoverer is the service method a job runs.
type Discoverer interface {
	DiscoverMotifsFromSequenceSet(ctx context.Context, params models.DiscoverParams) (models.DiscoverOutput, error)
}

// ResultPublisher sends task records back to the job service.
type ResultPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// ProgressPublisher is used for the terminal ERROR event of a failed job.
type ProgressPublisher interface {
	LogTaskProgress(ctx context.Context, entry *models.TaskLogEntry) error
}

// Worker handles one job message at a time.
type Worker struct {
	discoverer Discoverer
	results    ResultPublisher
	progress   ProgressPublisher
	health     database.Checks
	logger     *logger.Logger
	now        func() time.Time
}

// NewWorker creates a Worker. progress may be nil.
func NewWorker(d Discoverer, results ResultPublisher, progress ProgressPublisher, logger *logger.Logger) *Worker {
	return &Worker{
		discoverer: d,
		results:    results,
		progress:   progress,
		logger:     logger,
		now:        time.Now,
	}
}

// AddHealthCheck registers a backend that must be reachable before a job
// starts. A job is failed without running the tool while any check fails.
func (w *Worker) AddHealthCheck(name string, check database.HealthCheck) {
	if w.health == nil {
		w.health = database.Checks{}
	}
	w.health[name] = check
}

// HandleJob decodes a TaskRecord, runs it, and publishes running and final
// records. A job that fails is reported on the results topic and does not
// return an error, so the consumer commits it.
func (w *Worker) HandleJob(ctx context.Context, msg kafka.Message) error {
	var task models.TaskRecord
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return fmt.Errorf("decode job message: %w", err)
	}
	if task.ID == "" {
		task.ID = string(msg.Key)
	}
	if task.ID == "" {
		return fmt.Errorf("job message has no task id")
	}

	log := w.logger.WithTask(task.ID)
	log.Info("Processing discovery job")

	task.Status = models.TaskStatusRunning
	task.StartedAt = w.now().UTC()
	if err := w.results.Publish(ctx, task.ID, task); err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Failed to publish running status")
	}

	out, err := w.run(ctx, task)
	task.CompletedAt = w.now().UTC()
	if err != nil {
		task.Status = models.TaskStatusFailed
		task.Error = err.Error()
		task.Result = nil
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: errorType(err)}).Error("Discovery job failed")
		w.reportFailure(ctx, task)
	} else {
		task.Status = models.TaskStatusSuccess
		task.Result = &out
		log.WithPayload(map[string]interface{}{"report_ref": out.ReportRef, "motif_set_ref": out.MotifSetRef}).Info("Discovery job finished")
	}

	if err := w.results.Publish(ctx, task.ID, task); err != nil {
		return fmt.Errorf("publish result for task %s: %w", task.ID, err)
	}
	return nil
}

func (w *Worker) run(ctx context.Context, task models.TaskRecord) (models.DiscoverOutput, error) {
	if _, err := w.health.Run(ctx); err != nil {
		return models.DiscoverOutput{}, err
	}
	return w.discoverer.DiscoverMotifsFromSequenceSet(service.WithTaskID(ctx, task.ID), task.Payload)
}

func (w *Worker) reportFailure(ctx context.Context, task models.TaskRecord) {
	if w.progress == nil {
		return
	}
	entry := &models.TaskLogEntry{
		TaskID:    task.ID,
		Timestamp: task.CompletedAt,
		Status:    models.StatusError,
		Message:   task.Error,
	}
	if err := w.progress.LogTaskProgress(ctx, entry); err != nil {
		w.logger.WithTask(task.ID).WithError(models.ErrorInfo{Message: err.Error()}).Warn("Failed to publish error progress")
	}
}
