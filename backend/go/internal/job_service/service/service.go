package service

import (
	"MotifFinderSampler/backend/go/internal/database"
	"MotifFinderSampler/backend/go/internal/job_service/store"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/pkg/cache"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
)

var (
	// ErrInvalidJob is returned when submitted parameters cannot be run.
	ErrInvalidJob = errors.New("invalid job parameters")
	// ErrJobNotFound is returned when a job does not exist or belongs to another user.
	ErrJobNotFound = errors.New("job not found")
)

// TaskPublisher defines the interface for publishing jobs.
type TaskPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// ObjectStore reads and writes versioned workspace objects.
type ObjectStore interface {
	SaveObject(ctx context.Context, workspace, name, typ string, data interface{}) (models.ObjectInfo, error)
	GetObject(ctx context.Context, typ, ref string, out interface{}) (models.ObjectInfo, error)
}

// WorkerRegistry lists live instances of a service.
type WorkerRegistry interface {
	Discover(ctx context.Context, serviceName string) ([]string, error)
}

// BuildInfo is reported by Status.
type BuildInfo struct {
	Version       string
	GitURL        string
	GitCommitHash string
}

// StatusOutput describes the API and the workers behind it.
type StatusOutput struct {
	State         string   `json:"state"`
	Message       string   `json:"message"`
	Version       string   `json:"version"`
	GitURL        string   `json:"git_url"`
	GitCommitHash string   `json:"git_commit_hash"`
	Workers       []string `json:"workers"`

	Backends map[string]string `json:"backends,omitempty"`
}

// TaskService provides the job API: submission, lookup, result handling and
// pushing events to subscribers.
type TaskService struct {
	store         store.TaskStore
	connManager   *ConnectionManager
	publisher     TaskPublisher
	objects       ObjectStore
	workers       WorkerRegistry
	workerService string
	build         BuildInfo
	motifSets     *cache.LRU[string, cachedMotifSet]
	health        database.Checks
	logger        *logger.Logger
	now           func() time.Time
}

type cachedMotifSet struct {
	set  *models.MotifSet
	info models.ObjectInfo
}

// NewTaskService creates a new TaskService. workers may be nil; workerService
// is the name workers register under.
func NewTaskService(store store.TaskStore, connManager *ConnectionManager, publisher TaskPublisher, objects ObjectStore, workers WorkerRegistry, workerService string, build BuildInfo, logger *logger.Logger) *TaskService {
	return &TaskService{
		store:         store,
		connManager:   connManager,
		publisher:     publisher,
		objects:       objects,
		workers:       workers,
		workerService: workerService,
		build:         build,
		logger:        logger,
		now:           time.Now,
	}
}

// AddConnection adds a websocket subscriber for a user.
func (s *TaskService) AddConnection(userID string, conn *websocket.Conn) {
	s.connManager.Add(userID, conn)
	s.logger.Info("WebSocket connection added for user: " + userID)
}

// RemoveConnection removes a websocket subscriber for a user.
func (s *TaskService) RemoveConnection(userID string, conn *websocket.Conn) {
	s.connManager.Remove(userID, conn)
	s.logger.Info("WebSocket connection removed for user: " + userID)
}

// ConnectionCount returns the number of open subscriptions of a user.
func (s *TaskService) ConnectionCount(userID string) int {
	return s.connManager.Count(userID)
}

// ValidateParams checks the fields a discovery job cannot run without.
func ValidateParams(p models.DiscoverParams) error {
	if p.WorkspaceName == "" {
		return fmt.Errorf("%w: workspace_name is required", ErrInvalidJob)
	}
	if p.ObjName == "" {
		return fmt.Errorf("%w: obj_name is required", ErrInvalidJob)
	}
	if p.SSRef == "" {
		return fmt.Errorf("%w: SS_ref is required", ErrInvalidJob)
	}
	if _, err := models.ParseObjectRef(p.SSRef); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if p.MotifLength < 0 || p.MotifMinLength < 0 || p.MotifMaxLength < 0 {
		return fmt.Errorf("%w: motif lengths must not be negative", ErrInvalidJob)
	}
	if p.MotifMinLength > 0 && p.MotifMaxLength > 0 && p.MotifMinLength > p.MotifMaxLength {
		return fmt.Errorf("%w: motif_min_length %d exceeds motif_max_length %d", ErrInvalidJob, p.MotifMinLength, p.MotifMaxLength)
	}
	if g := p.BackgroundGroup; g != nil && g.Background == 1 && g.GenomeRef == "" && p.GenomeRef == "" && p.TestFlag != 1 {
		return fmt.Errorf("%w: genome_ref is required for a genome background", ErrInvalidJob)
	}
	return nil
}

// SubmitTask stores a pending job and publishes it to the jobs topic.
func (s *TaskService) SubmitTask(ctx context.Context, userID string, params models.DiscoverParams) (*models.TaskRecord, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	task := &models.TaskRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		Status:      models.TaskStatusPending,
		Payload:     params,
		SubmittedAt: s.now().UTC(),
	}

	if err := s.store.Create(ctx, task); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to create task in store")
		return nil, err
	}

	if err := s.publisher.Publish(ctx, task.ID, task); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to publish task to Kafka")
		task.Status = models.TaskStatusFailed
		task.Error = "Failed to publish to Kafka"
		task.CompletedAt = s.now().UTC()
		_ = s.store.Update(ctx, task)
		return nil, err
	}

	s.logger.WithTask(task.ID).Info("Discovery job submitted")
	return task, nil
}

// HandleResult applies a task record from the results topic and pushes it to
// the job owner. A running record never overwrites a finished job.
func (s *TaskService) HandleResult(ctx context.Context, msg kafka.Message) error {
	var resultTask models.TaskRecord
	if err := json.Unmarshal(msg.Value, &resultTask); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to unmarshal task result from Kafka")
		return err
	}

	task, err := s.store.GetByID(ctx, resultTask.ID)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{"taskID": resultTask.ID}).Error("Error getting task by ID")
		return err
	}
	if task == nil {
		s.logger.WithPayload(map[string]interface{}{"taskID": resultTask.ID}).Warn("Received result for unknown task ID")
		return nil
	}
	if finished(task.Status) && !finished(resultTask.Status) {
		return nil
	}

	task.Status = resultTask.Status
	task.Result = resultTask.Result
	task.Error = resultTask.Error
	if !resultTask.StartedAt.IsZero() {
		task.StartedAt = resultTask.StartedAt
	}
	if finished(task.Status) {
		task.CompletedAt = resultTask.CompletedAt
		if task.CompletedAt.IsZero() {
			task.CompletedAt = s.now().UTC()
		}
	}

	if err := s.store.Update(ctx, task); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{"taskID": task.ID}).Error("Failed to update task in store")
		return err
	}

	s.push(task.UserID, models.JobEvent{Type: models.JobEventResult, Task: task})
	return nil
}

// HandleProgress forwards a progress event from the logs topic to the job owner.
func (s *TaskService) HandleProgress(ctx context.Context, msg kafka.Message) error {
	var entry models.TaskLogEntry
	if err := json.Unmarshal(msg.Value, &entry); err != nil {
		return fmt.Errorf("decode progress event: %w", err)
	}
	task, err := s.store.GetByID(ctx, entry.TaskID)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}
	s.push(task.UserID, models.JobEvent{Type: models.JobEventProgress, Progress: &entry})
	return nil
}

func (s *TaskService) push(userID string, event models.JobEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to marshal job event")
		return
	}
	s.connManager.SendMessage(userID, data)
}

func finished(status models.TaskStatus) bool {
	return status == models.TaskStatusSuccess || status == models.TaskStatusFailed
}

// GetTaskByID retrieves a single job for a specific user.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID, userID string) (*models.TaskRecord, error) {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{"taskID": taskID}).Error("Failed to get task by ID from store")
		return nil, err
	}
	if task == nil {
		return nil, ErrJobNotFound
	}
	if task.UserID != userID {
		s.logger.WithPayload(map[string]interface{}{"taskID": taskID, "requestingUserID": userID}).Warn("User attempted to access unauthorized task")
		return nil, ErrJobNotFound
	}
	return task, nil
}

// GetUserTasks retrieves a user's jobs with pagination.
func (s *TaskService) GetUserTasks(ctx context.Context, userID string, page, limit int) ([]*models.TaskRecord, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	tasks, err := s.store.GetByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{"userID": userID}).Error("Failed to get user tasks from store")
		return nil, err
	}
	return tasks, nil
}

// UseMotifSetCache keeps up to capacity MotifSets in memory. Saved object
// versions never change, so entries do not expire.
func (s *TaskService) UseMotifSetCache(capacity int) error {
	c, err := cache.New[string, cachedMotifSet](cache.Config{Capacity: capacity})
	if err != nil {
		return err
	}
	s.motifSets = c
	return nil
}

// GetMotifSet loads a persisted MotifSet by reference.
func (s *TaskService) GetMotifSet(ctx context.Context, ref models.ObjectRef) (*models.MotifSet, models.ObjectInfo, error) {
	key := ref.String()
	if s.motifSets != nil {
		if hit, ok := s.motifSets.Get(key); ok {
			return hit.set, hit.info, nil
		}
	}
	var set models.MotifSet
	info, err := s.objects.GetObject(ctx, models.MotifSetType, key, &set)
	if err != nil {
		return nil, models.ObjectInfo{}, err
	}
	if s.motifSets != nil {
		s.motifSets.Put(key, cachedMotifSet{set: &set, info: info})
	}
	return &set, info, nil
}

// ImportSequenceSet saves a sequence set so jobs can reference it.
func (s *TaskService) ImportSequenceSet(ctx context.Context, workspace, name string, set models.SequenceSet) (models.ObjectInfo, error) {
	if workspace == "" || name == "" {
		return models.ObjectInfo{}, fmt.Errorf("%w: workspace_name and name are required", ErrInvalidJob)
	}
	if len(set.Sequences) == 0 {
		return models.ObjectInfo{}, fmt.Errorf("%w: sequence set is empty", ErrInvalidJob)
	}
	return s.objects.SaveObject(ctx, workspace, name, models.SequenceSetType, set)
}

// AddHealthCheck registers a backend reported by Status.
func (s *TaskService) AddHealthCheck(name string, check database.HealthCheck) {
	if s.health == nil {
		s.health = database.Checks{}
	}
	s.health[name] = check
}

// Status reports build information, the workers registered in etcd and the
// health of the registered backends. State is "DEGRADED" when a backend fails.
func (s *TaskService) Status(ctx context.Context) StatusOutput {
	out := StatusOutput{
		State:         "OK",
		Version:       s.build.Version,
		GitURL:        s.build.GitURL,
		GitCommitHash: s.build.GitCommitHash,
		Workers:       []string{},
	}
	if s.workers != nil {
		workers, err := s.workers.Discover(ctx, s.workerService)
		switch {
		case err != nil:
			s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Failed to list workers")
			out.Message = "worker discovery unavailable"
		case len(workers) == 0:
			out.Message = "no workers registered"
		default:
			out.Workers = workers
		}
	}
	if len(s.health) > 0 {
		backends, err := s.health.Run(ctx)
		out.Backends = backends
		if err != nil {
			s.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "backend_unhealthy"}).Warn("Backend health check failed")
			out.State = "DEGRADED"
			out.Message = err.Error()
		}
	}
	return out
}
