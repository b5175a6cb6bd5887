package api

import (
	"MotifFinderSampler/backend/go/internal/job_service/service"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/store"
	"MotifFinderSampler/backend/go/pkg/logger"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// API provides handlers for the job service.
type API struct {
	service  *service.TaskService
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewAPI creates a new API handler.
func NewAPI(service *service.TaskService, logger *logger.Logger) *API {
	return &API{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// SubmitJobHandler accepts DiscoverParams and queues a discovery job.
func (a *API) SubmitJobHandler(c *gin.Context) {
	userID := c.GetString("userID")

	var params models.DiscoverParams
	if err := c.ShouldBindJSON(&params); err != nil {
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	task, err := a.service.SubmitTask(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidJob) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"task_id": task.ID})
}

// GetJobHandler returns one job of the calling user.
func (a *API) GetJobHandler(c *gin.Context) {
	task, err := a.service.GetTaskByID(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListJobsHandler returns one page of the calling user's jobs.
func (a *API) ListJobsHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	tasks, err := a.service.GetUserTasks(c.Request.Context(), c.GetString("userID"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetMotifSetHandler returns a persisted MotifSet addressed by wsid/objid/version.
func (a *API) GetMotifSetHandler(c *gin.Context) {
	ref, err := models.ParseObjectRef(strings.Join([]string{c.Param("ws"), c.Param("obj"), c.Param("ver")}, "/"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, info, err := a.service.GetMotifSet(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Motif set not found"})
			return
		}
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to load motif set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve motif set"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"info": info, "data": set})
}

// ImportSequenceSetHandler saves a sequence set and returns its reference.
func (a *API) ImportSequenceSetHandler(c *gin.Context) {
	var req struct {
		WorkspaceName string             `json:"workspace_name"`
		Name          string             `json:"name"`
		SequenceSet   models.SequenceSet `json:"sequence_set"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	info, err := a.service.ImportSequenceSet(c.Request.Context(), req.WorkspaceName, req.Name, req.SequenceSet)
	if err != nil {
		if errors.Is(err, service.ErrInvalidJob) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to import sequence set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import sequence set"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ref": info.Ref(), "info": info})
}

// StatusHandler reports service version and live workers.
func (a *API) StatusHandler(c *gin.Context) {
	st := a.service.Status(c.Request.Context())
	code := http.StatusOK
	if st.State != "OK" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, st)
}

// WebSocketHandler upgrades the connection and subscribes it to the user's job events.
func (a *API) WebSocketHandler(c *gin.Context) {
	userID := c.GetString("userID")

	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to upgrade WebSocket connection")
		return
	}

	a.service.AddConnection(userID, conn)

	go func() {
		defer a.service.RemoveConnection(userID, conn)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
}
