package api

import (
	"MotifFinderSampler/backend/go/internal/job_service/service"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/store"
	"MotifFinderSampler/backend/go/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu    sync.Mutex
	tasks map[string]*models.TaskRecord
}

func (s *memStore) Create(_ context.Context, task *models.TaskRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*models.TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) GetByUserID(_ context.Context, userID string, _, _ int) ([]*models.TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.TaskRecord{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) Update(ctx context.Context, task *models.TaskRecord) error {
	return s.Create(ctx, task)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (nopPublisher) Close() error                                       { return nil }

type motifObjects struct {
	sets map[string]models.MotifSet
}

func (o *motifObjects) SaveObject(_ context.Context, ws, name, typ string, _ interface{}) (models.ObjectInfo, error) {
	return models.ObjectInfo{WorkspaceID: 1, ObjectID: 9, Version: 1, Workspace: ws, Name: name, Type: typ}, nil
}

func (o *motifObjects) GetObject(_ context.Context, typ, ref string, out interface{}) (models.ObjectInfo, error) {
	set, ok := o.sets[ref]
	if !ok {
		return models.ObjectInfo{}, fmt.Errorf("%s %s: %w", typ, ref, store.ErrNotFound)
	}
	*out.(*models.MotifSet) = set
	return models.ObjectInfo{WorkspaceID: 1, ObjectID: 2, Version: 3, Type: typ}, nil
}

type fixture struct {
	store   *memStore
	service *service.TaskService
	router  *gin.Engine
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	st := &memStore{tasks: map[string]*models.TaskRecord{}}
	objects := &motifObjects{sets: map[string]models.MotifSet{
		"1/2/3": {Condition: "temp", SequenceSetRef: "5/1/1", Motifs: []models.Motif{{IupacSequence: "ACGT"}}},
	}}
	svc := service.NewTaskService(st, service.NewConnectionManager(), nopPublisher{}, objects, nil, "sampler_worker", service.BuildInfo{Version: "0.0.1"}, logger.NewDiscard())
	router := gin.New()
	RegisterRoutes(router, NewAPI(svc, logger.NewDiscard()))
	return &fixture{store: st, service: svc, router: router}
}

func (f *fixture) do(method, path, user string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestSubmitAndGetJob(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/jobs", "alice", models.DiscoverParams{WorkspaceName: "ws", SSRef: "5/1/1", ObjName: "motifs", MotifLength: 10})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var resp struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TaskID)

	w = f.do(http.MethodGet, "/api/v1/jobs/"+resp.TaskID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var task models.TaskRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, 10, task.Payload.MotifLength)

	w = f.do(http.MethodGet, "/api/v1/jobs/"+resp.TaskID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/v1/jobs", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.TaskRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestSubmitJob_BadRequests(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/jobs", "alice", models.DiscoverParams{WorkspaceName: "ws"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "obj_name")
}

func TestGetMotifSet(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/motifsets/1/2/3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Info models.ObjectInfo `json:"info"`
		Data models.MotifSet   `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1/2/3", resp.Info.Ref())
	assert.Equal(t, "temp", resp.Data.Condition)
	require.Len(t, resp.Data.Motifs, 1)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/motifsets/1/2/4", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/motifsets/1/x/4", "", nil).Code)
}

func TestImportSequenceSet(t *testing.T) {
	f := newFixture()

	body := map[string]interface{}{
		"workspace_name": "ws",
		"name":           "promoters",
		"sequence_set":   models.SequenceSet{Sequences: []models.Sequence{{SequenceID: "s1", Sequence: "ACGT"}}},
	}
	w := f.do(http.MethodPost, "/api/v1/sequencesets", "alice", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"ref":"1/9/1"`)

	w = f.do(http.MethodPost, "/api/v1/sequencesets", "alice", map[string]string{"workspace_name": "ws"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatus(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st service.StatusOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "OK", st.State)
	assert.Equal(t, "0.0.1", st.Version)

	f.service.AddHealthCheck("kafka", func(context.Context) error { return errors.New("no brokers") })
	w = f.do(http.MethodGet, "/status", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "DEGRADED", st.State)
	assert.Equal(t, "no brokers", st.Backends["kafka"])
}

func TestWebSocketReceivesResult(t *testing.T) {
	f := newFixture()
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx := context.Background()
	require.NoError(t, f.store.Create(ctx, &models.TaskRecord{ID: "t1", UserID: "alice", Status: models.TaskStatusPending}))

	header := http.Header{}
	header.Set(UserHeader, "alice")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/subscribe", header)
	require.NoError(t, err)
	defer conn.Close()

	// The subscription is registered after the upgrade returns.
	require.Eventually(t, func() bool { return f.service.ConnectionCount("alice") == 1 }, 2*time.Second, 10*time.Millisecond)

	data, err := json.Marshal(models.TaskRecord{ID: "t1", Status: models.TaskStatusSuccess, Result: &models.DiscoverOutput{ReportRef: "1/5/1"}})
	require.NoError(t, err)
	require.NoError(t, f.service.HandleResult(ctx, kafka.Message{Value: data}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var event models.JobEvent
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, models.JobEventResult, event.Type)
	require.NotNil(t, event.Task)
	assert.Equal(t, "1/5/1", event.Task.Result.ReportRef)
	assert.Equal(t, "alice", event.Task.UserID)
}
