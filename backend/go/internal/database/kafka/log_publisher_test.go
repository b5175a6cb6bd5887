package kafka

import (
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestLogTaskProgress(t *testing.T) {
	w := &fakeWriter{}
	p := NewLogPublisherWithWriter(w)

	entry := &models.TaskLogEntry{TaskID: "task-1", Status: models.StatusRunning, Message: "running MotifSampler"}
	require.NoError(t, p.LogTaskProgress(context.Background(), entry))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "task-1", string(w.msgs[0].Key))
	assert.False(t, entry.Timestamp.IsZero())

	var got models.TaskLogEntry
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, models.StatusRunning, got.Status)
	assert.Equal(t, "running MotifSampler", got.Message)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestLogTaskProgress_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewLogPublisherWithWriter(&fakeWriter{err: boom})
	err := p.LogTaskProgress(context.Background(), &models.TaskLogEntry{TaskID: "t"})
	assert.True(t, errors.Is(err, boom))
}
