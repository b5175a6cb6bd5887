package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksRun(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	status, err := Checks{"mongodb": ok, "mysql": ok}.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mongodb": StatusOK, "mysql": StatusOK}, status)

	status, err = Checks{"mongodb": ok, "redis": down, "kafka": down}.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnhealthy))
	assert.Equal(t, "backend unhealthy: kafka: connection refused; redis: connection refused", err.Error())
	assert.Equal(t, StatusOK, status["mongodb"])
	assert.Equal(t, "connection refused", status["redis"])
}

func TestChecksRun_Empty(t *testing.T) {
	status, err := Checks(nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, status)
}
