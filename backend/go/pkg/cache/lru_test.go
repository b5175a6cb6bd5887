package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New[string, int](Config{Capacity: 2})
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_TTL(t *testing.T) {
	c, err := New[string, int](Config{Capacity: 4, TTL: time.Minute})
	require.NoError(t, err)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Put("a", 1)
	now = now.Add(30 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestNew_RequiresCapacity(t *testing.T) {
	_, err := New[string, int](Config{})
	assert.Error(t, err)
}
