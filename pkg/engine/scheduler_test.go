package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runLog struct {
	mu   sync.Mutex
	keys []string
}

func (r *runLog) run(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func (r *runLog) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func TestSchedulerCoalesces(t *testing.T) {
	var log runLog
	s := NewScheduler(20*time.Millisecond, log.run)
	s.Schedule("aldrich")
	s.Schedule("aldrich")
	s.Schedule("wideSleeve")

	require.Eventually(t, func() bool { return len(log.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"wideSleeve"}, log.get())
	_, pending := s.Pending()
	assert.False(t, pending)
}

func TestSchedulerCancel(t *testing.T) {
	var log runLog
	s := NewScheduler(20*time.Millisecond, log.run)
	s.Schedule("aldrich")
	key, pending := s.Pending()
	assert.True(t, pending)
	assert.Equal(t, "aldrich", key)

	assert.True(t, s.Cancel())
	assert.False(t, s.Cancel())
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, log.get())
}

func TestSchedulerFlush(t *testing.T) {
	var log runLog
	s := NewScheduler(time.Hour, log.run)
	assert.False(t, s.Flush())

	s.Schedule("armstrong")
	assert.True(t, s.Flush())
	assert.Equal(t, []string{"armstrong"}, log.get())
	assert.False(t, s.Flush())
}

func TestSchedulerDefaultDelay(t *testing.T) {
	var log runLog
	s := NewScheduler(0, log.run)
	s.Schedule("aldrich")
	time.Sleep(DefaultDelay / 4)
	assert.Empty(t, log.get())
	require.Eventually(t, func() bool { return len(log.get()) == 1 }, 2*time.Second, 10*time.Millisecond)
}
