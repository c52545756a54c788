package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleInterval_RejectsNonPositive(t *testing.T) {
	s := New(time.UTC, nil)

	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleInterval(-time.Second, func() {})
	assert.Error(t, err)
	assert.Zero(t, s.Entries())
}

func TestScheduleInterval_Runs(t *testing.T) {
	s := New(time.UTC, nil)

	var runs atomic.Int32
	_, err := s.ScheduleInterval(time.Second, func() { runs.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
