package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsOnStartAndRetries(t *testing.T) {
	var calls int32
	s := NewScheduler(nil)
	s.Register("sweep", func(context.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("temporary")
		}
		return nil
	}, Schedule{Interval: time.Hour, RunOnStart: true, MaxRetries: 2, RetryDelay: time.Millisecond})

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerTrigger(t *testing.T) {
	done := make(chan struct{}, 1)
	s := NewScheduler(nil)
	s.Register("sweep", func(context.Context) error {
		done <- struct{}{}
		return nil
	}, Schedule{Interval: time.Hour})

	assert.Error(t, s.Trigger("sweep"))
	s.Start(context.Background())
	defer s.Stop()

	assert.Error(t, s.Trigger("unknown"))
	assert.NoError(t, s.Trigger("sweep"))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task was not triggered")
	}
}
