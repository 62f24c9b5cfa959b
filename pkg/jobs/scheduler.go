package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of periodic background work.
type Task func(context.Context) error

// Schedule configures how a task is run.
type Schedule struct {
	Interval   time.Duration
	RunOnStart bool
	MaxRetries int
	RetryDelay time.Duration
}

type entry struct {
	name     string
	task     Task
	schedule Schedule
	trigger  chan struct{}
}

// Scheduler runs registered tasks on fixed intervals, each on its own goroutine.
type Scheduler struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewScheduler builds an empty scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger, entries: make(map[string]*entry)}
}

// Register adds a task. Registering after Start has no effect until the next Start.
func (s *Scheduler) Register(name string, task Task, schedule Schedule) {
	if schedule.Interval <= 0 {
		schedule.Interval = 24 * time.Hour
	}
	if schedule.MaxRetries < 0 {
		schedule.MaxRetries = 0
	}
	if schedule.RetryDelay <= 0 {
		schedule.RetryDelay = time.Second
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = &entry{name: name, task: task, schedule: schedule, trigger: make(chan struct{}, 1)}
}

// Start launches every registered task. Safe to call once.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	for _, e := range s.entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
	s.started = true
	s.logger.Sugar().Infow("scheduler started", "tasks", len(s.entries))
}

// Stop cancels running loops and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.started = false
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Sugar().Infow("scheduler stopped")
}

// Trigger requests an immediate run of name outside its interval.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	started := s.started
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("task %s not registered", name)
	}
	if !started {
		return fmt.Errorf("scheduler not started")
	}
	select {
	case e.trigger <- struct{}{}:
	default:
	}
	return nil
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.schedule.Interval)
	defer ticker.Stop()

	if e.schedule.RunOnStart {
		s.run(ctx, e)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, e)
		case <-e.trigger:
			s.run(ctx, e)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, e *entry) {
	for attempt := 0; ; attempt++ {
		start := time.Now()
		err := e.task(ctx)
		if err == nil {
			s.logger.Sugar().Debugw("task finished", "task", e.name, "duration", time.Since(start))
			return
		}
		if attempt >= e.schedule.MaxRetries {
			s.logger.Sugar().Errorw("task exceeded retries", "task", e.name, "attempt", attempt+1, "error", err)
			return
		}
		s.logger.Sugar().Warnw("task failed, retrying", "task", e.name, "attempt", attempt+1, "error", err)

		timer := time.NewTimer(e.schedule.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
