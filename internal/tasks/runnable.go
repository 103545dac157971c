package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultTaskTimeout = 5 * time.Minute

// RunnableTask is a named, possibly periodic background job. It never runs twice at the same time.
type RunnableTask struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Handler  TaskFunc

	logBuffer

	registeredAt time.Time

	mu         sync.RWMutex
	running    bool
	lastRun    time.Time
	lastResult string
}

// Run executes the handler synchronously. It returns false if the task was already running.
func (t *RunnableTask) Run(ctx context.Context) bool {
	l := log.With().Str("task", t.Name).Logger()

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		l.Warn().Msg("task is already running, skipping execution")
		return false
	}
	t.running = true
	t.mu.Unlock()
	t.reset()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.lastRun = time.Now()
		t.mu.Unlock()
	}()

	taskLogger := NewCompositeLogger(t, l)
	taskLogger.Info("starting task execution")

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := t.Handler(ctx, taskLogger)
	duration := time.Since(start)

	t.mu.Lock()
	if err != nil {
		t.lastResult = fmt.Sprintf("failed: %v", err)
	} else {
		t.lastResult = "success"
	}
	t.mu.Unlock()

	if err != nil {
		taskLogger.Error("task failed after %s: %v", duration, err)
	} else {
		taskLogger.Info("task completed successfully in %s", duration)
	}
	return true
}

func (t *RunnableTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var nextTime time.Time
	if t.Interval > 0 {
		if !t.lastRun.IsZero() {
			nextTime = t.lastRun.Add(t.Interval)
		} else {
			nextTime = t.registeredAt.Add(t.Interval)
		}
	}

	return TaskStatus{
		Name:       t.Name,
		Running:    t.running,
		LastRun:    t.lastRun,
		LastResult: t.lastResult,
		NextRun:    nextTime,
	}
}
