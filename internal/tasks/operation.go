package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/logging"
)

var _ core.Operation = (*Operation)(nil)

// Operation is a one-shot authentication operation.
// Finish is called exactly once after the handler returned (or panicked) and before Done is closed.
type Operation struct {
	ID      string
	Name    string
	Timeout time.Duration

	kind    core.OperationKind
	handler TaskFunc
	finish  func(err error)

	logBuffer

	mu         sync.Mutex
	started    bool
	finished   bool
	startedAt  time.Time
	finishedAt time.Time
	err        error
	done       chan struct{}
}

func NewOperation(name string, kind core.OperationKind, handler TaskFunc, finish func(err error)) *Operation {
	return &Operation{
		ID:      xid.New().String(),
		Name:    name,
		kind:    kind,
		handler: handler,
		finish:  finish,
		done:    make(chan struct{}),
	}
}

func (o *Operation) Kind() core.OperationKind {
	return o.kind
}

func (o *Operation) Start(ctx context.Context) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		log.Warn().Str("operation", o.Name).Msg("operation already started, ignoring")
		return
	}
	o.started = true
	o.startedAt = time.Now()
	o.mu.Unlock()

	go o.run(ctx)
}

func (o *Operation) run(ctx context.Context) {
	l := log.With().
		Str("operation", o.Name).
		Str("operation_id", o.ID).
		Str("kind", string(o.kind)).
		Logger()
	opLogger := NewCompositeLogger(o, l)
	opLogger.Debug("starting %s", o.kind)

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := o.invoke(ctx, opLogger)
	duration := time.Since(start)

	if err != nil {
		var opErr *core.OperationError
		if !errors.As(err, &opErr) {
			err = &core.OperationError{Kind: o.kind, Err: err}
		}
		opLogger.Error("%s failed after %s: %v", o.kind, duration, err)
	} else {
		opLogger.Info("%s completed successfully in %s", o.kind, duration)
	}

	if o.finish != nil {
		o.finish(err)
	}

	o.mu.Lock()
	o.finished = true
	o.finishedAt = time.Now()
	o.err = err
	o.mu.Unlock()
	close(o.done)
}

func (o *Operation) invoke(ctx context.Context, logger logging.InternalLogger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return o.handler(ctx, logger)
}

func (o *Operation) Done() <-chan struct{} {
	return o.done
}

func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

func (o *Operation) Status() core.OperationStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := core.OperationStatus{
		Name:       o.Name,
		Kind:       o.kind,
		Running:    o.started && !o.finished,
		Finished:   o.finished,
		StartedAt:  o.startedAt,
		FinishedAt: o.finishedAt,
	}
	if o.finished {
		if o.err != nil {
			s.LastResult = fmt.Sprintf("failed: %v", o.err)
		} else {
			s.LastResult = "success"
		}
	}
	return s
}

func (o *Operation) Logs() []LogEntry {
	return o.GetLogs()
}
