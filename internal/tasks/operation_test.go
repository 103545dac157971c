package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/logging"
)

func waitDone(t *testing.T, op *Operation) {
	t.Helper()
	select {
	case <-op.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("operation did not finish in time")
	}
}

func TestOperation_Success(t *testing.T) {
	var finished atomic.Int32
	var finishErr error
	op := NewOperation("test/check", core.OpCheck,
		func(ctx context.Context, logger logging.InternalLogger) error {
			logger.Info("hello %s", "world")
			return nil
		},
		func(err error) {
			finishErr = err
			finished.Add(1)
		},
	)
	assert.NotEmpty(t, op.ID)
	assert.Equal(t, core.OpCheck, op.Kind())
	assert.False(t, op.Status().Running)

	op.Start(context.Background())
	// a second start is ignored
	op.Start(context.Background())
	waitDone(t, op)

	assert.NoError(t, op.Err())
	assert.NoError(t, finishErr)
	assert.Equal(t, int32(1), finished.Load())

	status := op.Status()
	assert.True(t, status.Finished)
	assert.False(t, status.Running)
	assert.Equal(t, "success", status.LastResult)
	assert.False(t, status.FinishedAt.Before(status.StartedAt))

	var messages []string
	for _, entry := range op.Logs() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "hello world")
}

func TestOperation_ErrorIsWrapped(t *testing.T) {
	cause := errors.New("boom")
	var finishErr error
	op := NewOperation("test/login", core.OpLogin,
		func(ctx context.Context, logger logging.InternalLogger) error {
			return cause
		},
		func(err error) {
			finishErr = err
		},
	)
	op.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := op.Wait(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, core.ErrOperationFailed)
	assert.Equal(t, err, finishErr)
	assert.Contains(t, op.Status().LastResult, "failed")
}

func TestOperation_PanicIsAnError(t *testing.T) {
	op := NewOperation("test/refresh", core.OpRefresh,
		func(ctx context.Context, logger logging.InternalLogger) error {
			panic("unexpected")
		},
		nil,
	)
	op.Start(context.Background())
	waitDone(t, op)

	require.Error(t, op.Err())
	assert.Contains(t, op.Err().Error(), "panic: unexpected")
}

func TestOperation_Timeout(t *testing.T) {
	op := NewOperation("test/logout", core.OpLogout,
		func(ctx context.Context, logger logging.InternalLogger) error {
			<-ctx.Done()
			return ctx.Err()
		},
		nil,
	)
	op.Timeout = 10 * time.Millisecond
	op.Start(context.Background())
	waitDone(t, op)

	assert.ErrorIs(t, op.Err(), context.DeadlineExceeded)
}

func TestOperation_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	op := NewOperation("test/check", core.OpCheck,
		func(ctx context.Context, logger logging.InternalLogger) error {
			<-release
			return nil
		},
		nil,
	)
	op.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, op.Wait(ctx), context.DeadlineExceeded)
	assert.True(t, op.Status().Running)

	close(release)
	waitDone(t, op)
	assert.NoError(t, op.Err())
}
