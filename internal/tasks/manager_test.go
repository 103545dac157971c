package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/mcauth/internal/logging"
)

func TestManager_RunNow(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var runs atomic.Int32
	m.Register(TaskDefinition{
		Name: "purge",
		Handler: func(ctx context.Context, logger logging.InternalLogger) error {
			runs.Add(1)
			logger.Info("purged %d", 3)
			return nil
		},
	})

	ran, err := m.RunNow(context.Background(), "purge")
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, int32(1), runs.Load())

	statuses := m.ListStatus()
	require.Len(t, statuses, 1)
	assert.Equal(t, "purge", statuses[0].Name)
	assert.Equal(t, "success", statuses[0].LastResult)
	assert.False(t, statuses[0].LastRun.IsZero())
	assert.True(t, statuses[0].NextRun.IsZero())

	logs, err := m.GetLogs("purge")
	require.NoError(t, err)
	var messages []string
	for _, entry := range logs {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "purged 3")
}

func TestManager_UnknownTask(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	_, err := m.RunNow(context.Background(), "nope")
	var notFound TaskNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Name)

	assert.Error(t, m.Trigger("nope"))
	_, err = m.GetLogs("nope")
	assert.Error(t, err)
}

func TestManager_FailedTask(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	m.Register(TaskDefinition{
		Name: "broken",
		Handler: func(ctx context.Context, logger logging.InternalLogger) error {
			return errors.New("boom")
		},
	})
	ran, err := m.RunNow(context.Background(), "broken")
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "failed: boom", m.ListStatus()[0].LastResult)
}

func TestManager_NoConcurrentRuns(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	m.Register(TaskDefinition{
		Name: "slow",
		Handler: func(ctx context.Context, logger logging.InternalLogger) error {
			close(started)
			<-release
			return nil
		},
	})

	require.NoError(t, m.Trigger("slow"))
	<-started

	ran, err := m.RunNow(context.Background(), "slow")
	require.NoError(t, err)
	assert.False(t, ran)
	assert.True(t, m.ListStatus()[0].Running)
	close(release)
}

func TestManager_Scheduler(t *testing.T) {
	m := NewManager()

	var runs atomic.Int32
	m.Register(TaskDefinition{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Handler: func(ctx context.Context, logger logging.InternalLogger) error {
			runs.Add(1)
			return nil
		},
	})

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	m.Stop()
}
