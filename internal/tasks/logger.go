package tasks

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/darmiel/mcauth/internal/logging"
)

var _ logging.InternalLogger = (*TaskStoreLogger)(nil)

// TaskStoreLogger writes into the log buffer of a task or operation.
type TaskStoreLogger struct {
	sink logSink
}

func NewTaskStoreLogger(sink logSink) *TaskStoreLogger {
	return &TaskStoreLogger{
		sink: sink,
	}
}

func (t *TaskStoreLogger) Debug(format string, args ...any) {
	t.sink.AppendLog("debug", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Info(format string, args ...any) {
	t.sink.AppendLog("info", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Warn(format string, args ...any) {
	t.sink.AppendLog("warn", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Error(format string, args ...any) {
	t.sink.AppendLog("error", fmt.Sprintf(format, args...))
}

// NewCompositeLogger creates a MultiLogger that logs to both zerolog and the task store.
func NewCompositeLogger(sink logSink, zlog zerolog.Logger) logging.MultiLogger {
	return logging.NewMultiLogger(
		// first log using zerolog,
		logging.NewZLogger(zlog),
		// then keep it with the task
		NewTaskStoreLogger(sink),
	)
}
