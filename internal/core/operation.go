package core

import (
	"context"
	"time"
)

// OperationKind names the four authentication operations.
type OperationKind string

const (
	OpLogin   OperationKind = "login"
	OpCheck   OperationKind = "check"
	OpRefresh OperationKind = "refresh"
	OpLogout  OperationKind = "logout"
)

// State is the account state an operation of this kind puts the account in.
func (k OperationKind) State() AuthState {
	switch k {
	case OpLogin:
		return StateLoggingIn
	case OpCheck:
		return StateChecking
	case OpRefresh:
		return StateRefreshingToken
	case OpLogout:
		return StateLoggingOut
	default:
		return StateIdle
	}
}

// Operation is a single asynchronous authentication operation produced by an Account.
// The account's in-flight slot is taken when the operation is created and released when it finishes,
// so a created operation must be started.
type Operation interface {
	Kind() OperationKind
	// Start runs the operation on its own goroutine. Calling it again has no effect.
	Start(ctx context.Context)
	// Done is closed after the result has been applied and the account is idle again.
	Done() <-chan struct{}
	// Wait blocks until the operation finished or ctx is done and returns Err.
	Wait(ctx context.Context) error
	// Err is nil while running and on success, an *OperationError otherwise.
	Err() error
	Status() OperationStatus
	Logs() []LogEntry
}

// OperationStatus is a snapshot of an operation.
type OperationStatus struct {
	Name       string        `json:"name,omitempty"`
	Kind       OperationKind `json:"kind,omitempty"`
	Running    bool          `json:"running,omitempty"`
	Finished   bool          `json:"finished,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	LastResult string        `json:"last_result,omitempty"`
}

type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level,omitempty"`
	Message string    `json:"message,omitempty"`
}
