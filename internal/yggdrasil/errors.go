package yggdrasil

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ForbiddenOperation = "ForbiddenOperationException"
	IllegalArgument    = "IllegalArgumentException"
	ResourceException  = "ResourceException"
)

var ErrUnexpectedResponse = errors.New("unexpected response from authentication server")

// APIError is a request the server answered with an error body.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Cause      string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s (status %d", e.Type, e.Message, e.StatusCode)
	if e.Cause != "" {
		msg += ", cause: " + e.Cause
	}
	if e.RequestID != "" {
		msg += ", request: " + e.RequestID
	}
	return msg + ")"
}

// IsForbidden reports whether the server rejected the credentials or token,
// as opposed to a transport or server failure.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Type == ForbiddenOperation || apiErr.StatusCode == http.StatusForbidden
}
