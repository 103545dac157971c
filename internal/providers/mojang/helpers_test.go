package mojang

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

const generatedClientToken = "generatedclienttoken"

// fakeAuth answers with canned responses. If block is set, every call waits for it to be closed.
type fakeAuth struct {
	mu    sync.Mutex
	calls []string
	block chan struct{}

	authResp      *yggdrasil.Response
	authErr       error
	refreshResp   *yggdrasil.Response
	refreshErr    error
	validateErr   error
	invalidateErr error

	lastAuth       yggdrasil.AuthenticateRequest
	lastRefresh    yggdrasil.RefreshRequest
	lastValidate   yggdrasil.TokenRequest
	lastInvalidate yggdrasil.TokenRequest
}

func (f *fakeAuth) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	block := f.block
	f.mu.Unlock()
	if block == nil {
		return nil
	}
	select {
	case <-block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAuth) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuth) Authenticate(ctx context.Context, req yggdrasil.AuthenticateRequest) (*yggdrasil.Response, error) {
	if err := f.enter(ctx, "authenticate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAuth = req
	return f.authResp, f.authErr
}

func (f *fakeAuth) Refresh(ctx context.Context, req yggdrasil.RefreshRequest) (*yggdrasil.Response, error) {
	if err := f.enter(ctx, "refresh"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRefresh = req
	return f.refreshResp, f.refreshErr
}

func (f *fakeAuth) Validate(ctx context.Context, req yggdrasil.TokenRequest) error {
	if err := f.enter(ctx, "validate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastValidate = req
	return f.validateErr
}

func (f *fakeAuth) Invalidate(ctx context.Context, req yggdrasil.TokenRequest) error {
	if err := f.enter(ctx, "invalidate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInvalidate = req
	return f.invalidateErr
}

func newTestAccount(auth Authenticator, opts ...TypeOption) *Account {
	opts = append([]TypeOption{WithClientTokenGenerator(func() string {
		return generatedClientToken
	})}, opts...)
	return NewAccount(NewType(auth, opts...))
}

// loggedInAccount is logged in as alex with two profiles, Alex selected.
func loggedInAccount(t *testing.T, auth Authenticator, opts ...TypeOption) *Account {
	t.Helper()
	acc := newTestAccount(auth, opts...)
	require.NoError(t, acc.Load(core.FormatV3, core.Document{
		"tokens": map[string]any{
			TokenLoginUsername: "alex@example.com",
			TokenAccess:        "access-1",
			TokenClient:        "client-1",
		},
		"profiles": []any{
			map[string]any{"id": "p1", "name": "Alex", "legacy": false},
			map[string]any{"id": "p2", "name": "Steve", "legacy": true},
		},
		"activeProfile": "p1",
		"user": map[string]any{
			"id": "user-1",
			"properties": []any{
				map[string]any{"name": "preferredLanguage", "value": "en"},
			},
		},
	}))
	return acc
}

func forbidden() error {
	return &yggdrasil.APIError{
		StatusCode: 403,
		Type:       yggdrasil.ForbiddenOperation,
		Message:    "Invalid token.",
	}
}

// run starts op and waits for it to finish.
func run(t *testing.T, op core.Operation) error {
	t.Helper()
	op.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case <-op.Done():
	case <-ctx.Done():
		t.Fatal("operation did not finish in time")
	}
	return op.Err()
}

func newAuditor() *audit.InMemoryAuditor {
	return audit.NewInMemoryAuditor()
}
