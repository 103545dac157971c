package mojang

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

func loginResponse() *yggdrasil.Response {
	return &yggdrasil.Response{
		AccessToken: "access-new",
		ClientToken: generatedClientToken,
		AvailableProfiles: []yggdrasil.ProfileRef{
			{ID: "p1", Name: "Alex"},
			{ID: "p2", Name: "Steve", Legacy: true},
		},
		SelectedProfile: &yggdrasil.ProfileRef{ID: "p2", Name: "Steve", Legacy: true},
		User: &yggdrasil.User{
			ID:         "user-1",
			Properties: []yggdrasil.Property{{Name: "preferredLanguage", Value: "en"}},
		},
	}
}

func TestLogin_Success(t *testing.T) {
	auth := &fakeAuth{authResp: loginResponse()}
	auditor := newAuditor()
	acc := newTestAccount(auth, WithAuditor(auditor))

	session := &core.Session{}
	op, err := acc.CreateLoginTask("alex@example.com", "secret", session)
	require.NoError(t, err)
	assert.Equal(t, core.OpLogin, op.Kind())
	assert.Equal(t, core.StateLoggingIn, acc.State())

	require.NoError(t, run(t, op))

	assert.Equal(t, core.StateIdle, acc.State())
	assert.Equal(t, core.StatusVerified, acc.Status())
	assert.Equal(t, "alex@example.com", acc.LoginUsername())
	assert.Equal(t, "access-new", acc.AccessToken())
	assert.Equal(t, generatedClientToken, acc.ClientToken())
	assert.Equal(t, 2, acc.Len())
	current, ok := acc.CurrentProfile()
	require.True(t, ok)
	assert.Equal(t, "p2", current.ID())
	assert.Equal(t, "user-1", acc.User().ID)

	assert.Equal(t, "alex@example.com", auth.lastAuth.Username)
	assert.Equal(t, "secret", auth.lastAuth.Password)
	assert.Equal(t, generatedClientToken, auth.lastAuth.ClientToken)
	assert.True(t, auth.lastAuth.RequestUser)

	assert.Equal(t, core.SessionPlayableOnline, session.Status)
	assert.Equal(t, "Steve", session.PlayerName)
	assert.Equal(t, "legacy", session.UserType)

	status := op.Status()
	assert.True(t, status.Finished)
	assert.False(t, status.Running)
	assert.Equal(t, "success", status.LastResult)
	assert.NotEmpty(t, op.Logs())

	entries := auditor.GetRecent(10)
	require.Len(t, entries, 1)
	assert.Equal(t, "account.login", entries[0].Action)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "alex@example.com", entries[0].Account)
	assert.Equal(t, "p2", entries[0].Profile)
	assert.NotEmpty(t, entries[0].Fingerprint)
}

func TestLogin_KeepsExistingClientToken(t *testing.T) {
	resp := loginResponse()
	resp.ClientToken = "client-1"
	auth := &fakeAuth{authResp: resp}
	acc := loggedInAccount(t, auth)

	op, err := acc.CreateLoginTask("alex@example.com", "secret", nil)
	require.NoError(t, err)
	require.NoError(t, run(t, op))

	assert.Equal(t, "client-1", auth.lastAuth.ClientToken)
	assert.Equal(t, "client-1", acc.ClientToken())
}

func TestLogin_SelectsFirstProfileWithoutServerSelection(t *testing.T) {
	resp := loginResponse()
	resp.SelectedProfile = nil
	acc := newTestAccount(&fakeAuth{authResp: resp})

	op, err := acc.CreateLoginTask("alex@example.com", "secret", nil)
	require.NoError(t, err)
	require.NoError(t, run(t, op))

	current, ok := acc.CurrentProfile()
	require.True(t, ok)
	assert.Equal(t, "p1", current.ID())
}

func TestLogin_WithoutProfiles(t *testing.T) {
	resp := loginResponse()
	resp.SelectedProfile = nil
	resp.AvailableProfiles = nil
	acc := newTestAccount(&fakeAuth{authResp: resp})

	session := &core.Session{}
	op, err := acc.CreateLoginTask("alex@example.com", "secret", session)
	require.NoError(t, err)
	require.NoError(t, run(t, op))

	assert.Equal(t, core.StatusVerified, acc.Status())
	_, ok := acc.CurrentProfile()
	assert.False(t, ok)
	// a token without a profile cannot be played
	assert.Equal(t, core.SessionRequiresPassword, session.Status)
}

func TestLogin_FailureLeavesAccountUntouched(t *testing.T) {
	tests := []struct {
		name    string
		auth    *fakeAuth
		wantErr error
	}{
		{
			name: "wrong password",
			auth: &fakeAuth{authErr: forbidden()},
		},
		{
			name:    "client token changed",
			auth:    &fakeAuth{authResp: &yggdrasil.Response{AccessToken: "x", ClientToken: "other"}},
			wantErr: ErrClientTokenChanged,
		},
		{
			name: "server unreachable",
			auth: &fakeAuth{authErr: errors.New("connection refused")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := loggedInAccount(t, tt.auth)
			before := acc.Save()

			session := &core.Session{}
			op, err := acc.CreateLoginTask("alex@example.com", "wrong", session)
			require.NoError(t, err)

			err = run(t, op)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrOperationFailed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			var opErr *core.OperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, core.OpLogin, opErr.Kind)

			assert.Equal(t, before, acc.Save())
			assert.Equal(t, core.StateIdle, acc.State())
		})
	}
}

func TestLogin_ForbiddenRequiresPassword(t *testing.T) {
	acc := loggedInAccount(t, &fakeAuth{authErr: forbidden()})
	session := &core.Session{}
	op, err := acc.CreateLoginTask("alex@example.com", "wrong", session)
	require.NoError(t, err)

	err = run(t, op)
	assert.True(t, yggdrasil.IsForbidden(err))
	assert.Equal(t, core.SessionRequiresPassword, session.Status)
}

func TestCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		auth := &fakeAuth{}
		acc := loggedInAccount(t, auth)
		session := &core.Session{}
		op, err := acc.CreateCheckTask(session)
		require.NoError(t, err)
		assert.Equal(t, core.StateChecking, acc.State())

		require.NoError(t, run(t, op))
		assert.Equal(t, "access-1", auth.lastValidate.AccessToken)
		assert.Equal(t, "client-1", auth.lastValidate.ClientToken)
		assert.Equal(t, core.SessionPlayableOnline, session.Status)
	})

	t.Run("rejected token is kept", func(t *testing.T) {
		acc := loggedInAccount(t, &fakeAuth{validateErr: forbidden()})
		before := acc.Save()
		session := &core.Session{}
		op, err := acc.CreateCheckTask(session)
		require.NoError(t, err)

		err = run(t, op)
		assert.True(t, yggdrasil.IsForbidden(err))
		assert.Equal(t, before, acc.Save())
		assert.Equal(t, core.SessionRequiresPassword, session.Status)
	})

	t.Run("offline keeps the session playable", func(t *testing.T) {
		acc := loggedInAccount(t, &fakeAuth{validateErr: errors.New("connection refused")})
		session := &core.Session{}
		op, err := acc.CreateCheckTask(session)
		require.NoError(t, err)

		require.Error(t, run(t, op))
		assert.Equal(t, core.SessionPlayableOffline, session.Status)
		assert.Equal(t, "Alex", session.PlayerName)
	})

	t.Run("not logged in", func(t *testing.T) {
		auth := &fakeAuth{}
		acc := newTestAccount(auth)
		session := &core.Session{}
		op, err := acc.CreateCheckTask(session)
		require.NoError(t, err)

		err = run(t, op)
		assert.ErrorIs(t, err, core.ErrNotLoggedIn)
		assert.Empty(t, auth.Calls())
		assert.Equal(t, core.SessionRequiresPassword, session.Status)
	})
}

func TestRefresh_Success(t *testing.T) {
	auth := &fakeAuth{refreshResp: &yggdrasil.Response{
		AccessToken:     "access-2",
		ClientToken:     "client-1",
		SelectedProfile: &yggdrasil.ProfileRef{ID: "p1", Name: "Alex"},
	}}
	acc := loggedInAccount(t, auth)

	op, err := acc.CreateRefreshTask(nil)
	require.NoError(t, err)
	assert.Equal(t, core.StateRefreshingToken, acc.State())
	require.NoError(t, run(t, op))

	assert.Equal(t, "access-1", auth.lastRefresh.AccessToken)
	assert.Equal(t, "client-1", auth.lastRefresh.ClientToken)
	require.NotNil(t, auth.lastRefresh.SelectedProfile)
	assert.Equal(t, "p1", auth.lastRefresh.SelectedProfile.ID)

	assert.Equal(t, "access-2", acc.AccessToken())
	// profiles are kept when the response has none
	assert.Equal(t, 2, acc.Len())
	current, ok := acc.CurrentProfile()
	require.True(t, ok)
	assert.Equal(t, "p1", current.ID())
}

func TestRefresh_ReplacesProfiles(t *testing.T) {
	auth := &fakeAuth{refreshResp: &yggdrasil.Response{
		AccessToken:       "access-2",
		AvailableProfiles: []yggdrasil.ProfileRef{{ID: "p3", Name: "Herobrine"}},
		SelectedProfile:   &yggdrasil.ProfileRef{ID: "p3", Name: "Herobrine"},
	}}
	acc := loggedInAccount(t, auth)

	op, err := acc.CreateRefreshTask(nil)
	require.NoError(t, err)
	require.NoError(t, run(t, op))

	assert.Equal(t, 1, acc.Len())
	current, ok := acc.CurrentProfile()
	require.True(t, ok)
	assert.Equal(t, "Herobrine", current.Name())
}

func TestRefresh_Failures(t *testing.T) {
	tests := []struct {
		name    string
		auth    *fakeAuth
		wantErr error
	}{
		{
			name: "unknown selected profile",
			auth: &fakeAuth{refreshResp: &yggdrasil.Response{
				AccessToken:     "access-2",
				SelectedProfile: &yggdrasil.ProfileRef{ID: "p9", Name: "Nobody"},
			}},
			wantErr: ErrUnknownProfile,
		},
		{
			name:    "client token changed",
			auth:    &fakeAuth{refreshResp: &yggdrasil.Response{AccessToken: "access-2", ClientToken: "other"}},
			wantErr: ErrClientTokenChanged,
		},
		{
			name: "token rejected",
			auth: &fakeAuth{refreshErr: forbidden()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := loggedInAccount(t, tt.auth)
			before := acc.Save()

			op, err := acc.CreateRefreshTask(nil)
			require.NoError(t, err)
			err = run(t, op)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, before, acc.Save())
		})
	}
}

func TestRefresh_NotLoggedIn(t *testing.T) {
	auth := &fakeAuth{}
	acc := newTestAccount(auth)
	op, err := acc.CreateRefreshTask(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, run(t, op), core.ErrNotLoggedIn)
	assert.Empty(t, auth.Calls())
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{}
	acc := loggedInAccount(t, auth)

	session := &core.Session{}
	op, err := acc.CreateLogoutTask(session)
	require.NoError(t, err)
	assert.Equal(t, core.StateLoggingOut, acc.State())
	require.NoError(t, run(t, op))

	assert.Equal(t, "access-1", auth.lastInvalidate.AccessToken)
	assert.Equal(t, "client-1", auth.lastInvalidate.ClientToken)

	assert.Equal(t, core.StatusNotVerified, acc.Status())
	assert.Empty(t, acc.AccessToken())
	assert.Equal(t, "client-1", acc.ClientToken())
	assert.Equal(t, "alex@example.com", acc.LoginUsername())
	assert.Equal(t, 2, acc.Len())
	_, ok := acc.CurrentProfile()
	assert.True(t, ok)
	assert.Equal(t, core.SessionRequiresPassword, session.Status)

	// a second logout succeeds without asking the server
	op, err = acc.CreateLogoutTask(nil)
	require.NoError(t, err)
	require.NoError(t, run(t, op))
	assert.Equal(t, []string{"invalidate"}, auth.Calls())
	assert.Equal(t, "client-1", acc.ClientToken())
	assert.Equal(t, 2, acc.Len())
	assert.Equal(t, core.StatusNotVerified, acc.Status())
}

func TestLogout_RejectedTokenIsCleared(t *testing.T) {
	acc := loggedInAccount(t, &fakeAuth{invalidateErr: forbidden()})
	op, err := acc.CreateLogoutTask(nil)
	require.NoError(t, err)
	require.NoError(t, run(t, op))
	assert.Equal(t, core.StatusNotVerified, acc.Status())
}

func TestLogout_ServerErrorKeepsToken(t *testing.T) {
	acc := loggedInAccount(t, &fakeAuth{invalidateErr: errors.New("connection refused")})
	op, err := acc.CreateLogoutTask(nil)
	require.NoError(t, err)
	require.Error(t, run(t, op))
	assert.Equal(t, "access-1", acc.AccessToken())
}

func TestOperations_SingleInFlight(t *testing.T) {
	resp := loginResponse()
	resp.ClientToken = "client-1"
	auth := &fakeAuth{
		block:    make(chan struct{}),
		authResp: resp,
	}
	acc := loggedInAccount(t, auth)

	op, err := acc.CreateLoginTask("alex@example.com", "secret", nil)
	require.NoError(t, err)

	// the slot is taken on creation
	_, err = acc.CreateCheckTask(nil)
	assert.ErrorIs(t, err, core.ErrAlreadyInProgress)

	op.Start(context.Background())
	require.Eventually(t, func() bool {
		return len(auth.Calls()) == 1
	}, time.Second, 5*time.Millisecond)

	for name, create := range map[string]func() (core.Operation, error){
		"login":   func() (core.Operation, error) { return acc.CreateLoginTask("x", "y", nil) },
		"check":   func() (core.Operation, error) { return acc.CreateCheckTask(nil) },
		"refresh": func() (core.Operation, error) { return acc.CreateRefreshTask(nil) },
		"logout":  func() (core.Operation, error) { return acc.CreateLogoutTask(nil) },
	} {
		_, err := create()
		assert.ErrorIs(t, err, core.ErrAlreadyInProgress, name)
	}
	assert.ErrorIs(t, acc.Load(core.FormatV3, acc.Save()), core.ErrAlreadyInProgress)
	assert.Equal(t, core.StateLoggingIn, acc.State())
	inflight, ok := acc.InFlight()
	require.True(t, ok)
	assert.Equal(t, core.OpLogin, inflight.Kind())

	close(auth.block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, op.Wait(ctx))

	assert.Equal(t, core.StateIdle, acc.State())
	_, ok = acc.InFlight()
	assert.False(t, ok)

	next, err := acc.CreateCheckTask(nil)
	require.NoError(t, err)
	require.NoError(t, run(t, next))
}

func TestOperations_Timeout(t *testing.T) {
	auth := &fakeAuth{block: make(chan struct{})}
	defer close(auth.block)
	acc := loggedInAccount(t, auth, WithOperationTimeout(20*time.Millisecond))

	op, err := acc.CreateCheckTask(nil)
	require.NoError(t, err)
	err = run(t, op)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, core.StateIdle, acc.State())
}
