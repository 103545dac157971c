package mojang

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/logging"
	"github.com/darmiel/mcauth/internal/tasks"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

var (
	ErrClientTokenChanged = errors.New("authentication server attempted to change the client token")
	ErrUnknownProfile     = errors.New("authentication server selected a profile that is not in the account")
)

// body is the remote half of an operation. It writes its result only through w.
type body func(ctx context.Context, logger logging.InternalLogger, w *writer) error

// writer is the only write access an operation has to its account.
type writer struct {
	account *Account
}

// Txn exposes the fields an operation may write while the account is locked.
type Txn struct {
	a *Account
}

func (t Txn) SetToken(name, value string) {
	t.a.tokens.Set(name, value)
}

func (t Txn) DeleteToken(name string) {
	t.a.tokens.Delete(name)
}

func (t Txn) SetUser(user User) {
	t.a.user = cloneUser(user)
}

func (t Txn) SetProfiles(profiles []Profile) {
	t.a.setProfilesLocked(profiles)
}

// Profiles returns a copy of the current profile list.
func (t Txn) Profiles() []Profile {
	cpy := make([]Profile, len(t.a.profiles))
	copy(cpy, t.a.profiles)
	return cpy
}

func (t Txn) Select(id string) bool {
	return t.a.selectLocked(id)
}

// Commit applies fn atomically.
func (w *writer) Commit(fn func(tx Txn)) {
	w.account.mu.Lock()
	defer w.account.mu.Unlock()
	fn(Txn{a: w.account})
}

// begin takes the in-flight slot. prepare runs with the account locked and captures the inputs
// the operation needs, so the operation never reads account fields while it runs.
func (a *Account) begin(
	kind core.OperationKind,
	session *core.Session,
	prepare func() (body, error),
) (core.Operation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inflight != nil {
		return nil, core.ErrAlreadyInProgress
	}
	run, err := prepare()
	if err != nil {
		return nil, err
	}

	w := &writer{account: a}
	name := fmt.Sprintf("%s/%s", a.typ.ID(), kind)
	if username := a.tokens.Get(TokenLoginUsername); username != "" {
		name += "/" + username
	}

	var op *tasks.Operation
	op = tasks.NewOperation(name, kind,
		func(ctx context.Context, logger logging.InternalLogger) error {
			return run(ctx, logger, w)
		},
		func(err error) {
			a.finish(op, err, session)
		},
	)
	op.Timeout = a.typ.timeout
	a.inflight = op
	return op, nil
}

// finish releases the in-flight slot and reports the outcome.
func (a *Account) finish(op *tasks.Operation, opErr error, session *core.Session) {
	a.mu.Lock()
	if a.inflight == op {
		a.inflight = nil
	}
	entry := core.AuditEntry{
		ID:          op.ID,
		Time:        time.Now(),
		Action:      "account." + string(op.Kind()),
		Provider:    a.typ.ID(),
		Account:     a.tokens.Get(TokenLoginUsername),
		Fingerprint: audit.CalculateFingerprint(audit.YggdrasilFingerprintType, a.tokens.Get(TokenAccess)),
		Success:     opErr == nil,
		Duration:    time.Since(op.Status().StartedAt),
	}
	if p, ok := a.currentLocked(); ok {
		entry.Profile = p.id
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	if session != nil {
		if opErr == nil {
			a.populateSessionLocked(session)
		} else {
			a.failSessionLocked(session, opErr)
		}
	}
	a.mu.Unlock()

	if err := a.typ.auditor.Log(entry); err != nil {
		log.Error().Err(err).Str("operation", op.Name).Msg("failed to write audit log entry")
	}
}

// failSessionLocked marks the session after a failed operation. A session whose
// token was rejected needs the password again, one that merely could not reach the
// server can still be played offline.
func (a *Account) failSessionLocked(session *core.Session, opErr error) {
	a.populateSessionLocked(session)
	if yggdrasil.IsForbidden(opErr) || errors.Is(opErr, core.ErrNotLoggedIn) {
		session.Status = core.SessionRequiresPassword
		return
	}
	if session.UUID != "" {
		session.Status = core.SessionPlayableOffline
	} else {
		session.Status = core.SessionRequiresPassword
	}
}

// CreateLoginTask returns an operation that authenticates with username and password.
// On failure the account is left exactly as it was.
func (a *Account) CreateLoginTask(username, password string, session *core.Session) (core.Operation, error) {
	if a.typ.Kind() != core.CredentialUsernamePassword {
		return nil, core.ErrUnsupportedCredential
	}
	return a.begin(core.OpLogin, session, func() (body, error) {
		clientToken := a.tokens.Get(TokenClient)
		if clientToken == "" {
			clientToken = a.typ.newClientToken()
		}
		return func(ctx context.Context, logger logging.InternalLogger, w *writer) error {
			logger.Info("authenticating '%s'", username)
			resp, err := a.typ.auth.Authenticate(ctx, yggdrasil.AuthenticateRequest{
				Agent:       yggdrasil.DefaultAgent,
				Username:    username,
				Password:    password,
				ClientToken: clientToken,
				RequestUser: true,
			})
			if err != nil {
				return err
			}
			if resp.ClientToken != "" && resp.ClientToken != clientToken {
				return ErrClientTokenChanged
			}

			profiles := profilesFromResponse(resp.AvailableProfiles)
			selected := ""
			if resp.SelectedProfile != nil {
				selected = resp.SelectedProfile.ID
			} else if len(profiles) > 0 {
				selected = profiles[0].id
			}

			w.Commit(func(tx Txn) {
				tx.SetToken(TokenLoginUsername, username)
				tx.SetToken(TokenAccess, resp.AccessToken)
				tx.SetToken(TokenClient, clientToken)
				if resp.User != nil {
					tx.SetUser(*resp.User)
				}
				tx.SetProfiles(profiles)
				if selected != "" && !tx.Select(selected) && len(profiles) > 0 {
					tx.Select(profiles[0].id)
				}
			})
			logger.Info("logged in, %d profile(s) available", len(profiles))
			logger.Debug("access token fingerprint: %s",
				audit.CalculateFingerprint(audit.YggdrasilFingerprintType, resp.AccessToken))
			return nil
		}, nil
	})
}

// CreateCheckTask returns an operation that validates the access token without changing it.
// A failed check leaves the token in place, clearing it is up to the caller (refresh or logout).
func (a *Account) CreateCheckTask(session *core.Session) (core.Operation, error) {
	return a.begin(core.OpCheck, session, func() (body, error) {
		accessToken := a.tokens.Get(TokenAccess)
		clientToken := a.tokens.Get(TokenClient)
		return func(ctx context.Context, logger logging.InternalLogger, _ *writer) error {
			if accessToken == "" {
				return core.ErrNotLoggedIn
			}
			logger.Info("validating access token")
			return a.typ.auth.Validate(ctx, yggdrasil.TokenRequest{
				AccessToken: accessToken,
				ClientToken: clientToken,
			})
		}, nil
	})
}

// CreateRefreshTask returns an operation that exchanges the access token for a new one.
func (a *Account) CreateRefreshTask(session *core.Session) (core.Operation, error) {
	return a.begin(core.OpRefresh, session, func() (body, error) {
		req := yggdrasil.RefreshRequest{
			AccessToken: a.tokens.Get(TokenAccess),
			ClientToken: a.tokens.Get(TokenClient),
			RequestUser: true,
		}
		if p, ok := a.currentLocked(); ok {
			req.SelectedProfile = &yggdrasil.ProfileRef{ID: p.id, Name: p.name, Legacy: p.legacy}
		}
		return func(ctx context.Context, logger logging.InternalLogger, w *writer) error {
			if req.AccessToken == "" {
				return core.ErrNotLoggedIn
			}
			logger.Info("refreshing access token")
			resp, err := a.typ.auth.Refresh(ctx, req)
			if err != nil {
				return err
			}
			if resp.ClientToken != "" && resp.ClientToken != req.ClientToken {
				return ErrClientTokenChanged
			}

			var commitErr error
			w.Commit(func(tx Txn) {
				profiles := tx.Profiles()
				if len(resp.AvailableProfiles) > 0 {
					profiles = profilesFromResponse(resp.AvailableProfiles)
				}
				if resp.SelectedProfile != nil && !containsProfile(profiles, resp.SelectedProfile.ID) {
					// nothing is written
					commitErr = fmt.Errorf("%w: '%s'", ErrUnknownProfile, resp.SelectedProfile.ID)
					return
				}
				tx.SetProfiles(profiles)
				if resp.SelectedProfile != nil {
					tx.Select(resp.SelectedProfile.ID)
				}
				tx.SetToken(TokenAccess, resp.AccessToken)
				if resp.User != nil {
					tx.SetUser(*resp.User)
				}
			})
			return commitErr
		}, nil
	})
}

// CreateLogoutTask returns an operation that ends the session. The client token, the profiles
// and the user are kept; logging out a logged-out account succeeds without contacting the server.
func (a *Account) CreateLogoutTask(session *core.Session) (core.Operation, error) {
	return a.begin(core.OpLogout, session, func() (body, error) {
		accessToken := a.tokens.Get(TokenAccess)
		clientToken := a.tokens.Get(TokenClient)
		return func(ctx context.Context, logger logging.InternalLogger, w *writer) error {
			if accessToken == "" {
				logger.Info("not logged in, nothing to invalidate")
				return nil
			}
			err := a.typ.auth.Invalidate(ctx, yggdrasil.TokenRequest{
				AccessToken: accessToken,
				ClientToken: clientToken,
			})
			if err != nil {
				if !yggdrasil.IsForbidden(err) {
					return err
				}
				logger.Warn("server rejected the access token, treating it as already invalid: %v", err)
			}
			w.Commit(func(tx Txn) {
				tx.DeleteToken(TokenAccess)
			})
			logger.Info("logged out")
			return nil
		}, nil
	})
}

func profilesFromResponse(refs []yggdrasil.ProfileRef) []Profile {
	profiles := make([]Profile, 0, len(refs))
	for _, ref := range refs {
		profiles = append(profiles, NewProfile(ref.ID, ref.Name, ref.Legacy))
	}
	return profiles
}

func containsProfile(profiles []Profile, id string) bool {
	for _, p := range profiles {
		if p.id == id {
			return true
		}
	}
	return false
}
