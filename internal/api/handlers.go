package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/api/middleware"
	"github.com/darmiel/mcauth/internal/api/presenter"
	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/buildinfo"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/store"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

const (
	msgInvalidCredentials = "Invalid credentials. Invalid username or password."
	msgInvalidToken       = "Invalid token."
	msgInvalidProfile     = "Invalid profile."
	msgInvalidPayload     = "Invalid request payload."

	errInternal = "InternalServerError"
)

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

func DecodePayload(r *http.Request, dest any) error {
	contentType, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	switch strings.TrimSpace(contentType) {
	case "application/json", "":
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(dest); err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("empty request body")
			}
			return err
		}
		// ensure there's no extra data
		if dec.More() {
			return errors.New("extra data in request body")
		}
		return nil
	default:
		return errors.New("unsupported content type")
	}
}

// startAudit returns the entry for this request and a func that writes it.
func (s *Server) startAudit(ctx context.Context, action string) (*core.AuditEntry, func()) {
	start := time.Now()
	entry := &core.AuditEntry{
		ID:       middleware.CorrelationCtx(ctx),
		Time:     start,
		Action:   action,
		Provider: ProviderName,
	}
	return entry, func() {
		entry.Duration = time.Since(start)
		entry.Success = entry.Error == ""
		if err := s.auditor.Log(*entry); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to write audit log")
		}
	}
}

// checkCredentials returns the user if username and password match.
func (s *Server) checkCredentials(username, password string) (*user, bool) {
	u, ok := s.users[username]
	if !ok {
		return nil, false
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return nil, false
	}
	return u, true
}

func (s *Server) response(u *user, issued store.IssuedToken, requestUser bool) yggdrasil.Response {
	resp := yggdrasil.Response{
		AccessToken:       issued.AccessToken,
		ClientToken:       issued.ClientToken,
		AvailableProfiles: u.Profiles,
	}
	if p, ok := u.profile(issued.ProfileID); ok {
		resp.SelectedProfile = &p
	}
	if requestUser {
		resp.User = &yggdrasil.User{ID: u.ID, Properties: u.Properties}
	}
	return resp
}

// handleAuthenticate exchanges username and password for an access token.
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	entry, done := s.startAudit(ctx, "authenticate")
	defer done()

	var payload yggdrasil.AuthenticateRequest
	if err := DecodePayload(r, &payload); err != nil {
		logger.Warn().Err(err).Msg("failed to decode authenticate payload")
		presenter.BadRequest(w, r, msgInvalidPayload)
		entry.Error = "invalid request payload"
		return
	}
	entry.Account = payload.Username

	u, ok := s.checkCredentials(payload.Username, payload.Password)
	if !ok {
		logger.Warn().Str("username", payload.Username).Msg("invalid credentials")
		presenter.Forbidden(w, r, msgInvalidCredentials)
		entry.Error = "invalid credentials"
		return
	}

	clientToken := payload.ClientToken
	if clientToken == "" {
		clientToken = dashless(uuid.New())
	}
	var profileID string
	if len(u.Profiles) > 0 {
		profileID = u.Profiles[0].ID
	}

	issued, err := s.issueToken(ctx, u, clientToken, profileID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to issue access token")
		presenter.Error(w, r, errInternal, "failed to issue access token", http.StatusInternalServerError)
		entry.Error = err.Error()
		return
	}
	entry.Profile = profileID
	entry.Fingerprint = issued.Fingerprint

	logger.Info().
		Str("user_id", u.ID).
		Str("fingerprint", issued.Fingerprint).
		Time("expires_at", issued.ExpiresAt).
		Msg("access token issued")
	presenter.JSON(w, r, s.response(u, issued, payload.RequestUser), http.StatusOK)
}

// handleRefresh replaces a valid access token with a new one, optionally selecting a profile.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	entry, done := s.startAudit(ctx, "refresh")
	defer done()

	var payload yggdrasil.RefreshRequest
	if err := DecodePayload(r, &payload); err != nil {
		logger.Warn().Err(err).Msg("failed to decode refresh payload")
		presenter.BadRequest(w, r, msgInvalidPayload)
		entry.Error = "invalid request payload"
		return
	}
	entry.Fingerprint = audit.CalculateFingerprint(audit.YggdrasilFingerprintType, payload.AccessToken)

	old, err := s.lookupToken(ctx, payload.AccessToken)
	if err != nil || old.ClientToken != payload.ClientToken {
		logger.Warn().Err(err).Msg("refresh with invalid token")
		presenter.Forbidden(w, r, msgInvalidToken)
		entry.Error = "invalid token"
		return
	}
	u, ok := s.usersByID[old.UserID]
	if !ok {
		presenter.Forbidden(w, r, msgInvalidToken)
		entry.Error = "unknown user"
		return
	}
	entry.Account = u.Username

	profileID := old.ProfileID
	if payload.SelectedProfile != nil {
		if _, ok := u.profile(payload.SelectedProfile.ID); !ok {
			logger.Warn().Str("profile", payload.SelectedProfile.ID).Msg("refresh selected a foreign profile")
			presenter.Forbidden(w, r, msgInvalidProfile)
			entry.Error = "invalid profile"
			return
		}
		profileID = payload.SelectedProfile.ID
	}

	// only the request that removes the old token may replace it
	if !s.tokenStore.Delete(ctx, old.AccessToken) {
		logger.Warn().Msg("refresh with an already consumed token")
		presenter.Forbidden(w, r, msgInvalidToken)
		entry.Error = "invalid token"
		return
	}

	issued, err := s.issueToken(ctx, u, old.ClientToken, profileID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to issue access token")
		presenter.Error(w, r, errInternal, "failed to issue access token", http.StatusInternalServerError)
		entry.Error = err.Error()
		return
	}
	entry.Profile = profileID
	entry.Fingerprint = issued.Fingerprint

	logger.Info().
		Str("user_id", u.ID).
		Str("old_fingerprint", old.Fingerprint).
		Str("fingerprint", issued.Fingerprint).
		Msg("access token refreshed")
	presenter.JSON(w, r, s.response(u, issued, payload.RequestUser), http.StatusOK)
}

// handleValidate answers 204 if the access token is usable.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, done := s.startAudit(ctx, "validate")
	defer done()

	var payload yggdrasil.TokenRequest
	if err := DecodePayload(r, &payload); err != nil {
		presenter.BadRequest(w, r, msgInvalidPayload)
		entry.Error = "invalid request payload"
		return
	}
	entry.Fingerprint = audit.CalculateFingerprint(audit.YggdrasilFingerprintType, payload.AccessToken)

	issued, err := s.lookupToken(ctx, payload.AccessToken)
	if err != nil || (payload.ClientToken != "" && payload.ClientToken != issued.ClientToken) {
		presenter.Forbidden(w, r, msgInvalidToken)
		entry.Error = "invalid token"
		return
	}
	presenter.NoContent(w)
}

// handleInvalidate revokes the access token. Unknown tokens are not an error.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, done := s.startAudit(ctx, "invalidate")
	defer done()

	var payload yggdrasil.TokenRequest
	if err := DecodePayload(r, &payload); err != nil {
		presenter.BadRequest(w, r, msgInvalidPayload)
		entry.Error = "invalid request payload"
		return
	}
	entry.Fingerprint = audit.CalculateFingerprint(audit.YggdrasilFingerprintType, payload.AccessToken)

	issued, ok := s.tokenStore.Get(ctx, payload.AccessToken)
	if ok && (payload.ClientToken == "" || payload.ClientToken == issued.ClientToken) {
		s.tokenStore.Delete(ctx, payload.AccessToken)
		log.Ctx(ctx).Info().Str("fingerprint", issued.Fingerprint).Msg("access token invalidated")
	}
	presenter.NoContent(w)
}

// handleSignout revokes all access tokens of a user.
func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, done := s.startAudit(ctx, "signout")
	defer done()

	var payload yggdrasil.SignoutRequest
	if err := DecodePayload(r, &payload); err != nil {
		presenter.BadRequest(w, r, msgInvalidPayload)
		entry.Error = "invalid request payload"
		return
	}
	entry.Account = payload.Username

	u, ok := s.checkCredentials(payload.Username, payload.Password)
	if !ok {
		presenter.Forbidden(w, r, msgInvalidCredentials)
		entry.Error = "invalid credentials"
		return
	}
	deleted := s.tokenStore.DeleteForUser(ctx, u.ID)
	log.Ctx(ctx).Info().Str("user_id", u.ID).Int("deleted", deleted).Msg("user signed out")
	presenter.NoContent(w)
}
