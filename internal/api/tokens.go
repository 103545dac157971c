package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/logging"
	"github.com/darmiel/mcauth/internal/store"
)

var ErrInvalidToken = errors.New("invalid token")

// accessClaims are the claims of an issued access token.
type accessClaims struct {
	jwt.RegisteredClaims
	Profile string `json:"spr,omitempty"`
}

// issueToken signs a new access token for the user and records it.
func (s *Server) issueToken(ctx context.Context, u *user, clientToken, profileID string) (store.IssuedToken, error) {
	now := s.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   u.ID,
			Issuer:    ProviderName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Profile: profileID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return store.IssuedToken{}, fmt.Errorf("signing access token: %w", err)
	}

	issued := store.IssuedToken{
		AccessToken: signed,
		Fingerprint: audit.CalculateFingerprint(audit.YggdrasilFingerprintType, signed),
		ClientToken: clientToken,
		UserID:      u.ID,
		ProfileID:   profileID,
		IssuedAt:    now,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if err := s.tokenStore.Save(ctx, issued); err != nil {
		return store.IssuedToken{}, fmt.Errorf("saving access token: %w", err)
	}
	return issued, nil
}

// lookupToken returns the record of a token this server issued, has not revoked and that has not expired.
func (s *Server) lookupToken(ctx context.Context, accessToken string) (store.IssuedToken, error) {
	if accessToken == "" {
		return store.IssuedToken{}, ErrInvalidToken
	}
	var claims accessClaims
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ProviderName),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return store.IssuedToken{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	issued, ok := s.tokenStore.Get(ctx, accessToken)
	if !ok || issued.UserID != claims.Subject {
		return store.IssuedToken{}, ErrInvalidToken
	}
	return issued, nil
}

func (s *Server) purgeExpiredTokens(ctx context.Context, logger logging.InternalLogger) error {
	start := time.Now()
	deleted, err := s.tokenStore.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("deleting expired tokens: %w", err)
	}
	logger.Info("purged %d expired token(s) in %s", deleted, time.Since(start))
	return nil
}
