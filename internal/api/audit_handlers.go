package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/api/presenter"
	"github.com/darmiel/mcauth/internal/core"
)

// handleAdminAudit processes requests to retrieve audit log entries.
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	// filters
	q := r.URL.Query()
	limitStr := q.Get("limit")

	filterCorrelationID := q.Get("correlation_id")
	filterAccount := q.Get("account")
	filterFingerprint := q.Get("fingerprint")

	limit := 50
	if limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.BadRequest(w, r, "invalid limit parameter")
			return
		}
		limit = v
	}

	var entries []core.AuditEntry
	if filterCorrelationID != "" || filterFingerprint != "" || filterAccount != "" {
		logger.Debug().Msg("applying audit log filters")
		entries = s.auditor.Find(func(entry core.AuditEntry) bool {
			if filterCorrelationID != "" && entry.ID != filterCorrelationID {
				return false
			}
			if filterFingerprint != "" && entry.Fingerprint != filterFingerprint {
				return false
			}
			if filterAccount != "" && entry.Account != filterAccount {
				return false
			}
			return true
		}, limit)
	} else {
		entries = s.auditor.GetRecent(limit)
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}

// handleAdminTokens processes requests to retrieve active issued tokens.
func (s *Server) handleAdminTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokens, err := s.tokenStore.ListActive(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to retrieve active tokens")
		presenter.Error(w, r, errInternal, "failed to retrieve active tokens", http.StatusInternalServerError)
		return
	}
	presenter.JSON(w, r, tokens, http.StatusOK)
}
