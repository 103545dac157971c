package client

import (
	"context"

	"github.com/darmiel/mcauth/internal/api"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/store"
)

type ListAuditsOpts struct {
	Limit uint

	CorrelationID string
	Account       string
	Fingerprint   string
}

// ListAudits retrieves the latest audit entries from the server, limited to the specified number.
func (c *Client) ListAudits(ctx context.Context, opts ListAuditsOpts) ([]core.AuditEntry, string, error) {
	ub := c.url().setPath(api.ListAuditsRoute)
	if opts.Limit > 0 {
		ub = ub.addQueryParam("limit", opts.Limit)
	}
	if opts.CorrelationID != "" {
		ub = ub.addQueryParam("correlation_id", opts.CorrelationID)
	}
	if opts.Account != "" {
		ub = ub.addQueryParam("account", opts.Account)
	}
	if opts.Fingerprint != "" {
		ub = ub.addQueryParam("fingerprint", opts.Fingerprint)
	}
	var resp []core.AuditEntry
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}

// ListActiveTokens retrieves the tokens the server has issued and not yet revoked.
func (c *Client) ListActiveTokens(ctx context.Context) ([]store.IssuedToken, string, error) {
	var resp []store.IssuedToken
	correlation, err := c.get(ctx, c.url().
		setPath(api.ListActiveTokensRoute).
		build(), &resp)
	return resp, correlation, err
}
