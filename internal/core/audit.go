package core

import "time"

type AuditEntry struct {
	// ID is the unique ID of the operation (or emulator request)
	ID string `json:"id"`
	// Time is the timestamp of the event
	Time time.Time `json:"time"`
	// Action describing what happened (e.g. "account.login", "account.logout")
	Action string `json:"action"`
	// Provider is the account type ID
	Provider string `json:"provider,omitempty"`
	// Account is the login username of the account
	Account string `json:"account,omitempty"`
	// Profile is the selected profile ID after the operation
	Profile string `json:"profile,omitempty"`
	// Fingerprint of the access token involved, never the token itself
	Fingerprint string `json:"fingerprint,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	// Duration of the remote call
	Duration time.Duration `json:"duration,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}

type Fingerprinter func(token string) string
