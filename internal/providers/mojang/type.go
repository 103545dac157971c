package mojang

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

// TypeID is the provider discriminant stored in the account file.
const TypeID = "mojang"

// Authenticator performs the remote half of the account operations.
// *yggdrasil.Client implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, req yggdrasil.AuthenticateRequest) (*yggdrasil.Response, error)
	Refresh(ctx context.Context, req yggdrasil.RefreshRequest) (*yggdrasil.Response, error)
	Validate(ctx context.Context, req yggdrasil.TokenRequest) error
	Invalidate(ctx context.Context, req yggdrasil.TokenRequest) error
}

var (
	_ core.AccountType = (*Type)(nil)
	_ Authenticator    = (*yggdrasil.Client)(nil)
)

// Type is the Mojang account type. It never changes after NewType returned.
type Type struct {
	auth           Authenticator
	auditor        core.Auditor
	timeout        time.Duration
	newClientToken func() string
}

type TypeOption func(*Type)

func WithAuditor(a core.Auditor) TypeOption {
	return func(t *Type) {
		if a != nil {
			t.auditor = a
		}
	}
}

// WithOperationTimeout bounds every operation created by accounts of this type.
func WithOperationTimeout(d time.Duration) TypeOption {
	return func(t *Type) {
		t.timeout = d
	}
}

// WithClientTokenGenerator replaces the generator used for accounts without a client token.
func WithClientTokenGenerator(fn func() string) TypeOption {
	return func(t *Type) {
		t.newClientToken = fn
	}
}

func NewType(auth Authenticator, opts ...TypeOption) *Type {
	t := &Type{
		auth:           auth,
		auditor:        audit.NewNoopAuditor(),
		newClientToken: randomClientToken,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Type) ID() string {
	return TypeID
}

func (t *Type) Text() string {
	return "Mojang"
}

func (t *Type) Icon() string {
	return "icon:mojang"
}

func (t *Type) UsernameText() string {
	return "E-Mail/Username:"
}

func (t *Type) PasswordText() string {
	return "Password:"
}

func (t *Type) Kind() core.CredentialKind {
	return core.CredentialUsernamePassword
}

func (t *Type) Create() core.Account {
	return NewAccount(t)
}

// randomClientToken returns a dashless UUID, the format the launcher has always used.
func randomClientToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
