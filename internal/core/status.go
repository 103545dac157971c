package core

// AccountStatus is derived from the account's tokens, it is never stored.
type AccountStatus int

const (
	StatusNotVerified AccountStatus = iota
	StatusVerified
)

func (s AccountStatus) String() string {
	switch s {
	case StatusVerified:
		return "Verified"
	default:
		return "NotVerified"
	}
}

// AuthState is the per-account authentication lifecycle.
// Every state other than StateIdle means exactly one operation is in flight.
type AuthState int

const (
	StateIdle AuthState = iota
	StateLoggingIn
	StateChecking
	StateRefreshingToken
	StateLoggingOut
)

func (s AuthState) String() string {
	switch s {
	case StateLoggingIn:
		return "LoggingIn"
	case StateChecking:
		return "Checking"
	case StateRefreshingToken:
		return "RefreshingToken"
	case StateLoggingOut:
		return "LoggingOut"
	default:
		return "Idle"
	}
}

// CredentialKind describes what an account type prompts the user for.
type CredentialKind string

const (
	CredentialUsernamePassword CredentialKind = "username_password"
)
