package core

// NotFound is returned by Account.IndexOf when no profile has the requested ID.
const NotFound = -1

// Profile is a single identity slot owned by an Account.
type Profile interface {
	// ID is the stable remote identifier, it may be empty before the first login.
	ID() string
	// Name is the display name. It may change without changing the identity.
	Name() string
	// Legacy marks accounts from before the UUID migration.
	Legacy() bool

	Avatar() string
	BigAvatar() string
	TypeText() string
	TypeIcon() string
}

// AccountType describes one supported authentication provider.
// There is one long-lived, immutable instance per provider.
type AccountType interface {
	// ID is the stable discriminant stored in the account file (e.g. "mojang").
	ID() string
	Text() string
	Icon() string
	UsernameText() string
	PasswordText() string
	Kind() CredentialKind
	// Create returns a fresh, empty account bound to this type.
	Create() Account
}

// Account is the aggregate of tokens, profiles and the single in-flight operation.
type Account interface {
	Type() AccountType

	Token(name string) string
	AccessToken() string
	ClientToken() string
	// LoginUsername is the name the user logged in with; it identifies the account in the account list.
	LoginUsername() string

	// Status is a pure function of the current tokens.
	Status() AccountStatus
	// State reports which operation, if any, is in flight.
	State() AuthState

	Profiles() []Profile
	CurrentProfile() (Profile, bool)
	SetCurrentProfile(id string) bool
	ProfileAt(index int) (Profile, bool)
	Len() int
	IndexOf(id string) int

	Avatar() string
	BigAvatar() string

	Load(format FileFormat, doc Document) error
	Save() Document

	CreateLoginTask(username, password string, session *Session) (Operation, error)
	CreateCheckTask(session *Session) (Operation, error)
	CreateRefreshTask(session *Session) (Operation, error)
	CreateLogoutTask(session *Session) (Operation, error)
}
