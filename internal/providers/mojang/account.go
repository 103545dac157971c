package mojang

import (
	"sync"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/tasks"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

// Token names stored by a Mojang account.
const (
	TokenLoginUsername = "login_username"
	TokenAccess        = "accessToken"
	TokenClient        = "clientToken"
)

// User is the remote user record, stored and returned as-is.
type User = yggdrasil.User

var _ core.Account = (*Account)(nil)

// Account stores the tokens, profiles and remote user of a Mojang account.
//
// All fields are guarded by mu, which is never held across a network call.
// While an operation is in flight only that operation writes tokens, profiles and user.
type Account struct {
	typ *Type

	mu       sync.Mutex
	tokens   core.TokenStore
	profiles []Profile
	// selection is kept by profile ID so replacing profiles can never leave it dangling
	selectedID  string
	hasSelected bool
	user        User
	inflight    *tasks.Operation
}

func NewAccount(t *Type) *Account {
	return &Account{
		typ:    t,
		tokens: core.NewTokenStore(),
	}
}

func (a *Account) Type() core.AccountType {
	return a.typ
}

func (a *Account) Token(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tokens.Get(name)
}

func (a *Account) SetToken(name, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens.Set(name, value)
}

// AccessToken is blank if not logged in.
func (a *Account) AccessToken() string {
	return a.Token(TokenAccess)
}

func (a *Account) SetAccessToken(token string) {
	a.SetToken(TokenAccess, token)
}

// ClientToken identifies this launcher instance towards the server. It outlives sessions.
func (a *Account) ClientToken() string {
	return a.Token(TokenClient)
}

func (a *Account) SetClientToken(token string) {
	a.SetToken(TokenClient, token)
}

func (a *Account) LoginUsername() string {
	return a.Token(TokenLoginUsername)
}

func (a *Account) Status() core.AccountStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *Account) statusLocked() core.AccountStatus {
	if a.tokens.Get(TokenAccess) == "" {
		return core.StatusNotVerified
	}
	return core.StatusVerified
}

func (a *Account) State() core.AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight == nil {
		return core.StateIdle
	}
	return a.inflight.Kind().State()
}

// InFlight returns the running operation, if any.
func (a *Account) InFlight() (core.Operation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight == nil {
		return nil, false
	}
	return a.inflight, true
}

func (a *Account) User() User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneUser(a.user)
}

func (a *Account) SetUser(user User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = cloneUser(user)
}

// MojangProfiles returns a copy of the profile list.
func (a *Account) MojangProfiles() []Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	cpy := make([]Profile, len(a.profiles))
	copy(cpy, a.profiles)
	return cpy
}

func (a *Account) Profiles() []core.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	list := make([]core.Profile, len(a.profiles))
	for i, p := range a.profiles {
		list[i] = p
	}
	return list
}

// SetProfiles replaces the profile list. Profiles repeating an earlier ID are dropped.
// The selection survives only if its ID is still present.
func (a *Account) SetProfiles(profiles []Profile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setProfilesLocked(profiles)
}

func (a *Account) setProfilesLocked(profiles []Profile) {
	a.profiles = make([]Profile, 0, len(profiles))
	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if _, dup := seen[p.id]; dup {
			continue
		}
		seen[p.id] = struct{}{}
		a.profiles = append(a.profiles, p)
	}
	if a.hasSelected && a.indexOfLocked(a.selectedID) == core.NotFound {
		a.selectedID, a.hasSelected = "", false
	}
}

// SetCurrentProfile selects the profile with the given ID.
// If there is no such profile it returns false and keeps the current selection.
func (a *Account) SetCurrentProfile(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectLocked(id)
}

func (a *Account) selectLocked(id string) bool {
	if a.indexOfLocked(id) == core.NotFound {
		return false
	}
	a.selectedID, a.hasSelected = id, true
	return true
}

func (a *Account) CurrentProfile() (core.Profile, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.currentLocked()
	if !ok {
		return nil, false
	}
	return p, true
}

func (a *Account) currentLocked() (Profile, bool) {
	if !a.hasSelected {
		return Profile{}, false
	}
	idx := a.indexOfLocked(a.selectedID)
	if idx == core.NotFound {
		return Profile{}, false
	}
	return a.profiles[idx], true
}

func (a *Account) ProfileAt(index int) (core.Profile, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.profiles) {
		return nil, false
	}
	return a.profiles[index], true
}

func (a *Account) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.profiles)
}

func (a *Account) IndexOf(id string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.indexOfLocked(id)
}

func (a *Account) indexOfLocked(id string) int {
	for i, p := range a.profiles {
		if p.id == id {
			return i
		}
	}
	return core.NotFound
}

func (a *Account) Avatar() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.currentLocked()
	if !ok {
		return ""
	}
	return p.Avatar()
}

func (a *Account) BigAvatar() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.currentLocked()
	if !ok {
		return ""
	}
	return p.BigAvatar()
}

// PopulateSession fills session from the current account state.
func (a *Account) PopulateSession(session *core.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.populateSessionLocked(session)
}

func (a *Account) populateSessionLocked(session *core.Session) {
	if session == nil {
		return
	}
	session.AuthUsername = a.tokens.Get(TokenLoginUsername)
	session.AccessToken = a.tokens.Get(TokenAccess)
	session.ClientToken = a.tokens.Get(TokenClient)
	session.PlayerName, session.UUID, session.UserType = "", "", ""
	if p, ok := a.currentLocked(); ok {
		session.PlayerName = p.name
		session.UUID = p.id
		session.UserType = "mojang"
		if p.legacy {
			session.UserType = "legacy"
		}
	}
	session.UserProperties = make(map[string][]string, len(a.user.Properties))
	for _, prop := range a.user.Properties {
		session.UserProperties[prop.Name] = append(session.UserProperties[prop.Name], prop.Value)
	}
	switch {
	case session.AccessToken != "" && session.UUID != "":
		session.Status = core.SessionPlayableOnline
	default:
		session.Status = core.SessionRequiresPassword
	}
}

func cloneUser(u User) User {
	cpy := User{ID: u.ID}
	if u.Properties != nil {
		cpy.Properties = make([]yggdrasil.Property, len(u.Properties))
		copy(cpy.Properties, u.Properties)
	}
	return cpy
}
