package core

// SessionStatus tells the launcher whether the game can be started with a session.
type SessionStatus int

const (
	SessionUndetermined SessionStatus = iota
	SessionRequiresPassword
	SessionPlayableOffline
	SessionPlayableOnline
)

func (s SessionStatus) String() string {
	switch s {
	case SessionRequiresPassword:
		return "requires_password"
	case SessionPlayableOffline:
		return "playable_offline"
	case SessionPlayableOnline:
		return "playable_online"
	default:
		return "undetermined"
	}
}

// Session is what a game launch needs from an account. Operations fill it in on completion.
type Session struct {
	Status SessionStatus

	// AuthUsername is the name the user logged in with.
	AuthUsername string
	// PlayerName is the display name of the selected profile.
	PlayerName string
	// UUID is the ID of the selected profile.
	UUID        string
	AccessToken string
	ClientToken string
	// UserType is "legacy" for legacy profiles, "mojang" otherwise.
	UserType string
	// UserProperties are the remote user properties, flattened.
	UserProperties map[string][]string
}

// SessionID is the legacy "token:<access>:<uuid>" form passed to old game versions.
func (s *Session) SessionID() string {
	if s.AccessToken == "" || s.UUID == "" {
		return "-"
	}
	return "token:" + s.AccessToken + ":" + s.UUID
}
