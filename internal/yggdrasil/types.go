package yggdrasil

// Routes of the authentication server, relative to its base URL.
const (
	AuthenticateRoute = "/authenticate"
	RefreshRoute      = "/refresh"
	ValidateRoute     = "/validate"
	InvalidateRoute   = "/invalidate"
	SignoutRoute      = "/signout"
	HealthCheckRoute  = "/health"
)

const (
	DefaultServerURL = "https://authserver.mojang.com"
	DefaultAgentName = "Minecraft"
)

// Agent identifies the game the session is requested for.
type Agent struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

var DefaultAgent = Agent{Name: DefaultAgentName, Version: 1}

type AuthenticateRequest struct {
	Agent       Agent  `json:"agent"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	ClientToken string `json:"clientToken,omitempty"`
	RequestUser bool   `json:"requestUser"`
}

type RefreshRequest struct {
	AccessToken     string      `json:"accessToken"`
	ClientToken     string      `json:"clientToken"`
	SelectedProfile *ProfileRef `json:"selectedProfile,omitempty"`
	RequestUser     bool        `json:"requestUser"`
}

// TokenRequest is the body of /validate and /invalidate.
type TokenRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken,omitempty"`
}

type SignoutRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response is returned by /authenticate and /refresh.
type Response struct {
	AccessToken       string       `json:"accessToken"`
	ClientToken       string       `json:"clientToken"`
	AvailableProfiles []ProfileRef `json:"availableProfiles,omitempty"`
	SelectedProfile   *ProfileRef  `json:"selectedProfile,omitempty"`
	User              *User        `json:"user,omitempty"`
}

type ProfileRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Legacy bool   `json:"legacy,omitempty"`
}

// User is the remote user object. Accounts store it without interpreting it.
type User struct {
	ID         string     `json:"id"`
	Properties []Property `json:"properties,omitempty"`
}

type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ErrorResponse is the body the server sends with every 4xx/5xx status.
type ErrorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
	Cause        string `json:"cause,omitempty"`
}
