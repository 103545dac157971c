package api

import "github.com/darmiel/mcauth/internal/yggdrasil"

const (
	AuthenticateRoute = yggdrasil.AuthenticateRoute
	RefreshRoute      = yggdrasil.RefreshRoute
	ValidateRoute     = yggdrasil.ValidateRoute
	InvalidateRoute   = yggdrasil.InvalidateRoute
	SignoutRoute      = yggdrasil.SignoutRoute
	HealthCheckRoute  = yggdrasil.HealthCheckRoute

	// AboutRoute serves the build info, like the metadata root of a real authentication server.
	AboutRoute = "/{$}"

	AdminParent           = "/admin/"
	ListAuditsRoute       = AdminParent + "audits"
	ListActiveTokensRoute = AdminParent + "tokens"

	TaskParent       = AdminParent + "tasks/"
	ListTasksRoute   = TaskParent
	TriggerTaskRoute = TaskParent + "{name}/trigger"
	LogsForTaskRoute = TaskParent + "{name}/logs"
)
