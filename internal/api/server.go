package api

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/darmiel/mcauth/internal/api/middleware"
	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/config"
	"github.com/darmiel/mcauth/internal/store"
	"github.com/darmiel/mcauth/internal/tasks"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

const (
	// ProviderName is reported in audit entries written by the server.
	ProviderName = "emulator"

	PurgeTaskName = "purge-expired-tokens"
)

// user is a configured account of the emulated authentication server.
type user struct {
	ID         string
	Username   string
	Password   string
	Profiles   []yggdrasil.ProfileRef
	Properties []yggdrasil.Property
}

func (u *user) profile(id string) (yggdrasil.ProfileRef, bool) {
	for _, p := range u.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return yggdrasil.ProfileRef{}, false
}

// Server emulates a Yggdrasil authentication server for local testing.
type Server struct {
	users      map[string]*user // by username
	usersByID  map[string]*user
	signingKey []byte
	tokenTTL   time.Duration

	tokenStore  *store.InMemoryTokenStore
	taskManager *tasks.Manager
	auditor     *audit.InMemoryAuditor

	now func() time.Time
}

func NewServer(
	cfg config.ServerConfig,
	tokenStore *store.InMemoryTokenStore,
	taskManager *tasks.Manager,
	auditor *audit.InMemoryAuditor,
) (*Server, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating server config: %w", err)
	}
	if tokenStore == nil {
		tokenStore = store.NewInMemoryTokenStore()
	}
	if auditor == nil {
		auditor = audit.NewInMemoryAuditor()
	}

	signingKey := []byte(cfg.SigningKey)
	if len(signingKey) == 0 {
		signingKey = make([]byte, 32)
		if _, err := rand.Read(signingKey); err != nil {
			return nil, fmt.Errorf("generating signing key: %w", err)
		}
	}

	s := &Server{
		users:       make(map[string]*user, len(cfg.Users)),
		usersByID:   make(map[string]*user, len(cfg.Users)),
		signingKey:  signingKey,
		tokenTTL:    cfg.TokenTTL,
		tokenStore:  tokenStore,
		taskManager: taskManager,
		auditor:     auditor,
		now:         time.Now,
	}
	for _, uc := range cfg.Users {
		u := newUser(uc)
		if _, dup := s.usersByID[u.ID]; dup {
			return nil, fmt.Errorf("user id '%s' is not unique", u.ID)
		}
		s.users[u.Username] = u
		s.usersByID[u.ID] = u
	}

	if taskManager != nil {
		taskManager.Register(tasks.TaskDefinition{
			Name:     PurgeTaskName,
			Interval: cfg.PurgeInterval,
			Handler:  s.purgeExpiredTokens,
		})
	}
	return s, nil
}

func newUser(uc config.UserConfig) *user {
	u := &user{
		ID:       uc.ID,
		Username: uc.Username,
		Password: uc.Password,
	}
	if u.ID == "" {
		u.ID = dashless(uuid.NewSHA1(uuid.NameSpaceOID, []byte("mcauth:user:"+uc.Username)))
	}
	for _, p := range uc.Profiles {
		u.Profiles = append(u.Profiles, yggdrasil.ProfileRef{ID: p.ID, Name: p.Name, Legacy: p.Legacy})
	}
	for name, value := range uc.Properties {
		u.Properties = append(u.Properties, yggdrasil.Property{Name: name, Value: value})
	}
	return u
}

func dashless(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// yggdrasil routes
	mux.HandleFunc("POST "+AuthenticateRoute, s.handleAuthenticate)
	mux.HandleFunc("POST "+RefreshRoute, s.handleRefresh)
	mux.HandleFunc("POST "+ValidateRoute, s.handleValidate)
	mux.HandleFunc("POST "+InvalidateRoute, s.handleInvalidate)
	mux.HandleFunc("POST "+SignoutRoute, s.handleSignout)

	// admin routes
	mux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudit)
	mux.HandleFunc("GET "+ListActiveTokensRoute, s.handleAdminTokens)
	mux.HandleFunc("GET "+ListTasksRoute, s.handleListTasks)
	mux.HandleFunc("POST "+TriggerTaskRoute, s.handleTriggerTask)
	mux.HandleFunc("GET "+LogsForTaskRoute, s.handleLogsForTask)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
