// Package session holds the single source of truth for "who is logged in".
// The Store is the only process-wide mutable state in the SDK; everything
// else is per-call or per-view.
package session

import (
	"context"
	"log/slog"
	"sync"

	"mingle/client"
	"mingle/models"
	"mingle/services"
)

// State is the auth store lifecycle state.
type State int

const (
	// StateUninitialized is the state before Initialize has been called.
	StateUninitialized State = iota
	// StateInitializing is the transient startup state. While the store is
	// initializing, no authorization decision may be treated as final.
	StateInitializing
	// StateGuest is a fully loaded, unauthenticated session.
	StateGuest
	// StateAuthenticated is a fully loaded session with a current user.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Store owns the current session. It registers itself as the transport's
// unauthorized handler at construction time, before any request can 401,
// so a session expiry detected on any request immediately demotes the
// session to guest.
type Store struct {
	api   *client.Client
	auth  *services.AuthService
	users *services.UserService
	log   *slog.Logger

	mu       sync.RWMutex
	state    State
	user     *models.User
	onChange func(*models.User)

	initOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// OnChange registers a callback invoked with the new user (nil for guest)
// after every session transition. The SPA used this to re-evaluate route
// guards; the CLI uses it to print session changes.
func OnChange(fn func(*models.User)) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore creates the auth store and wires the 401 hook.
func NewStore(api *client.Client, opts ...Option) *Store {
	svcs := services.New(api)
	s := &Store{
		api:   api,
		auth:  svcs.Auth,
		users: svcs.Users,
		log:   slog.Default(),
		state: StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	api.OnUnauthorized(s.handleUnauthorized)
	return s
}

// Initialize resolves the session at startup by asking the backend who the
// current user is. It runs exactly once per Store; later calls are no-ops.
// Any failure, including 401, is the normal guest outcome, never an error:
// the application must be able to start offline or logged out.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		s.setState(StateInitializing, nil)

		user, err := s.users.Me(ctx)
		if err != nil {
			if !client.IsAuthError(err) {
				s.log.Warn("session check failed, continuing as guest", "error", err)
			}
			s.setState(StateGuest, nil)
			return
		}
		s.setState(StateAuthenticated, user)
	})
}

// Login exchanges credentials for an authenticated session. When the
// response carries no embedded user, a follow-up "who am I" call resolves
// it. Rejected credentials surface as an error satisfying
// errors.Is(err, client.ErrUnauthorized) with the server's message attached.
func (s *Store) Login(ctx context.Context, creds services.Credentials) (*models.User, error) {
	sess, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, sess)
}

// Register creates an account. Deployments that auto-login return a token
// (and usually a user): the store becomes authenticated. Deployments that
// require an explicit login return neither: the store stays guest and the
// returned user is nil.
func (s *Store) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	sess, err := s.auth.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	if sess.Token == "" {
		return nil, nil
	}
	return s.adopt(ctx, sess)
}

// adopt installs a freshly issued session: token first, so the follow-up
// me-call (when the response had no embedded user) is authenticated.
func (s *Store) adopt(ctx context.Context, sess *models.AuthSession) (*models.User, error) {
	if sess.Token != "" {
		if err := s.api.SetToken(sess.Token); err != nil {
			return nil, err
		}
	}
	user := sess.User
	if user == nil {
		var err error
		user, err = s.users.Me(ctx)
		if err != nil {
			return nil, err
		}
	}
	s.setState(StateAuthenticated, user)
	return user, nil
}

// Logout invalidates the server-side session best-effort and
// unconditionally clears the local session. A failing logout request is
// swallowed: the local state is cleared regardless of what the server says.
func (s *Store) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.log.Debug("server logout failed, clearing local session anyway", "error", err)
	}
	if err := s.api.ClearToken(); err != nil {
		s.log.Warn("token clear failed", "error", err)
	}
	s.setState(StateGuest, nil)
}

// CurrentUser returns the logged-in user, or nil for guest/initializing.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// State returns the store's lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Initializing reports whether the startup session check is still running.
func (s *Store) Initializing() bool {
	return s.State() == StateInitializing
}

// Authenticated reports whether a user is logged in.
func (s *Store) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// handleUnauthorized is invoked by the transport on every 401 response.
// An expired session demotes straight to guest without re-entering the
// initializing state; protected views re-evaluate on the change callback.
func (s *Store) handleUnauthorized() {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return
	}
	s.state = StateGuest
	s.user = nil
	fn := s.onChange
	s.mu.Unlock()

	s.log.Info("session expired, demoted to guest")
	if err := s.api.ClearToken(); err != nil {
		s.log.Warn("token clear failed", "error", err)
	}
	if fn != nil {
		fn(nil)
	}
}

func (s *Store) setState(state State, user *models.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil && state != StateInitializing {
		fn(user)
	}
}
