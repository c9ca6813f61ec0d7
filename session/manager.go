// Package session owns the authenticated-user lifecycle of the admin
// client: restore on startup, login, logout, and the admin-only role gate.
// The Manager is the single source of truth for "who is logged in" and the
// only writer of persisted credentials outside the gateway's 401 purge.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/go-admin-client/credentials"
	"github.com/jrsteele09/go-admin-client/gateway"
	"github.com/jrsteele09/go-admin-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is the session lifecycle position.
type State string

const (
	StateUninitialized   State = "uninitialized"   // Process start, Restore not yet called
	StateRestoring       State = "restoring"       // Restore in flight
	StateAuthenticated   State = "authenticated"   // Holding a valid admin identity
	StateUnauthenticated State = "unauthenticated" // Empty session
)

// Snapshot is an observable view of the session handed to subscribers.
// There is no partial identity: User is either a full admin record or nil.
type Snapshot struct {
	State   State
	User    *users.User
	Loading bool
}

// AuthAPI is the slice of the gateway the manager needs. *gateway.AuthService
// satisfies it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*gateway.AuthResponse, error)
	Profile(ctx context.Context) (*users.User, error)
}

// Manager drives the session state machine:
//
//	Uninitialized → Restoring → {Authenticated, Unauthenticated}
//	Authenticated → Unauthenticated  (logout, or 401 invalidation signal)
//	Unauthenticated → Authenticated  (successful admin login)
//
// It lives for the whole process; there is no teardown. Overlapping calls
// are not serialized against each other: the last completed mutation wins,
// matching the UI contract that triggers are disabled while a call is in
// flight.
type Manager struct {
	api   AuthAPI
	store credentials.Store
	log   zerolog.Logger

	lock        sync.Mutex
	state       State
	user        *users.User
	loading     bool
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// ManagerOption modifies a Manager during construction.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger (disabled by default).
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a session manager. The session starts empty with the
// loading flag raised; call Restore once at startup to settle it.
func NewManager(api AuthAPI, store credentials.Store, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[NewManager] auth API is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}

	m := &Manager{
		api:         api,
		store:       store,
		log:         zerolog.Nop(),
		state:       StateUninitialized,
		loading:     true,
		subscribers: make(map[int]func(Snapshot)),
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Bind registers the manager on the gateway's session-invalidated hook so a
// 401 anywhere clears the in-memory session too. The credentials themselves
// are already purged by the gateway before the hook fires.
func (m *Manager) Bind(client *gateway.Client) {
	client.OnSessionInvalidated(m.sessionInvalidated)
}

// Restore settles the session from persisted credentials. With no stored
// token it resolves to an empty session without touching the network. With
// one, the profile is fetched: an ADMIN identity establishes the session,
// anything else (other roles, 401, transport failure) purges the stored
// pair and leaves the session empty. The loading flag drops exactly once on
// every exit path.
func (m *Manager) Restore(ctx context.Context) {
	m.transition(func() {
		m.state = StateRestoring
		m.loading = true
	})
	defer m.transition(func() {
		m.loading = false
	})

	pair, err := m.store.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("credential store unreadable, treating as logged out")
		m.purgeAndClear()
		return
	}
	if pair.Empty() {
		m.transition(func() {
			m.user = nil
			m.state = StateUnauthenticated
		})
		return
	}

	user, err := m.api.Profile(ctx)
	if err != nil {
		m.log.Info().Err(err).Msg("stored credentials rejected during restore")
		m.purgeAndClear()
		return
	}
	if !user.IsAdmin() {
		m.log.Info().Str("email", user.Email).Msg("restored identity is not an admin, discarding")
		m.purgeAndClear()
		return
	}

	m.transition(func() {
		m.user = user
		m.state = StateAuthenticated
	})
	m.log.Info().Str("email", user.Email).Msg("session restored")
}

// Login authenticates against the backend and applies the role gate. A
// non-admin identity fails with ErrAccessDenied even though the backend
// authenticated it: nothing is persisted and the session is left as it was.
// A backend rejection fails with ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, email, password string) (*users.User, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		if isCredentialRejection(err) {
			return nil, errors.Wrap(ErrInvalidCredentials, email)
		}
		return nil, errors.Wrap(err, "[Manager.Login]")
	}

	if !resp.User.IsAdmin() {
		m.log.Info().Str("email", resp.User.Email).Msg("login rejected by role gate")
		return nil, errors.Wrap(ErrAccessDenied, email)
	}

	pair := credentials.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := m.store.Save(pair); err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] persist credentials")
	}

	user := resp.User
	m.transition(func() {
		m.user = &user
		m.state = StateAuthenticated
	})
	m.log.Info().Str("email", user.Email).Msg("logged in")
	return &user, nil
}

// Logout purges persisted credentials and clears the session. It never
// fails and is safe to call when already logged out.
func (m *Manager) Logout() {
	m.purgeAndClear()
	m.log.Info().Msg("logged out")
}

// Current returns the authenticated identity, if any.
func (m *Manager) Current() (*users.User, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.user, m.user != nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

// Loading reports whether the initial restore is still settling.
func (m *Manager) Loading() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.loading
}

// Snapshot returns the current observable session view.
func (m *Manager) Snapshot() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()
	return Snapshot{State: m.state, User: m.user, Loading: m.loading}
}

// Subscribe registers an observer called after every state change. The
// returned function unsubscribes. Observers run synchronously on the
// goroutine that caused the change.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.lock.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.lock.Unlock()

	return func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		delete(m.subscribers, id)
	}
}

// sessionInvalidated is the gateway's 401 signal. Credentials are already
// purged; only the in-memory session needs clearing.
func (m *Manager) sessionInvalidated() {
	m.transition(func() {
		m.user = nil
		m.state = StateUnauthenticated
	})
	m.log.Info().Msg("session invalidated by backend")
}

// purgeAndClear removes persisted credentials and empties the session.
func (m *Manager) purgeAndClear() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear credential store")
	}
	m.transition(func() {
		m.user = nil
		m.state = StateUnauthenticated
	})
}

// transition applies a state mutation under the lock and notifies
// subscribers with the resulting snapshot outside of it.
func (m *Manager) transition(mutate func()) {
	m.lock.Lock()
	mutate()
	snapshot := Snapshot{State: m.state, User: m.user, Loading: m.loading}
	subs := make([]func(Snapshot), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.lock.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// isCredentialRejection reports whether a login failure means "bad
// email/password" rather than a transport or server fault. The backend
// answers a failed login with 400 or 401; the 401 arrives here as
// ErrSessionExpired because the gateway's interceptor is global.
func isCredentialRejection(err error) bool {
	if errors.Is(err, gateway.ErrSessionExpired) {
		return true
	}
	if apiErr, ok := gateway.AsAPIError(err); ok {
		return apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}
