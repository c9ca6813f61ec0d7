package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-client/credentials"
	fakecredentialstore "github.com/jrsteele09/go-admin-client/credentials/repofake"
	"github.com/jrsteele09/go-admin-client/gateway"
	"github.com/jrsteele09/go-admin-client/session"
	"github.com/jrsteele09/go-admin-client/users"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	loginResp    *gateway.AuthResponse
	loginErr     error
	profileResp  *users.User
	profileErr   error
	loginCalls   int
	profileCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*gateway.AuthResponse, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthAPI) Profile(ctx context.Context) (*users.User, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profileResp, nil
}

func adminUser() users.User {
	return users.User{
		ID:        1,
		Email:     "admin@x.com",
		Role:      users.RoleAdmin,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func customerUser() users.User {
	u := adminUser()
	u.ID = 2
	u.Email = "customer@x.com"
	u.Role = users.RoleUser
	return u
}

func newManager(t *testing.T, api *fakeAuthAPI, store credentials.Store) *session.Manager {
	t.Helper()
	m, err := session.NewManager(api, store)
	require.NoError(t, err)
	return m
}

func TestNewManager_Validation(t *testing.T) {
	store := fakecredentialstore.NewFakeStore()

	t.Run("requires api", func(t *testing.T) {
		_, err := session.NewManager(nil, store)
		require.Error(t, err)
	})

	t.Run("requires store", func(t *testing.T) {
		_, err := session.NewManager(&fakeAuthAPI{}, nil)
		require.Error(t, err)
	})

	t.Run("starts empty and loading", func(t *testing.T) {
		m := newManager(t, &fakeAuthAPI{}, store)
		require.Equal(t, session.StateUninitialized, m.State())
		require.True(t, m.Loading())
		_, ok := m.Current()
		require.False(t, ok)
	})
}

func TestManager_Restore(t *testing.T) {
	t.Run("no stored token resolves empty without a network call", func(t *testing.T) {
		api := &fakeAuthAPI{}
		store := fakecredentialstore.NewFakeStore()
		m := newManager(t, api, store)

		m.Restore(context.Background())

		require.Equal(t, session.StateUnauthenticated, m.State())
		require.False(t, m.Loading())
		require.Zero(t, api.profileCalls)
	})

	t.Run("admin profile establishes the session", func(t *testing.T) {
		admin := adminUser()
		api := &fakeAuthAPI{profileResp: &admin}
		store := fakecredentialstore.NewFakeStore()
		store.Seed(credentials.Pair{AccessToken: "A", RefreshToken: "R"})
		m := newManager(t, api, store)

		m.Restore(context.Background())

		require.Equal(t, session.StateAuthenticated, m.State())
		require.False(t, m.Loading())
		user, ok := m.Current()
		require.True(t, ok)
		require.Equal(t, "admin@x.com", user.Email)
	})

	t.Run("non-admin profile purges credentials and stays empty", func(t *testing.T) {
		customer := customerUser()
		api := &fakeAuthAPI{profileResp: &customer}
		store := fakecredentialstore.NewFakeStore()
		store.Seed(credentials.Pair{AccessToken: "A", RefreshToken: "R"})
		m := newManager(t, api, store)

		m.Restore(context.Background())

		require.Equal(t, session.StateUnauthenticated, m.State())
		require.False(t, m.Loading())
		_, set := store.Stored()
		require.False(t, set)
	})

	t.Run("profile failure purges credentials and stays empty", func(t *testing.T) {
		api := &fakeAuthAPI{profileErr: errors.New("boom")}
		store := fakecredentialstore.NewFakeStore()
		store.Seed(credentials.Pair{AccessToken: "A", RefreshToken: "R"})
		m := newManager(t, api, store)

		m.Restore(context.Background())

		require.Equal(t, session.StateUnauthenticated, m.State())
		require.False(t, m.Loading())
		_, set := store.Stored()
		require.False(t, set)
	})

	t.Run("unreadable store treated as logged out", func(t *testing.T) {
		api := &fakeAuthAPI{}
		store := fakecredentialstore.NewFakeStore()
		store.LoadErr = errors.New("disk gone")
		m := newManager(t, api, store)

		m.Restore(context.Background())

		require.Equal(t, session.StateUnauthenticated, m.State())
		require.False(t, m.Loading())
		require.Zero(t, api.profileCalls)
	})
}

func TestManager_Login(t *testing.T) {
	t.Run("admin login persists the exact pair and sets the session", func(t *testing.T) {
		admin := adminUser()
		api := &fakeAuthAPI{loginResp: &gateway.AuthResponse{User: admin, AccessToken: "A", RefreshToken: "R"}}
		store := fakecredentialstore.NewFakeStore()
		m := newManager(t, api, store)

		user, err := m.Login(context.Background(), "admin@x.com", "pw")
		require.NoError(t, err)
		require.Equal(t, users.RoleAdmin, user.Role)
		require.Equal(t, session.StateAuthenticated, m.State())

		pair, set := store.Stored()
		require.True(t, set)
		require.Equal(t, "A", pair.AccessToken)
		require.Equal(t, "R", pair.RefreshToken)
	})

	t.Run("non-admin login fails with ErrAccessDenied and persists nothing", func(t *testing.T) {
		customer := customerUser()
		api := &fakeAuthAPI{loginResp: &gateway.AuthResponse{User: customer, AccessToken: "A", RefreshToken: "R"}}
		store := fakecredentialstore.NewFakeStore()
		m := newManager(t, api, store)

		_, err := m.Login(context.Background(), "customer@x.com", "pw")
		require.Error(t, err)
		require.True(t, errors.Is(err, session.ErrAccessDenied))

		require.Zero(t, store.SaveCalls)
		_, set := store.Stored()
		require.False(t, set)
		_, ok := m.Current()
		require.False(t, ok)
	})

	t.Run("non-admin login leaves an existing session untouched", func(t *testing.T) {
		admin := adminUser()
		api := &fakeAuthAPI{loginResp: &gateway.AuthResponse{User: admin, AccessToken: "A", RefreshToken: "R"}}
		store := fakecredentialstore.NewFakeStore()
		m := newManager(t, api, store)

		_, err := m.Login(context.Background(), "admin@x.com", "pw")
		require.NoError(t, err)

		customer := customerUser()
		api.loginResp = &gateway.AuthResponse{User: customer, AccessToken: "A2", RefreshToken: "R2"}

		_, err = m.Login(context.Background(), "customer@x.com", "pw")
		require.True(t, errors.Is(err, session.ErrAccessDenied))

		user, ok := m.Current()
		require.True(t, ok)
		require.Equal(t, "admin@x.com", user.Email)
		pair, _ := store.Stored()
		require.Equal(t, "A", pair.AccessToken)
	})

	t.Run("backend rejection maps to ErrInvalidCredentials", func(t *testing.T) {
		store := fakecredentialstore.NewFakeStore()

		for name, loginErr := range map[string]error{
			"400 envelope": &gateway.APIError{StatusCode: http.StatusBadRequest, Message: "bad login"},
			"401 intercepted": errors.Wrap(gateway.ErrSessionExpired, "POST /auth/login"),
		} {
			t.Run(name, func(t *testing.T) {
				api := &fakeAuthAPI{loginErr: loginErr}
				m := newManager(t, api, store)

				_, err := m.Login(context.Background(), "admin@x.com", "wrong")
				require.True(t, errors.Is(err, session.ErrInvalidCredentials))
				_, ok := m.Current()
				require.False(t, ok)
			})
		}
	})

	t.Run("transport failure propagates unmapped", func(t *testing.T) {
		api := &fakeAuthAPI{loginErr: errors.New("connection refused")}
		store := fakecredentialstore.NewFakeStore()
		m := newManager(t, api, store)

		_, err := m.Login(context.Background(), "admin@x.com", "pw")
		require.Error(t, err)
		require.False(t, errors.Is(err, session.ErrInvalidCredentials))
		require.False(t, errors.Is(err, session.ErrAccessDenied))
	})
}

func TestManager_LogoutIsIdempotent(t *testing.T) {
	admin := adminUser()
	api := &fakeAuthAPI{loginResp: &gateway.AuthResponse{User: admin, AccessToken: "A", RefreshToken: "R"}}
	store := fakecredentialstore.NewFakeStore()
	m := newManager(t, api, store)

	_, err := m.Login(context.Background(), "admin@x.com", "pw")
	require.NoError(t, err)

	m.Logout()
	m.Logout() // already logged out, still fine

	require.Equal(t, session.StateUnauthenticated, m.State())
	_, set := store.Stored()
	require.False(t, set)
	_, ok := m.Current()
	require.False(t, ok)
}

func TestManager_Subscribe(t *testing.T) {
	admin := adminUser()
	api := &fakeAuthAPI{loginResp: &gateway.AuthResponse{User: admin, AccessToken: "A", RefreshToken: "R"}}
	store := fakecredentialstore.NewFakeStore()
	m := newManager(t, api, store)

	var states []session.State
	unsubscribe := m.Subscribe(func(s session.Snapshot) {
		states = append(states, s.State)
	})

	_, err := m.Login(context.Background(), "admin@x.com", "pw")
	require.NoError(t, err)
	m.Logout()

	require.Equal(t, []session.State{session.StateAuthenticated, session.StateUnauthenticated}, states)

	unsubscribe()
	_, err = m.Login(context.Background(), "admin@x.com", "pw")
	require.NoError(t, err)
	require.Len(t, states, 2)
}

func TestManager_RestoreStateSequence(t *testing.T) {
	api := &fakeAuthAPI{}
	store := fakecredentialstore.NewFakeStore()
	m := newManager(t, api, store)

	var snapshots []session.Snapshot
	m.Subscribe(func(s session.Snapshot) {
		snapshots = append(snapshots, s)
	})

	m.Restore(context.Background())

	require.GreaterOrEqual(t, len(snapshots), 2)
	require.Equal(t, session.StateRestoring, snapshots[0].State)
	require.True(t, snapshots[0].Loading)
	last := snapshots[len(snapshots)-1]
	require.Equal(t, session.StateUnauthenticated, last.State)
	require.False(t, last.Loading)
}

// End-to-end: a stale token restored through a real gateway hits a 401,
// the gateway purges the pair and the bound manager ends up empty.
func TestManager_RestoreWithStaleToken_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/profile", r.URL.Path)
		require.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := fakecredentialstore.NewFakeStore()
	store.Seed(credentials.Pair{AccessToken: "stale", RefreshToken: "stale-r"})

	client, err := gateway.New(srv.URL, store)
	require.NoError(t, err)

	m, err := session.NewManager(client.Auth(), store)
	require.NoError(t, err)
	m.Bind(client)

	m.Restore(context.Background())

	require.Equal(t, session.StateUnauthenticated, m.State())
	require.False(t, m.Loading())
	pair, set := store.Stored()
	require.False(t, set)
	require.True(t, pair.Empty())
}

// End-to-end: a 401 on any authenticated call clears both the persisted
// pair and the in-memory session of a bound manager.
func TestManager_BoundSessionClearedByAny401(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":"ok","data":{
			"user":{"id":1,"email":"admin@x.com","role":"ADMIN"},
			"accessToken":"A","refreshToken":"R"}}`))
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := fakecredentialstore.NewFakeStore()
	client, err := gateway.New(srv.URL, store)
	require.NoError(t, err)

	m, err := session.NewManager(client.Auth(), store)
	require.NoError(t, err)
	m.Bind(client)

	_, err = m.Login(context.Background(), "admin@x.com", "pw")
	require.NoError(t, err)
	require.Equal(t, session.StateAuthenticated, m.State())

	_, _, err = client.Products().List(context.Background(), gateway.ListProductsParams{})
	require.True(t, errors.Is(err, gateway.ErrSessionExpired))

	require.Equal(t, session.StateUnauthenticated, m.State())
	_, ok := m.Current()
	require.False(t, ok)
	_, set := store.Stored()
	require.False(t, set)
}
