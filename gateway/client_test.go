package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-admin-client/credentials"
	fakecredentialstore "github.com/jrsteele09/go-admin-client/credentials/repofake"
	"github.com/jrsteele09/go-admin-client/gateway"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*gateway.Client, *fakecredentialstore.FakeStore, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := fakecredentialstore.NewFakeStore()
	client, err := gateway.New(srv.URL, store)
	require.NoError(t, err)
	return client, store, srv
}

func TestClient_New(t *testing.T) {
	store := fakecredentialstore.NewFakeStore()

	t.Run("requires store", func(t *testing.T) {
		_, err := gateway.New("http://localhost:4000/api", nil)
		require.Error(t, err)
	})

	t.Run("requires absolute base URL", func(t *testing.T) {
		_, err := gateway.New("/api", store)
		require.Error(t, err)
	})

	t.Run("trailing slash is tolerated", func(t *testing.T) {
		_, err := gateway.New("http://localhost:4000/api/", store)
		require.NoError(t, err)
	})
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	var gotRequestID string
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"status":"success","message":"ok","data":{"id":1,"email":"a@x.com","role":"ADMIN"}}`))
	}))

	store.Seed(credentials.Pair{AccessToken: "token-123", RefreshToken: "refresh-123"})

	_, err := client.Auth().Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer token-123", gotAuth)
	require.NotEmpty(t, gotRequestID)
}

func TestClient_NoBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success","message":"ok","data":null}`))
	}))

	_, err := client.Auth().Profile(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestClient_UnauthorizedPurgesAndNotifies(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	store.Seed(credentials.Pair{AccessToken: "stale", RefreshToken: "stale-r"})

	var invalidated int
	client.OnSessionInvalidated(func() { invalidated++ })

	_, err := client.Auth().Profile(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, gateway.ErrSessionExpired))

	_, set := store.Stored()
	require.False(t, set)
	require.Equal(t, 1, invalidated)
	require.GreaterOrEqual(t, store.ClearCalls, 1)
}

func TestClient_UnauthorizedStorm(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	store.Seed(credentials.Pair{AccessToken: "stale", RefreshToken: "stale-r"})

	var notified atomic.Int32
	client.OnSessionInvalidated(func() { notified.Add(1) })

	const calls = 10
	errs := make(chan error, calls)
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Auth().Profile(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.True(t, errors.Is(err, gateway.ErrSessionExpired))
	}

	// After the storm settles the pair must be fully absent, never partial.
	pair, set := store.Stored()
	require.False(t, set)
	require.True(t, pair.Empty())
	require.GreaterOrEqual(t, notified.Load(), int32(1))
}

func TestClient_BackendErrorBecomesAPIError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"title is required","data":null}`))
	}))

	_, err := client.Products().Create(context.Background(), gateway.CreateProductParams{})
	require.Error(t, err)

	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "title is required", apiErr.Message)
}

func TestClient_ErrorStatusInSuccessfulResponse(t *testing.T) {
	// Some backends report failures inside a 200 envelope.
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"something broke","data":null}`))
	}))

	_, err := client.Categories().List(context.Background())
	require.Error(t, err)

	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, "something broke", apiErr.Message)
}

func TestClient_NetworkFailurePropagates(t *testing.T) {
	store := fakecredentialstore.NewFakeStore()
	client, err := gateway.New("http://127.0.0.1:1", store) // nothing listens here
	require.NoError(t, err)

	_, err = client.Users().List(context.Background())
	require.Error(t, err)
	require.False(t, errors.Is(err, gateway.ErrSessionExpired))
	_, isAPIErr := gateway.AsAPIError(err)
	require.False(t, isAPIErr)
}

func TestClient_DecodesListEnvelopeWithPagination(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		require.Equal(t, "mug", r.URL.Query().Get("search"))
		w.Write([]byte(`{
			"status":"success","message":"ok",
			"data":[{"id":7,"title":"Mug","price":"9.99","stock":3,"categoryId":1,"isActive":true,"category":{"id":1,"name":"Kitchen"}}],
			"pagination":{"page":2,"limit":10,"total":31,"pages":4}
		}`))
	}))

	products, page, err := client.Products().List(context.Background(), gateway.ListProductsParams{Page: 2, Limit: 10, Search: "mug"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Mug", products[0].Title)
	require.Equal(t, "Kitchen", products[0].Category.Name)
	require.NotNil(t, page)
	require.Equal(t, 31, page.Total)
	require.Equal(t, 4, page.Pages)
}

func TestClient_OrderEndpointsUseAdminPaths(t *testing.T) {
	const orderJSON = `{"id":5,"total":"10.00","currency":"INR","status":"PAID","items":[]}`
	var paths []string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/orders/admin/all" {
			w.Write([]byte(`{"status":"success","message":"ok","data":[` + orderJSON + `]}`))
			return
		}
		w.Write([]byte(`{"status":"success","message":"ok","data":` + orderJSON + `}`))
	}))

	_, _, err := client.Orders().List(context.Background(), gateway.ListOrdersParams{Status: gateway.OrderPaid})
	require.NoError(t, err)

	_, err = client.Orders().Get(context.Background(), 5)
	require.NoError(t, err)

	_, err = client.Orders().UpdateStatus(context.Background(), 5, gateway.UpdateOrderStatusParams{Status: gateway.OrderFulfilled})
	require.NoError(t, err)

	require.Equal(t, []string{
		"GET /orders/admin/all",
		"GET /orders/5",
		"PATCH /orders/admin/5/status",
	}, paths)
}
