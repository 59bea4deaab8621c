package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/auth"
)

// backend is a fake storefront API: it accepts one access token, counts
// calls, and lets tests script the refresh endpoint.
type backend struct {
	valid string

	refreshCalls  atomic.Int32
	resourceCalls atomic.Int32
	unauthorized  atomic.Int32

	// refresh handles POST /auth/token/refresh/. Defaults to issuing
	// the valid token.
	refresh func(w http.ResponseWriter, r *http.Request)
	// onUnauthorized runs after each 401 sent from a resource endpoint.
	onUnauthorized func(n int32)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/v1/auth/token/refresh/" {
		b.refreshCalls.Add(1)
		if b.refresh != nil {
			b.refresh(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": b.valid})
		return
	}

	b.resourceCalls.Add(1)
	if r.Header.Get("Authorization") != "Bearer "+b.valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
		n := b.unauthorized.Add(1)
		if b.onUnauthorized != nil {
			b.onUnauthorized(n)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": r.URL.Path})
}

func TestExpiredTokenIsRefreshedAndRetried(t *testing.T) {
	b := &backend{valid: "a2"}
	var refreshBody map[string]string
	b.refresh = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&refreshBody))
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]string{"access": "a2", "refresh": "r2"})
	}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)

	var out map[string]any
	require.NoError(t, c.Get(context.Background(), "orders/", nil, &out))

	assert.Equal(t, "/api/v1/orders/", out["path"])
	assert.Equal(t, int32(1), b.refreshCalls.Load())
	assert.Equal(t, int32(2), b.resourceCalls.Load())
	assert.Equal(t, "r1", refreshBody["refresh"])

	access, _ := store.AccessToken()
	refresh, _ := store.RefreshToken()
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r2", refresh, "rotated refresh token is persisted")
}

func TestRefreshWithoutRotationKeepsRefreshToken(t *testing.T) {
	b := &backend{valid: "a2"}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)
	require.NoError(t, c.Get(context.Background(), "cart/", nil, nil))

	refresh, _ := store.RefreshToken()
	assert.Equal(t, "r1", refresh)
}

func TestConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 8

	b := &backend{valid: "a2"}
	allRejected := make(chan struct{})
	var once sync.Once
	b.onUnauthorized = func(count int32) {
		if count == n {
			once.Do(func() { close(allRejected) })
		}
	}
	b.refresh = func(w http.ResponseWriter, r *http.Request) {
		// Hold the refresh open until every request has seen its 401
		select {
		case <-allRejected:
		case <-time.After(3 * time.Second):
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": "a2"})
	}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "notifications/", nil, nil)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int32(1), b.refreshCalls.Load())
	assert.Equal(t, int32(2*n), b.resourceCalls.Load(), "each request sent at most twice")
}

func TestRetriedRequestIsNotRetriedAgain(t *testing.T) {
	// The refresh succeeds but the backend keeps rejecting the new token
	b := &backend{valid: "never"}
	b.refresh = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access": "a2"})
	}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)

	err := c.Get(context.Background(), "orders/", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token_not_valid", apiErr.Code)
	assert.Equal(t, int32(2), b.resourceCalls.Load())
	assert.Equal(t, int32(1), b.refreshCalls.Load())

	access, _ := store.AccessToken()
	assert.Equal(t, "a2", access, "credentials survive a rejected retry")
}

func TestRefreshFailureClearsCredentials(t *testing.T) {
	b := &backend{valid: "a2"}
	b.refresh = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is blacklisted", "code": "token_not_valid"})
	}
	srv := httptest.NewServer(b)
	defer srv.Close()

	var failures atomic.Int32
	var handlerErr error
	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store, WithAuthFailureHandler(func(err error) {
		failures.Add(1)
		handlerErr = err
	}))

	err := c.Get(context.Background(), "orders/", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Token is blacklisted", apiErr.Detail)
	assert.Equal(t, int32(1), b.resourceCalls.Load(), "no retry after failed refresh")
	assert.Equal(t, int32(1), failures.Load())
	assert.Equal(t, err, handlerErr)

	_, hasAccess := store.AccessToken()
	_, hasRefresh := store.RefreshToken()
	assert.False(t, hasAccess)
	assert.False(t, hasRefresh)
}

func TestRefreshFailureWithConcurrentRequests(t *testing.T) {
	b := &backend{valid: "a2"}
	bothRejected := make(chan struct{})
	var once sync.Once
	b.onUnauthorized = func(count int32) {
		if count == 2 {
			once.Do(func() { close(bothRejected) })
		}
	}
	b.refresh = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-bothRejected:
		case <-time.After(3 * time.Second):
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
	}
	srv := httptest.NewServer(b)
	defer srv.Close()

	var failures atomic.Int32
	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store, WithAuthFailureHandler(func(error) { failures.Add(1) }))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "cart/", nil, nil)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	}
	assert.Equal(t, int32(1), b.refreshCalls.Load())
	assert.GreaterOrEqual(t, failures.Load(), int32(1))
	assert.False(t, store.HasCredentials())
}

func TestMissingRefreshTokenSkipsRefreshCall(t *testing.T) {
	b := &backend{valid: "a2"}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := auth.NewStore(auth.NewMemoryBackend(), "test", nil)
	require.NoError(t, store.SetAccessToken("a1"))

	var failures atomic.Int32
	c := newTestClient(t, srv, store, WithAuthFailureHandler(func(error) { failures.Add(1) }))

	err := c.Get(context.Background(), "orders/", nil, nil)

	assert.ErrorIs(t, err, ErrNoRefreshToken)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, int32(0), b.refreshCalls.Load())
	assert.Equal(t, int32(1), failures.Load())

	_, hasAccess := store.AccessToken()
	assert.False(t, hasAccess)
}

func TestNoRefreshRequestReturnsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/token/refresh/" {
			t.Error("refresh must not be called for credential endpoints")
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
	}))
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)

	err := c.Do(context.Background(), &Request{
		Method:    http.MethodPost,
		Path:      "auth/login/",
		Body:      map[string]string{"email": "ana@example.com", "password": "wrong"},
		NoRefresh: true,
	}, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "No active account found with the given credentials", apiErr.Detail)
	assert.True(t, store.HasCredentials())
}

func TestValidationErrorIsNotRefreshed(t *testing.T) {
	b := &backend{valid: "a1"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/token/refresh/" {
			b.refreshCalls.Add(1)
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail": "Dados inválidos",
			"errors": map[string][]string{"name": {"This field is required."}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, newTestStore(t, "a1", "r1"))
	err := c.Post(context.Background(), "products/", map[string]any{}, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Dados inválidos", apiErr.Detail)
	assert.Equal(t, []string{"This field is required."}, apiErr.Errors["name"])
	assert.Equal(t, int32(0), b.refreshCalls.Load())
}

func TestRefreshUsesRotatedTokenFromConcurrentCaller(t *testing.T) {
	b := &backend{valid: "a2"}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)

	// Another caller already refreshed; a request sent with a1 should
	// retry with the stored token instead of refreshing again.
	require.NoError(t, store.SetAccessToken("a2"))
	token, err := c.tokenForRetry(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "a2", token)
	assert.Equal(t, int32(0), b.refreshCalls.Load())
}

func TestRefreshWaiterStopsOnOwnCancel(t *testing.T) {
	release := make(chan struct{})
	b := &backend{valid: "a2"}
	b.refresh = func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, map[string]string{"access": "a2"})
	}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Get(ctx, "orders/", nil, nil) }()

	require.Eventually(t, func() bool { return b.refreshCalls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	// The shared refresh still completes and persists its result
	close(release)
	require.Eventually(t, func() bool {
		access, _ := store.AccessToken()
		return access == "a2"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRefreshInvalidResponse(t *testing.T) {
	b := &backend{valid: "a2"}
	b.refresh = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "wrong-shape"})
	}
	srv := httptest.NewServer(b)
	defer srv.Close()

	store := newTestStore(t, "a1", "r1")
	c := newTestClient(t, srv, store)

	_, err := c.Refresh(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_response", apiErr.Code)
	assert.False(t, store.HasCredentials())
}
