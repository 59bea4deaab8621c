package observability

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/auth"
)

func TestCLIHooks_SetLevel(t *testing.T) {
	h := NewCLIHooks(0, nil, nil)

	assert.Equal(t, 0, h.Level())

	h.SetLevel(2)
	assert.Equal(t, 2, h.Level())
}

func TestCLIHooks_Level0_Silent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewTraceWriterTo(&buf)
	collector := NewSessionCollector()
	h := NewCLIHooks(0, collector, writer)

	ctx := context.Background()
	op := OperationInfo{Service: "Cart", Operation: "Add"}
	ctx = h.OnOperationStart(ctx, op)
	h.OnOperationEnd(ctx, op, nil, 50*time.Millisecond)

	info := api.RequestInfo{Method: "POST", URL: "/api/v1/cart/add/", Attempt: 1}
	result := api.RequestResult{StatusCode: 200, Duration: 45 * time.Millisecond}
	ctx = h.OnRequestStart(ctx, info)
	h.OnRequestEnd(ctx, info, result)
	h.OnRefresh(ctx, nil, 10*time.Millisecond)

	// Level 0 should produce no output
	assert.Equal(t, 0, buf.Len(), "expected no output at level 0")

	// But metrics should still be collected
	summary := collector.Summary()
	assert.Equal(t, 1, summary.TotalOperations)
	assert.Equal(t, 1, summary.TotalRequests)
	assert.Equal(t, 1, summary.TotalRefreshes)
}

func TestCLIHooks_Level1_OperationsOnly(t *testing.T) {
	var buf bytes.Buffer
	writer := NewTraceWriterTo(&buf)
	h := NewCLIHooks(1, nil, writer)

	ctx := context.Background()
	op := OperationInfo{Service: "Orders", Operation: "Cancel"}
	ctx = h.OnOperationStart(ctx, op)

	info := api.RequestInfo{Method: "PATCH", URL: "/api/v1/orders/9/cancel/", Attempt: 1}
	ctx = h.OnRequestStart(ctx, info)
	h.OnRequestEnd(ctx, info, api.RequestResult{StatusCode: 200})
	h.OnRefresh(ctx, nil, 12*time.Millisecond)
	h.OnOperationEnd(ctx, op, nil, 50*time.Millisecond)

	output := buf.String()
	assert.Contains(t, output, "Calling Orders.Cancel")
	assert.Contains(t, output, "Completed Orders.Cancel")
	assert.Contains(t, output, "Token refreshed")
	assert.NotContains(t, output, "PATCH", "unexpected request output at level 1")
}

func TestCLIHooks_Level2_OperationsAndRequests(t *testing.T) {
	var buf bytes.Buffer
	writer := NewTraceWriterTo(&buf)
	h := NewCLIHooks(2, nil, writer)

	ctx := context.Background()
	info := api.RequestInfo{Method: "GET", URL: "/api/v1/cart/", Attempt: 1}
	reqCtx := h.OnRequestStart(ctx, info)
	h.OnRequestEnd(reqCtx, info, api.RequestResult{StatusCode: 200, Duration: 45 * time.Millisecond})

	output := buf.String()
	assert.Contains(t, output, "-> GET /api/v1/cart/")
	assert.Contains(t, output, "<- 200 (45ms)")
}

func TestCLIHooks_OperationError(t *testing.T) {
	var buf bytes.Buffer
	collector := NewSessionCollector()
	h := NewCLIHooks(1, collector, NewTraceWriterTo(&buf))

	ctx := context.Background()
	op := OperationInfo{Service: "Orders", Operation: "Cancel"}
	ctx = h.OnOperationStart(ctx, op)
	h.OnOperationEnd(ctx, op, errors.New("order already shipped"), 50*time.Millisecond)

	output := buf.String()
	assert.Contains(t, output, "Failed Orders.Cancel")
	assert.Contains(t, output, "order already shipped")

	summary := collector.Summary()
	assert.Equal(t, 1, summary.TotalOperations)
	assert.Equal(t, 1, summary.FailedOps)
}

func TestCLIHooks_RetryAndFailedRefresh(t *testing.T) {
	var buf bytes.Buffer
	collector := NewSessionCollector()
	h := NewCLIHooks(2, collector, NewTraceWriterTo(&buf))

	ctx := context.Background()
	info := api.RequestInfo{Method: "GET", URL: "/api/v1/orders/", Attempt: 2}
	h.OnRetry(ctx, info, 2, errors.New("token expired"))
	h.OnRefresh(ctx, errors.New("token blacklisted"), time.Millisecond)

	output := buf.String()
	assert.Contains(t, output, "RETRY #2: token expired")
	assert.Contains(t, output, "Token refresh failed: token blacklisted")

	summary := collector.Summary()
	assert.Equal(t, 1, summary.TotalRetries)
	assert.Equal(t, 1, summary.FailedRefreshes)
}

func TestCLIHooks_NilCollectorAndWriter(t *testing.T) {
	h := NewCLIHooks(2, nil, nil)

	ctx := context.Background()
	info := api.RequestInfo{Method: "GET", URL: "/api/v1/cart/", Attempt: 1}
	assert.NotPanics(t, func() {
		ctx = h.OnRequestStart(ctx, info)
		h.OnRequestEnd(ctx, info, api.RequestResult{StatusCode: 200})
		h.OnRetry(ctx, info, 2, nil)
		h.OnRefresh(ctx, nil, 0)
	})
}

func TestCLIHooks_ObserveClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/auth/token/refresh/":
			_, _ = w.Write([]byte(`{"access":"a2"}`))
		case r.Header.Get("Authorization") == "Bearer a2":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"expired"}`))
		}
	}))
	defer srv.Close()

	store := auth.NewStore(auth.NewMemoryBackend(), "test", nil)
	require.NoError(t, store.SetCredentials("a1", "r1"))

	collector := NewSessionCollector()
	client, err := api.NewClient(api.Options{BaseURL: srv.URL}, store, api.WithHooks(NewCLIHooks(0, collector, nil)))
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "notifications/", nil, nil))

	summary := collector.Summary()
	assert.Equal(t, 2, summary.TotalRequests)
	assert.Equal(t, 1, summary.FailedRequests)
	assert.Equal(t, 1, summary.TotalRetries)
	assert.Equal(t, 1, summary.TotalRefreshes)
	assert.Equal(t, 0, summary.FailedRefreshes)
}
