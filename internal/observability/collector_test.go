package observability

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
)

func TestSessionCollector_RecordRequest(t *testing.T) {
	c := NewSessionCollector()

	c.RecordRequest(RequestMetrics{
		Method:     "GET",
		URL:        "/api/v1/cart/",
		StatusCode: 200,
		Duration:   50 * time.Millisecond,
	})
	c.RecordRequest(RequestMetrics{
		Method:     "GET",
		URL:        "/api/v1/orders/",
		StatusCode: 401,
		Duration:   10 * time.Millisecond,
	})

	summary := c.Summary()
	if summary.TotalRequests != 2 {
		t.Errorf("expected 2 total requests, got %d", summary.TotalRequests)
	}
	if summary.FailedRequests != 1 {
		t.Errorf("expected 1 failed request, got %d", summary.FailedRequests)
	}
	if summary.TotalLatency != 60*time.Millisecond {
		t.Errorf("expected 60ms total latency, got %v", summary.TotalLatency)
	}
}

func TestSessionCollector_RecordRequestFromAPI(t *testing.T) {
	c := NewSessionCollector()

	info := api.RequestInfo{Method: "POST", URL: "/api/v1/cart/add/", Attempt: 1}
	c.RecordRequestFromAPI(info, api.RequestResult{StatusCode: 201, Duration: 45 * time.Millisecond})
	c.RecordRequestFromAPI(info, api.RequestResult{Error: errors.New("connection refused")})

	summary := c.Summary()
	if summary.TotalRequests != 2 {
		t.Fatalf("expected 2 requests, got %d", summary.TotalRequests)
	}
	if summary.FailedRequests != 1 {
		t.Errorf("expected transport error to count as failed, got %d", summary.FailedRequests)
	}
}

func TestSessionCollector_RecordOperation(t *testing.T) {
	c := NewSessionCollector()

	c.RecordOperation(OperationMetrics{
		OperationInfo: OperationInfo{Service: "Cart", Operation: "Add", IsMutation: true},
		Duration:      100 * time.Millisecond,
	})
	c.RecordOperation(OperationMetrics{
		OperationInfo: OperationInfo{Service: "Orders", Operation: "Cancel", IsMutation: true},
		Duration:      50 * time.Millisecond,
		Error:         errors.New("order already shipped"),
	})

	summary := c.Summary()
	if summary.TotalOperations != 2 {
		t.Errorf("expected 2 total operations, got %d", summary.TotalOperations)
	}
	if summary.FailedOps != 1 {
		t.Errorf("expected 1 failed operation, got %d", summary.FailedOps)
	}
}

func TestSessionCollector_RecordRetryAndRefresh(t *testing.T) {
	c := NewSessionCollector()

	c.RecordRetry(RetryMetrics{Method: "GET", URL: "/api/v1/orders/", Attempt: 2})
	c.RecordRefresh(RefreshMetrics{Duration: 20 * time.Millisecond})
	c.RecordRefresh(RefreshMetrics{Error: errors.New("token blacklisted")})

	summary := c.Summary()
	if summary.TotalRetries != 1 {
		t.Errorf("expected 1 retry, got %d", summary.TotalRetries)
	}
	if summary.TotalRefreshes != 2 {
		t.Errorf("expected 2 refreshes, got %d", summary.TotalRefreshes)
	}
	if summary.FailedRefreshes != 1 {
		t.Errorf("expected 1 failed refresh, got %d", summary.FailedRefreshes)
	}
}

func TestSessionCollector_Reset(t *testing.T) {
	c := NewSessionCollector()

	c.RecordRequest(RequestMetrics{Method: "GET", StatusCode: 200})
	c.RecordOperation(OperationMetrics{OperationInfo: OperationInfo{Service: "Cart", Operation: "Show"}})
	c.RecordRetry(RetryMetrics{})
	c.RecordRefresh(RefreshMetrics{})

	c.Reset()

	summary := c.Summary()
	if summary.TotalRequests != 0 || summary.TotalOperations != 0 || summary.TotalRetries != 0 || summary.TotalRefreshes != 0 {
		t.Errorf("expected zero counters after reset, got %+v", summary)
	}
}

func TestSessionCollector_Concurrent(t *testing.T) {
	c := NewSessionCollector()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.RecordRequest(RequestMetrics{Method: "GET", StatusCode: 200})
				c.RecordRetry(RetryMetrics{})
			}
		}()
	}
	wg.Wait()

	summary := c.Summary()
	if summary.TotalRequests != 1000 {
		t.Errorf("expected 1000 requests, got %d", summary.TotalRequests)
	}
	if summary.TotalRetries != 1000 {
		t.Errorf("expected 1000 retries, got %d", summary.TotalRetries)
	}
}

func TestSessionMetrics_Duration(t *testing.T) {
	c := NewSessionCollector()
	time.Sleep(10 * time.Millisecond)

	summary := c.Summary()
	if summary.Duration() < 10*time.Millisecond {
		t.Errorf("expected duration >= 10ms, got %v", summary.Duration())
	}
}
