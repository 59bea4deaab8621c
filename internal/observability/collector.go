// Package observability provides metrics collection and tracing for CLI operations.
package observability

import (
	"sync"
	"time"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
)

// RequestMetrics holds timing and status information for a single HTTP request.
type RequestMetrics struct {
	Method     string
	URL        string
	Attempt    int
	StatusCode int
	Duration   time.Duration
	Error      error
}

// Failed reports whether the request got no response or a non-2xx status.
func (m RequestMetrics) Failed() bool {
	return m.Error != nil || m.StatusCode < 200 || m.StatusCode > 299
}

// OperationInfo names a CLI-level operation, e.g. Cart.Add.
type OperationInfo struct {
	Service    string // e.g., "Cart", "Orders"
	Operation  string // e.g., "Add", "Cancel"
	IsMutation bool
}

// OperationMetrics holds timing information for a high-level operation.
type OperationMetrics struct {
	OperationInfo
	Duration time.Duration
	Error    error
}

// RetryMetrics records a retry event.
type RetryMetrics struct {
	Method  string
	URL     string
	Attempt int
	Error   error
}

// RefreshMetrics records one token refresh round trip.
type RefreshMetrics struct {
	Duration time.Duration
	Error    error
}

// SessionCollector accumulates metrics across a CLI session.
// It is safe for concurrent use and uses counters instead of unbounded slices.
type SessionCollector struct {
	mu sync.Mutex

	startTime       time.Time
	totalRequests   int
	failedRequests  int
	totalOperations int
	failedOps       int
	totalRetries    int
	totalRefreshes  int
	failedRefreshes int
	totalLatency    time.Duration
}

// NewSessionCollector creates a new SessionCollector.
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{
		startTime: time.Now(),
	}
}

// RecordRequest records metrics for an HTTP request.
func (c *SessionCollector) RecordRequest(m RequestMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
	c.totalLatency += m.Duration
	if m.Failed() {
		c.failedRequests++
	}
}

// RecordRequestFromAPI records metrics from client hook types.
func (c *SessionCollector) RecordRequestFromAPI(info api.RequestInfo, result api.RequestResult) {
	c.RecordRequest(RequestMetrics{
		Method:     info.Method,
		URL:        info.URL,
		Attempt:    info.Attempt,
		StatusCode: result.StatusCode,
		Duration:   result.Duration,
		Error:      result.Error,
	})
}

// RecordOperation records metrics for a high-level operation.
func (c *SessionCollector) RecordOperation(m OperationMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalOperations++
	if m.Error != nil {
		c.failedOps++
	}
}

// RecordRetry records a retry event.
func (c *SessionCollector) RecordRetry(_ RetryMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRetries++
}

// RecordRefresh records a token refresh.
func (c *SessionCollector) RecordRefresh(m RefreshMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRefreshes++
	if m.Error != nil {
		c.failedRefreshes++
	}
}

// Summary returns aggregated metrics for the session.
func (c *SessionCollector) Summary() SessionMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return SessionMetrics{
		StartTime:       c.startTime,
		EndTime:         time.Now(),
		TotalRequests:   c.totalRequests,
		FailedRequests:  c.failedRequests,
		TotalOperations: c.totalOperations,
		FailedOps:       c.failedOps,
		TotalRetries:    c.totalRetries,
		TotalRefreshes:  c.totalRefreshes,
		FailedRefreshes: c.failedRefreshes,
		TotalLatency:    c.totalLatency,
	}
}

// Reset clears all collected metrics and resets the start time.
func (c *SessionCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.totalRequests = 0
	c.failedRequests = 0
	c.totalOperations = 0
	c.failedOps = 0
	c.totalRetries = 0
	c.totalRefreshes = 0
	c.failedRefreshes = 0
	c.totalLatency = 0
}
