package observability

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
)

// sensitiveParams are query parameter names that should be scrubbed from trace output.
var sensitiveParams = map[string]bool{
	"access":        true,
	"refresh":       true,
	"access_token":  true,
	"refresh_token": true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"client_secret": true,
}

// TraceWriter outputs human-readable trace information to stderr.
// It formats output with timestamps relative to session start.
type TraceWriter struct {
	mu        sync.Mutex
	writer    io.Writer
	startTime time.Time
}

// NewTraceWriter creates a new TraceWriter that writes to stderr.
func NewTraceWriter() *TraceWriter {
	return NewTraceWriterTo(os.Stderr)
}

// NewTraceWriterTo creates a new TraceWriter that writes to the given writer.
func NewTraceWriterTo(w io.Writer) *TraceWriter {
	return &TraceWriter{
		writer:    w,
		startTime: time.Now(),
	}
}

func (t *TraceWriter) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	elapsed := time.Since(t.startTime).Seconds()
	fmt.Fprintf(t.writer, "[%.3fs] "+format+"\n", append([]any{elapsed}, args...)...)
}

// WriteOperationStart writes an operation start trace line.
// Format: [0.234s] Calling Cart.Add
func (t *TraceWriter) WriteOperationStart(op OperationInfo) {
	t.printf("Calling %s.%s", op.Service, op.Operation)
}

// WriteOperationEnd writes an operation completion trace line.
// Format: [0.234s] Completed Cart.Add (234ms)
func (t *TraceWriter) WriteOperationEnd(op OperationInfo, err error, duration time.Duration) {
	if err != nil {
		t.printf("Failed %s.%s: %v", op.Service, op.Operation, err)
		return
	}
	t.printf("Completed %s.%s (%dms)", op.Service, op.Operation, duration.Milliseconds())
}

// WriteRequestStart writes a request start trace line.
// Format: [0.234s]   -> GET http://localhost:8000/api/v1/cart/
// Sensitive query parameters are redacted.
func (t *TraceWriter) WriteRequestStart(info api.RequestInfo) {
	t.printf("  -> %s %s", info.Method, scrubURL(info.URL))
}

// WriteRequestEnd writes a request completion trace line.
// Format: [0.234s]   <- 200 (45ms)
func (t *TraceWriter) WriteRequestEnd(_ api.RequestInfo, result api.RequestResult) {
	if result.Error != nil {
		t.printf("  <- ERROR: %v", result.Error)
		return
	}
	t.printf("  <- %d (%dms)", result.StatusCode, result.Duration.Milliseconds())
}

// WriteRetry writes a retry trace line.
// Format: [0.234s]   RETRY #2: unexpected error: token expired
func (t *TraceWriter) WriteRetry(_ api.RequestInfo, attempt int, err error) {
	t.printf("  RETRY #%d: %v", attempt, err)
}

// WriteRefresh writes a token refresh trace line.
func (t *TraceWriter) WriteRefresh(err error, duration time.Duration) {
	if err != nil {
		t.printf("Token refresh failed: %v", err)
		return
	}
	t.printf("Token refreshed (%dms)", duration.Milliseconds())
}

// Reset resets the start time for relative timestamps.
func (t *TraceWriter) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startTime = time.Now()
}

// scrubURL redacts sensitive query parameters from a URL for safe logging.
// Returns a safe placeholder if the URL cannot be parsed.
func scrubURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		// Don't leak potentially sensitive malformed URLs
		return "[unparseable URL]"
	}

	query := u.Query()
	modified := false
	for key := range query {
		if sensitiveParams[strings.ToLower(key)] {
			query.Set(key, "[REDACTED]")
			modified = true
		}
	}
	if u.User != nil {
		u.User = nil
		modified = true
	}

	if !modified {
		return rawURL
	}

	u.RawQuery = query.Encode()
	return u.String()
}
