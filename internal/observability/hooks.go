package observability

import (
	"context"
	"sync"
	"time"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
)

// Verify CLIHooks implements api.Hooks at compile time.
var _ api.Hooks = (*CLIHooks)(nil)

// CLIHooks implements api.Hooks for CLI observability.
// It supports configurable verbosity levels:
//   - 0: Silent (collect stats only, no output)
//   - 1: Operations and token refreshes
//   - 2: Operations, refreshes and HTTP requests
type CLIHooks struct {
	mu        sync.Mutex
	level     int
	collector *SessionCollector
	writer    *TraceWriter
}

// NewCLIHooks creates a new CLIHooks with the given verbosity level.
// If collector is nil, metrics are not collected.
// If writer is nil, no trace output is produced.
func NewCLIHooks(level int, collector *SessionCollector, writer *TraceWriter) *CLIHooks {
	return &CLIHooks{
		level:     level,
		collector: collector,
		writer:    writer,
	}
}

// SetLevel changes the verbosity level at runtime.
func (h *CLIHooks) SetLevel(level int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = level
}

// Level returns the current verbosity level.
func (h *CLIHooks) Level() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.level
}

func (h *CLIHooks) snapshot() (int, *SessionCollector, *TraceWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.level, h.collector, h.writer
}

// OnOperationStart is called when a CLI operation begins.
func (h *CLIHooks) OnOperationStart(ctx context.Context, op OperationInfo) context.Context {
	level, _, writer := h.snapshot()
	if level >= 1 && writer != nil {
		writer.WriteOperationStart(op)
	}
	return ctx
}

// OnOperationEnd is called when a CLI operation completes.
func (h *CLIHooks) OnOperationEnd(ctx context.Context, op OperationInfo, err error, duration time.Duration) {
	level, collector, writer := h.snapshot()
	if collector != nil {
		collector.RecordOperation(OperationMetrics{OperationInfo: op, Duration: duration, Error: err})
	}
	if level >= 1 && writer != nil {
		writer.WriteOperationEnd(op, err, duration)
	}
}

// OnRequestStart is called before an HTTP request is sent.
func (h *CLIHooks) OnRequestStart(ctx context.Context, info api.RequestInfo) context.Context {
	level, _, writer := h.snapshot()
	if level >= 2 && writer != nil {
		writer.WriteRequestStart(info)
	}
	return ctx
}

// OnRequestEnd is called after an HTTP request completes.
func (h *CLIHooks) OnRequestEnd(ctx context.Context, info api.RequestInfo, result api.RequestResult) {
	level, collector, writer := h.snapshot()
	if collector != nil {
		collector.RecordRequestFromAPI(info, result)
	}
	if level >= 2 && writer != nil {
		writer.WriteRequestEnd(info, result)
	}
}

// OnRetry is called before a request is re-sent with a new token.
func (h *CLIHooks) OnRetry(ctx context.Context, info api.RequestInfo, attempt int, err error) {
	level, collector, writer := h.snapshot()
	if collector != nil {
		collector.RecordRetry(RetryMetrics{Method: info.Method, URL: info.URL, Attempt: attempt, Error: err})
	}
	if level >= 2 && writer != nil {
		writer.WriteRetry(info, attempt, err)
	}
}

// OnRefresh is called once per token refresh round trip.
func (h *CLIHooks) OnRefresh(ctx context.Context, err error, duration time.Duration) {
	level, collector, writer := h.snapshot()
	if collector != nil {
		collector.RecordRefresh(RefreshMetrics{Duration: duration, Error: err})
	}
	if level >= 1 && writer != nil {
		writer.WriteRefresh(err, duration)
	}
}
