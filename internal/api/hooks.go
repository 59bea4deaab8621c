package api

import (
	"context"
	"time"
)

// RequestInfo describes one HTTP attempt.
type RequestInfo struct {
	Method    string
	URL       string
	Attempt   int
	RequestID string
}

// RequestResult is the outcome of one HTTP attempt.
type RequestResult struct {
	StatusCode int
	Duration   time.Duration
	Error      error
}

// Hooks observes client activity. Implementations must be safe for
// concurrent use.
type Hooks interface {
	OnRequestStart(ctx context.Context, info RequestInfo) context.Context
	OnRequestEnd(ctx context.Context, info RequestInfo, result RequestResult)
	// OnRetry fires before a request is re-issued after a 401.
	OnRetry(ctx context.Context, info RequestInfo, attempt int, err error)
	// OnRefresh fires once per refresh round trip, whatever its outcome.
	OnRefresh(ctx context.Context, err error, duration time.Duration)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) OnRequestStart(ctx context.Context, _ RequestInfo) context.Context { return ctx }
func (NopHooks) OnRequestEnd(context.Context, RequestInfo, RequestResult)          {}
func (NopHooks) OnRetry(context.Context, RequestInfo, int, error)                  {}
func (NopHooks) OnRefresh(context.Context, error, time.Duration)                   {}
