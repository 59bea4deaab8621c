package observability

import (
	"fmt"
	"time"
)

// SessionMetrics aggregates metrics for an entire CLI session.
type SessionMetrics struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalRequests   int
	FailedRequests  int
	TotalOperations int
	FailedOps       int
	TotalRetries    int
	TotalRefreshes  int
	FailedRefreshes int
	TotalLatency    time.Duration
}

// Duration is the wall time covered by the metrics.
func (m SessionMetrics) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// ToMap converts the metrics to the JSON shape used in response meta.
func (m SessionMetrics) ToMap() map[string]any {
	out := map[string]any{
		"duration_ms": m.Duration().Milliseconds(),
		"requests":    m.TotalRequests,
		"latency_ms":  m.TotalLatency.Milliseconds(),
	}
	if m.FailedRequests > 0 {
		out["failed_requests"] = m.FailedRequests
	}
	if m.TotalOperations > 0 {
		out["operations"] = m.TotalOperations
	}
	if m.FailedOps > 0 {
		out["failed_operations"] = m.FailedOps
	}
	if m.TotalRetries > 0 {
		out["retries"] = m.TotalRetries
	}
	if m.TotalRefreshes > 0 {
		out["refreshes"] = m.TotalRefreshes
	}
	if m.FailedRefreshes > 0 {
		out["failed_refreshes"] = m.FailedRefreshes
	}
	return out
}

// SessionMetricsFromMap reverses ToMap. Values may be ints or float64s
// (after a JSON round trip); missing keys are zero.
func SessionMetricsFromMap(m map[string]any) SessionMetrics {
	var s SessionMetrics
	if m == nil {
		return s
	}
	duration := time.Duration(number(m["duration_ms"])) * time.Millisecond
	s.EndTime = time.Unix(0, 0).Add(duration)
	s.StartTime = time.Unix(0, 0)
	s.TotalRequests = number(m["requests"])
	s.FailedRequests = number(m["failed_requests"])
	s.TotalOperations = number(m["operations"])
	s.FailedOps = number(m["failed_operations"])
	s.TotalRetries = number(m["retries"])
	s.TotalRefreshes = number(m["refreshes"])
	s.FailedRefreshes = number(m["failed_refreshes"])
	s.TotalLatency = time.Duration(number(m["latency_ms"])) * time.Millisecond
	return s
}

// FormatParts renders the metrics as short human-readable pieces,
// e.g. ["230ms", "3 requests", "1 retry", "1 refresh"].
func (m SessionMetrics) FormatParts() []string {
	var parts []string

	if d := m.Duration(); d > 0 {
		if d < time.Second {
			parts = append(parts, fmt.Sprintf("%dms", d.Milliseconds()))
		} else {
			parts = append(parts, fmt.Sprintf("%.1fs", d.Seconds()))
		}
	}
	if m.TotalRequests > 0 {
		parts = append(parts, plural(m.TotalRequests, "request", "requests"))
	}
	if m.FailedRequests > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", m.FailedRequests))
	}
	if m.TotalRetries > 0 {
		parts = append(parts, plural(m.TotalRetries, "retry", "retries"))
	}
	if m.TotalRefreshes > 0 {
		p := plural(m.TotalRefreshes, "refresh", "refreshes")
		if m.FailedRefreshes > 0 {
			p += fmt.Sprintf(" (%d failed)", m.FailedRefreshes)
		}
		parts = append(parts, p)
	}
	return parts
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func number(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
