package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// NormalizeBaseURL converts a host or URL into a canonical base URL.
//   - bare localhost/loopback hosts default to http://
//   - other bare hosts default to https://
//   - the trailing slash is removed
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("base URL is empty")
	}

	if !strings.Contains(raw, "://") {
		host := raw
		if i := strings.Index(host, "/"); i >= 0 {
			host = host[:i]
		}
		if IsLocalhost(host) {
			raw = "http://" + raw
		} else {
			raw = "https://" + raw
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""

	return strings.TrimSuffix(u.String(), "/"), nil
}

// RequireSecureURL rejects plain http for hosts other than loopback.
// Dev mode lifts the restriction for LAN backends.
func RequireSecureURL(baseURL string, devMode bool) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "https" || devMode || IsLocalhost(u.Host) {
		return nil
	}
	return fmt.Errorf("refusing insecure base URL %s: use https or enable dev_mode", baseURL)
}

// IsLocalhost reports whether host (with optional port) is localhost,
// a .localhost subdomain, or a loopback IP.
func IsLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
