// Package auth persists the credentials of the storefront API.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

// Store exposes the three credential slots (access token, refresh token,
// cached user profile) of a single API origin.
//
// A nil Store, or one without a backend, behaves as permanently empty:
// reads report absence and writes succeed without effect. Backend read
// errors are logged and reported as absence.
type Store struct {
	mu      sync.Mutex
	backend Backend
	origin  string
	logger  *slog.Logger
}

// NewStore creates a store for origin on top of backend.
func NewStore(backend Backend, origin string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, origin: origin, logger: logger}
}

// Origin returns the API origin the store is bound to.
func (s *Store) Origin() string {
	if s == nil {
		return ""
	}
	return s.origin
}

// BackendName describes where credentials live ("keyring", "file", "memory").
func (s *Store) BackendName() string {
	if s == nil || s.backend == nil {
		return "none"
	}
	return s.backend.Name()
}

// AccessToken returns the stored access token.
func (s *Store) AccessToken() (string, bool) {
	rec := s.Snapshot()
	return rec.AccessToken, rec.AccessToken != ""
}

// RefreshToken returns the stored refresh token.
func (s *Store) RefreshToken() (string, bool) {
	rec := s.Snapshot()
	return rec.RefreshToken, rec.RefreshToken != ""
}

// HasCredentials reports whether both tokens are present.
func (s *Store) HasCredentials() bool {
	rec := s.Snapshot()
	return rec.AccessToken != "" && rec.RefreshToken != ""
}

// IsAuthenticated reports whether an access token is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.AccessToken()
	return ok
}

// SetCredentials writes both tokens in one update.
func (s *Store) SetCredentials(access, refresh string) error {
	return s.update(func(r *Record) {
		r.AccessToken = access
		r.RefreshToken = refresh
	})
}

// SetAccessToken replaces only the access token.
func (s *Store) SetAccessToken(access string) error {
	return s.update(func(r *Record) { r.AccessToken = access })
}

// SetRefreshToken replaces only the refresh token.
func (s *Store) SetRefreshToken(refresh string) error {
	return s.update(func(r *Record) { r.RefreshToken = refresh })
}

// SetUserProfile caches v as the JSON user profile.
func (s *Store) SetUserProfile(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.update(func(r *Record) { r.User = data })
}

// UserProfile decodes the cached profile into v. It returns false when no
// profile is stored or it cannot be decoded.
func (s *Store) UserProfile(v any) bool {
	rec := s.Snapshot()
	if len(rec.User) == 0 {
		return false
	}
	if err := json.Unmarshal(rec.User, v); err != nil {
		s.logger.Warn("discarding unreadable user profile", "origin", s.origin, "error", err)
		return false
	}
	return true
}

// ClearCredentials removes tokens and profile together.
func (s *Store) ClearCredentials() error {
	if s == nil || s.backend == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(s.origin); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Snapshot returns a copy of the stored record.
func (s *Store) Snapshot() Record {
	if s == nil || s.backend == nil {
		return Record{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() Record {
	rec, err := s.backend.Load(s.origin)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("credential store unreadable, treating as empty", "origin", s.origin, "error", err)
		}
		return Record{}
	}
	return *rec
}

func (s *Store) update(fn func(*Record)) error {
	if s == nil || s.backend == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.loadLocked()
	fn(&rec)
	if rec.empty() {
		if err := s.backend.Delete(s.origin); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return nil
	}
	return s.backend.Save(s.origin, &rec)
}
