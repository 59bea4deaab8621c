package auth

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Backend when no record exists for an origin.
var ErrNotFound = errors.New("credentials not found")

// Record is the persisted credential state of one origin.
type Record struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	User         json.RawMessage `json:"user_data,omitempty"`
}

func (r *Record) empty() bool {
	return r.AccessToken == "" && r.RefreshToken == "" && len(r.User) == 0
}

// Backend persists one Record per origin.
type Backend interface {
	Name() string
	Load(origin string) (*Record, error)
	Save(origin string, rec *Record) error
	Delete(origin string) error
}

// MemoryBackend keeps records in process memory.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]Record)}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Load(origin string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[origin]
	if !ok {
		return nil, ErrNotFound
	}
	rec.User = append(json.RawMessage(nil), rec.User...)
	return &rec, nil
}

func (m *MemoryBackend) Save(origin string, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	cp.User = append(json.RawMessage(nil), rec.User...)
	m.records[origin] = cp
	return nil
}

func (m *MemoryBackend) Delete(origin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[origin]; !ok {
		return ErrNotFound
	}
	delete(m.records, origin)
	return nil
}
