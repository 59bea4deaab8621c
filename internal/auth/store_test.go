package auth

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:8000"

type testUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

func TestStoreCredentialRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend { return NewMemoryBackend() },
		"file":   func(t *testing.T) Backend { return NewFileBackend(t.TempDir()) },
	}

	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			store := NewStore(newBackend(t), testOrigin, nil)

			require.NoError(t, store.SetCredentials("a1", "r1"))

			access, ok := store.AccessToken()
			assert.True(t, ok)
			assert.Equal(t, "a1", access)
			refresh, ok := store.RefreshToken()
			assert.True(t, ok)
			assert.Equal(t, "r1", refresh)
			assert.True(t, store.HasCredentials())

			require.NoError(t, store.ClearCredentials())

			_, ok = store.AccessToken()
			assert.False(t, ok)
			_, ok = store.RefreshToken()
			assert.False(t, ok)
			assert.False(t, store.HasCredentials())
		})
	}
}

func TestStoreSetAccessTokenKeepsRefresh(t *testing.T) {
	store := NewStore(NewMemoryBackend(), testOrigin, nil)
	require.NoError(t, store.SetCredentials("a1", "r1"))

	require.NoError(t, store.SetAccessToken("a2"))

	access, _ := store.AccessToken()
	refresh, _ := store.RefreshToken()
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r1", refresh)

	require.NoError(t, store.SetRefreshToken("r2"))
	refresh, _ = store.RefreshToken()
	assert.Equal(t, "r2", refresh)
}

func TestStorePartialState(t *testing.T) {
	store := NewStore(NewMemoryBackend(), testOrigin, nil)
	require.NoError(t, store.SetCredentials("", "r1"))

	assert.False(t, store.IsAuthenticated(), "refresh token alone is not authenticated")
	assert.False(t, store.HasCredentials())
	refresh, ok := store.RefreshToken()
	assert.True(t, ok, "refresh token stays usable")
	assert.Equal(t, "r1", refresh)
}

func TestStoreUserProfile(t *testing.T) {
	store := NewStore(NewMemoryBackend(), testOrigin, nil)

	var u testUser
	assert.False(t, store.UserProfile(&u))

	require.NoError(t, store.SetUserProfile(testUser{ID: 7, Email: "ana@example.com"}))
	require.True(t, store.UserProfile(&u))
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)

	require.NoError(t, store.SetCredentials("a", "r"))
	require.True(t, store.UserProfile(&u), "setting tokens keeps the profile")

	require.NoError(t, store.ClearCredentials())
	assert.False(t, store.UserProfile(&u), "clear removes the profile too")
}

func TestStoreClearWhenEmpty(t *testing.T) {
	store := NewStore(NewMemoryBackend(), testOrigin, nil)
	assert.NoError(t, store.ClearCredentials())
}

func TestNilStoreIsNoOp(t *testing.T) {
	var store *Store

	_, ok := store.AccessToken()
	assert.False(t, ok)
	_, ok = store.RefreshToken()
	assert.False(t, ok)
	assert.False(t, store.HasCredentials())
	assert.NoError(t, store.SetCredentials("a", "r"))
	assert.NoError(t, store.SetAccessToken("a"))
	assert.NoError(t, store.ClearCredentials())
	assert.False(t, store.UserProfile(&testUser{}))
	assert.Equal(t, "none", store.BackendName())

	noBackend := NewStore(nil, testOrigin, nil)
	assert.NoError(t, noBackend.SetCredentials("a", "r"))
	_, ok = noBackend.AccessToken()
	assert.False(t, ok)
}

type failingBackend struct{}

func (failingBackend) Name() string                 { return "failing" }
func (failingBackend) Load(string) (*Record, error) { return nil, errors.New("disk on fire") }
func (failingBackend) Save(string, *Record) error   { return errors.New("disk on fire") }
func (failingBackend) Delete(string) error          { return errors.New("disk on fire") }

func TestStoreUnreadableBackendReadsAsAbsent(t *testing.T) {
	store := NewStore(failingBackend{}, testOrigin, nil)

	_, ok := store.AccessToken()
	assert.False(t, ok)
	assert.Error(t, store.SetCredentials("a", "r"))
	assert.Error(t, store.ClearCredentials())
}

func TestStoreConcurrentUpdates(t *testing.T) {
	store := NewStore(NewFileBackend(t.TempDir()), testOrigin, nil)
	require.NoError(t, store.SetCredentials("a0", "r0"))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = store.SetAccessToken("a")
			} else {
				_ = store.SetUserProfile(testUser{ID: i})
			}
		}()
	}
	wg.Wait()

	refresh, ok := store.RefreshToken()
	assert.True(t, ok)
	assert.Equal(t, "r0", refresh, "interleaved updates must not drop other slots")
}

func TestFileBackendPermissionsAndOrigins(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(dir)

	require.NoError(t, backend.Save("https://one.example.com", &Record{AccessToken: "t1"}))
	require.NoError(t, backend.Save("https://two.example.com", &Record{AccessToken: "t2"}))

	info, err := os.Stat(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	one, err := backend.Load("https://one.example.com")
	require.NoError(t, err)
	assert.Equal(t, "t1", one.AccessToken)

	require.NoError(t, backend.Delete("https://one.example.com"))
	_, err = backend.Load("https://one.example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	two, err := backend.Load("https://two.example.com")
	require.NoError(t, err)
	assert.Equal(t, "t2", two.AccessToken)

	assert.ErrorIs(t, backend.Delete("https://missing.example.com"), ErrNotFound)

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.Empty(t, matches, "no temp files left behind")
}

func TestFileBackendCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("{nope"), 0o600))

	store := NewStore(NewFileBackend(dir), testOrigin, nil)
	_, ok := store.AccessToken()
	assert.False(t, ok, "corrupt file reads as absent")
}

func TestMemoryBackendCopies(t *testing.T) {
	backend := NewMemoryBackend()
	rec := &Record{AccessToken: "a", User: []byte(`{"id":1}`)}
	require.NoError(t, backend.Save(testOrigin, rec))

	rec.User[2] = 'X'
	loaded, err := backend.Load(testOrigin)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(loaded.User))
}
