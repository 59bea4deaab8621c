package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
)

const credentialsFile = "credentials.json"

// LockTimeout is the maximum time to wait for the credentials file lock.
const LockTimeout = 2 * time.Second

// FileBackend stores records for every origin in a single 0600 JSON file.
// Writers hold an exclusive file lock so concurrent processes do not lose
// each other's updates.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file-backed store rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (f *FileBackend) Name() string { return "file" }

// Path returns the credentials file location.
func (f *FileBackend) Path() string {
	return filepath.Join(f.dir, credentialsFile)
}

func (f *FileBackend) lockPath() string {
	return filepath.Join(f.dir, credentialsFile+".lock")
}

func (f *FileBackend) Load(origin string) (*Record, error) {
	all, err := f.loadAll()
	if err != nil {
		return nil, err
	}
	rec, ok := all[origin]
	if !ok || rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (f *FileBackend) Save(origin string, rec *Record) error {
	return f.withLock(func() error {
		all, err := f.loadAll()
		if err != nil {
			return err
		}
		all[origin] = rec
		return f.saveAll(all)
	})
}

func (f *FileBackend) Delete(origin string) error {
	return f.withLock(func() error {
		all, err := f.loadAll()
		if err != nil {
			return err
		}
		if _, ok := all[origin]; !ok {
			return ErrNotFound
		}
		delete(all, origin)
		return f.saveAll(all)
	})
}

func (f *FileBackend) withLock(fn func() error) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}

	fl := flock.New(f.lockPath())
	ctx, cancel := context.WithTimeout(context.Background(), LockTimeout)
	defer cancel()

	// TryLockContext retries every 10ms until ctx expires
	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		return fmt.Errorf("locking credentials: %w", err)
	}
	if !locked {
		return fmt.Errorf("locking credentials: timed out after %s", LockTimeout)
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}

func (f *FileBackend) loadAll() (map[string]*Record, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*Record), nil
		}
		return nil, err
	}

	all := make(map[string]*Record)
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("invalid credentials file: %w", err)
	}
	return all, nil
}

func (f *FileBackend) saveAll(all map[string]*Record) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write with randomized temp file name
	tmpFile, err := os.CreateTemp(f.dir, "credentials-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	destPath := f.Path()
	if err := os.Rename(tmpPath, destPath); err != nil {
		// Windows refuses to rename over an existing file
		if runtime.GOOS == "windows" {
			_ = os.Remove(destPath)
			return os.Rename(tmpPath, destPath)
		}
		os.Remove(tmpPath)
		return err
	}
	return nil
}
