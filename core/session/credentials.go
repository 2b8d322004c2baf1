package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"TamilFM/logger"
	"TamilFM/model"
)

// Credentials is the durable blob that survives restarts: the access token
// plus the identity it was issued for.
type Credentials struct {
	AccessToken string         `json:"access_token"`
	User        model.Identity `json:"user"`
}

// CredentialStore persists Credentials as a JSON file under the state dir.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store writing to path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Load reads the persisted credentials. An absent file is (nil, nil).
func (s *CredentialStore) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if c.AccessToken == "" {
		return nil, nil
	}
	return &c, nil
}

// Save writes the credentials, creating the state dir if needed.
func (s *CredentialStore) Save(c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the credential file. Missing file is not an error.
func (s *CredentialStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Watch reports external invalidation of the credential file: removal, or a
// rewrite that no longer carries a token. onInvalidated runs on the watcher
// goroutine. The returned func stops the watcher.
func (s *CredentialStore) Watch(onInvalidated func()) (func(), error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("credential watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("credential watcher: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					onInvalidated()
					continue
				}
				if event.Op&fsnotify.Write != 0 {
					if c, err := s.Load(); err != nil || c == nil {
						onInvalidated()
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("credential watcher error", logger.ErrorField(err))
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
