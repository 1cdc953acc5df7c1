package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var safeFileID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type fileEntry struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FileStore keeps one token file per session id in a directory. The CLI
// uses it with one id per profile.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// DefaultFileStoreDir is the per-user config directory for the CLI.
func DefaultFileStoreDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "bitebox"), nil
}

func (s *FileStore) path(id string) (string, error) {
	if !safeFileID.MatchString(id) {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.dir, id+".token"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (string, error) {
	p, err := s.path(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil || e.Token == "" {
		_ = os.Remove(p)
		return "", ErrNoToken
	}
	if e.ExpiresAt != nil && !s.now().Before(*e.ExpiresAt) {
		if err := s.Delete(ctx, id); err != nil {
			return "", err
		}
		return "", ErrNoToken
	}
	return e.Token, nil
}

func (s *FileStore) Set(_ context.Context, id, token string, ttl time.Duration) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	e := fileEntry{Token: token}
	if ttl > 0 {
		exp := s.now().Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
