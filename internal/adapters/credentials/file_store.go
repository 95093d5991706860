package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/harmonysync/backend/internal/ports"
)

// FileStore persists OAuth tokens as JSON files under a state directory,
// one file per key, surviving restarts. This is the durable strategy.
//
// A token file that fails to parse is deleted and reported as absent, never
// as an error; the caller redirects the user back through the OAuth flow.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed credential store rooted at dir.
func NewFileStore(dir string) (ports.CredentialStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create credential directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Load(ctx context.Context, key string) (*oauth2.Token, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read credential file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		// Corrupt record: discard it and force re-authentication.
		_ = os.Remove(s.path(key))
		return nil, false, nil
	}

	return &token, true, nil
}

func (s *FileStore) Save(ctx context.Context, key string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}

	return nil
}

func (s *FileStore) Clear(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
