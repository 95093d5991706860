package credentials

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/harmonysync/backend/internal/ports"
)

// MemoryStore keeps OAuth tokens in process memory, scoped per session.
// Tokens vanish on restart; the signed cookie alone cannot resurrect them,
// so users re-authenticate. This is the ephemeral strategy.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() ports.CredentialStore {
	return &MemoryStore{tokens: make(map[string]*oauth2.Token)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*oauth2.Token, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[key]
	if !ok {
		return nil, false, nil
	}

	copied := *token
	return &copied, true, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *token
	s.tokens[key] = &copied
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, key)
	return nil
}
