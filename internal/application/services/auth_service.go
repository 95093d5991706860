package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/harmonysync/backend/internal/adapters/credentials"
	"github.com/harmonysync/backend/internal/domain/entities"
	google "github.com/harmonysync/backend/internal/google"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
	"github.com/harmonysync/backend/internal/ports"
)

// AuthService drives the Google OAuth flow and owns credential lookup for
// every protected operation.
type AuthService struct {
	oauth    *oauth2.Config
	store    ports.CredentialStore
	sessions *credentials.SessionManager
	logger   *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(oauth *oauth2.Config, store ports.CredentialStore, sessions *credentials.SessionManager, logger *logger.Logger) *AuthService {
	return &AuthService{
		oauth:    oauth,
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *AuthService) sessionKey(ctx context.Context) (string, error) {
	id, ok := credentials.SessionIDFromContext(ctx)
	if !ok {
		return "", entities.NewAuthError("no active session")
	}
	return id, nil
}

// LoginURL returns the Google authorization URL for the session, recording
// the state nonce for the callback check.
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	key, err := s.sessionKey(ctx)
	if err != nil {
		return "", err
	}

	state := uuid.New().String()
	s.sessions.PutState(key, state)

	url := s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	return url, nil
}

// HandleCallback verifies the OAuth state, exchanges the authorization code
// and stores the resulting credential for the session.
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) error {
	key, err := s.sessionKey(ctx)
	if err != nil {
		return err
	}

	expected, ok := s.sessions.TakeState(key)
	if !ok || expected != state {
		s.logger.Warnw("Mismatching state in OAuth callback", "session", key)
		return entities.NewValidationError("mismatching oauth state")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return entities.NewUpstreamError("exchange authorization code", err)
	}

	if err := s.store.Save(ctx, key, token); err != nil {
		return entities.NewStoreError("save credential", err)
	}

	s.logger.Infow("OAuth credential stored", "session", key)
	return nil
}

// IsAuthenticated reports whether the session holds a credential.
func (s *AuthService) IsAuthenticated(ctx context.Context) (bool, error) {
	key, err := s.sessionKey(ctx)
	if err != nil {
		return false, nil
	}

	_, ok, err := s.store.Load(ctx, key)
	if err != nil {
		return false, entities.NewStoreError("load credential", err)
	}

	return ok, nil
}

// Logout discards the session's credential.
func (s *AuthService) Logout(ctx context.Context) error {
	key, err := s.sessionKey(ctx)
	if err != nil {
		return err
	}

	if err := s.store.Clear(ctx, key); err != nil {
		return entities.NewStoreError("clear credential", err)
	}

	s.logger.Infow("Session credential cleared", "session", key)
	return nil
}

// TokenSource returns an auto-refreshing token source for the session's
// credential, or AuthError when none is stored.
func (s *AuthService) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	key, err := s.sessionKey(ctx)
	if err != nil {
		return nil, err
	}

	token, ok, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, entities.NewStoreError("load credential", err)
	}
	if !ok {
		return nil, entities.NewAuthError("not authenticated")
	}

	return google.TokenSource(ctx, s.oauth, s.store, key, token), nil
}

// SessionTTL exposes the configured session lifetime for cookie issuance.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}
