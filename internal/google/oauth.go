// Package google wraps the OAuth flow and the Calendar/Tasks API clients.
// Everything that talks to Google lives behind this package.
package google

import (
	"context"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/harmonysync/backend/internal/infrastructure/config"
	"github.com/harmonysync/backend/internal/ports"
)

// NewOAuthConfig builds the oauth2 client configuration from app config.
func NewOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       cfg.Scopes,
	}
}

// TokenSource returns an auto-refreshing token source seeded from token.
// Refreshed tokens are written back to the credential store so the next
// request does not repeat the refresh.
func TokenSource(ctx context.Context, conf *oauth2.Config, store ports.CredentialStore, key string, token *oauth2.Token) oauth2.TokenSource {
	base := conf.TokenSource(ctx, token)
	return oauth2.ReuseTokenSource(token, &persistingSource{
		base:  base,
		store: store,
		key:   key,
		ctx:   ctx,
		last:  token.AccessToken,
	})
}

// persistingSource saves tokens back to the store whenever the underlying
// source hands out a new access token.
type persistingSource struct {
	base  oauth2.TokenSource
	store ports.CredentialStore
	key   string
	ctx   context.Context
	last  string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != s.last {
		s.last = token.AccessToken
		// Best effort; a failed save only costs an extra refresh later.
		_ = s.store.Save(s.ctx, s.key, token)
	}

	return token, nil
}
