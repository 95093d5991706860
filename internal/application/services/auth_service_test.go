package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/harmonysync/backend/internal/adapters/credentials"
	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
)

func newAuthService(t *testing.T) (*AuthService, *credentials.SessionManager) {
	t.Helper()

	sessions := credentials.NewSessionManager("test-secret", "hs_session", time.Hour)
	conf := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:5000/oauth2callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: "https://accounts.example.com/token",
		},
		Scopes: []string{"calendar", "tasks"},
	}

	return NewAuthService(conf, credentials.NewMemoryStore(), sessions, logger.NewNop()), sessions
}

func sessionCtx(id string) context.Context {
	return credentials.WithSessionID(context.Background(), id)
}

func TestLoginURL(t *testing.T) {
	svc, sessions := newAuthService(t)

	raw, err := svc.LoginURL(sessionCtx("session-1"))
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "offline", query.Get("access_type"))
	assert.Equal(t, "consent", query.Get("prompt"))
	assert.NotEmpty(t, query.Get("state"))

	// The recorded nonce must match what was put in the URL.
	nonce, ok := sessions.TakeState("session-1")
	require.True(t, ok)
	assert.Equal(t, query.Get("state"), nonce)
}

func TestLoginURLWithoutSession(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.LoginURL(context.Background())
	require.Error(t, err)
	assert.True(t, entities.IsAuth(err))
}

func TestHandleCallbackStateMismatch(t *testing.T) {
	svc, sessions := newAuthService(t)

	tests := []struct {
		name  string
		setup func()
		state string
	}{
		{
			name:  "no recorded state",
			setup: func() {},
			state: "whatever",
		},
		{
			name:  "wrong nonce",
			setup: func() { sessions.PutState("session-1", "expected") },
			state: "forged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			err := svc.HandleCallback(sessionCtx("session-1"), tt.state, "code")
			require.Error(t, err)
			assert.True(t, entities.IsValidation(err))
		})
	}
}

func TestIsAuthenticated(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := sessionCtx("session-1")

	ok, err := svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Sessionless requests read as unauthenticated, not as errors.
	ok, err = svc.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.store.Save(ctx, "session-1", &oauth2.Token{AccessToken: "abc"}))

	ok, err = svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := sessionCtx("session-1")

	require.NoError(t, svc.store.Save(ctx, "session-1", &oauth2.Token{AccessToken: "abc"}))
	require.NoError(t, svc.Logout(ctx))

	ok, err := svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Logging out twice is harmless.
	assert.NoError(t, svc.Logout(ctx))
}

func TestTokenSourceRequiresCredential(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := sessionCtx("session-1")

	_, err := svc.TokenSource(ctx)
	require.Error(t, err)
	assert.True(t, entities.IsAuth(err))

	require.NoError(t, svc.store.Save(ctx, "session-1", &oauth2.Token{
		AccessToken: "abc",
		Expiry:      time.Now().Add(time.Hour),
	}))

	ts, err := svc.TokenSource(ctx)
	require.NoError(t, err)

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
}
