package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSessionIssueAndVerify(t *testing.T) {
	sessions := NewSessionManager("test-secret", "hs_session", time.Hour)

	id, cookie, err := sessions.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotEmpty(t, cookie)

	got, err := sessions.Verify(cookie)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestSessionVerifyRejectsTampering(t *testing.T) {
	sessions := NewSessionManager("test-secret", "hs_session", time.Hour)

	_, cookie, err := sessions.Issue()
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessionManager("other-secret", "hs_session", time.Hour)
		_, err := other.Verify(cookie)
		assert.Error(t, err)
	})

	t.Run("garbage value", func(t *testing.T) {
		_, err := sessions.Verify("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("expired cookie", func(t *testing.T) {
		short := NewSessionManager("test-secret", "hs_session", -time.Minute)
		_, cookie, err := short.Issue()
		require.NoError(t, err)

		_, err = short.Verify(cookie)
		assert.Error(t, err)
	})
}

func TestStateTakeOnce(t *testing.T) {
	sessions := NewSessionManager("test-secret", "hs_session", time.Hour)

	sessions.PutState("session-1", "nonce-1")

	nonce, ok := sessions.TakeState("session-1")
	require.True(t, ok)
	assert.Equal(t, "nonce-1", nonce)

	// A state nonce is single-use.
	_, ok = sessions.TakeState("session-1")
	assert.False(t, ok)

	_, ok = sessions.TakeState("never-stored")
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Load(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)

	token := &oauth2.Token{AccessToken: "abc", RefreshToken: "def"}
	require.NoError(t, store.Save(ctx, "key", token))

	got, found, err := store.Load(ctx, "key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "abc", got.AccessToken)

	// The stored token must not alias the caller's value.
	got.AccessToken = "mutated"
	again, _, err := store.Load(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "abc", again.AccessToken)

	require.NoError(t, store.Clear(ctx, "key"))
	_, found, err = store.Load(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	token := &oauth2.Token{
		AccessToken:  "abc",
		RefreshToken: "def",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}

	require.NoError(t, store.Save(ctx, "session-1", token))

	got, found, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, token.AccessToken, got.AccessToken)
	assert.Equal(t, token.RefreshToken, got.RefreshToken)

	require.NoError(t, store.Clear(ctx, "session-1"))
	_, found, err = store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, found)

	// Clearing an absent key is not an error.
	assert.NoError(t, store.Clear(ctx, "session-1"))
}

func TestFileStoreDiscardsCorruptToken(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "session-1.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	// Corrupt record reads as absent, never as an error.
	_, found, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.False(t, found)

	// And the file is gone so the next read stays clean.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSessionIDContext(t *testing.T) {
	_, ok := SessionIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSessionID(context.Background(), "session-1")
	id, ok := SessionIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "session-1", id)

	_, ok = SessionIDFromContext(WithSessionID(context.Background(), ""))
	assert.False(t, ok)
}
