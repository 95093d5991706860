package credentials

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionManager issues and verifies the signed session cookie, and keeps the
// short-lived OAuth state nonces between /login and /oauth2callback.
type SessionManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration

	mu     sync.Mutex
	states map[string]stateEntry
}

type stateEntry struct {
	nonce   string
	expires time.Time
}

// stateTTL bounds how long an OAuth handshake may stay open.
const stateTTL = 10 * time.Minute

// NewSessionManager creates a session manager signing cookies with secret.
func NewSessionManager(secret, cookieName string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		states:     make(map[string]stateEntry),
	}
}

// CookieName returns the name of the session cookie.
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// TTL returns the session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a fresh session and returns its id together with the signed
// cookie value.
func (m *SessionManager) Issue() (sessionID, cookieValue string, err error) {
	sessionID = uuid.New().String()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	cookieValue, err = token.SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session cookie: %w", err)
	}

	return sessionID, cookieValue, nil
}

// Verify parses a session cookie value and returns the session id it names.
func (m *SessionManager) Verify(cookieValue string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(cookieValue, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse session cookie: %w", err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("session cookie has no id")
	}

	return claims.ID, nil
}

// PutState records the OAuth state nonce for a session.
func (m *SessionManager) PutState(sessionID, nonce string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	m.states[sessionID] = stateEntry{nonce: nonce, expires: time.Now().Add(stateTTL)}
}

// TakeState removes and returns the state nonce for a session.
func (m *SessionManager) TakeState(sessionID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.states[sessionID]
	if !ok || time.Now().After(entry.expires) {
		delete(m.states, sessionID)
		return "", false
	}
	delete(m.states, sessionID)

	return entry.nonce, true
}

func (m *SessionManager) pruneLocked() {
	now := time.Now()
	for id, entry := range m.states {
		if now.After(entry.expires) {
			delete(m.states, id)
		}
	}
}
