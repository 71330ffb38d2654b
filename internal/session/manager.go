// Package session tracks the authenticated user across requests. The
// browser holds an opaque random token in a non-persistent cookie; the
// server keeps the sha256 of that token next to the user id, so no identity
// state lives in-process.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"bookreviews/internal/entity"
	"bookreviews/internal/httpx"
	"bookreviews/internal/usecase"
)

const CookieName = "session_token"

// DefaultTTL bounds the server-side row; the cookie itself carries no
// Max-Age and dies with the browser session.
const DefaultTTL = 12 * time.Hour

type Manager struct {
	repo usecase.SessionRepository
	ttl  time.Duration
}

func NewManager(repo usecase.SessionRepository) *Manager {
	return &Manager{repo: repo, ttl: DefaultTTL}
}

// Establish mints a fresh token for userID, persists its hash and hands the
// token to the client.
func (m *Manager) Establish(ctx context.Context, w http.ResponseWriter, userID int64) error {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}
	token := hex.EncodeToString(tokenBytes)

	sess := &entity.Session{
		TokenHash: hashToken(token),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.repo.Create(ctx, sess); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear drops the server-side session and expires the cookie. Calling it
// without an active session is a no-op.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := m.repo.DeleteByTokenHash(ctx, hashToken(cookie.Value)); err != nil {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Middleware resolves the session cookie to a user id and threads it
// through the request context. A missing, stale or unknown cookie just
// leaves the request unauthenticated.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.repo.GetByTokenHash(r.Context(), hashToken(cookie.Value))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := httpx.ContextWithUser(r.Context(), sess.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
