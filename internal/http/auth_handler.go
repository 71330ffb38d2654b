package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"bookreviews/internal/auth"
	"bookreviews/internal/entity"
	"bookreviews/internal/httpx"
	"bookreviews/internal/session"
	"bookreviews/internal/usecase"
	"bookreviews/internal/view"
)

type AuthHandler struct {
	users    usecase.UserRepository
	sessions *session.Manager
	views    *view.Renderer
}

func NewAuthHandler(users usecase.UserRepository, sessions *session.Manager, views *view.Renderer) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		views:    views,
	}
}

// Login handles GET and POST /login. An already-authenticated request is
// bounced home. A failed POST re-renders the credential form with no hint
// about which of email or password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if httpx.UserIDFrom(r) != 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method != http.MethodPost {
		h.views.Render(w, http.StatusOK, "login.html", nil)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, password) {
		if err != nil && !errors.Is(err, usecase.ErrNotFound) {
			h.serverError(w, "login lookup", err)
			return
		}
		h.views.Render(w, http.StatusOK, "login.html", nil)
		return
	}

	if err := h.sessions.Establish(r.Context(), w, user.ID); err != nil {
		h.serverError(w, "establish session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register handles POST /register. Form values are stored as supplied; the
// only check is the soft email-uniqueness one.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := r.PostFormValue("name")
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	_, err := h.users.GetByEmail(r.Context(), email)
	if err == nil {
		h.views.Render(w, http.StatusOK, "error.html", map[string]string{
			"Message": "User already exists. Use a different email.",
		})
		return
	}
	if !errors.Is(err, usecase.ErrNotFound) {
		h.serverError(w, "register lookup", err)
		return
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		h.serverError(w, "hash password", err)
		return
	}

	newUser := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
	}
	if err := h.users.Create(r.Context(), newUser); err != nil {
		h.serverError(w, "create user", err)
		return
	}

	h.views.Render(w, http.StatusOK, "success.html", map[string]string{
		"Message": "You are now registered.",
	})
}

// Logout clears the session and redirects home. Safe without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context(), w, r); err != nil {
		h.serverError(w, "clear session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("auth handler: op=%s error=%v", op, err)
	h.views.Render(w, http.StatusInternalServerError, "error.html", map[string]string{
		"Message": "The service is temporarily unavailable.",
	})
}
