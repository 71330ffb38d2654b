package http

import (
	"context"
	"net/http"

	"bookreviews/internal/httpx"
	"bookreviews/internal/usecase"
	"bookreviews/internal/view"
)

// SchemaEnsurer is the landing page's create-if-absent hook.
type SchemaEnsurer func(ctx context.Context) error

type PageHandler struct {
	users        usecase.UserRepository
	ensureSchema SchemaEnsurer
	views        *view.Renderer
}

func NewPageHandler(users usecase.UserRepository, ensureSchema SchemaEnsurer, views *view.Renderer) *PageHandler {
	return &PageHandler{
		users:        users,
		ensureSchema: ensureSchema,
		views:        views,
	}
}

// Landing serves "/": the signed-in home page, or the credential form. It
// also makes sure the storage schema exists, which keeps a fresh deployment
// usable without a manual migration step.
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if err := h.ensureSchema(r.Context()); err != nil {
		h.views.Render(w, http.StatusInternalServerError, "error.html", map[string]string{
			"Message": "The service is temporarily unavailable.",
		})
		return
	}

	userID := httpx.UserIDFrom(r)
	if userID == 0 {
		h.views.Render(w, http.StatusOK, "login.html", nil)
		return
	}

	name := ""
	if user, err := h.users.GetByID(r.Context(), userID); err == nil {
		name = user.Name
	}
	h.views.Render(w, http.StatusOK, "index.html", map[string]string{"Name": name})
}
