package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainworklist "github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/ports"
	"github.com/Bre77/wip/internal/usecase/worklist"
)

// WorklistService is the slice of the worklist usecase the API needs.
type WorklistService interface {
	List(ctx context.Context, in worklist.ListInput) ([]domainworklist.Item, error)
	Refresh(ctx context.Context, userKey string) error
	UpdateItem(ctx context.Context, in worklist.UpdateItemInput) error
	HideItem(ctx context.Context, userKey string, id string) error
	BatchReorder(ctx context.Context, userKey string, entries []worklist.ReorderEntry) error
}

// AuthService is the slice of the auth usecase the API needs.
type AuthService interface {
	AuthCodeURL(state string) string
	CompleteLogin(ctx context.Context, code string) (ports.Session, error)
	SessionFromToken(ctx context.Context, token string) (ports.Session, error)
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	worklist WorklistService
	auth     AuthService
}

// New assembles the HTTP surface: the session-guarded /api routes, the
// /auth flow and, when given, the MCP handler under /mcp.
func New(worklistSvc WorklistService, authSvc AuthService, mcp http.Handler) http.Handler {
	h := &Handler{
		worklist: worklistSvc,
		auth:     authSvc,
	}

	r := chi.NewRouter()

	r.Route("/api", func(api chi.Router) {
		api.Use(h.requireSession)
		api.Get("/items", h.listItems)
		api.Post("/items", h.refreshItems)
		api.Post("/items/batch-priority", h.batchPriority)
		api.Put("/items/{id}", h.updateItem)
		api.Post("/items/{id}/hide", h.hideItem)
	})

	r.Route("/auth", func(ar chi.Router) {
		ar.Get("/login", h.login)
		ar.Get("/callback", h.callback)
		ar.Get("/me", h.me)
		ar.Post("/logout", h.logout)
	})

	if mcp != nil {
		r.Mount("/mcp", mcp)
	}

	return r
}
