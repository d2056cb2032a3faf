package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbank/vbank-api/internal/middleware"
)

// Routes returns stats router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireManager())
		r.Get("/overview", h.ManagerOverview)
		r.Get("/transactions", h.RecentTransactions)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Get("/admin/overview", h.AdminOverview)
	})

	return r
}
