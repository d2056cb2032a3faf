package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbank/vbank-api/internal/middleware"
)

// Routes returns account router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public: activation link is delivered out of band
	r.Post("/activate", h.Activate)

	// Manager routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireManager())
		r.Post("/clients", h.CreateClient)
		r.Get("/clients", h.ListClients)
		r.Get("/clients/{id}", h.GetClient)
		r.Post("/clients/{id}/block", h.BlockClient)
		r.Post("/clients/{id}/unblock", h.UnblockClient)
		r.Delete("/clients/{id}", h.DeleteClient)
	})

	return r
}
