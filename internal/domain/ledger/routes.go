package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbank/vbank-api/internal/middleware"
)

// Routes returns ledger router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/history", h.History)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireManager())
		r.Post("/credit", h.CreditClient)
		r.Post("/buy-credits", h.BuyCredits)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireClient())
		r.Post("/transfer", h.Transfer)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Post("/admin/credit", h.AdminCredit)
	})

	return r
}
