package stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vbank/vbank-api/internal/middleware"
	"github.com/vbank/vbank-api/internal/pkg/response"
)

// Handler handles reporting HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates stats handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ManagerOverview handles GET /stats/overview (manager)
func (h *Handler) ManagerOverview(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok || p.ManagerID == nil {
		response.Forbidden(w, "manager account required")
		return
	}

	ov, err := h.svc.ManagerOverview(r.Context(), *p.ManagerID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, ov)
}

// AdminOverview handles GET /stats/admin/overview (admin)
func (h *Handler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.AdminOverview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, ov)
}

// RecentTransactions handles GET /stats/transactions?limit=N (manager)
func (h *Handler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok || p.ManagerID == nil {
		response.Forbidden(w, "manager account required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.svc.RecentTransactions(r.Context(), *p.ManagerID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, rows)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrStoreUnavailable) {
		response.ServiceUnavailable(w, "reporting store unavailable")
		return
	}
	response.InternalError(w)
}
