package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vbank/vbank-api/internal/middleware"
	"github.com/vbank/vbank-api/internal/pkg/response"
	"github.com/vbank/vbank-api/internal/pkg/validator"
)

// Handler exposes client lifecycle endpoints
type Handler struct {
	svc *Service
}

// NewHandler creates account handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateClient handles POST /clients (manager only)
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	managerID, ok := h.callerManagerID(w, r)
	if !ok {
		return
	}

	var req CreateClientRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	created, err := h.svc.CreateClient(r.Context(), managerID, req.FirstName, req.LastName, req.Email, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Conflict(w, "email already exists")
		case errors.Is(err, ErrManagerNotFound):
			response.NotFound(w, "manager not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, CreatedClientResponse{
		ClientResponse:  NewClientResponse(created.Client),
		ActivationToken: created.ActivationToken,
	})
}

// Activate handles POST /activate (public)
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	if err := h.svc.ActivateAccount(r.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			response.BadRequest(w, "invalid activation token")
		case errors.Is(err, ErrAlreadyActivated):
			response.Conflict(w, "account already activated")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "activated"})
}

// ListClients handles GET /clients (manager only)
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	managerID, ok := h.callerManagerID(w, r)
	if !ok {
		return
	}

	clients, err := h.svc.ListClients(r.Context(), managerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, NewClientResponse(c))
	}
	response.OK(w, out)
}

// GetClient handles GET /clients/{id} (manager only)
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	managerID, ok := h.callerManagerID(w, r)
	if !ok {
		return
	}

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid client id")
		return
	}

	c, err := h.svc.GetClient(r.Context(), managerID, clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			response.NotFound(w, "client not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, NewClientResponse(c))
}

// BlockClient handles POST /clients/{id}/block
func (h *Handler) BlockClient(w http.ResponseWriter, r *http.Request) {
	h.mutateClient(w, r, h.svc.BlockClient)
}

// UnblockClient handles POST /clients/{id}/unblock
func (h *Handler) UnblockClient(w http.ResponseWriter, r *http.Request) {
	h.mutateClient(w, r, h.svc.UnblockClient)
}

// DeleteClient handles DELETE /clients/{id}
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	h.mutateClient(w, r, h.svc.DeleteClient)
}

func (h *Handler) mutateClient(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, managerID, clientID uuid.UUID) error) {
	managerID, ok := h.callerManagerID(w, r)
	if !ok {
		return
	}

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid client id")
		return
	}

	if err := fn(r.Context(), managerID, clientID); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			response.NotFound(w, "client not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

func (h *Handler) callerManagerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok || p.ManagerID == nil {
		response.Forbidden(w, "manager profile required")
		return uuid.Nil, false
	}
	return *p.ManagerID, true
}
