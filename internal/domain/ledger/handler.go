package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vbank/vbank-api/internal/middleware"
	"github.com/vbank/vbank-api/internal/pkg/money"
	"github.com/vbank/vbank-api/internal/pkg/response"
	"github.com/vbank/vbank-api/internal/pkg/validator"
)

// Handler exposes the ledger engine over HTTP
type Handler struct {
	svc *Service
}

// NewHandler creates ledger handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreditClient handles POST /credit (manager only)
func (h *Handler) CreditClient(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok || p.ManagerID == nil {
		response.Forbidden(w, "manager profile required")
		return
	}

	var req CreditClientRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.BadRequest(w, "amount must be a positive decimal with at most two places")
		return
	}

	balance, err := h.svc.CreditClient(r.Context(), *p.ManagerID, req.ClientID, amount, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BalanceResponse{Balance: money.FromCents(balance)})
}

// Transfer handles POST /transfer (client only)
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok || p.ClientID == nil {
		response.Forbidden(w, "client profile required")
		return
	}

	var req TransferRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.BadRequest(w, "amount must be a positive decimal with at most two places")
		return
	}

	result, err := h.svc.Transfer(r.Context(), *p.ClientID, req.RecipientEmail, amount, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, TransferResponse{
		Transaction:   NewTransactionResponse(result.Transaction),
		Sender:        result.Sender,
		Recipient:     result.Recipient,
		SenderBalance: money.FromCents(result.SenderBalance),
	})
}

// BuyCredits handles POST /buy-credits (manager only)
func (h *Handler) BuyCredits(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok || p.ManagerID == nil {
		response.Forbidden(w, "manager profile required")
		return
	}

	var req BuyCreditsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.BadRequest(w, "amount must be a positive decimal with at most two places")
		return
	}

	balance, t, err := h.svc.BuyManagerCredits(r.Context(), *p.ManagerID, amount, req.PhoneNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"balance":     money.FromCents(balance),
		"transaction": NewTransactionResponse(t),
	})
}

// AdminCredit handles POST /admin/credit (admin only)
func (h *Handler) AdminCredit(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok || !p.IsAdmin() {
		response.Forbidden(w, "admin role required")
		return
	}

	var req AdminCreditRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.BadRequest(w, "amount must be a positive decimal with at most two places")
		return
	}

	balance, err := h.svc.CreditByAdmin(r.Context(), AdminActor{UserID: p.UserID}, CreditTarget(req.TargetType), req.TargetID, amount, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BalanceResponse{Balance: money.FromCents(balance)})
}

// History handles GET /history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txs, err := h.svc.History(r.Context(), p.UserID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionResponse(t))
	}
	response.OK(w, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "amount must be greater than zero")
	case errors.Is(err, ErrInsufficientFunds):
		response.Conflict(w, "insufficient funds")
	case errors.Is(err, ErrRecipientNotFound):
		response.NotFound(w, "recipient not found")
	case errors.Is(err, ErrManagerNotFound), errors.Is(err, ErrClientNotFound):
		response.NotFound(w, "account not found")
	case errors.Is(err, ErrCrossManagerTransfer):
		response.Forbidden(w, "transfers are only allowed between clients of the same manager")
	case errors.Is(err, ErrSelfTransfer):
		response.BadRequest(w, "cannot transfer to yourself")
	case errors.Is(err, ErrPaymentDeclined):
		response.PaymentRequired(w, "payment was declined by the provider")
	default:
		response.InternalError(w)
	}
}
