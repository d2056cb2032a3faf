package ledger

import (
	"github.com/google/uuid"

	"github.com/vbank/vbank-api/internal/pkg/money"
)

// Amounts cross the HTTP boundary as decimal strings ("120.50") and are
// converted to integer cents exactly once, here in the DTO layer. The
// engine below this line only ever sees int64 minor units.

// CreditClientRequest for POST /ledger/credit
type CreditClientRequest struct {
	ClientID    uuid.UUID `json:"client_id" validate:"required"`
	Amount      string    `json:"amount" validate:"required"`
	Description string    `json:"description" validate:"max=255"`
}

// TransferRequest for POST /ledger/transfer
type TransferRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	Amount         string `json:"amount" validate:"required"`
	Description    string `json:"description" validate:"max=255"`
}

// BuyCreditsRequest for POST /ledger/buy-credits
type BuyCreditsRequest struct {
	Amount      string `json:"amount" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=5,max=32"`
}

// AdminCreditRequest for POST /ledger/admin/credit
type AdminCreditRequest struct {
	TargetType  string    `json:"target_type" validate:"required,credit_target"`
	TargetID    uuid.UUID `json:"target_id" validate:"required"`
	Amount      string    `json:"amount" validate:"required"`
	Description string    `json:"description" validate:"max=255"`
}

// BalanceResponse reports a balance after a mutation
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	FromUserID  *string   `json:"from_user_id,omitempty"`
	ToUserID    uuid.UUID `json:"to_user_id"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Reference   string    `json:"reference"`
	CreatedAt   string    `json:"created_at"`
}

// NewTransactionResponse creates TransactionResponse from a ledger entry
func NewTransactionResponse(t *Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      money.FromCents(t.Amount),
		ToUserID:    t.ToUserID,
		Status:      string(t.Status),
		Description: t.Description,
		Reference:   t.Reference,
		CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.FromUserID.Valid {
		from := t.FromUserID.UUID.String()
		resp.FromUserID = &from
	}
	return resp
}

// TransferResponse carries the created entry plus both parties for display
type TransferResponse struct {
	Transaction   TransactionResponse `json:"transaction"`
	Sender        Party               `json:"sender"`
	Recipient     Party               `json:"recipient"`
	SenderBalance string              `json:"sender_balance"`
}

// parseAmount converts a request amount to cents, rejecting non-positive
// values before they reach the engine.
func parseAmount(s string) (int64, error) {
	cents, err := money.ToCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
