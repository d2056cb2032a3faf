package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/vbank/vbank-api/internal/pkg/money"
)

// CreateClientRequest for POST /accounts/clients
type CreateClientRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,min=5,max=32"`
}

// ActivateRequest for POST /accounts/activate
type ActivateRequest struct {
	Token    string `json:"token" validate:"required,len=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	ManagerID      uuid.UUID `json:"manager_id"`
	AccountBalance string    `json:"account_balance"`
	Status         string    `json:"status"`
	CreatedAt      string    `json:"created_at"`
}

// CreatedClientResponse additionally carries the one-time activation token
type CreatedClientResponse struct {
	ClientResponse
	ActivationToken string `json:"activation_token"`
}

// NewClientResponse creates ClientResponse from a client entity
func NewClientResponse(c *Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		ManagerID:      c.ManagerID,
		AccountBalance: money.FromCents(c.AccountBalance),
		Status:         string(c.Status()),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}
