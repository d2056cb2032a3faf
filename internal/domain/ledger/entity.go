package ledger

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TypeCredit    TransactionType = "credit"
	TypeDebit     TransactionType = "debit"
	TypeTransfer  TransactionType = "transfer"
	TypeBuyCredit TransactionType = "buy_credit"
)

// TransactionStatus follows pending -> success|failed; both outcomes are
// terminal. Only the credit-purchase flow ever observes a pending window.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusSuccess TransactionStatus = "success"
	StatusFailed  TransactionStatus = "failed"
)

// Transaction is an immutable ledger entry recording one value movement.
// Amount is always positive integer cents; a NULL from_user_id means the
// movement was system/admin-originated.
type Transaction struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	Type        TransactionType   `db:"type" json:"type"`
	Amount      int64             `db:"amount" json:"amount"`
	FromUserID  uuid.NullUUID     `db:"from_user_id" json:"from_user_id,omitempty"`
	ToUserID    uuid.UUID         `db:"to_user_id" json:"to_user_id"`
	Status      TransactionStatus `db:"status" json:"status"`
	Description string            `db:"description" json:"description"`
	Reference   string            `db:"reference" json:"reference"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// Payment is the provider record created alongside a buy_credit transaction.
type Payment struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	TransactionID uuid.UUID      `db:"transaction_id" json:"transaction_id"`
	Provider      string         `db:"provider" json:"provider"`
	ExternalID    sql.NullString `db:"external_id" json:"external_id,omitempty"`
	Amount        int64          `db:"amount" json:"amount"`
	Status        string         `db:"status" json:"status"`
	PhoneNumber   sql.NullString `db:"phone_number" json:"phone_number,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Party identifies one side of a transfer for display purposes
type Party struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
}

// TransferResult is returned from a completed transfer with both user
// records attached for display.
type TransferResult struct {
	Transaction   *Transaction `json:"transaction"`
	Sender        Party        `json:"sender"`
	Recipient     Party        `json:"recipient"`
	SenderBalance int64        `json:"sender_balance"`
}

// AdminActor is an explicit admin-principal token. Admin-only engine
// operations take it by value so a caller cannot reach them without first
// resolving an admin identity.
type AdminActor struct {
	UserID uuid.UUID
}

// CreditTarget selects what an admin credit applies to
type CreditTarget string

const (
	TargetManager CreditTarget = "manager"
	TargetClient  CreditTarget = "client"
)
