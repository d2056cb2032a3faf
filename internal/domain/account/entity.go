package account

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Manager owns zero-or-more clients and distributes credits to them.
// CreditBalance is integer cents and never goes negative.
type Manager struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	CreditBalance   int64     `db:"credit_balance"`
	TotalCommission int64     `db:"total_commission"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ClientStatus is a derived lifecycle state, not a stored column.
type ClientStatus string

const (
	ClientStatusPending ClientStatus = "pending"
	ClientStatusActive  ClientStatus = "active"
	ClientStatusBlocked ClientStatus = "blocked"
	ClientStatusDeleted ClientStatus = "deleted"
)

// Client belongs to exactly one Manager. AccountBalance is integer cents and
// never goes negative. A client is created pending with an activation token;
// activation consumes the token and sets the user's real password.
type Client struct {
	ID              uuid.UUID      `db:"id"`
	UserID          uuid.UUID      `db:"user_id"`
	ManagerID       uuid.UUID      `db:"manager_id"`
	AccountBalance  int64          `db:"account_balance"`
	IsActivated     bool           `db:"is_activated"`
	ActivationToken sql.NullString `db:"activation_token"`
	ActivatedAt     sql.NullTime   `db:"activated_at"`
	IsBlocked       bool           `db:"is_blocked"`
	DeletedAt       sql.NullTime   `db:"deleted_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Status derives the lifecycle state. Deleted wins over blocked so a deleted
// account never resurfaces as merely blocked.
func (c *Client) Status() ClientStatus {
	switch {
	case c.DeletedAt.Valid:
		return ClientStatusDeleted
	case c.IsBlocked:
		return ClientStatusBlocked
	case !c.IsActivated:
		return ClientStatusPending
	default:
		return ClientStatusActive
	}
}

// CanLogin returns true if the lifecycle state permits authentication
func (c *Client) CanLogin() bool {
	return c.Status() == ClientStatusActive
}
