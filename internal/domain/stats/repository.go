package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ManagerOverview aggregates a manager's book for the dashboard. Balances
// are integer cents.
type ManagerOverview struct {
	ClientCount        int   `db:"client_count" json:"client_count"`
	ActiveClients      int   `db:"active_clients" json:"active_clients"`
	BlockedClients     int   `db:"blocked_clients" json:"blocked_clients"`
	CreditBalance      int64 `db:"credit_balance" json:"credit_balance"`
	TotalCommission    int64 `db:"total_commission" json:"total_commission"`
	TotalClientBalance int64 `db:"total_client_balance" json:"total_client_balance"`
	TransactionCount   int   `db:"transaction_count" json:"transaction_count"`
	TransactionVolume  int64 `db:"transaction_volume" json:"transaction_volume"`
}

// AdminOverview aggregates platform-wide totals
type AdminOverview struct {
	ManagerCount      int   `db:"manager_count" json:"manager_count"`
	ClientCount       int   `db:"client_count" json:"client_count"`
	ActiveClients     int   `db:"active_clients" json:"active_clients"`
	TotalCredits      int64 `db:"total_credits" json:"total_credits"`
	TotalBalances     int64 `db:"total_balances" json:"total_balances"`
	TransactionCount  int   `db:"transaction_count" json:"transaction_count"`
	TransactionVolume int64 `db:"transaction_volume" json:"transaction_volume"`
}

// RecentTransaction is a flattened transaction row for reporting
type RecentTransaction struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	Amount    int64     `db:"amount" json:"amount"`
	Status    string    `db:"status" json:"status"`
	Reference string    `db:"reference" json:"reference"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReadStore is the reporting read surface. The service retries around it.
type ReadStore interface {
	ManagerOverview(ctx context.Context, managerID uuid.UUID) (*ManagerOverview, error)
	AdminOverview(ctx context.Context) (*AdminOverview, error)
	RecentTransactions(ctx context.Context, managerID uuid.UUID, limit int) ([]RecentTransaction, error)
}

// Repository runs reporting aggregates against Postgres
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates stats repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ManagerOverview aggregates one manager's clients and transaction volume
func (r *Repository) ManagerOverview(ctx context.Context, managerID uuid.UUID) (*ManagerOverview, error) {
	var ov ManagerOverview

	err := r.db.GetContext(ctx, &ov, `
		SELECT m.credit_balance,
		       m.total_commission,
		       COUNT(c.id) AS client_count,
		       COUNT(c.id) FILTER (WHERE c.is_activated AND NOT c.is_blocked) AS active_clients,
		       COUNT(c.id) FILTER (WHERE c.is_blocked) AS blocked_clients,
		       COALESCE(SUM(c.account_balance), 0) AS total_client_balance
		FROM managers m
		LEFT JOIN clients c ON c.manager_id = m.id AND c.deleted_at IS NULL
		WHERE m.id = $1
		GROUP BY m.id
	`, managerID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &ov, `
		SELECT COUNT(*) AS transaction_count,
		       COALESCE(SUM(amount), 0) AS transaction_volume
		FROM transactions t
		JOIN managers m ON m.id = $1
		WHERE t.status = 'success'
		  AND (t.from_user_id = m.user_id OR t.to_user_id = m.user_id)
	`, managerID)
	if err != nil {
		return nil, err
	}

	return &ov, nil
}

// AdminOverview aggregates platform-wide totals
func (r *Repository) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	var ov AdminOverview

	err := r.db.GetContext(ctx, &ov, `
		SELECT (SELECT COUNT(*) FROM managers) AS manager_count,
		       (SELECT COUNT(*) FROM clients WHERE deleted_at IS NULL) AS client_count,
		       (SELECT COUNT(*) FROM clients
		        WHERE deleted_at IS NULL AND is_activated AND NOT is_blocked) AS active_clients,
		       (SELECT COALESCE(SUM(credit_balance), 0) FROM managers) AS total_credits,
		       (SELECT COALESCE(SUM(account_balance), 0) FROM clients
		        WHERE deleted_at IS NULL) AS total_balances,
		       (SELECT COUNT(*) FROM transactions WHERE status = 'success') AS transaction_count,
		       (SELECT COALESCE(SUM(amount), 0) FROM transactions
		        WHERE status = 'success') AS transaction_volume
	`)
	if err != nil {
		return nil, err
	}

	return &ov, nil
}

// RecentTransactions lists the latest successful transactions touching a
// manager or any of their clients
func (r *Repository) RecentTransactions(ctx context.Context, managerID uuid.UUID, limit int) ([]RecentTransaction, error) {
	rows := []RecentTransaction{}

	err := r.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.type, t.amount, t.status, t.reference, t.created_at
		FROM transactions t
		WHERE t.from_user_id IN (
		        SELECT user_id FROM managers WHERE id = $1
		        UNION
		        SELECT user_id FROM clients WHERE manager_id = $1
		      )
		   OR t.to_user_id IN (
		        SELECT user_id FROM managers WHERE id = $1
		        UNION
		        SELECT user_id FROM clients WHERE manager_id = $1
		      )
		ORDER BY t.created_at DESC
		LIMIT $2
	`, managerID, limit)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
