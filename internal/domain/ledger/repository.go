package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vbank/vbank-api/internal/domain/user"
)

// Repository executes every balance-affecting operation as one database
// transaction. The balance read, the sufficiency check, the balance writes
// and the ledger insert all go through the same tx handle; both balance rows
// involved are locked with SELECT ... FOR UPDATE so two concurrent operations
// cannot both read a stale balance and both pass the check. Lock order is
// managers before clients, and within clients ascending id, to avoid
// deadlocks between concurrent transfers.
type Repository struct {
	db        *sqlx.DB
	txTimeout time.Duration
}

// NewRepository creates ledger repository. txTimeout bounds every mutating
// transaction so a stalled lock cannot hang a request indefinitely.
func NewRepository(db *sqlx.DB, txTimeout time.Duration) *Repository {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	return &Repository{db: db, txTimeout: txTimeout}
}

type managerRow struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	CreditBalance int64     `db:"credit_balance"`
}

type clientRow struct {
	ID             uuid.UUID `db:"id"`
	UserID         uuid.UUID `db:"user_id"`
	ManagerID      uuid.UUID `db:"manager_id"`
	AccountBalance int64     `db:"account_balance"`
}

func (r *Repository) beginTx(ctx context.Context) (*sqlx.Tx, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return tx, cancel, nil
}

func lockManager(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*managerRow, error) {
	var m managerRow
	err := tx.GetContext(ctx, &m, `
		SELECT id, user_id, credit_balance FROM managers WHERE id = $1 FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrManagerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func lockClient(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*clientRow, error) {
	var c clientRow
	err := tx.GetContext(ctx, &c, `
		SELECT id, user_id, manager_id, account_balance
		FROM clients WHERE id = $1 AND deleted_at IS NULL FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func updateManagerBalance(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE managers SET credit_balance = $2, updated_at = NOW() WHERE id = $1
	`, id, balance)
	return err
}

func updateClientBalance(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE clients SET account_balance = $2, updated_at = NOW() WHERE id = $1
	`, id, balance)
	return err
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, t *Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount, from_user_id, to_user_id, status, description, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.Type, t.Amount, t.FromUserID, t.ToUserID, t.Status, t.Description, t.Reference)
	if err != nil {
		return fmt.Errorf("ledger insert transaction: %w", err)
	}
	return nil
}

// CreditClient moves amount from the manager's credit balance to the
// client's account balance and records one credit entry, atomically.
func (r *Repository) CreditClient(ctx context.Context, managerID, clientID uuid.UUID, amount int64, description, ref string) (int64, *Transaction, error) {
	tx, cancel, err := r.beginTx(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer cancel()
	defer tx.Rollback()

	m, err := lockManager(ctx, tx, managerID)
	if err != nil {
		return 0, nil, err
	}

	c, err := lockClient(ctx, tx, clientID)
	if err != nil {
		return 0, nil, err
	}
	if c.ManagerID != managerID {
		return 0, nil, ErrClientNotFound
	}

	if m.CreditBalance < amount {
		return 0, nil, ErrInsufficientFunds
	}

	if err := updateManagerBalance(ctx, tx, m.ID, m.CreditBalance-amount); err != nil {
		return 0, nil, err
	}
	newBalance := c.AccountBalance + amount
	if err := updateClientBalance(ctx, tx, c.ID, newBalance); err != nil {
		return 0, nil, err
	}

	t := &Transaction{
		ID:          uuid.New(),
		Type:        TypeCredit,
		Amount:      amount,
		FromUserID:  uuid.NullUUID{UUID: m.UserID, Valid: true},
		ToUserID:    c.UserID,
		Status:      StatusSuccess,
		Description: description,
		Reference:   ref,
		CreatedAt:   time.Now(),
	}
	if err := insertTransaction(ctx, tx, t); err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	return newBalance, t, nil
}

// Transfer moves amount between two clients and records one transfer entry,
// atomically. Both client rows are locked in ascending id order regardless of
// direction so two opposite transfers cannot deadlock.
func (r *Repository) Transfer(ctx context.Context, senderClientID, recipientClientID uuid.UUID, amount int64, description, ref string) (*Transaction, int64, error) {
	tx, cancel, err := r.beginTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer cancel()
	defer tx.Rollback()

	first, second := senderClientID, recipientClientID
	if second.String() < first.String() {
		first, second = second, first
	}

	rows := make(map[uuid.UUID]*clientRow, 2)
	for _, id := range []uuid.UUID{first, second} {
		row, err := lockClient(ctx, tx, id)
		if err != nil {
			return nil, 0, err
		}
		rows[id] = row
	}
	sender, recipient := rows[senderClientID], rows[recipientClientID]

	if sender.AccountBalance < amount {
		return nil, 0, ErrInsufficientFunds
	}

	senderBalance := sender.AccountBalance - amount
	if err := updateClientBalance(ctx, tx, sender.ID, senderBalance); err != nil {
		return nil, 0, err
	}
	if err := updateClientBalance(ctx, tx, recipient.ID, recipient.AccountBalance+amount); err != nil {
		return nil, 0, err
	}

	t := &Transaction{
		ID:          uuid.New(),
		Type:        TypeTransfer,
		Amount:      amount,
		FromUserID:  uuid.NullUUID{UUID: sender.UserID, Valid: true},
		ToUserID:    recipient.UserID,
		Status:      StatusSuccess,
		Description: description,
		Reference:   ref,
		CreatedAt:   time.Now(),
	}
	if err := insertTransaction(ctx, tx, t); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return t, senderBalance, nil
}

// CreatePendingPurchase records a buy_credit transaction and its linked
// payment row, both pending, before the gateway is charged. No balance is
// touched here.
func (r *Repository) CreatePendingPurchase(ctx context.Context, managerUserID uuid.UUID, amount int64, ref, provider, phoneNumber string) (*Transaction, error) {
	tx, cancel, err := r.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer tx.Rollback()

	t := &Transaction{
		ID:          uuid.New(),
		Type:        TypeBuyCredit,
		Amount:      amount,
		ToUserID:    managerUserID,
		Status:      StatusPending,
		Description: "credit purchase",
		Reference:   ref,
		CreatedAt:   time.Now(),
	}
	if err := insertTransaction(ctx, tx, t); err != nil {
		return nil, err
	}

	var phone interface{}
	if phoneNumber != "" {
		phone = phoneNumber
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, transaction_id, provider, amount, status, phone_number)
		VALUES ($1, $2, $3, $4, 'pending', $5)
	`, uuid.New(), t.ID, provider, amount, phone)
	if err != nil {
		return nil, fmt.Errorf("ledger insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// SettlePurchase finalizes a pending buy_credit transaction after the
// gateway answered. On success the manager balance increment, the status
// flip and the payment update commit together; on failure nothing but the
// status changes. Settling a transaction that is no longer pending is a
// no-op returning the current manager balance, so a duplicate settle cannot
// double-credit.
func (r *Repository) SettlePurchase(ctx context.Context, transactionID, managerID uuid.UUID, externalID string, success bool) (int64, error) {
	tx, cancel, err := r.beginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()
	defer tx.Rollback()

	m, err := lockManager(ctx, tx, managerID)
	if err != nil {
		return 0, err
	}

	status := StatusFailed
	if success {
		status = StatusSuccess
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE transactions SET status = $2 WHERE id = $1 AND status = 'pending'
	`, transactionID, status)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// already settled
		return m.CreditBalance, tx.Commit()
	}

	var extID interface{}
	if externalID != "" {
		extID = externalID
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET status = $2, external_id = $3, updated_at = NOW()
		WHERE transaction_id = $1
	`, transactionID, status, extID)
	if err != nil {
		return 0, err
	}

	balance := m.CreditBalance
	if success {
		var amount int64
		if err := tx.GetContext(ctx, &amount, `SELECT amount FROM transactions WHERE id = $1`, transactionID); err != nil {
			return 0, err
		}
		balance += amount
		if err := updateManagerBalance(ctx, tx, m.ID, balance); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

// CreditByAdmin increments a manager or client balance and records a credit
// entry with a NULL source, atomically. No upper-bound check by design.
func (r *Repository) CreditByAdmin(ctx context.Context, target CreditTarget, targetID uuid.UUID, amount int64, description, ref string) (int64, *Transaction, error) {
	tx, cancel, err := r.beginTx(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer cancel()
	defer tx.Rollback()

	var toUserID uuid.UUID
	var newBalance int64

	switch target {
	case TargetManager:
		m, err := lockManager(ctx, tx, targetID)
		if err != nil {
			return 0, nil, err
		}
		newBalance = m.CreditBalance + amount
		if err := updateManagerBalance(ctx, tx, m.ID, newBalance); err != nil {
			return 0, nil, err
		}
		toUserID = m.UserID
	case TargetClient:
		c, err := lockClient(ctx, tx, targetID)
		if err != nil {
			return 0, nil, err
		}
		newBalance = c.AccountBalance + amount
		if err := updateClientBalance(ctx, tx, c.ID, newBalance); err != nil {
			return 0, nil, err
		}
		toUserID = c.UserID
	default:
		return 0, nil, fmt.Errorf("unknown credit target %q", target)
	}

	t := &Transaction{
		ID:          uuid.New(),
		Type:        TypeCredit,
		Amount:      amount,
		ToUserID:    toUserID,
		Status:      StatusSuccess,
		Description: description,
		Reference:   ref,
		CreatedAt:   time.Now(),
	}
	if err := insertTransaction(ctx, tx, t); err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	return newBalance, t, nil
}

// GetParty loads display fields for one side of a transfer. Users are never
// hard-deleted, so a missing row is an integrity error, not an empty result.
func (r *Repository) GetParty(ctx context.Context, userID uuid.UUID) (*Party, error) {
	var p Party
	err := r.db.GetContext(ctx, &p, `
		SELECT id AS user_id, email, first_name, last_name FROM users WHERE id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ledger party %s: %w", userID, user.ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns ledger entries where the user is either party
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, error) {
	var txs []*Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, type, amount, from_user_id, to_user_id, status, description, reference, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return txs, err
}

// GetByReference returns the ledger entry with the given unique reference
func (r *Repository) GetByReference(ctx context.Context, ref string) (*Transaction, error) {
	var t Transaction
	err := r.db.GetContext(ctx, &t, `
		SELECT id, type, amount, from_user_id, to_user_id, status, description, reference, created_at
		FROM transactions WHERE reference = $1
	`, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
