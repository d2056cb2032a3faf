package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vbank/vbank-api/internal/domain/user"
)

// Repository handles manager and client persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates account repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetManagerByID(ctx context.Context, id uuid.UUID) (*Manager, error) {
	var m Manager
	err := r.db.GetContext(ctx, &m, `SELECT * FROM managers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) GetManagerByUserID(ctx context.Context, userID uuid.UUID) (*Manager, error) {
	var m Manager
	err := r.db.GetContext(ctx, &m, `SELECT * FROM managers WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	var c Client
	err := r.db.GetContext(ctx, &c, `SELECT * FROM clients WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetClientByUserID(ctx context.Context, userID uuid.UUID) (*Client, error) {
	var c Client
	err := r.db.GetContext(ctx, &c, `SELECT * FROM clients WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetClientByActivationToken(ctx context.Context, token string) (*Client, error) {
	var c Client
	err := r.db.GetContext(ctx, &c, `SELECT * FROM clients WHERE activation_token = $1`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListClientsByManager(ctx context.Context, managerID uuid.UUID) ([]*Client, error) {
	var clients []*Client
	err := r.db.SelectContext(ctx, &clients, `
		SELECT * FROM clients
		WHERE manager_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, managerID)
	return clients, err
}

// CreateClientWithUser inserts the identity row and the client profile in one
// transaction so a half-created client can never exist. A unique-violation on
// users.email maps to ErrEmailAlreadyExists.
func (r *Repository) CreateClientWithUser(ctx context.Context, u *user.User, c *Client) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Email, u.FirstName, u.LastName, u.Phone, u.PasswordHash, u.Role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("account repository create user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO clients (id, user_id, manager_id, account_balance, is_activated, activation_token)
		VALUES ($1, $2, $3, 0, false, $4)
	`, c.ID, c.UserID, c.ManagerID, c.ActivationToken)
	if err != nil {
		return fmt.Errorf("account repository create client: %w", err)
	}

	return tx.Commit()
}

// Activate flips the client to activated, clears the token and sets the
// user's password, all in one transaction. The WHERE clause only matches a
// still-pending row holding this exact token, which is what makes a token
// single-use even under concurrent activation attempts.
func (r *Repository) Activate(ctx context.Context, clientID, userID uuid.UUID, token, passwordHash string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE clients
		SET is_activated = true, activation_token = NULL, activated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_activated = false AND activation_token = $2
	`, clientID, token)
	if err != nil {
		return fmt.Errorf("account repository activate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyActivated
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("account repository set password: %w", err)
	}

	return tx.Commit()
}

func (r *Repository) SetBlocked(ctx context.Context, clientID uuid.UUID, blocked bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients SET is_blocked = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, clientID, blocked)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClientNotFound
	}
	return nil
}

// SoftDelete marks the client deleted. The identity row stays; deletion is
// terminal for login purposes only.
func (r *Repository) SoftDelete(ctx context.Context, clientID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, clientID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClientNotFound
	}
	return nil
}
