package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vbank/vbank-api/internal/domain/user"
	"github.com/vbank/vbank-api/internal/pkg/email"
	"github.com/vbank/vbank-api/internal/pkg/password"
	"github.com/vbank/vbank-api/internal/pkg/token"
)

// Service handles the client lifecycle: creation, activation, blocking and
// soft deletion. Balance movements live in the ledger service, not here.
type Service struct {
	repo        *Repository
	userRepo    user.Repository
	mailer      email.Sender
	frontendURL string
}

// NewService creates account service. mailer may be nil; activation links are
// then only returned to the caller, never emailed.
func NewService(repo *Repository, userRepo user.Repository, mailer email.Sender, frontendURL string) *Service {
	return &Service{repo: repo, userRepo: userRepo, mailer: mailer, frontendURL: frontendURL}
}

// CreatedClient is returned from CreateClient. The activation token appears
// here exactly once; the caller delivers the activation link out of band.
type CreatedClient struct {
	Client          *Client
	User            *user.User
	ActivationToken string
}

// CreateClient provisions a pending client under the given manager. The user
// row gets a placeholder password (the hashed activation token) that cannot
// be used to log in before activation replaces it.
func (s *Service) CreateClient(ctx context.Context, managerID uuid.UUID, firstName, lastName, email, phone string) (*CreatedClient, error) {
	manager, err := s.repo.GetManagerByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, ErrManagerNotFound
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	activationToken, err := token.NewActivationToken()
	if err != nil {
		return nil, err
	}

	placeholderHash, err := password.Hash(activationToken)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		PasswordHash: placeholderHash,
		Role:         user.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	c := &Client{
		ID:        uuid.New(),
		UserID:    u.ID,
		ManagerID: managerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.ActivationToken.String = activationToken
	c.ActivationToken.Valid = true

	if err := s.repo.CreateClientWithUser(ctx, u, c); err != nil {
		return nil, err
	}

	log.Info().
		Str("client_id", c.ID.String()).
		Str("manager_id", managerID.String()).
		Msg("client created, pending activation")

	s.sendActivationEmail(ctx, u, activationToken)

	return &CreatedClient{Client: c, User: u, ActivationToken: activationToken}, nil
}

// sendActivationEmail is best effort: a failed delivery must not roll back
// the created account, the manager still sees the token in the response.
func (s *Service) sendActivationEmail(ctx context.Context, u *user.User, activationToken string) {
	if s.mailer == nil {
		return
	}

	link := s.frontendURL + "/activate?token=" + activationToken
	msg, err := email.NewActivationMessage(u.Email, u.FirstName, link)
	if err != nil {
		log.Error().Err(err).Str("email", u.Email).Msg("failed to build activation email")
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("email", u.Email).Msg("failed to send activation email")
	}
}

// ActivateAccount consumes an activation token and sets the user's real
// password. A token works at most once.
func (s *Service) ActivateAccount(ctx context.Context, activationToken, newPassword string) error {
	c, err := s.repo.GetClientByActivationToken(ctx, activationToken)
	if err != nil {
		return err
	}
	if c == nil {
		// Either never issued or already consumed; the caller cannot tell
		// the difference and should not be able to.
		return ErrInvalidToken
	}
	if c.IsActivated {
		return ErrAlreadyActivated
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.Activate(ctx, c.ID, c.UserID, activationToken, hash); err != nil {
		return err
	}

	log.Info().Str("client_id", c.ID.String()).Msg("client activated")
	return nil
}

// GetClient returns a client owned by the given manager
func (s *Service) GetClient(ctx context.Context, managerID, clientID uuid.UUID) (*Client, error) {
	c, err := s.repo.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.ManagerID != managerID {
		return nil, ErrClientNotFound
	}
	return c, nil
}

// ListClients returns the manager's non-deleted clients
func (s *Service) ListClients(ctx context.Context, managerID uuid.UUID) ([]*Client, error) {
	return s.repo.ListClientsByManager(ctx, managerID)
}

// BlockClient blocks a client owned by the manager
func (s *Service) BlockClient(ctx context.Context, managerID, clientID uuid.UUID) error {
	return s.setBlocked(ctx, managerID, clientID, true)
}

// UnblockClient lifts a block
func (s *Service) UnblockClient(ctx context.Context, managerID, clientID uuid.UUID) error {
	return s.setBlocked(ctx, managerID, clientID, false)
}

func (s *Service) setBlocked(ctx context.Context, managerID, clientID uuid.UUID, blocked bool) error {
	if _, err := s.GetClient(ctx, managerID, clientID); err != nil {
		return err
	}
	if err := s.repo.SetBlocked(ctx, clientID, blocked); err != nil {
		return err
	}
	log.Info().
		Str("client_id", clientID.String()).
		Bool("blocked", blocked).
		Msg("client block state changed")
	return nil
}

// DeleteClient soft-deletes a client owned by the manager
func (s *Service) DeleteClient(ctx context.Context, managerID, clientID uuid.UUID) error {
	if _, err := s.GetClient(ctx, managerID, clientID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, clientID); err != nil {
		return err
	}
	log.Info().Str("client_id", clientID.String()).Msg("client soft-deleted")
	return nil
}
