package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vbank/vbank-api/internal/domain/account"
	"github.com/vbank/vbank-api/internal/domain/user"
	"github.com/vbank/vbank-api/internal/pkg/payment"
	"github.com/vbank/vbank-api/internal/pkg/reference"
)

// Service is the balance ledger engine. Every operation validates its
// business rules, then delegates to the repository which applies the whole
// effect in one locking transaction. Nothing here retries: mutations carry
// no idempotency keys, so resubmission is the caller's decision.
type Service struct {
	repo        *Repository
	accountRepo *account.Repository
	userRepo    user.Repository
	provider    payment.Provider
}

// NewService creates ledger service
func NewService(repo *Repository, accountRepo *account.Repository, userRepo user.Repository, provider payment.Provider) *Service {
	return &Service{repo: repo, accountRepo: accountRepo, userRepo: userRepo, provider: provider}
}

// CreditClient moves amount from a manager's credit balance to one of their
// clients. Returns the client's updated balance.
func (s *Service) CreditClient(ctx context.Context, managerID, clientID uuid.UUID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	newBalance, t, err := s.repo.CreditClient(ctx, managerID, clientID, amount, description, reference.New())
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("manager_id", managerID.String()).
		Str("client_id", clientID.String()).
		Int64("amount", amount).
		Str("reference", t.Reference).
		Msg("client credited")
	return newBalance, nil
}

// Transfer moves amount from the sender client to the client owning
// recipientEmail. Both must belong to the same manager.
func (s *Service) Transfer(ctx context.Context, senderClientID uuid.UUID, recipientEmail string, amount int64, description string) (*TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	sender, err := s.accountRepo.GetClientByID(ctx, senderClientID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrClientNotFound
	}

	recipientUser, err := s.userRepo.GetByEmail(ctx, recipientEmail)
	if err != nil {
		return nil, err
	}
	if recipientUser == nil {
		return nil, ErrRecipientNotFound
	}
	recipient, err := s.accountRepo.GetClientByUserID(ctx, recipientUser.ID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || recipient.DeletedAt.Valid {
		return nil, ErrRecipientNotFound
	}

	if recipient.UserID == sender.UserID {
		return nil, ErrSelfTransfer
	}
	if recipient.ManagerID != sender.ManagerID {
		return nil, ErrCrossManagerTransfer
	}

	t, senderBalance, err := s.repo.Transfer(ctx, sender.ID, recipient.ID, amount, description, reference.New())
	if err != nil {
		return nil, err
	}

	senderParty, err := s.repo.GetParty(ctx, sender.UserID)
	if err != nil {
		return nil, err
	}
	recipientParty, err := s.repo.GetParty(ctx, recipient.UserID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("from_client", sender.ID.String()).
		Str("to_client", recipient.ID.String()).
		Int64("amount", amount).
		Str("reference", t.Reference).
		Msg("transfer completed")

	return &TransferResult{
		Transaction:   t,
		Sender:        *senderParty,
		Recipient:     *recipientParty,
		SenderBalance: senderBalance,
	}, nil
}

// BuyManagerCredits charges the payment gateway and, only once the charge is
// approved, credits the manager. The ledger entry is created pending before
// the charge and settled to success or failed afterwards, so a crash between
// the two leaves an auditable pending row instead of unaccounted value.
func (s *Service) BuyManagerCredits(ctx context.Context, managerID uuid.UUID, amount int64, phoneNumber string) (int64, *Transaction, error) {
	if amount <= 0 {
		return 0, nil, ErrInvalidAmount
	}

	manager, err := s.accountRepo.GetManagerByID(ctx, managerID)
	if err != nil {
		return 0, nil, err
	}
	if manager == nil {
		return 0, nil, ErrManagerNotFound
	}

	ref := reference.New()
	t, err := s.repo.CreatePendingPurchase(ctx, manager.UserID, amount, ref, s.provider.Name(), phoneNumber)
	if err != nil {
		return 0, nil, err
	}

	result, chargeErr := s.provider.Charge(ctx, payment.ChargeRequest{
		Amount:      amount,
		OrderID:     ref,
		Description: "manager credit purchase",
		PhoneNumber: phoneNumber,
	})
	if chargeErr != nil {
		if _, settleErr := s.repo.SettlePurchase(ctx, t.ID, managerID, "", false); settleErr != nil {
			log.Error().Err(settleErr).Str("reference", ref).Msg("failed to mark declined purchase")
		}
		if errors.Is(chargeErr, payment.ErrDeclined) {
			log.Warn().Str("manager_id", managerID.String()).Str("reference", ref).Msg("credit purchase declined")
			return 0, nil, ErrPaymentDeclined
		}
		return 0, nil, chargeErr
	}

	newBalance, err := s.repo.SettlePurchase(ctx, t.ID, managerID, result.ExternalID, true)
	if err != nil {
		return 0, nil, err
	}
	t.Status = StatusSuccess

	log.Info().
		Str("manager_id", managerID.String()).
		Int64("amount", amount).
		Str("reference", ref).
		Str("external_id", result.ExternalID).
		Msg("manager credits purchased")
	return newBalance, t, nil
}

// CreditByAdmin credits a manager or client directly. The AdminActor
// argument is deliberate friction: route-level role checks decide access,
// but the engine still refuses to run without an explicit admin identity.
// Admin credit has no upper bound; it is logged at warn for auditability.
func (s *Service) CreditByAdmin(ctx context.Context, admin AdminActor, target CreditTarget, targetID uuid.UUID, amount int64, description string) (int64, error) {
	if admin.UserID == uuid.Nil {
		return 0, errors.New("admin principal required")
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	newBalance, t, err := s.repo.CreditByAdmin(ctx, target, targetID, amount, description, reference.New())
	if err != nil {
		return 0, err
	}

	log.Warn().
		Str("admin_user_id", admin.UserID.String()).
		Str("target", string(target)).
		Str("target_id", targetID.String()).
		Int64("amount", amount).
		Str("reference", t.Reference).
		Msg("admin credit issued")
	return newBalance, nil
}

// History returns ledger entries involving the given user
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
