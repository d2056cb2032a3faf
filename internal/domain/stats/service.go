package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vbank/vbank-api/internal/pkg/retry"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Service serves reporting reads. Every read runs through the retry wrapper;
// mutating paths never do.
type Service struct {
	store ReadStore
}

// NewService creates stats service
func NewService(store ReadStore) *Service {
	return &Service{store: store}
}

// ManagerOverview returns one manager's aggregates
func (s *Service) ManagerOverview(ctx context.Context, managerID uuid.UUID) (*ManagerOverview, error) {
	ov, err := retry.Do(ctx, func(ctx context.Context) (*ManagerOverview, error) {
		return s.store.ManagerOverview(ctx, managerID)
	})
	if err != nil {
		log.Error().Err(err).Str("manager_id", managerID.String()).Msg("manager overview read failed after retries")
		return nil, ErrStoreUnavailable
	}
	return ov, nil
}

// AdminOverview returns platform-wide aggregates
func (s *Service) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	ov, err := retry.Do(ctx, func(ctx context.Context) (*AdminOverview, error) {
		return s.store.AdminOverview(ctx)
	})
	if err != nil {
		log.Error().Err(err).Msg("admin overview read failed after retries")
		return nil, ErrStoreUnavailable
	}
	return ov, nil
}

// RecentTransactions returns the latest transactions around a manager's book
func (s *Service) RecentTransactions(ctx context.Context, managerID uuid.UUID, limit int) ([]RecentTransaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := retry.Do(ctx, func(ctx context.Context) ([]RecentTransaction, error) {
		return s.store.RecentTransactions(ctx, managerID, limit)
	})
	if err != nil {
		log.Error().Err(err).Str("manager_id", managerID.String()).Msg("recent transactions read failed after retries")
		return nil, ErrStoreUnavailable
	}
	return rows, nil
}
