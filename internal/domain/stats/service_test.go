package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type flakyStore struct {
	failures int
	calls    int
	overview ManagerOverview
}

func (s *flakyStore) ManagerOverview(ctx context.Context, managerID uuid.UUID) (*ManagerOverview, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("connection refused")
	}
	ov := s.overview
	return &ov, nil
}

func (s *flakyStore) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("connection refused")
	}
	return &AdminOverview{}, nil
}

func (s *flakyStore) RecentTransactions(ctx context.Context, managerID uuid.UUID, limit int) ([]RecentTransaction, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("connection refused")
	}
	return make([]RecentTransaction, 0, limit), nil
}

func TestManagerOverviewRetriesTransientFailure(t *testing.T) {
	store := &flakyStore{failures: 2, overview: ManagerOverview{ClientCount: 3, CreditBalance: 5000}}
	svc := NewService(store)

	ov, err := svc.ManagerOverview(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if ov.ClientCount != 3 || ov.CreditBalance != 5000 {
		t.Errorf("overview = %+v", ov)
	}
	if store.calls != 3 {
		t.Errorf("calls = %d, want 3", store.calls)
	}
}

func TestManagerOverviewExhaustionReturnsStoreUnavailable(t *testing.T) {
	store := &flakyStore{failures: 100}
	svc := NewService(store)

	_, err := svc.ManagerOverview(context.Background(), uuid.New())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	// initial attempt plus three retries
	if store.calls != 4 {
		t.Errorf("calls = %d, want 4", store.calls)
	}
}

func TestRecentTransactionsLimitClamp(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, defaultRecentLimit},
		{"negative uses default", -5, defaultRecentLimit},
		{"over cap clamps", 500, maxRecentLimit},
		{"in range passes through", 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &flakyStore{}
			svc := NewService(store)

			rows, err := svc.RecentTransactions(context.Background(), uuid.New(), tt.limit)
			if err != nil {
				t.Fatalf("recent: %v", err)
			}
			if cap(rows) != tt.want {
				t.Errorf("limit = %d, want %d", cap(rows), tt.want)
			}
		})
	}
}
