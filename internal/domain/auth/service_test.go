package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vbank/vbank-api/internal/domain/account"
	"github.com/vbank/vbank-api/internal/domain/user"
	"github.com/vbank/vbank-api/internal/pkg/jwt"
	"github.com/vbank/vbank-api/internal/pkg/password"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
	byID    map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*user.User{}, byID: map[uuid.UUID]*user.User{}}
}

func (f *fakeUserRepo) add(u *user.User) {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return f.byEmail[email], nil
}

type fakeProfileRepo struct {
	managers map[uuid.UUID]*account.Manager
	clients  map[uuid.UUID]*account.Client
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{managers: map[uuid.UUID]*account.Manager{}, clients: map[uuid.UUID]*account.Client{}}
}

func (f *fakeProfileRepo) GetManagerByUserID(ctx context.Context, userID uuid.UUID) (*account.Manager, error) {
	return f.managers[userID], nil
}

func (f *fakeProfileRepo) GetClientByUserID(ctx context.Context, userID uuid.UUID) (*account.Client, error) {
	return f.clients[userID], nil
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]uuid.UUID{}}
}

func (s *memTokenStore) Save(ctx context.Context, hash string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[hash] = userID
	return nil
}

func (s *memTokenStore) Get(ctx context.Context, hash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[hash]
	if !ok {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return id, nil
}

func (s *memTokenStore) Delete(ctx context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, hash)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeProfileRepo, *memTokenStore) {
	t.Helper()
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	tokens := newMemTokenStore()
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(users, profiles, jwtSvc, tokens), users, profiles, tokens
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return h
}

func seedClient(t *testing.T, users *fakeUserRepo, profiles *fakeProfileRepo, mutate func(*account.Client)) *user.User {
	t.Helper()
	u := &user.User{
		ID:           uuid.New(),
		Email:        "client@example.com",
		FirstName:    "Test",
		LastName:     "Client",
		PasswordHash: mustHash(t, "secret123"),
		Role:         user.RoleClient,
		CreatedAt:    time.Now(),
	}
	users.add(u)
	c := &account.Client{
		ID:          uuid.New(),
		UserID:      u.ID,
		ManagerID:   uuid.New(),
		IsActivated: true,
	}
	if mutate != nil {
		mutate(c)
	}
	profiles.clients[u.ID] = c
	return u
}

func TestLoginSuccess(t *testing.T) {
	svc, users, profiles, _ := newTestService(t)
	seedClient(t, users, profiles, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "client@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.User.Role != "client" {
		t.Errorf("role = %s, want client", resp.User.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, profiles, _ := newTestService(t)
	seedClient(t, users, profiles, nil)

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "client@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginLifecycleGate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*account.Client)
		want   error
	}{
		{
			name:   "blocked",
			mutate: func(c *account.Client) { c.IsBlocked = true },
			want:   ErrAccountBlocked,
		},
		{
			name:   "deleted",
			mutate: func(c *account.Client) { c.DeletedAt = sql.NullTime{Time: time.Now(), Valid: true} },
			want:   ErrAccountDeleted,
		},
		{
			name:   "not activated",
			mutate: func(c *account.Client) { c.IsActivated = false },
			want:   ErrAccountNotActivated,
		},
		{
			name: "deleted wins over blocked",
			mutate: func(c *account.Client) {
				c.IsBlocked = true
				c.DeletedAt = sql.NullTime{Time: time.Now(), Valid: true}
			},
			want: ErrAccountDeleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, profiles, _ := newTestService(t)
			seedClient(t, users, profiles, tt.mutate)

			// correct password: the gate must reject before credentials matter
			_, err := svc.Login(context.Background(), &LoginRequest{Email: "client@example.com", Password: "secret123"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoginManagerClaims(t *testing.T) {
	svc, users, profiles, _ := newTestService(t)
	u := &user.User{
		ID:           uuid.New(),
		Email:        "manager@example.com",
		PasswordHash: mustHash(t, "secret123"),
		Role:         user.RoleManager,
		CreatedAt:    time.Now(),
	}
	users.add(u)
	m := &account.Manager{ID: uuid.New(), UserID: u.ID}
	profiles.managers[u.ID] = m

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "manager@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	claims, err := jwtSvc.ValidateAccessToken(resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.ManagerID == nil || *claims.ManagerID != m.ID {
		t.Errorf("manager_id claim = %v, want %s", claims.ManagerID, m.ID)
	}
	if claims.ClientID != nil {
		t.Errorf("client_id claim = %v, want nil", claims.ClientID)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, users, profiles, _ := newTestService(t)
	seedClient(t, users, profiles, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "client@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Tokens.RefreshToken == resp.Tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// old token is consumed
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRefreshRejectsBlockedClient(t *testing.T) {
	svc, users, profiles, _ := newTestService(t)
	u := seedClient(t, users, profiles, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "client@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	profiles.clients[u.ID].IsBlocked = true

	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc, users, profiles, _ := newTestService(t)
	seedClient(t, users, profiles, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "client@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), resp.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}
}
