package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vbank/vbank-api/internal/domain/account"
	"github.com/vbank/vbank-api/internal/domain/user"
	"github.com/vbank/vbank-api/internal/pkg/jwt"
	"github.com/vbank/vbank-api/internal/pkg/password"
)

// ProfileRepository resolves the manager/client profile that belongs to an
// identity. The lifecycle gate needs the client profile; the issued token
// needs both profile ids.
type ProfileRepository interface {
	GetManagerByUserID(ctx context.Context, userID uuid.UUID) (*account.Manager, error)
	GetClientByUserID(ctx context.Context, userID uuid.UUID) (*account.Client, error)
}

// Service handles authentication: the login gate and token lifecycle
type Service struct {
	userRepo    user.Repository
	profileRepo ProfileRepository
	jwtService  *jwt.Service
	tokens      RefreshTokenStore
}

// NewService creates auth service
func NewService(userRepo user.Repository, profileRepo ProfileRepository, jwtService *jwt.Service, tokens RefreshTokenStore) *Service {
	return &Service{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		tokens:      tokens,
	}
}

// Login authenticates a user. For client accounts the lifecycle gate runs
// before the password check: blocked, deleted and unactivated accounts are
// rejected with their own error even when the password would match.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	var managerID, clientID *uuid.UUID

	if u.IsClient() {
		c, err := s.profileRepo.GetClientByUserID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, ErrInvalidCredentials
		}
		switch c.Status() {
		case account.ClientStatusBlocked:
			return nil, ErrAccountBlocked
		case account.ClientStatusDeleted:
			return nil, ErrAccountDeleted
		case account.ClientStatusPending:
			return nil, ErrAccountNotActivated
		}
		clientID = &c.ID
	}

	if u.IsManager() {
		m, err := s.profileRepo.GetManagerByUserID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, ErrInvalidCredentials
		}
		managerID = &m.ID
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u, managerID, clientID)
}

// Refresh rotates a refresh token and issues a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.tokens.Get(ctx, refreshHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	// token rotation
	_ = s.tokens.Delete(ctx, refreshHash)

	var managerID, clientID *uuid.UUID
	if u.IsManager() {
		if m, err := s.profileRepo.GetManagerByUserID(ctx, u.ID); err == nil && m != nil {
			managerID = &m.ID
		}
	}
	if u.IsClient() {
		c, err := s.profileRepo.GetClientByUserID(ctx, u.ID)
		if err != nil || c == nil || !c.CanLogin() {
			return nil, ErrInvalidRefreshToken
		}
		clientID = &c.ID
	}

	return s.generateTokens(ctx, u, managerID, clientID)
}

// Logout invalidates a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Delete(ctx, jwt.HashRefreshToken(refreshToken))
}

// Me returns the current user by ID
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	resp := NewUserResponse(u.ID, u.Email, u.FirstName, u.LastName, string(u.Role), u.CreatedAt)
	return &resp, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User, managerID, clientID *uuid.UUID) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role), managerID, clientID)
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Save(ctx, jwt.HashRefreshToken(refreshToken), u.ID, s.jwtService.GetRefreshTTL()); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u.ID, u.Email, u.FirstName, u.LastName, string(u.Role), u.CreatedAt),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
