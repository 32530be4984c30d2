package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskpilot/internal/auth"
	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
)

// AuthService handles registration, login, and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (user *model.User, token, refreshToken string, err error)
	Login(ctx context.Context, email, password string) (user *model.User, token, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (token string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, bcryptCost int) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user with a hashed password and issues tokens.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, string, string, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", "", apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", "", fmt.Errorf("create user: %w", err)
	}

	token, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, token, refreshToken, nil
}

// Login verifies credentials and issues tokens. Unknown email and wrong
// password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", apperrors.ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", apperrors.ErrInvalidCredentials
	}

	token, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, token, refreshToken, nil
}

// Refresh validates a refresh token against the store and issues a new
// access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.Verify(refreshToken)
	if err != nil || claims.ID == "" {
		return "", apperrors.ErrInvalidRefreshToken
	}

	stored, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if stored.UserID != claims.UserID || stored.Email != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	token, err := s.jwtService.Issue(claims.UserID, claims.Email, claims.Name)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return token, nil
}

// Logout revokes a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (token, refreshToken string, err error) {
	token, err = s.jwtService.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.IssueRefresh(user.ID, user.Email, user.Name)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}

	identity := auth.RefreshIdentity{UserID: user.ID, Email: user.Email, Name: user.Name}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, identity, auth.RefreshTokenExpiry); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, refreshToken, nil
}
