package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskpilot/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// ErrRefreshTokenNotFound is returned when no stored token matches a JTI.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenStoreInterface defines refresh-token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, identity RefreshIdentity, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (*RefreshIdentity, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// RefreshIdentity is the subject recorded alongside a refresh token.
type RefreshIdentity struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// TokenStore keeps issued refresh tokens in Redis, keyed by JTI.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken records a refresh token with TTL matching its expiry.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, identity RefreshIdentity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken returns the identity stored for a JTI, or
// ErrRefreshTokenNotFound when the token was never stored or has expired.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (*RefreshIdentity, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrRefreshTokenNotFound
	}

	var identity RefreshIdentity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// DeleteRefreshToken revokes a refresh token.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}
