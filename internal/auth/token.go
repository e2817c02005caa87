package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Ravikant96/AllSpark/internal/shared"
)

// ErrTokenInvalid indicates an unknown or expired bearer token.
var ErrTokenInvalid = errors.New("auth: invalid token")

const tokenKeyPrefix = "allspark:token:"

// TokenStore maps opaque bearer tokens to serialized user contexts in Redis.
// The snapshot of roles and privileges is taken at issue time; a refresh
// replaces the snapshot, matching the legacy JWT payload semantics.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Issue stores the user context under a fresh token with the given lifetime.
func (s *TokenStore) Issue(ctx context.Context, user *shared.UserContext, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKeyPrefix+token, payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Resolve returns the user context bound to a token.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*shared.UserContext, error) {
	payload, err := s.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("auth: resolve token: %w", err)
	}
	var user shared.UserContext
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("auth: decode token payload: %w", err)
	}
	return &user, nil
}

// Revoke deletes a token. Revoking an unknown token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKeyPrefix+token).Err()
}
