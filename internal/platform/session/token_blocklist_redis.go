package session

import (
	"context"
	"fmt"
	"time"

	"parking_control/internal/feature/auth/usecase"

	"github.com/redis/go-redis/v9"
)

// TokenBlocklistRedis implements usecase.TokenBlocklist using Redis.
// Each revoked token is a key that expires together with the token.
type TokenBlocklistRedis struct {
	client *redis.Client
	prefix string
}

// Compile-time check to ensure TokenBlocklistRedis implements TokenBlocklist.
var _ usecase.TokenBlocklist = (*TokenBlocklistRedis)(nil)

// NewTokenBlocklistRedis creates a new TokenBlocklistRedis instance.
func NewTokenBlocklistRedis(client *redis.Client, prefix string) *TokenBlocklistRedis {
	return &TokenBlocklistRedis{
		client: client,
		prefix: prefix,
	}
}

// tokenKey returns the Redis key for a revoked token.
func (r *TokenBlocklistRedis) tokenKey(tokenID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, tokenID)
}

// Revoke stores the token ID with a TTL that ends when the token expires.
// Tokens that have already expired are not stored.
func (r *TokenBlocklistRedis) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.tokenKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token ID is present in the blocklist.
func (r *TokenBlocklistRedis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.tokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}
