// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	authadapters "parking_control/internal/feature/auth/adapters"
	"parking_control/internal/feature/auth/usecase"
	"parking_control/internal/platform/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// revokedKeyPrefix namespaces blocklist keys in Redis.
const revokedKeyPrefix = "revoked"

// NewTokenBlocklist creates a TokenBlocklist implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the relational store and purges stale rows once.
func NewTokenBlocklist(ctx context.Context, rdb *redis.Client, db *gorm.DB) usecase.TokenBlocklist {
	if rdb != nil {
		return session.NewTokenBlocklistRedis(rdb, revokedKeyPrefix)
	}

	repo := authadapters.NewRevokedTokenRepository(db)
	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		slog.Warn("failed to purge expired revoked tokens", "error", err)
	} else if n > 0 {
		slog.Info("purged expired revoked tokens", "count", n)
	}
	return repo
}
