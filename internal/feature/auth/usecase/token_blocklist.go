package usecase

import (
	"context"
	"time"
)

// TokenBlocklist abstracts the storage of access tokens revoked before their expiry.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TokenBlocklist interface {
	// Revoke blocklists the token until expiresAt. Revoking twice is not an error.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the token has been blocklisted and has not yet expired.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
