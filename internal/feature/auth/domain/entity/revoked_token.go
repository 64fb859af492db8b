package entity

import "time"

// RevokedToken records an access token that was invalidated before it expired.
type RevokedToken struct {
	ID        string    // Token ID (jti claim)
	ExpiresAt time.Time // expiry of the revoked token; the row can be purged after it
}

// IsExpired returns true if the underlying token would have expired by now.
func (t *RevokedToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
