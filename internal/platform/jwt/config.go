// Package jwtmw issues access tokens and guards routes with them.
package jwtmw

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvKeyJWTSecret     = "JWT_SECRET"
	EnvKeyJWTExpiration = "JWT_EXPIRATION"

	// DefaultExpiration is the access token lifetime when JWT_EXPIRATION is unset.
	DefaultExpiration = time.Hour
)

// LoadExpirationFromEnv reads JWT_EXPIRATION as a Go duration such as "30m" or "2h".
func LoadExpirationFromEnv() (time.Duration, error) {
	raw := os.Getenv(EnvKeyJWTExpiration)
	if raw == "" {
		return DefaultExpiration, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", EnvKeyJWTExpiration, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", EnvKeyJWTExpiration, d)
	}
	return d, nil
}
