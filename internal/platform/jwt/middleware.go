package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Keys under which AuthRequired stores token data in the gin context.
const (
	ContextUserID      = "userID"
	ContextUsername    = "username"
	ContextRoles       = "roles"
	ContextTokenID     = "tokenID"
	ContextTokenExpiry = "tokenExpiry"
)

// RevocationChecker reports whether a token ID has been blocklisted.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
// A nil checker disables the blocklist lookup.
func AuthRequired(revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Load secret key from environment variable
		secret := os.Getenv(EnvKeyJWTSecret)
		if secret == "" {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 3. Parse and verify JWT signature
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			// Check signing algorithm (only HMAC allowed)
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			// Validation error or invalid token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4. Extract claims (payload)
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
		if !ok || sub <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ContextUserID, uint(sub))

		if username, ok := claims["username"].(string); ok {
			c.Set(ContextUsername, username)
		}
		c.Set(ContextRoles, stringSlice(claims["roles"]))
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			c.Set(ContextTokenExpiry, exp.Time)
		}

		// 5. Reject tokens revoked by logout
		jti, _ := claims["jti"].(string)
		c.Set(ContextTokenID, jti)
		if jti != "" && revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), jti)
			if err != nil {
				slog.Error("token revocation check failed", "error", err, "remote_addr", c.ClientIP())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		// 6. Pass control to the next handler
		c.Next()
	}
}

// UserID returns the authenticated user's ID stored by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// TokenExpiry returns the expiry AuthRequired stored for the current request.
func TokenExpiry(c *gin.Context) (time.Time, bool) {
	v, ok := c.Get(ContextTokenExpiry)
	if !ok {
		return time.Time{}, false
	}
	exp, ok := v.(time.Time)
	return exp, ok
}

// stringSlice converts a decoded JSON array claim into strings, dropping non-strings.
func stringSlice(v any) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
