package jwtmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking_control/internal/feature/auth/domain/entity"
)

// RequireRoles returns a Gin middleware that admits callers holding at least one
// of the required roles. It must run after AuthRequired.
func RequireRoles(required ...entity.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !entity.HasAnyRole(Roles(c), required...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// Roles returns the known roles carried by the request's token.
func Roles(c *gin.Context) []entity.RoleName {
	raw, ok := c.Get(ContextRoles)
	if !ok {
		return nil
	}
	authorities, _ := raw.([]string)
	roles := make([]entity.RoleName, 0, len(authorities))
	for _, a := range authorities {
		if name, ok := entity.ParseRoleName(a); ok {
			roles = append(roles, name)
		}
	}
	return roles
}
