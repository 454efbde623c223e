package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tienda-api/internal/core/auth"
)

const (
	KeyUserID = "uid"
	KeyRole   = "role"
)

// AuthJWT is the single authorization check at the boundary: it validates
// the access token and, when requireRole is set, the caller's role, before
// any use case executes.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token no proporcionado."})
			return
		}
		claims, err := j.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token inválido."})
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "No tienes permisos para esta operación."})
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

// UserID reads the authenticated user id placed by AuthJWT.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(KeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func IsAdmin(c *gin.Context) bool { return c.GetString(KeyRole) == "admin" }
