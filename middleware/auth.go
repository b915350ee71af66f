// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slotbook/utils"
)

// Context keys set by the auth middleware.
const (
	ContextUserID  = "userID"
	ContextEmail   = "userEmail"
	ContextManager = "isManager"
)

// JWTAuthMiddleware validates the bearer token and stores the resolved
// identity in the request context. The manager flag comes straight from
// the token claims; guarded endpoints never re-probe the database.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextManager, claims.Manager)
		c.Next()
	}
}

// ManagerOnlyMiddleware rejects requests whose token does not carry the
// manager role. Must run after JWTAuthMiddleware.
func ManagerOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextManager) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Manager role required"})
			return
		}
		c.Next()
	}
}
