package middleware

import (
	"net/http"
	"strings"

	"moonstore-be/internal/logger"
	"moonstore-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ClaimsKey = "jwtClaims"
	UserIDKey = "userID"
	RoleKey   = "userRole"
)

// Auth parses a Bearer token when present and stores the claims on the gin
// context. Invalid tokens are treated as anonymous; route guards decide
// whether anonymous access is allowed.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			logger.FromCtx(c.Request.Context()).Debug("token rejected", zap.Error(err))
			c.Next()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireAuth aborts with 401 unless Auth stored valid claims.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ClaimsKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 for anonymous callers and 403 for
// authenticated non-admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(RoleKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if role != string(user.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// IsAdmin reports whether the authenticated caller has the admin role.
func IsAdmin(c *gin.Context) bool {
	role, ok := c.Get(RoleKey)
	return ok && role == string(user.RoleAdmin)
}
