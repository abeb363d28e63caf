package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"luxera/internal/utils"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// AuthMiddleware requires a valid bearer access token and puts the account
// id (int64) and role into the gin context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		// пропускаем preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(parts[1]))
		if err != nil || claims.UserID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}
