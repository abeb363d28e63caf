package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"luxera/internal/authz"
	"luxera/internal/models"
)

func RequireRoles(allowed ...string) gin.HandlerFunc {
	allowedSet := map[string]struct{}{}
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AccountLookup is satisfied by services.UserService.
type AccountLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// ActiveAccount reloads the account behind the token on every request so a
// block, delete or role change applies before the access token expires. The
// context role is replaced with the stored one.
func ActiveAccount(users AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := c.Get(CtxUserID)
		userID, _ := id.(int64)
		if !ok || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		u, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil || u.IsDeleted {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if u.Role == authz.RoleBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "This account has been blocked. Please contact support."})
			return
		}
		c.Set(CtxRole, u.Role)
		c.Next()
	}
}
