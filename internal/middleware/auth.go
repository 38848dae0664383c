package middleware

import (
	"strings"

	"prowork_backend/internal/auth"
	"prowork_backend/internal/config"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// AuthMiddleware validates the bearer token and exposes the actor's
// id and role to downstream handlers.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header is required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header must be a Bearer token"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles rejects requests whose authenticated role is not in the
// allowed set. Must run after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get(userRoleKey)
		if !exists {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			c.Abort()
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok || !allowed[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserRole returns the authenticated role, or "" when absent.
func GetUserRole(c *gin.Context) models.UserRole {
	if roleVal, exists := c.Get(userRoleKey); exists {
		if role, ok := roleVal.(models.UserRole); ok {
			return role
		}
	}
	return ""
}
