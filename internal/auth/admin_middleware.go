package auth

import (
	"context"
	"net/http"

	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// RoleLookup returns the role of a user.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID uint) (string, error)
}

// AdminMiddleware creates a gin middleware to check for admin role.
// It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware(roles RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == 0 {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		role, err := roles.RoleOf(c.Request.Context(), userID)
		if err != nil {
			if apperrors.Is(err, apperrors.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user role"})
			return
		}

		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
