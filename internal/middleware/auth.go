package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/collabhub/collabhub-api/internal/apierrors"
	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/token"
)

// RequireAuth gates protected routes. The check order is fixed: credential
// shape, revocation list, cryptographic verification, then user resolution.
// A revoked token is rejected before any decoding happens.
func RequireAuth(tokens *token.Service, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "Token is missing or invalid")
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == "" {
			apierrors.Unauthorized(c, "Token is missing or invalid")
			c.Abort()
			return
		}

		revoked, err := tokens.IsRevoked(tokenStr)
		if err != nil {
			slog.Error("revocation check failed", "error", err)
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if revoked {
			apierrors.Unauthorized(c, "Token is revoked")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, token.ErrExpiredToken) {
				apierrors.Unauthorized(c, "Token has expired")
			} else {
				apierrors.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			// A verified token whose subject no longer exists is an auth
			// failure, not a server error.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "Unknown user")
			} else {
				slog.Error("user resolution failed", "user_id", userID, "error", err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyToken, tokenStr)
		c.Set(constants.ContextKeyCurrentUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetToken retrieves the raw session token from context, for revocation.
func GetToken(c *gin.Context) (string, bool) {
	v, exists := c.Get(constants.ContextKeyToken)
	if !exists {
		return "", false
	}
	t, ok := v.(string)
	return t, ok
}

// GetCurrentUser retrieves the resolved user from context.
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
