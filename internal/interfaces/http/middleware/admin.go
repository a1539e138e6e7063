package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prakruthi/storefront/internal/domain/identity"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ProfileKey holds the caller's profile once RequireAdmin has passed
const ProfileKey = "user_profile"

// RequireAdmin allows the request only when the authenticated user's profile
// has the admin role. It must run after JWTAuth.
func RequireAdmin(profiles identity.ProfileRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetAuthenticatedUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		profile, err := profiles.FindByUserID(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			if log != nil {
				log.Error("Failed to resolve user role", zap.String("user_id", userID.String()), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
			return
		}
		if !profile.IsAdmin() {
			if log != nil {
				log.Warn("Admin access denied",
					zap.String("user_id", userID.String()),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Admin access required", GetRequestID(c)))
			return
		}

		c.Set(ProfileKey, profile)
		c.Next()
	}
}
