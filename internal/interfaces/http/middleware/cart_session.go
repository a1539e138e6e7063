package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/infrastructure/config"
	"github.com/prakruthi/storefront/internal/infrastructure/logger"
)

// Cart session keys
const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionKey    = "cart_session"
)

// CartSession resolves the cart session from the cookie or the
// X-Cart-Session header. A new session is issued when neither is present or
// the value is not a uuid. The session id is echoed in both the cookie and
// the response header so non-browser clients can keep it.
func CartSession(cfg config.CartConfig) gin.HandlerFunc {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "cart_session"
	}
	maxAge := int(cfg.SessionTTL.Seconds())

	return func(c *gin.Context) {
		sessionID := c.GetHeader(CartSessionHeader)
		if sessionID == "" {
			sessionID, _ = c.Cookie(cookieName)
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sessionID, maxAge, "/", "", cfg.Secure, true)
		c.Writer.Header().Set(CartSessionHeader, sessionID)
		c.Set(CartSessionKey, sessionID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithSessionID(ctx, logger.FromContext(ctx), sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCartSession returns the session id resolved by CartSession
func GetCartSession(c *gin.Context) string {
	return c.GetString(CartSessionKey)
}
