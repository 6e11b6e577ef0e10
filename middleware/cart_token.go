package middleware

import (
	"strings"

	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartTokenHeader  = "X-Cart-Token"
	CartTokenSession = "cart_token"
	ContextCartToken = "cart_token"
)

// EnsureCartToken resolves the guest cart token from the X-Cart-Token header
// or the session cookie. Guests without one get a fresh uuid stored in the
// session. The token in use is echoed back in X-Cart-Token.
func EnsureCartToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token := strings.TrimSpace(c.GetHeader(CartTokenHeader))
		if token == "" {
			if v, ok := session.Get(CartTokenSession).(string); ok {
				token = v
			}
		}

		if token == "" {
			if _, isUser := CurrentUserID(c); !isUser {
				token = uuid.NewString()
				session.Set(CartTokenSession, token)
				if err := session.Save(); err != nil {
					utils.LogError("Failed to save cart token in session: %v", err)
				}
				utils.LogDebug("Minted cart token %s", token)
			}
		}

		if token != "" {
			c.Set(ContextCartToken, token)
			c.Header(CartTokenHeader, token)
		}
		c.Next()
	}
}

// CurrentCartToken returns the guest cart token of the request, or ""
func CurrentCartToken(c *gin.Context) string {
	return c.GetString(ContextCartToken)
}
