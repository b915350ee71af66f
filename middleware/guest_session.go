// File: middleware/guest_session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextSessionKey is where the wizard session key lives in the
// request context.
const ContextSessionKey = "sessionKey"

const sessionCookieName = "sb_session"

// cookie lifetime matches an abandoned wizard's worst case, not the
// session TTL; state expiry in Redis is authoritative.
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// GuestSessionMiddleware assigns every client a stable opaque session
// key via cookie. The key namespaces wizard state, so parallel guest
// and registered runs in one browser never collide (flows use distinct
// scopes on top of this key).
func GuestSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(sessionCookieName)
		if err != nil || key == "" {
			key = uuid.New().String()
			c.SetCookie(sessionCookieName, key, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Set(ContextSessionKey, key)
		c.Next()
	}
}
