package auth

import (
	"github.com/gin-gonic/gin"
)

// OptionalUser takes the caller's uid from X-User-Id without enforcing auth.
// Requests without the header share the AnonymousUID session.
// Use this when AUTH_REQUIRED is off (local development, single-device installs).
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetUserFirebaseUID(c, c.GetHeader("X-User-Id"))
		c.Next()
	}
}
