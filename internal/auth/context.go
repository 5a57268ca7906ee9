package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxFirebaseUID is the gin context key holding the caller's uid.
const CtxFirebaseUID = "firebase_uid"

// AnonymousUID identifies callers that carry no identity.
const AnonymousUID = "anonymous"

// SetUserFirebaseUID records the caller's uid for later handlers.
func SetUserFirebaseUID(c *gin.Context, uid string) {
	c.Set(CtxFirebaseUID, strings.TrimSpace(uid))
}

// UserFirebaseUID returns the uid set by FirebaseAuthMiddleware or OptionalUser,
// falling back to AnonymousUID when neither ran.
func UserFirebaseUID(c *gin.Context) string {
	if uid := strings.TrimSpace(c.GetString(CtxFirebaseUID)); uid != "" {
		return uid
	}
	return AnonymousUID
}
