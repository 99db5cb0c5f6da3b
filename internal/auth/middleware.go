package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// CookieOptions mirror the original deployment: httpOnly, SameSite=Lax on the
// root path. Secure is off by default because the hosting tier terminates TLS
// upstream.
type CookieOptions struct {
	Name   string
	Secure bool
}

// RequireSession resolves the session cookie and aborts with 401 when there
// is no valid session. On success the user id and username are stored in the
// Gin context.
func RequireSession(store *SessionStore, cookie CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.Name)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in first"})
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in first"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxUsername, sess.Username)
		c.Next()
	}
}

// UserID extracts the authenticated user's id from the Gin context.
// Empty when the request did not pass RequireSession.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// SetSessionCookie writes the session cookie with the store's TTL.
func SetSessionCookie(c *gin.Context, cookie CookieOptions, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, token, maxAge, "/", "", cookie.Secure, true)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context, cookie CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, true)
}
