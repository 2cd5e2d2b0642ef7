package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"utms/dashboard/internal/config"
	"utms/dashboard/internal/ids"
	"utms/dashboard/internal/security"
	"utms/dashboard/internal/session"
)

const sessionContextKey = "utms_session"

// Session resolves the browser session for every request: parse or mint the
// signed session cookie, then run the bootstrap sequence against the entry
// URL. A captured entry token answers with a single redirect to the clean
// URL. No protected handler runs before bootstrap settles.
func Session(cfg *config.AppConfig, manager *session.Manager) gin.HandlerFunc {
	secure := cfg.Environment == "production"

	return func(c *gin.Context) {
		sid := ""
		if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil {
			if parsed, err := security.ParseSessionCookie(cookie, cfg.Session.Secret); err == nil {
				sid = parsed
			}
		}
		if sid == "" {
			sid = ids.New()
			if value, err := security.MintSessionCookie(cfg.Session.Secret, sid, cfg.Session.TTL); err == nil {
				c.SetCookie(cfg.Session.CookieName, value, int(cfg.Session.TTL.Seconds()), "/", "", secure, true)
			}
		}

		sess, clean := manager.Bootstrap(c.Request.Context(), sid, c.Request.URL)
		if clean != "" {
			c.Redirect(http.StatusFound, clean)
			c.Abort()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session resolved for this request.
func CurrentSession(c *gin.Context) (session.Session, bool) {
	val, ok := c.Get(sessionContextKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := val.(session.Session)
	return sess, ok
}
