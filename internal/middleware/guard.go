package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"utms/dashboard/internal/guard"
	"utms/dashboard/internal/rbac"
)

// Guard gates a route on the session state and an optional required
// permission. Evaluated on every navigation against the session the
// bootstrap middleware resolved.
func Guard(required rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		switch guard.Evaluate(sess, required) {
		case guard.Allow:
			c.Next()
		case guard.RedirectToLogin:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		case guard.RedirectToHome:
			c.Redirect(http.StatusFound, "/")
			c.Abort()
		default:
			// bootstrap has not settled: render nothing
			c.AbortWithStatus(http.StatusNoContent)
		}
	}
}
