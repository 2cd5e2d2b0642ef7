package guard

import (
	"utms/dashboard/internal/rbac"
	"utms/dashboard/internal/session"
)

// Decision is the outcome of evaluating a navigation against the current
// session state.
type Decision int

const (
	// Pending means bootstrap has not settled; render nothing, neither
	// allow nor redirect.
	Pending Decision = iota
	Allow
	RedirectToLogin
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToHome:
		return "redirect_to_home"
	default:
		return "pending"
	}
}

// Evaluate decides whether the session may enter a route. required may be
// empty, meaning the route only needs an authenticated session. Purely a
// function of its inputs: no caching, no async work, never panics.
func Evaluate(sess session.Session, required rbac.Permission) Decision {
	switch {
	case sess.State == session.StateBootstrapping:
		return Pending
	case !sess.Authenticated():
		return RedirectToLogin
	case required != "" && !sess.HasPermission(required):
		return RedirectToHome
	default:
		return Allow
	}
}
