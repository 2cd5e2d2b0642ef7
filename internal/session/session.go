package session

import (
	"utms/dashboard/internal/models"
	"utms/dashboard/internal/rbac"
)

// State is the authentication state of one session.
type State int

const (
	StateBootstrapping State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateBootstrapping:
		return "bootstrapping"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session is the in-memory snapshot of one browser session: the identity,
// its derived permission set, and a transient error overlay. Err never
// displaces the last good state; it is shown alongside it until cleared.
type Session struct {
	ID          string
	State       State
	User        *models.User
	Permissions rbac.PermissionSet
	Err         string
}

// New returns a session in its initial bootstrapping state.
func New(id string) Session {
	return Session{
		ID:          id,
		State:       StateBootstrapping,
		Permissions: rbac.PermissionSet{},
	}
}

func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// HasPermission reports whether the session may perform the capability.
// Always false outside the authenticated state.
func (s Session) HasPermission(p rbac.Permission) bool {
	return s.Authenticated() && s.Permissions.Has(p)
}
