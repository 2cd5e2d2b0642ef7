package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"utms/dashboard/internal/models"
	"utms/dashboard/internal/rbac"
	"utms/dashboard/internal/session"
)

func authedSession(role rbac.Role) session.Session {
	sess := session.New("sid-1")
	sess.State = session.StateAuthenticated
	sess.User = &models.User{ID: "u1", Role: role}
	sess.Permissions = rbac.Resolve(role)
	return sess
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	sess := session.New("sid-1")
	sess.State = session.StateUnauthenticated

	// login, not home, even when the route also requires a permission
	assert.Equal(t, RedirectToLogin, Evaluate(sess, rbac.CanManageUsers))
	assert.Equal(t, RedirectToLogin, Evaluate(sess, ""))
}

func TestMissingPermissionRedirectsHome(t *testing.T) {
	sess := authedSession(rbac.RoleUser)

	assert.True(t, sess.HasPermission(rbac.CanCreateTickets))
	assert.Equal(t, RedirectToHome, Evaluate(sess, rbac.CanManageUsers))
}

func TestAuthenticatedAllowed(t *testing.T) {
	sess := authedSession(rbac.RoleUser)

	assert.Equal(t, Allow, Evaluate(sess, ""))
	assert.Equal(t, Allow, Evaluate(sess, rbac.CanCreateTickets))
}

func TestAdminAllowedEverywhere(t *testing.T) {
	sess := authedSession(rbac.RoleAdmin)

	for _, p := range []rbac.Permission{
		rbac.CanManageUsers,
		rbac.CanManageAllTickets,
		rbac.CanCreateTickets,
		rbac.CanAssignTickets,
	} {
		assert.Equal(t, Allow, Evaluate(sess, p))
	}
}

func TestBootstrappingIsPending(t *testing.T) {
	sess := session.New("sid-1")

	assert.Equal(t, Pending, Evaluate(sess, ""))
	assert.Equal(t, Pending, Evaluate(sess, rbac.CanManageUsers))
}

func TestErrorOverlayKeepsLastGoodState(t *testing.T) {
	sess := authedSession(rbac.RoleUser)
	sess.Err = "backend hiccup"

	assert.Equal(t, Allow, Evaluate(sess, rbac.CanCreateTickets))
}
