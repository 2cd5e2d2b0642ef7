package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAdmin(t *testing.T) {
	set := Resolve(RoleAdmin)

	assert.Len(t, set, 4)
	assert.True(t, set.Has(CanManageUsers))
	assert.True(t, set.Has(CanManageAllTickets))
	assert.True(t, set.Has(CanCreateTickets))
	assert.True(t, set.Has(CanAssignTickets))
}

func TestResolveUser(t *testing.T) {
	set := Resolve(RoleUser)

	assert.Len(t, set, 1)
	assert.True(t, set.Has(CanCreateTickets))
	assert.False(t, set.Has(CanManageUsers))
}

func TestResolveUnknownRoleFailsClosed(t *testing.T) {
	for _, role := range []Role{"", "SUPERADMIN", "admin", "root"} {
		assert.Empty(t, Resolve(role), "role %q must resolve to no permissions", role)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	first := Resolve(RoleAdmin).List()
	second := Resolve(RoleAdmin).List()

	assert.Equal(t, first, second)
}

func TestRoleFromBackend(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleFromBackend([]string{"user", "admin"}))
	assert.Equal(t, RoleUser, RoleFromBackend([]string{"user"}))
	assert.Equal(t, RoleUser, RoleFromBackend(nil))

	// exact token match only
	assert.Equal(t, RoleUser, RoleFromBackend([]string{"Admin", "ADMIN", "administrator"}))
}
