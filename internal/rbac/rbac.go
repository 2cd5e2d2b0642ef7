package rbac

import "sort"

// Role is the coarse identity classification issued by the backend.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Permission is a capability token used for route and action gating.
type Permission string

const (
	CanManageUsers      Permission = "CAN_MANAGE_USERS"
	CanManageAllTickets Permission = "CAN_MANAGE_ALL_TICKETS"
	CanCreateTickets    Permission = "CAN_CREATE_TICKETS"
	CanAssignTickets    Permission = "CAN_ASSIGN_TICKETS"
)

type PermissionSet map[Permission]struct{}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// List returns the permissions in stable order.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var permissionTable = map[Role][]Permission{
	RoleAdmin: {
		CanManageUsers,
		CanManageAllTickets,
		CanCreateTickets,
		CanAssignTickets,
	},
	RoleUser: {
		CanCreateTickets,
	},
}

// Resolve maps a role to its permission set. Unknown roles resolve to the
// empty set, never to implicit access.
func Resolve(role Role) PermissionSet {
	set := make(PermissionSet)
	for _, p := range permissionTable[role] {
		set[p] = struct{}{}
	}
	return set
}

// RoleFromBackend maps the backend's untyped role list to a Role. The match
// is the exact token "admin"; everything else falls back to the least
// privileged role.
func RoleFromBackend(roles []string) Role {
	for _, r := range roles {
		if r == "admin" {
			return RoleAdmin
		}
	}
	return RoleUser
}
