package authz

import "errors"

// Permissions checked at the storage boundary.
const (
	PermissionReadReport          = "report:read"
	PermissionWriteReport         = "report:write"
	PermissionCreateProject       = "project:create"
	PermissionDeleteProject       = "project:delete"
	PermissionUpdateProjectStatus = "project:update_status"
)

// Roles carried in the auth token.
const (
	RoleViewer  = "viewer"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

var rolePermissions = map[string][]string{
	RoleViewer: {
		PermissionReadReport,
	},
	RoleManager: {
		PermissionReadReport,
		PermissionWriteReport,
		PermissionCreateProject,
		PermissionUpdateProjectStatus,
	},
	RoleAdmin: {
		PermissionReadReport,
		PermissionWriteReport,
		PermissionCreateProject,
		PermissionDeleteProject,
		PermissionUpdateProjectStatus,
	},
}

// ErrPermissionDenied is returned by a Guard when the caller's role lacks the
// required permission. Repositories wrap it into an apperr.AuthorizationError
// carrying the document path and attempted payload.
var ErrPermissionDenied = errors.New("permission denied")

// Guard is the access-control layer consulted before every storage write.
type Guard interface {
	Authorize(role string, permission string) error
}

// RoleGuard authorizes from the static role→permission table.
type RoleGuard struct{}

func (RoleGuard) Authorize(role string, permission string) error {
	permissions, ok := rolePermissions[role]
	if !ok {
		return ErrPermissionDenied
	}
	for _, p := range permissions {
		if p == permission {
			return nil
		}
	}
	return ErrPermissionDenied
}

// HasPermission reports whether the role grants the permission.
func HasPermission(role string, permission string) bool {
	return (RoleGuard{}).Authorize(role, permission) == nil
}
