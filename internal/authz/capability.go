package authz

// HasPermission reports whether the role's fixed permission set contains the
// given permission. Unknown roles hold nothing.
func HasPermission(role Role, perm Permission) bool {
	def, ok := roleRegistry[role]
	if !ok {
		return false
	}
	_, ok = def.Permissions[perm]
	return ok
}

// HasAllPermissions reports whether the role holds every listed permission.
// An empty list passes vacuously.
func HasAllPermissions(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// CanAccessMill reports whether a role scoped to sessionMillID may touch
// targetMillID. Roles without mill scope bypass the check entirely. A
// mill-scoped role with an empty session mill id is a data-integrity error
// and always fails closed.
func CanAccessMill(role Role, sessionMillID, targetMillID string) bool {
	def, ok := roleRegistry[role]
	if !ok {
		return false
	}
	if !def.MillScoped {
		return true
	}
	if sessionMillID == "" {
		return false
	}
	return sessionMillID == targetMillID
}
