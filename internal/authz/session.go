package authz

// Session is the authenticated actor's context for one request. It is
// constructed by the authentication layer and passed by value into every
// authorization call; the engine never mutates it.
//
// TenantID is empty when the actor is not scoped to any tenant partition
// (only system_admin should exhibit that). MillID is set only for
// mill-scoped roles.
type Session struct {
	UserID   string
	Role     Role
	TenantID string
	MillID   string
}

// IsAdmin reports whether the session carries the system administrator role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleSystemAdmin
}
