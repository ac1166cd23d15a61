package authz

// Intent distinguishes read and write access in field checks.
type Intent string

const (
	IntentRead  Intent = "read"
	IntentWrite Intent = "write"
)

// fieldWriteRestrictions maps (resource type, field name) to the roles
// allowed to write that field. Absence of an entry means the field is
// unrestricted. An entry with an empty role set is writable by the system
// administrator only. New restrictions are additions to this table, not new
// code paths.
var fieldWriteRestrictions = map[ResourceType]map[string][]Role{
	ResourceBatch: {
		"status":          {RoleMillManager, RoleProgramManager},
		"fortificant_lot": {RoleMillManager, RoleProgramManager},
		"released_at":     {RoleMillManager},
	},
	ResourceQualityTest: {
		"result":      {RoleLabTechnician, RoleMillManager},
		"approved_by": {RoleMillManager, RoleInspector},
	},
	ResourceComplianceAudit: {
		"outcome":   {RoleInspector, RoleProgramManager},
		"closed_at": {RoleInspector},
	},
	ResourceOrder: {
		"status":     {RoleProgramManager, RoleBuyer},
		"unit_price": {RoleProgramManager},
	},
	ResourceDelivery: {
		"status": {RoleDriver, RoleProgramManager},
	},
	ResourceUserAccount: {
		"role":      {},
		"tenant_id": {},
		"mill_id":   {RoleProgramManager},
	},
}

// CanAccessField decides whether the session may read or write one field of
// a resource, independent of whether the base operation was permitted.
// Restrictions govern writes only; reads always pass (read-side redaction
// is a presentation concern, not this engine's).
func CanAccessField(sess Session, rt ResourceType, field string, intent Intent) bool {
	if sess.IsAdmin() {
		return true
	}
	if intent != IntentWrite {
		return true
	}
	byField, ok := fieldWriteRestrictions[rt]
	if !ok {
		return true
	}
	allowed, ok := byField[field]
	if !ok {
		return true
	}
	for _, role := range allowed {
		if role == sess.Role {
			return true
		}
	}
	return false
}

// RestrictedFields returns the names of write-restricted fields for a
// resource type, for callers that render edit forms.
func RestrictedFields(rt ResourceType) []string {
	byField, ok := fieldWriteRestrictions[rt]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byField))
	for name := range byField {
		out = append(out, name)
	}
	return out
}
