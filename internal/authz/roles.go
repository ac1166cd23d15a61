package authz

import "sort"

// Role is a named actor category with a fixed permission set.
type Role string

const (
	RoleSystemAdmin        Role = "system_admin"
	RoleProgramManager     Role = "program_manager"
	RoleInspector          Role = "inspector"
	RoleMillManager        Role = "mill_manager"
	RoleProductionOperator Role = "production_operator"
	RoleLabTechnician      Role = "lab_technician"
	RoleBuyer              Role = "buyer"
	RoleDriver             Role = "driver"
)

// RoleDefinition describes one role in the fixed registry.
type RoleDefinition struct {
	Name        Role `json:"name"`
	Level       int  `json:"level"`
	MillScoped  bool `json:"mill_scoped"`
	Permissions map[Permission]struct{}
}

// The registry is populated once at package init and never mutated afterwards.
// Concurrent readers need no synchronization.
var roleRegistry = map[Role]RoleDefinition{
	RoleSystemAdmin: {
		Name:       RoleSystemAdmin,
		Level:      100,
		MillScoped: false,
		Permissions: permSet(
			PermBatchView, PermBatchCreate, PermBatchEdit, PermBatchDelete,
			PermQualityView, PermQualityRecord,
			PermAuditView, PermAuditConduct,
			PermEquipmentView, PermMaintenanceRecord,
			PermTrainingView, PermTrainingRecord,
			PermAlertView, PermAlertResolve,
			PermActionView, PermActionUpdate,
			PermOrderView, PermOrderCreate, PermOrderEdit,
			PermDeliveryView, PermDeliveryUpdate,
			PermMillView, PermMillManage,
			PermUserView, PermUserManage,
		),
	},
	RoleProgramManager: {
		Name:       RoleProgramManager,
		Level:      80,
		MillScoped: false,
		Permissions: permSet(
			PermBatchView,
			PermQualityView,
			PermAuditView, PermAuditConduct,
			PermEquipmentView,
			PermTrainingView, PermTrainingRecord,
			PermAlertView, PermAlertResolve,
			PermActionView, PermActionUpdate,
			PermOrderView, PermOrderCreate, PermOrderEdit,
			PermDeliveryView,
			PermMillView, PermMillManage,
			PermUserView, PermUserManage,
		),
	},
	RoleInspector: {
		Name:       RoleInspector,
		Level:      70,
		MillScoped: false,
		Permissions: permSet(
			PermBatchView,
			PermQualityView,
			PermAuditView, PermAuditConduct,
			PermEquipmentView,
			PermTrainingView,
			PermAlertView,
			PermActionView, PermActionUpdate,
			PermMillView,
		),
	},
	RoleMillManager: {
		Name:       RoleMillManager,
		Level:      60,
		MillScoped: true,
		Permissions: permSet(
			PermBatchView, PermBatchCreate, PermBatchEdit, PermBatchDelete,
			PermQualityView, PermQualityRecord,
			PermAuditView,
			PermEquipmentView, PermMaintenanceRecord,
			PermTrainingView, PermTrainingRecord,
			PermAlertView, PermAlertResolve,
			PermActionView, PermActionUpdate,
			PermOrderView,
			PermDeliveryView,
			PermMillView,
			PermUserView,
		),
	},
	RoleProductionOperator: {
		Name:       RoleProductionOperator,
		Level:      40,
		MillScoped: true,
		Permissions: permSet(
			PermBatchView, PermBatchCreate, PermBatchEdit,
			PermQualityView,
			PermEquipmentView, PermMaintenanceRecord,
			PermTrainingView,
			PermAlertView,
			PermActionView, PermActionUpdate,
		),
	},
	RoleLabTechnician: {
		Name:       RoleLabTechnician,
		Level:      40,
		MillScoped: true,
		Permissions: permSet(
			PermBatchView,
			PermQualityView, PermQualityRecord,
			PermEquipmentView,
			PermTrainingView,
			PermAlertView,
			PermActionView, PermActionUpdate,
		),
	},
	RoleBuyer: {
		Name:       RoleBuyer,
		Level:      20,
		MillScoped: false,
		Permissions: permSet(
			PermOrderView, PermOrderCreate, PermOrderEdit,
			PermDeliveryView,
		),
	},
	RoleDriver: {
		Name:       RoleDriver,
		Level:      10,
		MillScoped: false,
		Permissions: permSet(
			PermDeliveryView, PermDeliveryUpdate,
		),
	},
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Definition returns the registry entry for a role.
func Definition(role Role) (RoleDefinition, bool) {
	def, ok := roleRegistry[role]
	return def, ok
}

// Roles lists every registered role, most senior first.
func Roles() []RoleDefinition {
	out := make([]RoleDefinition, 0, len(roleRegistry))
	for _, def := range roleRegistry {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PermissionsOf returns the sorted permission keys held by a role.
func PermissionsOf(role Role) []Permission {
	def, ok := roleRegistry[role]
	if !ok {
		return nil
	}
	out := make([]Permission, 0, len(def.Permissions))
	for p := range def.Permissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
