package authz

// Permission is a fine-grained capability key, one per protected operation.
type Permission string

const (
	PermBatchView         Permission = "batch.view"
	PermBatchCreate       Permission = "batch.create"
	PermBatchEdit         Permission = "batch.edit"
	PermBatchDelete       Permission = "batch.delete"
	PermQualityView       Permission = "quality.view"
	PermQualityRecord     Permission = "quality.record"
	PermAuditView         Permission = "audit.view"
	PermAuditConduct      Permission = "audit.conduct"
	PermEquipmentView     Permission = "equipment.view"
	PermMaintenanceRecord Permission = "maintenance.record"
	PermTrainingView      Permission = "training.view"
	PermTrainingRecord    Permission = "training.record"
	PermAlertView         Permission = "alert.view"
	PermAlertResolve      Permission = "alert.resolve"
	PermActionView        Permission = "action.view"
	PermActionUpdate      Permission = "action.update"
	PermOrderView         Permission = "order.view"
	PermOrderCreate       Permission = "order.create"
	PermOrderEdit         Permission = "order.edit"
	PermDeliveryView      Permission = "delivery.view"
	PermDeliveryUpdate    Permission = "delivery.update"
	PermMillView          Permission = "mill.view"
	PermMillManage        Permission = "mill.manage"
	PermUserView          Permission = "user.view"
	PermUserManage        Permission = "user.manage"
)

// PermissionDescriptor pairs a permission key with its catalog description.
type PermissionDescriptor struct {
	Key         Permission `json:"key"`
	Description string     `json:"description"`
}

var permissionCatalog = []PermissionDescriptor{
	{Key: PermBatchView, Description: "View production batches"},
	{Key: PermBatchCreate, Description: "Create production batches"},
	{Key: PermBatchEdit, Description: "Edit production batches"},
	{Key: PermBatchDelete, Description: "Delete production batches"},
	{Key: PermQualityView, Description: "View quality test results"},
	{Key: PermQualityRecord, Description: "Record quality test results"},
	{Key: PermAuditView, Description: "View compliance audits"},
	{Key: PermAuditConduct, Description: "Conduct compliance audits"},
	{Key: PermEquipmentView, Description: "View equipment"},
	{Key: PermMaintenanceRecord, Description: "Record equipment maintenance"},
	{Key: PermTrainingView, Description: "View training records"},
	{Key: PermTrainingRecord, Description: "Record training sessions"},
	{Key: PermAlertView, Description: "View alerts"},
	{Key: PermAlertResolve, Description: "Resolve alerts"},
	{Key: PermActionView, Description: "View corrective action items"},
	{Key: PermActionUpdate, Description: "Update corrective action items"},
	{Key: PermOrderView, Description: "View orders"},
	{Key: PermOrderCreate, Description: "Create orders"},
	{Key: PermOrderEdit, Description: "Edit orders"},
	{Key: PermDeliveryView, Description: "View deliveries"},
	{Key: PermDeliveryUpdate, Description: "Update delivery status"},
	{Key: PermMillView, Description: "View mill profiles"},
	{Key: PermMillManage, Description: "Manage mill profiles"},
	{Key: PermUserView, Description: "View user accounts"},
	{Key: PermUserManage, Description: "Manage user accounts"},
}

// Permissions returns the full catalog of known permissions.
// The returned slice is a copy; callers may not mutate the registry.
func Permissions() []PermissionDescriptor {
	out := make([]PermissionDescriptor, len(permissionCatalog))
	copy(out, permissionCatalog)
	return out
}
