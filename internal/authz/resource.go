package authz

import "context"

// ResourceType identifies a class of protected entity.
type ResourceType string

const (
	ResourceBatch             ResourceType = "batch"
	ResourceQualityTest       ResourceType = "quality_test"
	ResourceComplianceAudit   ResourceType = "compliance_audit"
	ResourceEquipment         ResourceType = "equipment"
	ResourceMaintenanceRecord ResourceType = "maintenance_record"
	ResourceTrainingRecord    ResourceType = "training_record"
	ResourceAlert             ResourceType = "alert"
	ResourceActionItem        ResourceType = "action_item"
	ResourceOrder             ResourceType = "order"
	ResourceDelivery          ResourceType = "delivery"
	ResourceMill              ResourceType = "mill"
	ResourceUserAccount       ResourceType = "user_account"
)

// ResourceTypes lists every type the engine knows about.
func ResourceTypes() []ResourceType {
	return []ResourceType{
		ResourceBatch,
		ResourceQualityTest,
		ResourceComplianceAudit,
		ResourceEquipment,
		ResourceMaintenanceRecord,
		ResourceTrainingRecord,
		ResourceAlert,
		ResourceActionItem,
		ResourceOrder,
		ResourceDelivery,
		ResourceMill,
		ResourceUserAccount,
	}
}

// Descriptor is the minimal projection of a stored entity needed for an
// authorization decision. It is never a full entity: only isolation and
// ownership fields are fetched, so a denied request never transmits
// protected fields to the caller.
//
// Ownership fields are populated per resource type; absent ones stay empty.
// EscalatedTo is a bounded list of user ids parsed once at the accessor
// boundary (alerts only).
type Descriptor struct {
	Type          ResourceType
	ID            string
	TenantID      string
	MillID        string
	CreatedBy     string
	OwnerUserID   string
	AssignedTo    string
	RecipientID   string
	RecipientRole Role
	EscalatedTo   []string
}

// ProjectionStore is the narrow read surface the engine requires from the
// persistent store. Implementations must return ErrNotFound when no such
// resource exists and ErrUnknownResource for types outside their dispatch
// table; any other error is treated as an infrastructure failure.
type ProjectionStore interface {
	FetchProjection(ctx context.Context, rt ResourceType, id string) (Descriptor, error)
}
