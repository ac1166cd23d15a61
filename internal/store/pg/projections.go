package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"milltrace.org/internal/authz"
)

var _ authz.ProjectionStore = (*Store)(nil)

// maxEscalationTargets bounds the escalation list read from an alert row.
// Longer lists indicate corrupted data and are truncated, not trusted.
const maxEscalationTargets = 16

type fetchFunc func(ctx context.Context, db *sql.DB, id string) (authz.Descriptor, error)

// projections is the per-type dispatch table. Each entry issues exactly one
// minimal-projection read: isolation and ownership columns only, never the
// full row.
var projections = map[authz.ResourceType]fetchFunc{
	authz.ResourceBatch: simpleProjection("batches", projCols{
		tenant: "tenant_id", mill: "mill_id", createdBy: "created_by",
	}),
	authz.ResourceQualityTest: simpleProjection("quality_tests", projCols{
		tenant: "tenant_id", mill: "mill_id", createdBy: "recorded_by",
	}),
	authz.ResourceComplianceAudit: simpleProjection("compliance_audits", projCols{
		tenant: "tenant_id", mill: "mill_id", createdBy: "conducted_by",
	}),
	authz.ResourceEquipment: simpleProjection("equipment", projCols{
		tenant: "tenant_id", mill: "mill_id",
	}),
	authz.ResourceMaintenanceRecord: simpleProjection("maintenance_records", projCols{
		tenant: "tenant_id", mill: "mill_id", createdBy: "created_by",
	}),
	authz.ResourceTrainingRecord: simpleProjection("training_records", projCols{
		tenant: "tenant_id", mill: "mill_id", createdBy: "trainer_id", owner: "trainee_id",
	}),
	authz.ResourceActionItem: simpleProjection("action_items", projCols{
		tenant: "tenant_id", mill: "mill_id", createdBy: "created_by", assignedTo: "assigned_to",
	}),
	authz.ResourceOrder: simpleProjection("orders", projCols{
		tenant: "tenant_id", createdBy: "created_by", owner: "buyer_user_id",
	}),
	authz.ResourceDelivery: simpleProjection("deliveries", projCols{
		tenant: "tenant_id", createdBy: "created_by", assignedTo: "driver_user_id",
	}),
	authz.ResourceMill: simpleProjection("mills", projCols{
		tenant: "tenant_id", millIsSelf: true,
	}),
	authz.ResourceUserAccount: simpleProjection("users", projCols{
		tenant: "tenant_id", mill: "mill_id", ownerIsSelf: true,
	}),
	authz.ResourceAlert: fetchAlert,
}

// FetchProjection dispatches to the per-type fetch entry.
func (s *Store) FetchProjection(ctx context.Context, rt authz.ResourceType, id string) (authz.Descriptor, error) {
	fetch, ok := projections[rt]
	if !ok {
		return authz.Descriptor{}, fmt.Errorf("%w: %s", authz.ErrUnknownResource, rt)
	}
	desc, err := fetch(ctx, s.db, id)
	if err != nil {
		return authz.Descriptor{}, err
	}
	desc.Type = rt
	desc.ID = id
	return desc, nil
}

// projCols names the ownership columns a table actually has. Empty fields
// are selected as ''. millIsSelf/ownerIsSelf substitute the row id where the
// facility or owner relation is the entity itself.
type projCols struct {
	tenant      string
	mill        string
	createdBy   string
	owner       string
	assignedTo  string
	millIsSelf  bool
	ownerIsSelf bool
}

func col(name string) string {
	if name == "" {
		return "''"
	}
	return "coalesce(" + name + ", '')"
}

func simpleProjection(table string, cols projCols) fetchFunc {
	millCol := col(cols.mill)
	if cols.millIsSelf {
		millCol = "id"
	}
	ownerCol := col(cols.owner)
	if cols.ownerIsSelf {
		ownerCol = "id"
	}
	query := fmt.Sprintf(
		"select %s, %s, %s, %s, %s from %s where id = $1",
		col(cols.tenant), millCol, col(cols.createdBy), ownerCol, col(cols.assignedTo), table,
	)
	return func(ctx context.Context, db *sql.DB, id string) (authz.Descriptor, error) {
		var desc authz.Descriptor
		err := db.QueryRowContext(ctx, query, id).Scan(
			&desc.TenantID, &desc.MillID, &desc.CreatedBy, &desc.OwnerUserID, &desc.AssignedTo,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return authz.Descriptor{}, authz.ErrNotFound
		}
		if err != nil {
			return authz.Descriptor{}, err
		}
		return desc, nil
	}
}

// fetchAlert reads the alert projection including the escalation targets,
// which live in a jsonb column and are decoded here once, at the accessor
// boundary, into a bounded typed list.
func fetchAlert(ctx context.Context, db *sql.DB, id string) (authz.Descriptor, error) {
	var (
		desc   authz.Descriptor
		role   string
		rawEsc []byte
	)
	err := db.QueryRowContext(ctx, `
		select coalesce(tenant_id, ''), coalesce(mill_id, ''),
		       coalesce(recipient_user_id, ''), coalesce(recipient_role, ''),
		       coalesce(escalated_to, '[]')
		from alerts where id = $1
	`, id).Scan(&desc.TenantID, &desc.MillID, &desc.RecipientID, &role, &rawEsc)
	if errors.Is(err, sql.ErrNoRows) {
		return authz.Descriptor{}, authz.ErrNotFound
	}
	if err != nil {
		return authz.Descriptor{}, err
	}
	desc.RecipientRole = authz.Role(role)

	var targets []string
	if err := json.Unmarshal(rawEsc, &targets); err != nil {
		return authz.Descriptor{}, fmt.Errorf("decode escalation targets: %w", err)
	}
	if len(targets) > maxEscalationTargets {
		targets = targets[:maxEscalationTargets]
	}
	desc.EscalatedTo = targets
	return desc, nil
}
