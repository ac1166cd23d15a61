package authz

import (
	"context"
	"errors"
	"slices"
)

// Engine evaluates authorization decisions against the fixed role registry
// and minimal resource projections. It holds no mutable state; a single
// Engine value is shared by all request handlers.
type Engine struct {
	store ProjectionStore
}

// NewEngine constructs an Engine backed by the given projection store.
func NewEngine(store ProjectionStore) (*Engine, error) {
	if store == nil {
		return nil, errors.New("projection store is required")
	}
	return &Engine{store: store}, nil
}

// Authorize decides whether the session may access one resource and returns
// its descriptor when allowed. Checks run most-permissive-exit first:
// system admin bypass, then mill isolation, tenant isolation, and finally
// the per-type ownership narrowing. NotFound propagates unchanged so the
// caller can distinguish 404 from 403.
func (e *Engine) Authorize(ctx context.Context, sess Session, rt ResourceType, id string) (Descriptor, error) {
	desc, err := e.store.FetchProjection(ctx, rt, id)
	if err != nil {
		return Descriptor{}, err
	}
	if sess.IsAdmin() {
		return desc, nil
	}
	if desc.MillID != "" && !CanAccessMill(sess.Role, sess.MillID, desc.MillID) {
		return Descriptor{}, denied(sess.Role, rt, "mill isolation")
	}
	if desc.TenantID != "" && desc.TenantID != sess.TenantID {
		return Descriptor{}, denied(sess.Role, rt, "tenant isolation")
	}
	if err := checkNarrowing(sess, desc); err != nil {
		return Descriptor{}, err
	}
	return desc, nil
}

// AuthorizeModify composes the coarse permission gate, Authorize, and the
// instance-level ownership rule for mutating operations.
func (e *Engine) AuthorizeModify(ctx context.Context, sess Session, rt ResourceType, id string, perm Permission) (Descriptor, error) {
	if !HasPermission(sess.Role, perm) {
		return Descriptor{}, denied(sess.Role, rt, "missing permission "+string(perm))
	}
	desc, err := e.Authorize(ctx, sess, rt, id)
	if err != nil {
		return Descriptor{}, err
	}
	if sess.IsAdmin() {
		return desc, nil
	}
	if ownsResource(sess, desc) {
		return desc, nil
	}
	if sess.Role == RoleMillManager && desc.MillID != "" && desc.MillID == sess.MillID {
		return desc, nil
	}
	return Descriptor{}, denied(sess.Role, rt, "may act on this resource type but not this instance")
}

// checkNarrowing applies resource-type-specific ownership rules. Only
// action items and alerts narrow beyond tenant and mill isolation.
func checkNarrowing(sess Session, desc Descriptor) error {
	switch desc.Type {
	case ResourceActionItem:
		if sess.UserID == desc.AssignedTo {
			return nil
		}
		// Mill staff may view every action item inside their own mill even
		// when not personally assigned.
		if def, ok := roleRegistry[sess.Role]; ok && def.MillScoped {
			return nil
		}
		return denied(sess.Role, desc.Type, "not assigned to this action item")
	case ResourceAlert:
		if sess.UserID == desc.RecipientID {
			return nil
		}
		if desc.RecipientRole != "" && desc.RecipientRole == sess.Role {
			return nil
		}
		if slices.Contains(desc.EscalatedTo, sess.UserID) {
			return nil
		}
		return denied(sess.Role, desc.Type, "not a recipient of this alert")
	default:
		return nil
	}
}

// ownsResource reports whether the session's user matches any of the
// generic ownership fields on the descriptor. Empty fields never match.
func ownsResource(sess Session, desc Descriptor) bool {
	if sess.UserID == "" {
		return false
	}
	return sess.UserID == desc.CreatedBy ||
		sess.UserID == desc.OwnerUserID ||
		sess.UserID == desc.AssignedTo
}
