package authz

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a resource that does not exist. It is distinct from
	// ErrDenied so callers can choose a 404-style response.
	ErrNotFound = errors.New("authz: not found")

	// ErrDenied marks an authorization refusal. The wrapped detail names the
	// role and resource for logging; callers must not forward it to
	// less-trusted clients.
	ErrDenied = errors.New("authz: denied")

	// ErrUnknownResource marks a resource type missing from the projection
	// dispatch table.
	ErrUnknownResource = errors.New("authz: unknown resource type")
)

func denied(role Role, rt ResourceType, reason string) error {
	return fmt.Errorf("%w: role %s on %s: %s", ErrDenied, role, rt, reason)
}
