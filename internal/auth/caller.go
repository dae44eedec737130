// Package auth carries the authenticated caller identity through every
// engine call. The surrounding API layer builds a Caller from the bearer
// token; services never consult ambient request state.
package auth

import "errors"

// Role defines caller capabilities
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleFrontdesk Role = "FRONTDESK"
	RoleRider     Role = "RIDER"
)

// ErrForbidden indicates the caller lacks the capability or identity an
// operation requires. It is surfaced as-is, with no mutation performed.
var ErrForbidden = errors.New("caller is not allowed to perform this action")

// Caller is the authenticated principal invoking an engine operation
type Caller struct {
	ID          string
	Name        string
	PhoneNumber string
	Role        Role
	OfficeID    string
}

// CanManageDeliveries reports whether the caller may create assignments
// and run reconciliation (front-desk capability).
func (c Caller) CanManageDeliveries() bool {
	switch c.Role {
	case RoleFrontdesk, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanOverride reports whether the caller may use the manager transition
// path, which bypasses the confirmation-code check.
func (c Caller) CanOverride() bool {
	return c.Role == RoleManager || c.Role == RoleAdmin
}

// IsRider reports whether the caller holds the rider role
func (c Caller) IsRider() bool {
	return c.Role == RoleRider
}
