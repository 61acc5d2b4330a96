package services

import (
	"fmt"
	"log"
	"strings"

	"travel-ticketing-platform/internal/models"
)

// Action names a role-gated operation
type Action string

const (
	ActionManageTicket   Action = "manage_ticket" // create/delete a ticket
	ActionVerifyTicket   Action = "verify_ticket" // approve/reject, advertise
	ActionRequestBooking Action = "request_booking"
	ActionDecideBooking  Action = "decide_booking" // accept/reject a pending booking
	ActionCancelBooking  Action = "cancel_booking"
	ActionViewBooking    Action = "view_booking"
	ActionViewRevenue    Action = "view_revenue"
)

// RoleOverrides pins specific account emails to a role regardless of the
// stored account state. It is an explicit operator policy table, configured
// once at startup and consulted in exactly one place (ResolveRole) rather
// than scattered across call sites.
type RoleOverrides map[string]models.UserRole

// ParseRoleOverrides parses an "email=role,email=role" list from
// configuration. Entries with unknown roles are rejected.
func ParseRoleOverrides(raw string) (RoleOverrides, error) {
	overrides := make(RoleOverrides)
	if strings.TrimSpace(raw) == "" {
		return overrides, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed role override %q, want email=role", entry)
		}

		email := strings.ToLower(strings.TrimSpace(parts[0]))
		role := models.UserRole(strings.TrimSpace(parts[1]))
		if err := models.ValidateRole(role); err != nil {
			return nil, fmt.Errorf("role override for %s: %w", email, err)
		}

		overrides[email] = role
	}

	return overrides, nil
}

// Authorizer resolves a principal to exactly one role and gates every state
// transition by that role
type Authorizer struct {
	overrides RoleOverrides
}

// NewAuthorizer creates a new authorizer with the given operator override
// table
func NewAuthorizer(overrides RoleOverrides) *Authorizer {
	if overrides == nil {
		overrides = make(RoleOverrides)
	}
	return &Authorizer{overrides: overrides}
}

// ResolveRole returns the principal's effective role: the stored account
// role, unless an operator override pins the account to something else.
func (a *Authorizer) ResolveRole(user *models.User) models.UserRole {
	if pinned, ok := a.overrides[strings.ToLower(user.Email)]; ok {
		if pinned != user.Role {
			log.Printf("role override: %s resolved as %s (stored role %s)", user.Email, pinned, user.Role)
		}
		return pinned
	}
	return user.Role
}

// Authorize checks whether the principal may perform the action on a
// resource owned by resourceOwnerID. Admin passes every check; a vendor only
// acts on resources they own; a traveler only acts on their own bookings.
// Failure is always an explicit Forbidden error, never a silent no-op.
func (a *Authorizer) Authorize(user *models.User, action Action, resourceOwnerID int) error {
	role := a.ResolveRole(user)

	if role == models.RoleAdmin {
		return nil
	}

	switch action {
	case ActionVerifyTicket:
		// Admin only, handled above.
	case ActionManageTicket:
		if role == models.RoleVendor && user.ID == resourceOwnerID {
			return nil
		}
	case ActionDecideBooking:
		// resourceOwnerID is the owning vendor of the booked ticket.
		if role == models.RoleVendor && user.ID == resourceOwnerID {
			return nil
		}
	case ActionRequestBooking:
		if role == models.RoleTraveler {
			return nil
		}
	case ActionCancelBooking, ActionViewBooking:
		// resourceOwnerID is the booking's traveler.
		if user.ID == resourceOwnerID {
			return nil
		}
	case ActionViewRevenue:
		// resourceOwnerID is the vendor whose revenue is being read.
		if role == models.RoleVendor && user.ID == resourceOwnerID {
			return nil
		}
	}

	return fmt.Errorf("%s as %s: %w", action, role, models.ErrForbidden)
}
