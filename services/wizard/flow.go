package wizard

import "slotbook/models"

// Flow parameterizes the wizard so the registered, edit and guest
// variants run through one step sequence instead of three duplicated
// ones. Scope namespaces the session keys, so a guest booking and a
// registered run in sibling tabs can never cross-contaminate state.
type Flow struct {
	// Scope prefixes session keys ("user" or "guest").
	Scope string
	// AllowEdit permits entering the wizard seeded from an existing
	// reservation. Guests cannot edit: there is no guest identity to
	// authorize it.
	AllowEdit bool
	// RequireContact inserts the contact-collection step before the
	// confirmation step and makes commits guest-owned.
	RequireContact bool
}

// RegisteredFlow is the flow for authenticated users (new booking and
// edit-in-place).
var RegisteredFlow = Flow{Scope: "user", AllowEdit: true}

// GuestFlow is the flow for anonymous bookings.
var GuestFlow = Flow{Scope: "guest", RequireContact: true}

// NextAfterSlot returns the step following time-slot selection: the
// contact step for guests, otherwise straight to confirmation.
func (f Flow) NextAfterSlot() models.Step {
	if f.RequireContact {
		return models.StepContact
	}
	return models.StepConfirm
}
