package wizard

import (
	"context"
	"time"

	catalogRepo "slotbook/database/repository/catalog"
	guestRepo "slotbook/database/repository/guest"
	reservationRepo "slotbook/database/repository/reservation"
	"slotbook/models"
)

// OfficeEntry describes how the wizard is entered: a fresh run, or an
// edit of an existing reservation owned by UserID.
type OfficeEntry struct {
	EditReservationID string
	UserID            string
}

// WizardService drives the multi-step reservation flow. Every method
// takes the Flow (registered or guest) and the requester's session key;
// a returned RedirectError sends the client to another step, either
// because a prerequisite is missing or because a step auto-advanced.
type WizardService interface {
	EnterOffice(ctx context.Context, flow Flow, key string, entry OfficeEntry) (*models.StepView, error)
	SubmitOffice(ctx context.Context, flow Flow, key, officeID string) (*models.StepView, error)

	ViewFacilityType(ctx context.Context, flow Flow, key string) (*models.StepView, error)
	SubmitFacilityType(ctx context.Context, flow Flow, key, facilityTypeID string) (*models.StepView, error)

	ViewItem(ctx context.Context, flow Flow, key string) (*models.StepView, error)
	SubmitItem(ctx context.Context, flow Flow, key, itemID string) (*models.StepView, error)

	ViewDate(ctx context.Context, flow Flow, key string) (*models.StepView, error)
	SubmitDate(ctx context.Context, flow Flow, key, date string) (*models.StepView, error)

	ViewSlot(ctx context.Context, flow Flow, key string) (*models.StepView, error)
	SubmitSlot(ctx context.Context, flow Flow, key, slotID string) (*models.StepView, error)

	ViewContact(ctx context.Context, flow Flow, key string) (*models.GuestContact, error)
	SubmitContact(ctx context.Context, flow Flow, key string, contact models.GuestContact) error

	ViewConfirm(ctx context.Context, flow Flow, key string) (*models.ConfirmView, error)
	Confirm(ctx context.Context, flow Flow, key, userID string) (*models.Reservation, error)

	Cancel(ctx context.Context, flow Flow, key string) error
}

// DefaultWizardService implements WizardService.
type DefaultWizardService struct {
	Sessions     SessionStore
	Catalog      catalogRepo.CatalogRepository
	Reservations reservationRepo.ReservationRepository
	Guests       guestRepo.GuestRepository
	Availability *AvailabilityResolver
	Committer    *Committer

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
	// HorizonDays is the inclusive booking window beyond today;
	// defaults to 6 (one week including today).
	HorizonDays int
}
