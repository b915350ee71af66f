// File: services/wizard/wizard.go
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/models"
)

const dateLayout = "2006-01-02"

func (s *DefaultWizardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultWizardService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *DefaultWizardService) horizonDays() int {
	if s.HorizonDays > 0 {
		return s.HorizonDays
	}
	return 6
}

// loadState returns the stored wizard state, or a fresh empty one when
// no run is in progress.
func (s *DefaultWizardService) loadState(ctx context.Context, flow Flow, key string) (*models.WizardState, error) {
	state, err := s.Sessions.Load(ctx, flow.Scope, key)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.WizardState{}
	}
	return state, nil
}

// guard redirects to the earliest step whose prerequisite is missing.
// Every step calls it on entry, so replaying an old step request after
// session state moved on is harmless.
func guard(state *models.WizardState, step models.Step, flow Flow) error {
	if missing, ok := state.FirstMissing(step, flow.RequireContact); ok {
		return &RedirectError{To: missing}
	}
	return nil
}

// seedFromReservation builds wizard state from an existing reservation
// for the edit-in-place flow. The time slot key is resolved by matching
// the reservation's stored start/end back to a template; no match
// leaves the slot unselected.
func (s *DefaultWizardService) seedFromReservation(ctx context.Context, reservationID, userID string) (*models.WizardState, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReservationGone
		}
		return nil, fmt.Errorf("failed to load reservation %s: %w", reservationID, err)
	}
	if res.UserID == "" || res.UserID != userID {
		return nil, ErrForbidden
	}
	if res.FacilityItemID == "" {
		return nil, ErrEntityGone
	}

	item, err := s.Catalog.GetFacilityItem(ctx, res.FacilityItemID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEntityGone
		}
		return nil, fmt.Errorf("failed to load facility item: %w", err)
	}
	ft, err := s.Catalog.GetFacilityType(ctx, item.FacilityTypeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEntityGone
		}
		return nil, fmt.Errorf("failed to load facility type: %w", err)
	}

	state := &models.WizardState{
		OfficeID:             ft.OfficeID,
		FacilityTypeID:       ft.ID,
		FacilityItemID:       item.ID,
		Date:                 res.Date,
		EditingReservationID: res.ID,
	}

	tpl, err := s.Catalog.FindTemplateByWindow(ctx, ft.ID, res.Start, res.End)
	switch {
	case err == nil:
		state.TimeSlotID = tpl.ID
	case errors.Is(err, mongo.ErrNoDocuments):
		// Template edited away since booking; user re-picks a slot.
	default:
		return nil, fmt.Errorf("failed to resolve time slot template: %w", err)
	}
	return state, nil
}

// loadStagedSelection resolves the catalog entities staged in the
// session. Any id pointing at an entity deleted mid-flow surfaces as
// ErrEntityGone after the state is cleared, restarting the wizard.
func (s *DefaultWizardService) loadStagedSelection(ctx context.Context, flow Flow, key string, state *models.WizardState) (*models.Office, *models.FacilityType, *models.FacilityItem, *models.TimeSlotTemplate, error) {
	office, err := s.Catalog.GetOffice(ctx, state.OfficeID)
	if err != nil {
		return nil, nil, nil, nil, s.vanished(ctx, flow, key, err, "office")
	}
	ft, err := s.Catalog.GetFacilityType(ctx, state.FacilityTypeID)
	if err != nil {
		return nil, nil, nil, nil, s.vanished(ctx, flow, key, err, "facility type")
	}
	item, err := s.Catalog.GetFacilityItem(ctx, state.FacilityItemID)
	if err != nil {
		return nil, nil, nil, nil, s.vanished(ctx, flow, key, err, "facility item")
	}
	tpl, err := s.Catalog.GetTimeSlotTemplate(ctx, state.TimeSlotID)
	if err != nil {
		return nil, nil, nil, nil, s.vanished(ctx, flow, key, err, "time slot template")
	}
	return office, ft, item, tpl, nil
}

func (s *DefaultWizardService) vanished(ctx context.Context, flow Flow, key string, err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		_ = s.Sessions.Clear(ctx, flow.Scope, key)
		return ErrEntityGone
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// EnterOffice starts (or re-enters) the wizard. A fresh run discards
// any stale state first; an edit entry instead seeds every key from the
// reservation's current values. When exactly one office exists it is
// auto-selected and the step is skipped.
func (s *DefaultWizardService) EnterOffice(ctx context.Context, flow Flow, key string, entry OfficeEntry) (*models.StepView, error) {
	var state *models.WizardState
	if entry.EditReservationID != "" {
		if !flow.AllowEdit {
			return nil, ErrForbidden
		}
		seeded, err := s.seedFromReservation(ctx, entry.EditReservationID, entry.UserID)
		if err != nil {
			if errors.Is(err, ErrReservationGone) || errors.Is(err, ErrEntityGone) {
				_ = s.Sessions.Clear(ctx, flow.Scope, key)
			}
			return nil, err
		}
		state = seeded
		if err := s.Sessions.Save(ctx, flow.Scope, key, state); err != nil {
			return nil, err
		}
	} else {
		if err := s.Sessions.Clear(ctx, flow.Scope, key); err != nil {
			return nil, err
		}
		state = &models.WizardState{}
	}

	offices, err := s.Catalog.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}

	if len(offices) == 1 {
		state.OfficeID = offices[0].ID
		if err := s.Sessions.Save(ctx, flow.Scope, key, state); err != nil {
			return nil, err
		}
		return nil, &RedirectError{To: models.StepFacilityType}
	}

	return officeStepView(offices, state.OfficeID, ""), nil
}

// SubmitOffice records the office choice and advances to facility type
// selection. Choosing a different office than before invalidates every
// downstream selection.
func (s *DefaultWizardService) SubmitOffice(ctx context.Context, flow Flow, key, officeID string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}

	offices, err := s.Catalog.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	if !officeExists(offices, officeID) {
		return officeStepView(offices, state.OfficeID, "Please select a valid office."), nil
	}

	if state.OfficeID != officeID {
		state.FacilityTypeID = ""
		state.FacilityItemID = ""
		state.TimeSlotID = ""
	}
	state.OfficeID = officeID
	if err := s.Sessions.Save(ctx, flow.Scope, key, state); err != nil {
		return nil, err
	}
	return nil, &RedirectError{To: models.StepFacilityType}
}

func officeExists(offices []models.Office, id string) bool {
	for _, o := range offices {
		if o.ID == id {
			return true
		}
	}
	return false
}

func officeStepView(offices []models.Office, selected, errMsg string) *models.StepView {
	view := &models.StepView{
		Step:     models.StepOffice.String(),
		Selected: selected,
		Error:    errMsg,
	}
	for _, o := range offices {
		view.Options = append(view.Options, models.StepOption{ID: o.ID, Label: o.Name})
	}
	if len(view.Options) == 0 {
		view.Info = "No offices are available."
	}
	return view
}
