// File: services/wizard/steps.go
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/models"
)

// ViewFacilityType renders the facility type choices for the selected
// office.
func (s *DefaultWizardService) ViewFacilityType(ctx context.Context, flow Flow, key string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepFacilityType, flow); err != nil {
		return nil, err
	}

	types, err := s.Catalog.ListFacilityTypes(ctx, state.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facility types: %w", err)
	}
	return facilityTypeStepView(types, state.FacilityTypeID, ""), nil
}

// SubmitFacilityType records the facility type choice. A changed choice
// invalidates the downstream item and slot selections.
func (s *DefaultWizardService) SubmitFacilityType(ctx context.Context, flow Flow, key, facilityTypeID string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepFacilityType, flow); err != nil {
		return nil, err
	}

	types, err := s.Catalog.ListFacilityTypes(ctx, state.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facility types: %w", err)
	}
	if !facilityTypeExists(types, facilityTypeID) {
		return facilityTypeStepView(types, state.FacilityTypeID, "Please select a valid facility type."), nil
	}

	if state.FacilityTypeID != facilityTypeID {
		state.FacilityItemID = ""
		state.TimeSlotID = ""
	}
	state.FacilityTypeID = facilityTypeID
	if err := s.Sessions.Save(ctx, flow.Scope, key, state); err != nil {
		return nil, err
	}
	return nil, &RedirectError{To: models.StepItem}
}

// ViewItem renders the bookable items of the selected facility type.
func (s *DefaultWizardService) ViewItem(ctx context.Context, flow Flow, key string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepItem, flow); err != nil {
		return nil, err
	}

	items, err := s.Catalog.ListFacilityItems(ctx, state.FacilityTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facility items: %w", err)
	}
	return itemStepView(items, state.FacilityItemID, ""), nil
}

// SubmitItem records the facility item choice.
func (s *DefaultWizardService) SubmitItem(ctx context.Context, flow Flow, key, itemID string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepItem, flow); err != nil {
		return nil, err
	}

	items, err := s.Catalog.ListFacilityItems(ctx, state.FacilityTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facility items: %w", err)
	}
	if !itemExists(items, itemID) {
		return itemStepView(items, state.FacilityItemID, "Please select a valid facility item."), nil
	}

	if state.FacilityItemID != itemID {
		state.TimeSlotID = ""
	}
	state.FacilityItemID = itemID
	if err := s.Sessions.Save(ctx, flow.Scope, key, state); err != nil {
		return nil, err
	}
	return nil, &RedirectError{To: models.StepDate}
}

// ViewDate renders the date step with the inclusive booking window.
// The default suggestion is tomorrow on first entry.
func (s *DefaultWizardService) ViewDate(ctx context.Context, flow Flow, key string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepDate, flow); err != nil {
		return nil, err
	}

	selected := state.Date
	if selected == "" {
		selected = s.today().AddDate(0, 0, 1).Format(dateLayout)
	}
	return s.dateStepView(selected, ""), nil
}

// SubmitDate validates the chosen date against the booking horizon
// [today, today+6]. A rejected date re-renders the step with the
// attempted value echoed for display only; session state is untouched.
func (s *DefaultWizardService) SubmitDate(ctx context.Context, flow Flow, key, raw string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepDate, flow); err != nil {
		return nil, err
	}

	chosen, err := time.ParseInLocation(dateLayout, raw, s.today().Location())
	if err != nil {
		return s.dateStepView(raw, "Please enter a valid date."), nil
	}

	today := s.today()
	maxDate := today.AddDate(0, 0, s.horizonDays())
	if chosen.Before(today) {
		return s.dateStepView(raw, "Past dates cannot be selected."), nil
	}
	if chosen.After(maxDate) {
		return s.dateStepView(raw, "Only dates within one week from today can be selected."), nil
	}

	normalized := chosen.Format(dateLayout)
	if state.Date != normalized {
		state.TimeSlotID = ""
	}
	state.Date = normalized
	if err := s.Sessions.Save(ctx, flow.Scope, key, state); err != nil {
		return nil, err
	}
	return nil, &RedirectError{To: models.StepSlot}
}

// ViewSlot renders the available time slots for the staged item and
// date, computed by the availability resolver. In edit mode the
// reservation being edited does not count as taken.
func (s *DefaultWizardService) ViewSlot(ctx context.Context, flow Flow, key string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepSlot, flow); err != nil {
		return nil, err
	}

	available, reservedCount, err := s.resolveSlots(ctx, flow, key, state)
	if err != nil {
		return nil, err
	}
	return slotStepView(available, reservedCount, state.TimeSlotID, ""), nil
}

// SubmitSlot records the time slot choice and advances to the contact
// step (guest flow) or straight to confirmation.
func (s *DefaultWizardService) SubmitSlot(ctx context.Context, flow Flow, key, slotID string) (*models.StepView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepSlot, flow); err != nil {
		return nil, err
	}

	available, reservedCount, err := s.resolveSlots(ctx, flow, key, state)
	if err != nil {
		return nil, err
	}
	if !slotAvailable(available, slotID) {
		return slotStepView(available, reservedCount, state.TimeSlotID, "Please select an available time slot."), nil
	}

	state.TimeSlotID = slotID
	if err := s.Sessions.Save(ctx, flow.Scope, key, state); err != nil {
		return nil, err
	}
	return nil, &RedirectError{To: flow.NextAfterSlot()}
}

// ViewContact returns the previously entered guest contact, if any.
func (s *DefaultWizardService) ViewContact(ctx context.Context, flow Flow, key string) (*models.GuestContact, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if missing, ok := state.FirstMissing(models.StepContact, flow.RequireContact); ok {
		return nil, &RedirectError{To: missing}
	}
	return state.Contact, nil
}

// SubmitContact stores the guest's contact details and creates the
// guest record immediately. Every booking gets a fresh record; guest
// contact info is never deduplicated.
func (s *DefaultWizardService) SubmitContact(ctx context.Context, flow Flow, key string, contact models.GuestContact) error {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return err
	}
	if missing, ok := state.FirstMissing(models.StepContact, flow.RequireContact); ok {
		return &RedirectError{To: missing}
	}

	guest := &models.GuestRecord{
		FullName: contact.FullName,
		Phone:    contact.Phone,
		Email:    contact.Email,
	}
	if err := s.Guests.Create(ctx, guest); err != nil {
		return fmt.Errorf("failed to create guest record: %w", err)
	}

	state.GuestID = guest.ID
	state.Contact = &contact
	return s.Sessions.Save(ctx, flow.Scope, key, state)
}

func (s *DefaultWizardService) resolveSlots(ctx context.Context, flow Flow, key string, state *models.WizardState) ([]models.TimeSlotTemplate, int, error) {
	item, err := s.Catalog.GetFacilityItem(ctx, state.FacilityItemID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			_ = s.Sessions.Clear(ctx, flow.Scope, key)
			return nil, 0, ErrEntityGone
		}
		return nil, 0, fmt.Errorf("failed to load facility item: %w", err)
	}
	return s.Availability.Resolve(ctx, item, state.Date, state.EditingReservationID)
}

func facilityTypeExists(types []models.FacilityType, id string) bool {
	for _, t := range types {
		if t.ID == id {
			return true
		}
	}
	return false
}

func itemExists(items []models.FacilityItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func slotAvailable(slots []models.TimeSlotTemplate, id string) bool {
	for _, sl := range slots {
		if sl.ID == id {
			return true
		}
	}
	return false
}

func facilityTypeStepView(types []models.FacilityType, selected, errMsg string) *models.StepView {
	view := &models.StepView{
		Step:     models.StepFacilityType.String(),
		Selected: selected,
		Error:    errMsg,
	}
	for _, t := range types {
		view.Options = append(view.Options, models.StepOption{ID: t.ID, Label: t.Name})
	}
	if len(view.Options) == 0 {
		view.Info = "No facility types are available."
	}
	return view
}

func itemStepView(items []models.FacilityItem, selected, errMsg string) *models.StepView {
	view := &models.StepView{
		Step:     models.StepItem.String(),
		Selected: selected,
		Error:    errMsg,
	}
	for _, it := range items {
		view.Options = append(view.Options, models.StepOption{ID: it.ID, Label: it.Name})
	}
	if len(view.Options) == 0 {
		view.Info = "No facility items are available."
	}
	return view
}

func (s *DefaultWizardService) dateStepView(selected, errMsg string) *models.StepView {
	today := s.today()
	return &models.StepView{
		Step:     models.StepDate.String(),
		Selected: selected,
		Error:    errMsg,
		MinDate:  today.Format(dateLayout),
		MaxDate:  today.AddDate(0, 0, s.horizonDays()).Format(dateLayout),
	}
}

func slotStepView(slots []models.TimeSlotTemplate, reservedCount int, selected, errMsg string) *models.StepView {
	view := &models.StepView{
		Step:  models.StepSlot.String(),
		Error: errMsg,
	}
	for _, sl := range slots {
		view.Options = append(view.Options, models.StepOption{ID: sl.ID, Label: sl.Label()})
		if sl.ID == selected {
			view.Selected = selected
		}
	}
	switch {
	case len(view.Options) == 0:
		view.Info = "No time slots are available on this date."
	case reservedCount > 0:
		view.Info = fmt.Sprintf("%d time slot(s) on this date are already reserved.", reservedCount)
	}
	return view
}
