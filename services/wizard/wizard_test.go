package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotbook/models"
)

type fixture struct {
	svc          *DefaultWizardService
	sessions     *memSessions
	catalog      *memCatalog
	reservations *memReservations
	guests       *memGuests
}

// newFixture builds a service over in-memory stores with one facility
// type, two items and three hourly templates. The clock is pinned to
// 2024-01-10.
func newFixture(officeCount int) *fixture {
	catalog := &memCatalog{
		offices: []models.Office{{ID: "off-1", Name: "Main Office"}},
		types: []models.FacilityType{
			{ID: "ft-1", OfficeID: "off-1", Name: "Table Tennis"},
		},
		items: []models.FacilityItem{
			{ID: "item-1", FacilityTypeID: "ft-1", Name: "Table 1"},
			{ID: "item-2", FacilityTypeID: "ft-1", Name: "Table 2"},
		},
		templates: []models.TimeSlotTemplate{
			{ID: "tpl-9", FacilityTypeID: "ft-1", Start: 540, End: 600},
			{ID: "tpl-10", FacilityTypeID: "ft-1", Start: 600, End: 660},
			{ID: "tpl-11", FacilityTypeID: "ft-1", Start: 660, End: 720},
		},
	}
	if officeCount > 1 {
		catalog.offices = append(catalog.offices, models.Office{ID: "off-2", Name: "Branch Office"})
	}

	sessions := newMemSessions()
	reservations := newMemReservations()
	guests := &memGuests{}

	svc := &DefaultWizardService{
		Sessions:     sessions,
		Catalog:      catalog,
		Reservations: reservations,
		Guests:       guests,
		Availability: &AvailabilityResolver{Catalog: catalog, Reservations: reservations},
		Committer:    &Committer{Reservations: reservations},
		Now: func() time.Time {
			return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		},
	}
	return &fixture{svc: svc, sessions: sessions, catalog: catalog, reservations: reservations, guests: guests}
}

// walkToSlot drives the wizard through office, type, item and date so a
// test can start at the slot step.
func (f *fixture) walkToSlot(t *testing.T, flow Flow, key string) {
	t.Helper()
	ctx := context.Background()
	steps := []func() (*models.StepView, error){
		func() (*models.StepView, error) { return f.svc.SubmitOffice(ctx, flow, key, "off-1") },
		func() (*models.StepView, error) { return f.svc.SubmitFacilityType(ctx, flow, key, "ft-1") },
		func() (*models.StepView, error) { return f.svc.SubmitItem(ctx, flow, key, "item-1") },
		func() (*models.StepView, error) { return f.svc.SubmitDate(ctx, flow, key, "2024-01-12") },
	}
	for i, step := range steps {
		if _, err := step(); !isRedirect(err) {
			t.Fatalf("step %d: expected redirect, got %v", i, err)
		}
	}
}

func isRedirect(err error) bool {
	_, ok := RedirectTo(err)
	return ok
}

func TestEnterOfficeSingleOfficeAutoAdvances(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	_, err := f.svc.EnterOffice(ctx, RegisteredFlow, "u1", OfficeEntry{})
	step, ok := RedirectTo(err)
	if !ok || step != models.StepFacilityType {
		t.Fatalf("expected redirect to facility type, got %v", err)
	}

	state, _ := f.sessions.Load(ctx, "user", "u1")
	if state == nil || state.OfficeID != "off-1" {
		t.Fatalf("expected auto-selected office in state, got %+v", state)
	}
}

func TestEnterOfficeMultipleOfficesRendersChoices(t *testing.T) {
	f := newFixture(2)
	ctx := context.Background()

	view, err := f.svc.EnterOffice(ctx, RegisteredFlow, "u1", OfficeEntry{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Options) != 2 {
		t.Fatalf("expected 2 office options, got %d", len(view.Options))
	}
}

func TestEnterOfficeDiscardsStaleState(t *testing.T) {
	f := newFixture(2)
	ctx := context.Background()

	f.sessions.Save(ctx, "user", "u1", &models.WizardState{OfficeID: "off-1", FacilityTypeID: "ft-1"})
	if _, err := f.svc.EnterOffice(ctx, RegisteredFlow, "u1", OfficeEntry{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, _ := f.sessions.Load(ctx, "user", "u1")
	if state != nil {
		t.Fatalf("expected fresh entry to clear state, got %+v", state)
	}
}

func TestGuardRedirectsToFirstMissingStep(t *testing.T) {
	f := newFixture(2)
	ctx := context.Background()

	_, err := f.svc.ViewSlot(ctx, RegisteredFlow, "u1")
	if step, ok := RedirectTo(err); !ok || step != models.StepOffice {
		t.Fatalf("expected redirect to office on empty session, got %v", err)
	}

	f.sessions.Save(ctx, "user", "u1", &models.WizardState{OfficeID: "off-1", FacilityTypeID: "ft-1"})
	_, err = f.svc.ViewSlot(ctx, RegisteredFlow, "u1")
	if step, ok := RedirectTo(err); !ok || step != models.StepItem {
		t.Fatalf("expected redirect to item, got %v", err)
	}
}

func TestSubmitOfficeRejectsUnknownChoice(t *testing.T) {
	f := newFixture(2)
	ctx := context.Background()

	view, err := f.svc.SubmitOffice(ctx, RegisteredFlow, "u1", "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Error == "" {
		t.Fatal("expected validation error on unknown office")
	}
	if state, _ := f.sessions.Load(ctx, "user", "u1"); state != nil && state.OfficeID != "" {
		t.Fatalf("state must not record invalid choice, got %+v", state)
	}
}

func TestChangedOfficeClearsDownstreamSelections(t *testing.T) {
	f := newFixture(2)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")

	if _, err := f.svc.SubmitOffice(ctx, RegisteredFlow, "u1", "off-2"); !isRedirect(err) {
		t.Fatalf("expected redirect, got %v", err)
	}

	state, _ := f.sessions.Load(ctx, "user", "u1")
	if state.FacilityTypeID != "" || state.FacilityItemID != "" {
		t.Fatalf("downstream selections must clear on office change, got %+v", state)
	}
	if state.Date == "" {
		t.Fatal("date should survive an office change")
	}
}

func TestViewDateSuggestsTomorrow(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.sessions.Save(ctx, "user", "u1", &models.WizardState{
		OfficeID: "off-1", FacilityTypeID: "ft-1", FacilityItemID: "item-1",
	})

	view, err := f.svc.ViewDate(ctx, RegisteredFlow, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Selected != "2024-01-11" {
		t.Fatalf("expected tomorrow as default, got %q", view.Selected)
	}
	if view.MinDate != "2024-01-10" || view.MaxDate != "2024-01-16" {
		t.Fatalf("unexpected window: %s .. %s", view.MinDate, view.MaxDate)
	}
}

func TestSubmitDateEnforcesHorizon(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	base := models.WizardState{OfficeID: "off-1", FacilityTypeID: "ft-1", FacilityItemID: "item-1"}

	cases := []struct {
		date string
		ok   bool
	}{
		{"2024-01-10", true},  // today
		{"2024-01-16", true},  // last day of the window
		{"2024-01-17", false}, // one past the window
		{"2024-01-09", false}, // yesterday
		{"not-a-date", false},
	}
	for _, tc := range cases {
		state := base
		f.sessions.Save(ctx, "user", "u1", &state)

		view, err := f.svc.SubmitDate(ctx, RegisteredFlow, "u1", tc.date)
		if tc.ok {
			if step, ok := RedirectTo(err); !ok || step != models.StepSlot {
				t.Fatalf("date %s: expected redirect to slot, got %v", tc.date, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("date %s: unexpected error: %v", tc.date, err)
		}
		if view.Error == "" {
			t.Fatalf("date %s: expected validation error", tc.date)
		}
		if view.Selected != tc.date {
			t.Fatalf("date %s: rejected input should echo back, got %q", tc.date, view.Selected)
		}
		saved, _ := f.sessions.Load(ctx, "user", "u1")
		if saved.Date != "" {
			t.Fatalf("date %s: rejected input must not persist, got %q", tc.date, saved.Date)
		}
	}
}

func TestViewSlotFiltersReservedStarts(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")

	f.reservations.Create(ctx, &models.Reservation{
		FacilityItemID: "item-2", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "other",
	})

	view, err := f.svc.ViewSlot(ctx, RegisteredFlow, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Options) != 2 {
		t.Fatalf("expected 2 free slots, got %d", len(view.Options))
	}
	for _, opt := range view.Options {
		if opt.ID == "tpl-10" {
			t.Fatal("reserved start must be filtered even when booked on a sibling item")
		}
	}
	if view.Info == "" {
		t.Fatal("expected an info message reporting reserved slots")
	}
}

func TestViewSlotReportsNoAvailability(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")

	for i, start := range []int{540, 600, 660} {
		f.reservations.Create(ctx, &models.Reservation{
			ID: "blk" + string(rune('a'+i)), FacilityItemID: "item-2", FacilityTypeID: "ft-1",
			Date: "2024-01-12", Start: start, End: start + 60, UserID: "other",
		})
	}

	view, err := f.svc.ViewSlot(ctx, RegisteredFlow, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Options) != 0 || view.Info == "" {
		t.Fatalf("expected empty options with info message, got %+v", view)
	}
}

func TestSubmitSlotRejectsTakenSlot(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")

	f.reservations.Create(ctx, &models.Reservation{
		FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "other",
	})

	view, err := f.svc.SubmitSlot(ctx, RegisteredFlow, "u1", "tpl-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Error == "" {
		t.Fatal("expected validation error for a taken slot")
	}
}

func TestRegisteredFlowConfirmCreatesReservation(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")

	if _, err := f.svc.SubmitSlot(ctx, RegisteredFlow, "u1", "tpl-10"); !isRedirect(err) {
		t.Fatalf("expected redirect, got %v", err)
	}

	view, err := f.svc.ViewConfirm(ctx, RegisteredFlow, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Item.ID != "item-1" || view.TimeSlot.ID != "tpl-10" || view.Editing {
		t.Fatalf("unexpected confirm view: %+v", view)
	}

	res, err := f.svc.Confirm(ctx, RegisteredFlow, "u1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UserID != "user-1" || res.Date != "2024-01-12" || res.Start != 600 || res.End != 660 {
		t.Fatalf("unexpected reservation: %+v", res)
	}

	if state, _ := f.sessions.Load(ctx, "user", "u1"); state != nil {
		t.Fatalf("state must clear after commit, got %+v", state)
	}
}

func TestConfirmSlotTakenPreservesState(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")
	f.svc.SubmitSlot(ctx, RegisteredFlow, "u1", "tpl-10")

	// Someone else grabs the slot between slot selection and commit.
	f.reservations.Create(ctx, &models.Reservation{
		FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "other",
	})

	_, err := f.svc.Confirm(ctx, RegisteredFlow, "u1", "user-1")
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if state, _ := f.sessions.Load(ctx, "user", "u1"); state == nil {
		t.Fatal("state must survive a slot conflict so the user can re-pick")
	}
}

func TestGuestFlowRequiresContactBeforeConfirm(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, GuestFlow, "g1")
	f.svc.SubmitSlot(ctx, GuestFlow, "g1", "tpl-10")

	_, err := f.svc.ViewConfirm(ctx, GuestFlow, "g1")
	if step, ok := RedirectTo(err); !ok || step != models.StepContact {
		t.Fatalf("expected redirect to contact, got %v", err)
	}

	contact := models.GuestContact{FullName: "Taro Yamada", Phone: "0901234567", Email: "taro@example.com"}
	if err := f.svc.SubmitContact(ctx, GuestFlow, "g1", contact); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.guests.data) != 1 {
		t.Fatalf("expected one guest record, got %d", len(f.guests.data))
	}

	res, err := f.svc.Confirm(ctx, GuestFlow, "g1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.GuestID == "" || res.UserID != "" {
		t.Fatalf("guest reservation must be guest-owned, got %+v", res)
	}
}

func TestGuestAndRegisteredStateDoNotCollide(t *testing.T) {
	f := newFixture(2)
	ctx := context.Background()

	f.svc.SubmitOffice(ctx, RegisteredFlow, "k", "off-1")
	f.svc.SubmitOffice(ctx, GuestFlow, "k", "off-2")

	userState, _ := f.sessions.Load(ctx, "user", "k")
	guestState, _ := f.sessions.Load(ctx, "guest", "k")
	if userState.OfficeID != "off-1" || guestState.OfficeID != "off-2" {
		t.Fatalf("scoped states collided: user=%+v guest=%+v", userState, guestState)
	}
}

func TestEditSeedsStateFromReservation(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.reservations.Create(ctx, &models.Reservation{
		ID: "res-edit", FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "user-1",
	})

	_, err := f.svc.EnterOffice(ctx, RegisteredFlow, "u1", OfficeEntry{EditReservationID: "res-edit", UserID: "user-1"})
	if !isRedirect(err) {
		t.Fatalf("expected redirect (single office), got %v", err)
	}

	state, _ := f.sessions.Load(ctx, "user", "u1")
	if state.FacilityItemID != "item-1" || state.Date != "2024-01-12" || state.TimeSlotID != "tpl-10" {
		t.Fatalf("unexpected seeded state: %+v", state)
	}
	if state.EditingReservationID != "res-edit" {
		t.Fatal("seeded state must remember the reservation being edited")
	}
}

func TestEditOwnSlotStillOffered(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.reservations.Create(ctx, &models.Reservation{
		ID: "res-edit", FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "user-1",
	})
	f.svc.EnterOffice(ctx, RegisteredFlow, "u1", OfficeEntry{EditReservationID: "res-edit", UserID: "user-1"})

	view, err := f.svc.ViewSlot(ctx, RegisteredFlow, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Options) != 3 {
		t.Fatalf("own reservation must not count as taken, got %d options", len(view.Options))
	}
	if view.Selected != "tpl-10" {
		t.Fatalf("expected current slot preselected, got %q", view.Selected)
	}
}

func TestEditConfirmUpdatesInPlace(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.reservations.Create(ctx, &models.Reservation{
		ID: "res-edit", FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "user-1",
	})
	f.svc.EnterOffice(ctx, RegisteredFlow, "u1", OfficeEntry{EditReservationID: "res-edit", UserID: "user-1"})
	if _, err := f.svc.SubmitSlot(ctx, RegisteredFlow, "u1", "tpl-11"); !isRedirect(err) {
		t.Fatalf("expected redirect, got %v", err)
	}

	res, err := f.svc.Confirm(ctx, RegisteredFlow, "u1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != "res-edit" || res.Start != 660 {
		t.Fatalf("expected in-place update, got %+v", res)
	}
	if len(f.reservations.data) != 1 {
		t.Fatalf("edit must not create a second reservation, have %d", len(f.reservations.data))
	}
}

func TestEditForbiddenForNonOwner(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.reservations.Create(ctx, &models.Reservation{
		ID: "res-edit", FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "user-1",
	})

	_, err := f.svc.EnterOffice(ctx, RegisteredFlow, "u2", OfficeEntry{EditReservationID: "res-edit", UserID: "user-2"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEditGoneReservation(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	_, err := f.svc.EnterOffice(ctx, RegisteredFlow, "u1", OfficeEntry{EditReservationID: "missing", UserID: "user-1"})
	if !errors.Is(err, ErrReservationGone) {
		t.Fatalf("expected ErrReservationGone, got %v", err)
	}
}

func TestDeletedItemMidFlowClearsSession(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")

	f.catalog.DeleteFacilityItem(ctx, "item-1")

	_, err := f.svc.ViewSlot(ctx, RegisteredFlow, "u1")
	if !errors.Is(err, ErrEntityGone) {
		t.Fatalf("expected ErrEntityGone, got %v", err)
	}
	if state, _ := f.sessions.Load(ctx, "user", "u1"); state != nil {
		t.Fatalf("state must clear when a staged entity vanishes, got %+v", state)
	}
}

func TestCancelDiscardsRun(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	f.walkToSlot(t, RegisteredFlow, "u1")

	if err := f.svc.Cancel(ctx, RegisteredFlow, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state, _ := f.sessions.Load(ctx, "user", "u1"); state != nil {
		t.Fatalf("expected cleared state, got %+v", state)
	}
}
