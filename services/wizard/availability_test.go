package wizard

import (
	"context"
	"testing"

	"slotbook/models"
)

func availabilityFixture() (*AvailabilityResolver, *memReservations) {
	catalog := &memCatalog{
		templates: []models.TimeSlotTemplate{
			{ID: "tpl-11", FacilityTypeID: "ft-1", Start: 660, End: 720},
			{ID: "tpl-9", FacilityTypeID: "ft-1", Start: 540, End: 600},
			{ID: "tpl-10", FacilityTypeID: "ft-1", Start: 600, End: 660},
		},
	}
	reservations := newMemReservations()
	return &AvailabilityResolver{Catalog: catalog, Reservations: reservations}, reservations
}

var availItem = &models.FacilityItem{ID: "item-1", FacilityTypeID: "ft-1"}

func TestResolveOrdersByStart(t *testing.T) {
	resolver, _ := availabilityFixture()

	slots, reserved, err := resolver.Resolve(context.Background(), availItem, "2024-01-12", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reserved != 0 {
		t.Fatalf("expected no reserved slots, got %d", reserved)
	}
	for i := 1; i < len(slots); i++ {
		if slots[i-1].Start >= slots[i].Start {
			t.Fatalf("slots not ordered by start: %+v", slots)
		}
	}
}

func TestResolveFiltersTakenStartsAcrossItems(t *testing.T) {
	resolver, reservations := availabilityFixture()
	ctx := context.Background()

	// Booked on a sibling item of the same facility type.
	reservations.Create(ctx, &models.Reservation{
		FacilityItemID: "item-2", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "other",
	})
	// Same start on a different date must not count.
	reservations.Create(ctx, &models.Reservation{
		FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-13", Start: 540, End: 600, UserID: "other",
	})

	slots, reserved, err := resolver.Resolve(ctx, availItem, "2024-01-12", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 || reserved != 1 {
		t.Fatalf("expected 2 free and 1 reserved, got %d free %d reserved", len(slots), reserved)
	}
	for _, s := range slots {
		if s.Start == 600 {
			t.Fatal("taken start leaked into availability")
		}
	}
}

func TestResolveExcludesEditedReservation(t *testing.T) {
	resolver, reservations := availabilityFixture()
	ctx := context.Background()

	reservations.Create(ctx, &models.Reservation{
		ID: "mine", FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "user-1",
	})

	slots, reserved, err := resolver.Resolve(ctx, availItem, "2024-01-12", "mine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 3 || reserved != 0 {
		t.Fatalf("own reservation must not count as taken, got %d free %d reserved", len(slots), reserved)
	}
}
