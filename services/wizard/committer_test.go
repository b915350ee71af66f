package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"slotbook/models"
)

func commitFixture() (*Committer, *memReservations) {
	reservations := newMemReservations()
	return &Committer{Reservations: reservations}, reservations
}

func slotRequest(userID string) CommitRequest {
	return CommitRequest{
		Item:     &models.FacilityItem{ID: "item-1", FacilityTypeID: "ft-1"},
		Date:     "2024-01-12",
		Template: &models.TimeSlotTemplate{ID: "tpl-10", Start: 600, End: 660},
		UserID:   userID,
	}
}

func TestCommitCreatesReservation(t *testing.T) {
	committer, reservations := commitFixture()

	res, err := committer.Commit(context.Background(), slotRequest("user-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID == "" || res.FacilityTypeID != "ft-1" {
		t.Fatalf("unexpected reservation: %+v", res)
	}
	if len(reservations.data) != 1 {
		t.Fatalf("expected 1 stored reservation, got %d", len(reservations.data))
	}
}

func TestCommitDetectsConflict(t *testing.T) {
	committer, _ := commitFixture()
	ctx := context.Background()

	if _, err := committer.Commit(ctx, slotRequest("user-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := committer.Commit(ctx, slotRequest("user-2")); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

// TestCommitRaceSingleWinner drives concurrent commits for the same
// slot; the store-level uniqueness guarantee must let exactly one
// through regardless of interleaving.
func TestCommitRaceSingleWinner(t *testing.T) {
	committer, reservations := commitFixture()
	ctx := context.Background()

	const contenders = 8
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = committer.Commit(ctx, slotRequest("user"))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrSlotTaken):
		default:
			t.Fatalf("contender %d: unexpected error: %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
	if len(reservations.data) != 1 {
		t.Fatalf("expected 1 stored reservation, got %d", len(reservations.data))
	}
}

func TestCommitEditMovesReservation(t *testing.T) {
	committer, reservations := commitFixture()
	ctx := context.Background()

	reservations.Create(ctx, &models.Reservation{
		ID: "res-1", FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 540, End: 600, UserID: "user-1",
	})

	req := slotRequest("user-1")
	req.EditingReservationID = "res-1"
	res, err := committer.Commit(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != "res-1" || res.Start != 600 {
		t.Fatalf("expected in-place move, got %+v", res)
	}
	if len(reservations.data) != 1 {
		t.Fatalf("expected 1 stored reservation, got %d", len(reservations.data))
	}
}

func TestCommitEditKeepingSameSlotSucceeds(t *testing.T) {
	committer, reservations := commitFixture()
	ctx := context.Background()

	reservations.Create(ctx, &models.Reservation{
		ID: "res-1", FacilityItemID: "item-1", FacilityTypeID: "ft-1",
		Date: "2024-01-12", Start: 600, End: 660, UserID: "user-1",
	})

	req := slotRequest("user-1")
	req.EditingReservationID = "res-1"
	if _, err := committer.Commit(ctx, req); err != nil {
		t.Fatalf("keeping the same slot must not conflict with itself: %v", err)
	}
}

func TestCommitEditGoneReservation(t *testing.T) {
	committer, _ := commitFixture()

	req := slotRequest("user-1")
	req.EditingReservationID = "missing"
	if _, err := committer.Commit(context.Background(), req); !errors.Is(err, ErrReservationGone) {
		t.Fatalf("expected ErrReservationGone, got %v", err)
	}
}
