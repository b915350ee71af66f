package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reservationRepo "slotbook/database/repository/reservation"
	"slotbook/models"
)

// CommitRequest carries everything the committer needs to create or
// update one reservation. Exactly one of UserID/GuestID must be set.
type CommitRequest struct {
	Item                 *models.FacilityItem
	Date                 string
	Template             *models.TimeSlotTemplate
	UserID               string
	GuestID              string
	EditingReservationID string
}

// Committer finalizes a wizard run: it re-validates non-conflict at
// commit time and either creates a new reservation or overwrites the
// one being edited. The application-level check is an early exit; the
// storage layer's unique slot index is what actually closes the
// check-then-act race between concurrent requests.
type Committer struct {
	Reservations reservationRepo.ReservationRepository
}

// Commit performs the conflict-checked create or update. It returns
// ErrSlotTaken when the slot is already reserved by someone else and
// ErrReservationGone when the edit target vanished mid-flow.
func (c *Committer) Commit(ctx context.Context, req CommitRequest) (*models.Reservation, error) {
	count, err := c.Reservations.CountBySlot(ctx, req.Item.ID, req.Date,
		req.Template.Start, req.Template.End, req.EditingReservationID)
	if err != nil {
		return nil, fmt.Errorf("conflict check failed: %w", err)
	}
	if count > 0 {
		return nil, ErrSlotTaken
	}

	if req.EditingReservationID != "" {
		existing, err := c.Reservations.GetByID(ctx, req.EditingReservationID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrReservationGone
			}
			return nil, fmt.Errorf("failed to load reservation being edited: %w", err)
		}

		existing.FacilityItemID = req.Item.ID
		existing.FacilityTypeID = req.Item.FacilityTypeID
		existing.Date = req.Date
		existing.Start = req.Template.Start
		existing.End = req.Template.End
		existing.UserID = req.UserID

		if err := c.Reservations.Update(ctx, existing); err != nil {
			if reservationRepo.IsDuplicateSlot(err) {
				return nil, ErrSlotTaken
			}
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrReservationGone
			}
			return nil, fmt.Errorf("failed to update reservation: %w", err)
		}
		return existing, nil
	}

	res := &models.Reservation{
		FacilityItemID: req.Item.ID,
		FacilityTypeID: req.Item.FacilityTypeID,
		Date:           req.Date,
		Start:          req.Template.Start,
		End:            req.Template.End,
		UserID:         req.UserID,
		GuestID:        req.GuestID,
		CreatedAt:      time.Now(),
	}
	if err := c.Reservations.Create(ctx, res); err != nil {
		if reservationRepo.IsDuplicateSlot(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return res, nil
}
