// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/database"
	"slotbook/models"
)

// ReservationRepository owns the reservation store. The uniqueness of
// (facilityItemId, date, start, end) is enforced by a unique index, so
// concurrent creates for the same slot cannot both succeed; the
// application-level conflict check is an early exit only.
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	Update(ctx context.Context, res *models.Reservation) error
	Delete(ctx context.Context, id string) error

	// CountBySlot counts reservations occupying the exact
	// (item, date, start, end) tuple, minus excludeID when non-empty.
	CountBySlot(ctx context.Context, itemID, date string, start, end int, excludeID string) (int64, error)

	// TakenStarts returns the distinct reserved start times for a
	// facility type on a date, minus excludeID when non-empty.
	TakenStarts(ctx context.Context, facilityTypeID, date string, excludeID string) ([]int, error)

	// ListUpcomingByUser returns a user's reservations that have not
	// ended yet relative to the given date and minutes-of-day, newest
	// date first, then by start time.
	ListUpcomingByUser(ctx context.Context, userID, date string, nowMinutes int) ([]models.Reservation, error)

	// Search filters by owning party and a date lower bound. Empty id
	// slices with restrict=false mean "any party".
	Search(ctx context.Context, userIDs, guestIDs []string, restrict bool, dateFrom string) ([]models.Reservation, error)

	// DetachItem clears the item reference on reservations whose
	// facility item was deleted while the reservation survives.
	DetachItem(ctx context.Context, itemID string) error

	// DeleteByItemIDs removes reservations cascaded away with their
	// facility type.
	DeleteByItemIDs(ctx context.Context, itemIDs []string) error

	EnsureIndexes() error
}

type mongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs a MongoDB-backed ReservationRepository.
func NewMongoReservationRepo() ReservationRepository {
	return &mongoReservationRepo{
		coll: database.DB().Collection("reservations"),
	}
}

// IsDuplicateSlot reports whether an error from Create or Update means
// the unique slot index rejected the write, i.e. another reservation
// already holds that (item, date, start, end) tuple.
func IsDuplicateSlot(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
