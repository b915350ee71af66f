package wizard

import (
	"context"
	"fmt"
	"sort"

	catalogRepo "slotbook/database/repository/catalog"
	reservationRepo "slotbook/database/repository/reservation"
	"slotbook/models"
)

// AvailabilityResolver computes the bookable windows for a facility
// item on a date. It is a pure read over catalog and reservation state
// at call time; it does not lock or reserve anything, so its result is
// only advisory for the commit that follows.
type AvailabilityResolver struct {
	Catalog      catalogRepo.CatalogRepository
	Reservations reservationRepo.ReservationRepository
}

// Resolve returns the item's templates whose start time is not already
// reserved for the item's facility type on the given date, ordered by
// start ascending, plus the count of templates filtered out. When
// excludeReservationID is set (edit mode), that reservation's start
// time does not count as taken, so a user can keep their own slot.
func (r *AvailabilityResolver) Resolve(ctx context.Context, item *models.FacilityItem, date, excludeReservationID string) ([]models.TimeSlotTemplate, int, error) {
	templates, err := r.Catalog.ListTimeSlotTemplates(ctx, item.FacilityTypeID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time slot templates: %w", err)
	}

	takenStarts, err := r.Reservations.TakenStarts(ctx, item.FacilityTypeID, date, excludeReservationID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reserved start times: %w", err)
	}
	taken := make(map[int]struct{}, len(takenStarts))
	for _, s := range takenStarts {
		taken[s] = struct{}{}
	}

	// Matching on start time alone is sufficient: templates of one
	// facility type never overlap, so equal starts imply equal ends.
	available := make([]models.TimeSlotTemplate, 0, len(templates))
	for _, tpl := range templates {
		if _, ok := taken[tpl.Start]; !ok {
			available = append(available, tpl)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i].Start < available[j].Start })

	return available, len(templates) - len(available), nil
}
