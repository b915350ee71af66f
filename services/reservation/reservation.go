// File: services/reservation/reservation.go
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	catalogRepo "slotbook/database/repository/catalog"
	guestRepo "slotbook/database/repository/guest"
	reservationRepo "slotbook/database/repository/reservation"
	userRepo "slotbook/database/repository/user"
	"slotbook/models"
)

const dateLayout = "2006-01-02"

// ErrNotFound signals that the reservation does not exist.
var ErrNotFound = errors.New("reservation not found")

// ErrForbidden signals that the requester neither owns the reservation
// nor holds the manager role.
var ErrForbidden = errors.New("reservation does not belong to the requester")

// ReservationService covers everything around committed reservations
// that is not the booking wizard itself: per-user listing, deletion and
// the manager-facing search.
type ReservationService interface {
	ListUpcoming(ctx context.Context, userID string) ([]models.ReservationDetail, error)
	Get(ctx context.Context, id string) (*models.Reservation, error)
	Delete(ctx context.Context, id, requesterID string, manager bool) error
	Search(ctx context.Context, criteria models.ReservationSearchCriteria) ([]models.ReservationDetail, error)
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Reservations reservationRepo.ReservationRepository
	Catalog      catalogRepo.CatalogRepository
	Users        userRepo.UserRepository
	Guests       guestRepo.GuestRepository

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListUpcoming returns the user's reservations that have not ended yet,
// joined with catalog names for display.
func (s *DefaultReservationService) ListUpcoming(ctx context.Context, userID string) ([]models.ReservationDetail, error) {
	now := s.now()
	date := now.Format(dateLayout)
	nowMinutes := now.Hour()*60 + now.Minute()

	reservations, err := s.Reservations.ListUpcomingByUser(ctx, userID, date, nowMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return s.joinDetails(ctx, reservations)
}

func (s *DefaultReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// Delete removes a reservation. Owners may delete their own bookings;
// managers may delete any.
func (s *DefaultReservationService) Delete(ctx context.Context, id, requesterID string, manager bool) error {
	res, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load reservation: %w", err)
	}
	if !manager && (res.UserID == "" || res.UserID != requesterID) {
		return ErrForbidden
	}
	return s.Reservations.Delete(ctx, id)
}

// Search finds reservations for the manager view. Contact filters match
// by prefix against both registered users and guest records; when any
// contact filter is set, only reservations of the matching parties are
// returned.
func (s *DefaultReservationService) Search(ctx context.Context, criteria models.ReservationSearchCriteria) ([]models.ReservationDetail, error) {
	var userIDs, guestIDs []string
	restrict := criteria.Name != "" || criteria.Phone != "" || criteria.Email != ""
	if restrict {
		var err error
		userIDs, err = s.Users.FindIDsByPrefix(ctx, criteria.Name, criteria.Phone, criteria.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to match users: %w", err)
		}
		guestIDs, err = s.Guests.FindIDsByPrefix(ctx, criteria.Name, criteria.Phone, criteria.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to match guests: %w", err)
		}
	}

	reservations, err := s.Reservations.Search(ctx, userIDs, guestIDs, restrict, criteria.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("failed to search reservations: %w", err)
	}
	return s.joinDetails(ctx, reservations)
}

// joinDetails resolves catalog names for each reservation. Lookups are
// memoized per call; a detached or deleted item leaves its name empty
// while the denormalized facility type still resolves.
func (s *DefaultReservationService) joinDetails(ctx context.Context, reservations []models.Reservation) ([]models.ReservationDetail, error) {
	items := map[string]*models.FacilityItem{}
	types := map[string]*models.FacilityType{}
	offices := map[string]*models.Office{}

	details := make([]models.ReservationDetail, 0, len(reservations))
	for _, res := range reservations {
		detail := models.ReservationDetail{Reservation: res}

		if res.FacilityItemID != "" {
			item, ok := items[res.FacilityItemID]
			if !ok {
				var err error
				item, err = s.Catalog.GetFacilityItem(ctx, res.FacilityItemID)
				if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
					return nil, fmt.Errorf("failed to load facility item: %w", err)
				}
				items[res.FacilityItemID] = item
			}
			if item != nil {
				detail.FacilityItemName = item.Name
			}
		}

		ft, ok := types[res.FacilityTypeID]
		if !ok {
			var err error
			ft, err = s.Catalog.GetFacilityType(ctx, res.FacilityTypeID)
			if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("failed to load facility type: %w", err)
			}
			types[res.FacilityTypeID] = ft
		}
		if ft != nil {
			detail.FacilityTypeName = ft.Name

			office, ok := offices[ft.OfficeID]
			if !ok {
				var err error
				office, err = s.Catalog.GetOffice(ctx, ft.OfficeID)
				if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
					return nil, fmt.Errorf("failed to load office: %w", err)
				}
				offices[ft.OfficeID] = office
			}
			if office != nil {
				detail.OfficeName = office.Name
			}
		}

		details = append(details, detail)
	}
	return details, nil
}
