// File: services/catalog/catalog.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	catalogRepo "slotbook/database/repository/catalog"
	reservationRepo "slotbook/database/repository/reservation"
	"slotbook/models"
	"slotbook/utils"
)

// ErrNotFound signals that the referenced catalog entity does not exist.
var ErrNotFound = errors.New("catalog entity not found")

// ErrTemplateWindow signals a template whose window is not a valid
// on-the-hour interval within one day.
var ErrTemplateWindow = errors.New("time slot windows must start and end on the hour, with start before end")

// ErrTemplateOverlap signals two templates of the same facility type
// sharing part of their window.
var ErrTemplateOverlap = errors.New("time slot windows of one facility type must not overlap")

// CatalogService manages the Office -> FacilityType -> FacilityItem
// hierarchy and the time slot templates each facility type owns.
// Destructive operations cascade so the reservation store never refers
// to catalog entities that were removed together with their type.
type CatalogService interface {
	ListOffices(ctx context.Context) ([]models.Office, error)
	CreateOffice(ctx context.Context, office *models.Office) error
	DeleteOffice(ctx context.Context, id string) error

	ListFacilityTypes(ctx context.Context, officeID string) ([]models.FacilityType, error)
	GetFacilityType(ctx context.Context, id string) (*models.FacilityType, error)
	CreateFacilityType(ctx context.Context, ft *models.FacilityType, templates []models.TimeSlotTemplate) error
	UpdateFacilityType(ctx context.Context, ft *models.FacilityType, templates []models.TimeSlotTemplate) error
	DeleteFacilityType(ctx context.Context, id string) error

	ListFacilityItems(ctx context.Context, facilityTypeID string) ([]models.FacilityItem, error)
	CreateFacilityItem(ctx context.Context, item *models.FacilityItem) error
	UpdateFacilityItem(ctx context.Context, item *models.FacilityItem) error
	DeleteFacilityItem(ctx context.Context, id string) error

	ListTimeSlotTemplates(ctx context.Context, facilityTypeID string) ([]models.TimeSlotTemplate, error)
}

// DefaultCatalogService implements CatalogService on the catalog and
// reservation repositories.
type DefaultCatalogService struct {
	Catalog      catalogRepo.CatalogRepository
	Reservations reservationRepo.ReservationRepository
}

// NewCatalogService constructs the default catalog service.
func NewCatalogService(catalog catalogRepo.CatalogRepository, reservations reservationRepo.ReservationRepository) *DefaultCatalogService {
	return &DefaultCatalogService{Catalog: catalog, Reservations: reservations}
}

// ValidateTemplates checks the window invariant for one facility type's
// template set: every window starts and ends on the hour, starts before
// it ends, stays within one day, and no two windows overlap. Windows
// that merely touch are allowed.
func ValidateTemplates(templates []models.TimeSlotTemplate) error {
	for _, t := range templates {
		if t.Start%60 != 0 || t.End%60 != 0 {
			return ErrTemplateWindow
		}
		if t.Start < 0 || t.End > 24*60 || t.Start >= t.End {
			return ErrTemplateWindow
		}
	}
	sorted := make([]models.TimeSlotTemplate, len(templates))
	copy(sorted, templates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return ErrTemplateOverlap
		}
	}
	return nil
}

func (s *DefaultCatalogService) ListOffices(ctx context.Context) ([]models.Office, error) {
	return s.Catalog.ListOffices(ctx)
}

func (s *DefaultCatalogService) CreateOffice(ctx context.Context, office *models.Office) error {
	return s.Catalog.CreateOffice(ctx, office)
}

// DeleteOffice removes an office together with every facility type it
// owns, cascading through items, templates and their reservations.
func (s *DefaultCatalogService) DeleteOffice(ctx context.Context, id string) error {
	if _, err := s.Catalog.GetOffice(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load office: %w", err)
	}

	types, err := s.Catalog.ListFacilityTypes(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list facility types: %w", err)
	}
	for _, ft := range types {
		if err := s.DeleteFacilityType(ctx, ft.ID); err != nil {
			return err
		}
	}
	return s.Catalog.DeleteOffice(ctx, id)
}

func (s *DefaultCatalogService) ListFacilityTypes(ctx context.Context, officeID string) ([]models.FacilityType, error) {
	return s.Catalog.ListFacilityTypes(ctx, officeID)
}

func (s *DefaultCatalogService) GetFacilityType(ctx context.Context, id string) (*models.FacilityType, error) {
	ft, err := s.Catalog.GetFacilityType(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ft, nil
}

func (s *DefaultCatalogService) CreateFacilityType(ctx context.Context, ft *models.FacilityType, templates []models.TimeSlotTemplate) error {
	if _, err := s.Catalog.GetOffice(ctx, ft.OfficeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load office: %w", err)
	}
	if err := ValidateTemplates(templates); err != nil {
		return err
	}
	if err := s.Catalog.CreateFacilityType(ctx, ft); err != nil {
		return fmt.Errorf("failed to create facility type: %w", err)
	}
	return s.Catalog.ReplaceTimeSlotTemplates(ctx, ft.ID, templates)
}

// UpdateFacilityType rewrites the type's fields and replaces its full
// template set. Reservations keep the start/end they were booked with,
// so replacing templates never rewrites committed bookings.
func (s *DefaultCatalogService) UpdateFacilityType(ctx context.Context, ft *models.FacilityType, templates []models.TimeSlotTemplate) error {
	existing, err := s.Catalog.GetFacilityType(ctx, ft.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load facility type: %w", err)
	}
	ft.OfficeID = existing.OfficeID

	if err := ValidateTemplates(templates); err != nil {
		return err
	}
	if err := s.Catalog.UpdateFacilityType(ctx, ft); err != nil {
		return fmt.Errorf("failed to update facility type: %w", err)
	}
	return s.Catalog.ReplaceTimeSlotTemplates(ctx, ft.ID, templates)
}

// DeleteFacilityType cascades: the type's items go away along with the
// reservations that booked them, then the type's templates, then the
// type itself.
func (s *DefaultCatalogService) DeleteFacilityType(ctx context.Context, id string) error {
	if _, err := s.Catalog.GetFacilityType(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load facility type: %w", err)
	}

	itemIDs, err := s.Catalog.DeleteFacilityItemsByType(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete facility items: %w", err)
	}
	if len(itemIDs) > 0 {
		if err := s.Reservations.DeleteByItemIDs(ctx, itemIDs); err != nil {
			return fmt.Errorf("failed to delete reservations of removed items: %w", err)
		}
	}
	if err := s.Catalog.DeleteTimeSlotTemplatesByType(ctx, id); err != nil {
		return fmt.Errorf("failed to delete time slot templates: %w", err)
	}
	if err := s.Catalog.DeleteFacilityType(ctx, id); err != nil {
		return fmt.Errorf("failed to delete facility type: %w", err)
	}

	utils.GetLogger().Info("Facility type deleted",
		zap.String("facilityTypeId", id),
		zap.Int("cascadedItems", len(itemIDs)),
	)
	return nil
}

func (s *DefaultCatalogService) ListFacilityItems(ctx context.Context, facilityTypeID string) ([]models.FacilityItem, error) {
	return s.Catalog.ListFacilityItems(ctx, facilityTypeID)
}

func (s *DefaultCatalogService) CreateFacilityItem(ctx context.Context, item *models.FacilityItem) error {
	if _, err := s.Catalog.GetFacilityType(ctx, item.FacilityTypeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load facility type: %w", err)
	}
	return s.Catalog.CreateFacilityItem(ctx, item)
}

func (s *DefaultCatalogService) UpdateFacilityItem(ctx context.Context, item *models.FacilityItem) error {
	existing, err := s.Catalog.GetFacilityItem(ctx, item.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load facility item: %w", err)
	}
	item.FacilityTypeID = existing.FacilityTypeID
	return s.Catalog.UpdateFacilityItem(ctx, item)
}

// DeleteFacilityItem removes one item. Its reservations survive with
// the item reference detached; the denormalized facility type id keeps
// availability counts correct for the remaining items.
func (s *DefaultCatalogService) DeleteFacilityItem(ctx context.Context, id string) error {
	if _, err := s.Catalog.GetFacilityItem(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load facility item: %w", err)
	}
	if err := s.Reservations.DetachItem(ctx, id); err != nil {
		return fmt.Errorf("failed to detach reservations: %w", err)
	}
	return s.Catalog.DeleteFacilityItem(ctx, id)
}

func (s *DefaultCatalogService) ListTimeSlotTemplates(ctx context.Context, facilityTypeID string) ([]models.TimeSlotTemplate, error) {
	return s.Catalog.ListTimeSlotTemplates(ctx, facilityTypeID)
}
