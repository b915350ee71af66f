// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/database"
	"slotbook/models"
)

// CatalogRepository provides access to the facility catalog hierarchy:
// Office -> FacilityType -> FacilityItem, plus the time slot templates
// owned by each facility type. The reservation wizard only reads it;
// mutations come from the catalog management endpoints.
type CatalogRepository interface {
	ListOffices(ctx context.Context) ([]models.Office, error)
	GetOffice(ctx context.Context, id string) (*models.Office, error)
	CreateOffice(ctx context.Context, office *models.Office) error
	DeleteOffice(ctx context.Context, id string) error

	ListFacilityTypes(ctx context.Context, officeID string) ([]models.FacilityType, error)
	GetFacilityType(ctx context.Context, id string) (*models.FacilityType, error)
	CreateFacilityType(ctx context.Context, ft *models.FacilityType) error
	UpdateFacilityType(ctx context.Context, ft *models.FacilityType) error
	DeleteFacilityType(ctx context.Context, id string) error

	ListFacilityItems(ctx context.Context, facilityTypeID string) ([]models.FacilityItem, error)
	GetFacilityItem(ctx context.Context, id string) (*models.FacilityItem, error)
	CreateFacilityItem(ctx context.Context, item *models.FacilityItem) error
	UpdateFacilityItem(ctx context.Context, item *models.FacilityItem) error
	DeleteFacilityItem(ctx context.Context, id string) error
	DeleteFacilityItemsByType(ctx context.Context, facilityTypeID string) ([]string, error)

	ListTimeSlotTemplates(ctx context.Context, facilityTypeID string) ([]models.TimeSlotTemplate, error)
	GetTimeSlotTemplate(ctx context.Context, id string) (*models.TimeSlotTemplate, error)
	FindTemplateByWindow(ctx context.Context, facilityTypeID string, start, end int) (*models.TimeSlotTemplate, error)
	ReplaceTimeSlotTemplates(ctx context.Context, facilityTypeID string, templates []models.TimeSlotTemplate) error
	DeleteTimeSlotTemplatesByType(ctx context.Context, facilityTypeID string) error

	EnsureIndexes() error
}

type mongoCatalogRepo struct {
	officeColl   *mongo.Collection
	typeColl     *mongo.Collection
	itemColl     *mongo.Collection
	templateColl *mongo.Collection
}

// NewMongoCatalogRepo constructs a MongoDB-backed CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		officeColl:   db.Collection("offices"),
		typeColl:     db.Collection("facility_types"),
		itemColl:     db.Collection("facility_items"),
		templateColl: db.Collection("timeslot_templates"),
	}
}
