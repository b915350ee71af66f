// File: database/repository/catalog/catalog_mongo.go
package catalogRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotbook/models"
)

const queryTimeout = 5 * time.Second

func (r *mongoCatalogRepo) ListOffices(ctx context.Context) ([]models.Office, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.officeColl.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var offices []models.Office
	if err := cursor.All(ctx, &offices); err != nil {
		return nil, err
	}
	return offices, nil
}

func (r *mongoCatalogRepo) GetOffice(ctx context.Context, id string) (*models.Office, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var office models.Office
	if err := r.officeColl.FindOne(ctx, bson.M{"id": id}).Decode(&office); err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *mongoCatalogRepo) CreateOffice(ctx context.Context, office *models.Office) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if office.ID == "" {
		office.ID = uuid.New().String()
	}
	_, err := r.officeColl.InsertOne(ctx, office)
	return err
}

func (r *mongoCatalogRepo) DeleteOffice(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.officeColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCatalogRepo) ListFacilityTypes(ctx context.Context, officeID string) ([]models.FacilityType, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.typeColl.Find(ctx, bson.M{"officeId": officeID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []models.FacilityType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *mongoCatalogRepo) GetFacilityType(ctx context.Context, id string) (*models.FacilityType, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ft models.FacilityType
	if err := r.typeColl.FindOne(ctx, bson.M{"id": id}).Decode(&ft); err != nil {
		return nil, err
	}
	return &ft, nil
}

func (r *mongoCatalogRepo) CreateFacilityType(ctx context.Context, ft *models.FacilityType) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if ft.ID == "" {
		ft.ID = uuid.New().String()
	}
	_, err := r.typeColl.InsertOne(ctx, ft)
	return err
}

func (r *mongoCatalogRepo) UpdateFacilityType(ctx context.Context, ft *models.FacilityType) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": ft.Name, "description": ft.Description}}
	res, err := r.typeColl.UpdateOne(ctx, bson.M{"id": ft.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCatalogRepo) DeleteFacilityType(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.typeColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCatalogRepo) ListFacilityItems(ctx context.Context, facilityTypeID string) ([]models.FacilityItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.itemColl.Find(ctx, bson.M{"facilityTypeId": facilityTypeID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.FacilityItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoCatalogRepo) GetFacilityItem(ctx context.Context, id string) (*models.FacilityItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var item models.FacilityItem
	if err := r.itemColl.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mongoCatalogRepo) CreateFacilityItem(ctx context.Context, item *models.FacilityItem) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := r.itemColl.InsertOne(ctx, item)
	return err
}

func (r *mongoCatalogRepo) UpdateFacilityItem(ctx context.Context, item *models.FacilityItem) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": item.Name, "description": item.Description}}
	res, err := r.itemColl.UpdateOne(ctx, bson.M{"id": item.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCatalogRepo) DeleteFacilityItem(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.itemColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteFacilityItemsByType removes all items under a facility type and
// returns their ids so the caller can cascade to reservations.
func (r *mongoCatalogRepo) DeleteFacilityItemsByType(ctx context.Context, facilityTypeID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.itemColl.Find(ctx, bson.M{"facilityTypeId": facilityTypeID},
		options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.FacilityItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	if _, err := r.itemColl.DeleteMany(ctx, bson.M{"facilityTypeId": facilityTypeID}); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *mongoCatalogRepo) ListTimeSlotTemplates(ctx context.Context, facilityTypeID string) ([]models.TimeSlotTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.templateColl.Find(ctx, bson.M{"facilityTypeId": facilityTypeID},
		options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []models.TimeSlotTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *mongoCatalogRepo) GetTimeSlotTemplate(ctx context.Context, id string) (*models.TimeSlotTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var tpl models.TimeSlotTemplate
	if err := r.templateColl.FindOne(ctx, bson.M{"id": id}).Decode(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// FindTemplateByWindow resolves a reservation's stored start/end back to
// the template it was created from. Returns mongo.ErrNoDocuments when no
// template matches (the template may have been edited since).
func (r *mongoCatalogRepo) FindTemplateByWindow(ctx context.Context, facilityTypeID string, start, end int) (*models.TimeSlotTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"facilityTypeId": facilityTypeID, "start": start, "end": end}
	var tpl models.TimeSlotTemplate
	if err := r.templateColl.FindOne(ctx, filter).Decode(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ReplaceTimeSlotTemplates swaps the full template set of a facility
// type. Overlap validation happens in the catalog service before this
// is called.
func (r *mongoCatalogRepo) ReplaceTimeSlotTemplates(ctx context.Context, facilityTypeID string, templates []models.TimeSlotTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.templateColl.DeleteMany(ctx, bson.M{"facilityTypeId": facilityTypeID}); err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}
	docs := make([]interface{}, len(templates))
	for i := range templates {
		if templates[i].ID == "" {
			templates[i].ID = uuid.New().String()
		}
		templates[i].FacilityTypeID = facilityTypeID
		docs[i] = templates[i]
	}
	_, err := r.templateColl.InsertMany(ctx, docs)
	return err
}

func (r *mongoCatalogRepo) DeleteTimeSlotTemplatesByType(ctx context.Context, facilityTypeID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.templateColl.DeleteMany(ctx, bson.M{"facilityTypeId": facilityTypeID})
	return err
}
