// File: database/repository/reservation/reservation_mongo.go
package reservationRepo

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

func (r *mongoReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, res)
	return err
}

func (r *mongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Update overwrites the five bookable fields and the owning user in one
// write. CreatedAt is never touched.
func (r *mongoReservationRepo) Update(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"facilityItemId": res.FacilityItemID,
		"facilityTypeId": res.FacilityTypeID,
		"date":           res.Date,
		"start":          res.Start,
		"end":            res.End,
		"userId":         res.UserID,
	}}
	out, err := r.coll.UpdateOne(ctx, bson.M{"id": res.ID}, update)
	if err != nil {
		return err
	}
	if out.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoReservationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoReservationRepo) CountBySlot(ctx context.Context, itemID, date string, start, end int, excludeID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"facilityItemId": itemID,
		"date":           date,
		"start":          start,
		"end":            end,
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *mongoReservationRepo) TakenStarts(ctx context.Context, facilityTypeID, date string, excludeID string) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"facilityTypeId": facilityTypeID, "date": date}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	raw, err := r.coll.Distinct(ctx, "start", filter)
	if err != nil {
		return nil, err
	}

	starts := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int32:
			starts = append(starts, int(n))
		case int64:
			starts = append(starts, int(n))
		case int:
			starts = append(starts, n)
		}
	}
	return starts, nil
}

func (r *mongoReservationRepo) ListUpcomingByUser(ctx context.Context, userID, date string, nowMinutes int) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"userId": userID,
		"$or": bson.A{
			bson.M{"date": bson.M{"$gt": date}},
			bson.M{"date": date, "end": bson.M{"$gt": nowMinutes}},
		},
	}
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoReservationRepo) Search(ctx context.Context, userIDs, guestIDs []string, restrict bool, dateFrom string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if restrict {
		filter["$or"] = bson.A{
			bson.M{"userId": bson.M{"$in": userIDs}},
			bson.M{"guestId": bson.M{"$in": guestIDs}},
		}
	}
	if dateFrom != "" {
		filter["date"] = bson.M{"$gte": dateFrom}
	}
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoReservationRepo) DetachItem(ctx context.Context, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"facilityItemId": itemID},
		bson.M{"$unset": bson.M{"facilityItemId": ""}})
	return err
}

func (r *mongoReservationRepo) DeleteByItemIDs(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"facilityItemId": bson.M{"$in": itemIDs}})
	return err
}
