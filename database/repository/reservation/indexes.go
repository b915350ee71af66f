// File: database/repository/reservation/indexes.go
package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the reservations collection. The
// unique slot index is the authoritative guard against two bookings
// landing on the same (item, date, start, end) tuple; it is partial so
// reservations whose item was deleted (no facilityItemId) stay out of
// the uniqueness domain.
func (r *mongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{
				{Key: "facilityItemId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start", Value: 1},
				{Key: "end", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_slot").
				SetPartialFilterExpression(bson.M{"facilityItemId": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "facilityTypeId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("type_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("user_date_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}
