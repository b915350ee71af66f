// File: database/repository/catalog/indexes.go
package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the catalog collections.
func (r *mongoCatalogRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.officeColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_office_id"),
	}); err != nil {
		return fmt.Errorf("failed to create office indexes: %w", err)
	}

	if _, err := r.typeColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_type_id"),
		},
		{
			Keys:    bson.D{{Key: "officeId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("office_name_idx"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create facility type indexes: %w", err)
	}

	if _, err := r.itemColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_item_id"),
		},
		{
			Keys:    bson.D{{Key: "facilityTypeId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("type_name_idx"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create facility item indexes: %w", err)
	}

	if _, err := r.templateColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_template_id"),
		},
		{
			Keys:    bson.D{{Key: "facilityTypeId", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("type_start_idx"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create template indexes: %w", err)
	}
	return nil
}
