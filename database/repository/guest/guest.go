// File: database/repository/guest/guest.go
package guestRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotbook/database"
	"slotbook/models"
)

const queryTimeout = 5 * time.Second

// GuestRepository stores contact records for anonymous bookings. Every
// guest booking creates a fresh record; records are never deduplicated
// by contact info, so a guest leaves no persistent identity behind.
type GuestRepository interface {
	Create(ctx context.Context, guest *models.GuestRecord) error
	GetByID(ctx context.Context, id string) (*models.GuestRecord, error)

	// FindIDsByPrefix returns ids of guest records whose contact fields
	// start with the given values (empty fields are ignored). Used by
	// the admin reservation search.
	FindIDsByPrefix(ctx context.Context, name, phone, email string) ([]string, error)

	EnsureIndexes() error
}

type mongoGuestRepo struct {
	coll *mongo.Collection
}

// NewMongoGuestRepo constructs a MongoDB-backed GuestRepository.
func NewMongoGuestRepo() GuestRepository {
	return &mongoGuestRepo{coll: database.DB().Collection("guests")}
}

func (r *mongoGuestRepo) Create(ctx context.Context, guest *models.GuestRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	if guest.CreatedAt.IsZero() {
		guest.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, guest)
	return err
}

func (r *mongoGuestRepo) GetByID(ctx context.Context, id string) (*models.GuestRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var guest models.GuestRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *mongoGuestRepo) FindIDsByPrefix(ctx context.Context, name, phone, email string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if name != "" {
		filter["fullName"] = bson.M{"$regex": "^" + name}
	}
	if phone != "" {
		filter["phone"] = bson.M{"$regex": "^" + phone}
	}
	if email != "" {
		filter["email"] = bson.M{"$regex": "^" + email}
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var guests []models.GuestRecord
	if err := cursor.All(ctx, &guests); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(guests))
	for _, g := range guests {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func (r *mongoGuestRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_idx"),
		},
	})
	return err
}
