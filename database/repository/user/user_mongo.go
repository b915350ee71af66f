// File: database/repository/user/user_mongo.go
package userRepo

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

func (r *mongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := r.userColl.InsertOne(ctx, user)
	return err
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	if err := r.userColl.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepo) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"fullName": user.FullName,
		"phone":    user.Phone,
		"email":    user.Email,
	}}
	res, err := r.userColl.UpdateOne(ctx, bson.M{"id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoUserRepo) Search(ctx context.Context, criteria models.UserSearchCriteria) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if criteria.FullName != "" {
		filter["fullName"] = bson.M{"$regex": criteria.FullName, "$options": "i"}
	}
	if criteria.Phone != "" {
		filter["phone"] = bson.M{"$regex": criteria.Phone, "$options": "i"}
	}
	if criteria.Email != "" {
		filter["email"] = bson.M{"$regex": criteria.Email, "$options": "i"}
	}

	cursor, err := r.userColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepo) FindIDsByPrefix(ctx context.Context, name, phone, email string) ([]string, error) {
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

	cursor, err := r.userColl.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *mongoUserRepo) GetManagerProfile(ctx context.Context, userID string) (*models.ManagerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var profile models.ManagerProfile
	err := r.managerColl.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *mongoUserRepo) CreateManagerProfile(ctx context.Context, profile *models.ManagerProfile) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.managerColl.InsertOne(ctx, profile)
	return err
}

func (r *mongoUserRepo) GetInvitation(ctx context.Context, code string) (*models.InvitationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var inv models.InvitationCode
	if err := r.inviteColl.FindOne(ctx, bson.M{"code": code}).Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// MarkInvitationUsed flips the used flag only if it is still unset, so
// two concurrent manager registrations cannot both consume one code.
func (r *mongoUserRepo) MarkInvitationUsed(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.inviteColl.UpdateOne(ctx,
		bson.M{"code": code, "used": false},
		bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoUserRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.userColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_username"),
		},
	}); err != nil {
		return err
	}

	if _, err := r.managerColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_user"),
	}); err != nil {
		return err
	}

	_, err := r.inviteColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_code"),
	})
	return err
}
