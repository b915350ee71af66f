// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/database"
	"slotbook/models"
)

// UserRepository defines methods for registered user data access,
// including manager profiles and the invitation codes that gate
// manager onboarding.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, criteria models.UserSearchCriteria) ([]models.User, error)

	// FindIDsByPrefix mirrors the guest repo helper for the admin
	// reservation search (prefix match on contact fields).
	FindIDsByPrefix(ctx context.Context, name, phone, email string) ([]string, error)

	GetManagerProfile(ctx context.Context, userID string) (*models.ManagerProfile, error)
	CreateManagerProfile(ctx context.Context, profile *models.ManagerProfile) error

	GetInvitation(ctx context.Context, code string) (*models.InvitationCode, error)
	MarkInvitationUsed(ctx context.Context, code string) error

	EnsureIndexes() error
}

type mongoUserRepo struct {
	userColl    *mongo.Collection
	managerColl *mongo.Collection
	inviteColl  *mongo.Collection
}

// NewMongoUserRepo constructs a MongoDB-backed UserRepository.
func NewMongoUserRepo() UserRepository {
	db := database.DB()
	return &mongoUserRepo{
		userColl:    db.Collection("users"),
		managerColl: db.Collection("manager_profiles"),
		inviteColl:  db.Collection("invitation_codes"),
	}
}
