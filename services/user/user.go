// File: services/user/user.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "slotbook/database/repository/user"
	"slotbook/models"
	"slotbook/utils"
)

const tokenTTL = 24 * time.Hour

// ErrEmailTaken signals that the email is already registered.
var ErrEmailTaken = errors.New("email is already registered")

// ErrUsernameTaken signals that the username is already registered.
var ErrUsernameTaken = errors.New("username is already registered")

// ErrInvalidCredentials signals a failed login. The same error covers
// unknown accounts and wrong passwords so probes cannot tell them apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidInvitation signals an unknown or already consumed
// invitation code.
var ErrInvalidInvitation = errors.New("invitation code is invalid or already used")

// UserService handles account registration, invitation-gated manager
// onboarding and authentication.
type UserService interface {
	Register(ctx context.Context, req models.UserRegistrationRequest) (*models.User, error)
	RegisterManager(ctx context.Context, req models.ManagerRegistrationRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (string, *models.User, error)
	Search(ctx context.Context, criteria models.UserSearchCriteria) ([]models.User, error)
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Users userRepo.UserRepository
}

// NewUserService constructs the default user service.
func NewUserService(users userRepo.UserRepository) *DefaultUserService {
	return &DefaultUserService{Users: users}
}

// Register creates a regular account. Email and username must be
// unique; passwords are stored bcrypt-hashed only.
func (s *DefaultUserService) Register(ctx context.Context, req models.UserRegistrationRequest) (*models.User, error) {
	if _, err := s.Users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.Users.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	utils.GetLogger().Info("User registered", zap.String("userId", user.ID))
	return user, nil
}

// RegisterManager creates an account and a manager profile in one step,
// gated by a single-use invitation code. The code binds the new manager
// to the office it was issued for and is consumed atomically, so two
// concurrent registrations cannot both use it.
func (s *DefaultUserService) RegisterManager(ctx context.Context, req models.ManagerRegistrationRequest) (*models.User, error) {
	invite, err := s.Users.GetInvitation(ctx, req.InvitationCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidInvitation
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if invite.Used {
		return nil, ErrInvalidInvitation
	}

	user, err := s.Register(ctx, req.UserRegistrationRequest)
	if err != nil {
		return nil, err
	}

	if err := s.Users.MarkInvitationUsed(ctx, invite.Code); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidInvitation
		}
		return nil, fmt.Errorf("failed to consume invitation: %w", err)
	}

	profile := &models.ManagerProfile{UserID: user.ID, OfficeID: invite.OfficeID}
	if err := s.Users.CreateManagerProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create manager profile: %w", err)
	}

	utils.GetLogger().Info("Manager registered",
		zap.String("userId", user.ID),
		zap.String("officeId", invite.OfficeID),
	)
	return user, nil
}

// Authenticate verifies the password and issues a signed token. The
// manager role is resolved once here and baked into the token.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	manager := false
	if _, err := s.Users.GetManagerProfile(ctx, user.ID); err == nil {
		manager = true
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil, fmt.Errorf("failed to resolve manager role: %w", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, manager, tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// Search runs the manager's user lookup.
func (s *DefaultUserService) Search(ctx context.Context, criteria models.UserSearchCriteria) ([]models.User, error) {
	return s.Users.Search(ctx, criteria)
}
