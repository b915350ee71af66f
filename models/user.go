package models

import "time"

// User represents a registered platform user.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	FullName     string    `bson:"fullName" json:"fullName"`
	Phone        string    `bson:"phone" json:"phone"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// ManagerProfile links a user to the office they administer. Its
// presence is resolved once at authentication time into an explicit
// manager flag carried through request context.
type ManagerProfile struct {
	UserID   string `bson:"userId" json:"userId"`
	OfficeID string `bson:"officeId" json:"officeId"`
}

// InvitationCode gates manager onboarding. Single use, bound to the
// office the new manager will administer.
type InvitationCode struct {
	Code      string    `bson:"code" json:"code"`
	OfficeID  string    `bson:"officeId" json:"officeId"`
	Used      bool      `bson:"used" json:"used"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// UserRegistrationRequest is the payload for registering a regular user.
type UserRegistrationRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	FullName string `json:"fullName" form:"full_name" binding:"required"`
	Phone    string `json:"phone" form:"phone" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

// ManagerRegistrationRequest additionally carries the invitation code
// that binds the new manager to an office.
type ManagerRegistrationRequest struct {
	UserRegistrationRequest
	InvitationCode string `json:"invitationCode" form:"invitation_code" binding:"required"`
}

// UserSearchCriteria holds the admin user-management filters
// (case-insensitive substring match).
type UserSearchCriteria struct {
	FullName string
	Phone    string
	Email    string
}
