package models

import "time"

// GuestRecord holds the contact details of a non-authenticated party,
// captured solely to attach to a reservation. A fresh record is created
// for every guest booking; guests have no persistent identity.
type GuestRecord struct {
	ID        string    `bson:"id" json:"id"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email" json:"email"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// GuestContact is the validated contact form input collected right
// before the guest confirmation step.
type GuestContact struct {
	FullName string `json:"fullName" form:"full_name" binding:"required"`
	Phone    string `json:"phone" form:"phone" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
}
