package models

import "time"

// Reservation is a committed booking of one facility item for one date
// and one time window. Start/End are copied from the chosen template at
// creation time, not a live reference. Exactly one of UserID/GuestID is
// set. FacilityTypeID is denormalized so availability queries survive
// item deletion.
type Reservation struct {
	ID             string    `bson:"id" json:"id"`
	FacilityItemID string    `bson:"facilityItemId,omitempty" json:"facilityItemId,omitempty"`
	FacilityTypeID string    `bson:"facilityTypeId" json:"facilityTypeId"`
	Date           string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start          int       `bson:"start" json:"start"`
	End            int       `bson:"end" json:"end"`
	UserID         string    `bson:"userId,omitempty" json:"userId,omitempty"`
	GuestID        string    `bson:"guestId,omitempty" json:"guestId,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// TimeLabel renders the reserved window as "HH:MM - HH:MM".
func (r Reservation) TimeLabel() string {
	return MinutesToClock(r.Start) + " - " + MinutesToClock(r.End)
}

// ReservationDetail is a reservation joined with its catalog names for
// listing screens.
type ReservationDetail struct {
	Reservation
	OfficeName       string `json:"officeName"`
	FacilityTypeName string `json:"facilityTypeName"`
	FacilityItemName string `json:"facilityItemName"`
}

// ReservationSearchCriteria holds the admin search filters. Name, phone
// and email match by prefix against either the registered user or the
// guest record attached to the reservation.
type ReservationSearchCriteria struct {
	Name     string
	Phone    string
	Email    string
	DateFrom string
}
