package models

import "fmt"

// Office is the top-level organizational unit owning facility types.
type Office struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

// FacilityType is a category of bookable resource within an office
// (e.g., table tennis, mahjong). It owns the facility items and the
// time slot templates used to generate bookable windows.
type FacilityType struct {
	ID          string `bson:"id" json:"id"`
	OfficeID    string `bson:"officeId" json:"officeId"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// FacilityItem is one concrete, individually bookable unit of a facility
// type (e.g., "table 1").
type FacilityItem struct {
	ID             string `bson:"id" json:"id"`
	FacilityTypeID string `bson:"facilityTypeId" json:"facilityTypeId"`
	Name           string `bson:"name" json:"name"`
	Description    string `bson:"description,omitempty" json:"description,omitempty"`
}

// TimeSlotTemplate is a recurring bookable window defined per facility
// type. Start and End are minutes from midnight, both on the hour.
type TimeSlotTemplate struct {
	ID             string `bson:"id" json:"id"`
	FacilityTypeID string `bson:"facilityTypeId" json:"facilityTypeId"`
	Start          int    `bson:"start" json:"start"`
	End            int    `bson:"end" json:"end"`
}

// Label renders the template as "HH:MM - HH:MM" for display.
func (t TimeSlotTemplate) Label() string {
	return fmt.Sprintf("%s - %s", MinutesToClock(t.Start), MinutesToClock(t.End))
}

// Overlaps reports whether two templates share any part of their window
// (open-interval test: touching endpoints do not overlap).
func (t TimeSlotTemplate) Overlaps(other TimeSlotTemplate) bool {
	return t.Start < other.End && t.End > other.Start
}

// MinutesToClock formats minutes from midnight as "HH:MM".
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
