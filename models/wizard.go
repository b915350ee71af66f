package models

// Step identifies one stage of the reservation wizard. Steps form a
// strict linear order; a step may only be entered once every prior
// step's selection is present in the session state.
type Step int

const (
	StepOffice Step = iota
	StepFacilityType
	StepItem
	StepDate
	StepSlot
	StepContact // guest flow only
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepOffice:
		return "office"
	case StepFacilityType:
		return "facility"
	case StepItem:
		return "item"
	case StepDate:
		return "date"
	case StepSlot:
		return "slot"
	case StepContact:
		return "contact"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// WizardState is the per-session scratchpad of an in-progress wizard
// run. Fields fill in step order; a zero field means the step has not
// been completed. The whole value is serialized to the session store
// and overwritten step by step, so missing-prerequisite checks are a
// single comparison instead of ad hoc key probing.
type WizardState struct {
	OfficeID             string        `json:"officeId,omitempty"`
	FacilityTypeID       string        `json:"facilityTypeId,omitempty"`
	FacilityItemID       string        `json:"facilityItemId,omitempty"`
	Date                 string        `json:"date,omitempty"` // "YYYY-MM-DD"
	TimeSlotID           string        `json:"timeSlotId,omitempty"`
	Contact              *GuestContact `json:"contact,omitempty"`
	GuestID              string        `json:"guestId,omitempty"`
	EditingReservationID string        `json:"editingReservationId,omitempty"`
}

// completed reports whether the selection for a given step is present.
func (w *WizardState) completed(s Step) bool {
	switch s {
	case StepOffice:
		return w.OfficeID != ""
	case StepFacilityType:
		return w.FacilityTypeID != ""
	case StepItem:
		return w.FacilityItemID != ""
	case StepDate:
		return w.Date != ""
	case StepSlot:
		return w.TimeSlotID != ""
	case StepContact:
		return w.GuestID != ""
	default:
		return true
	}
}

// FirstMissing returns the earliest step before the given one whose
// selection is absent. Steps not part of the flow (the contact step in
// the registered flow) are skipped. The boolean is false when every
// prerequisite is satisfied.
func (w *WizardState) FirstMissing(before Step, withContact bool) (Step, bool) {
	for s := StepOffice; s < before; s++ {
		if s == StepContact && !withContact {
			continue
		}
		if !w.completed(s) {
			return s, true
		}
	}
	return 0, false
}

// Editing reports whether this run is editing an existing reservation.
func (w *WizardState) Editing() bool {
	return w.EditingReservationID != ""
}

// StepOption is one selectable catalog entry presented at a step.
type StepOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// StepView is the view-model handed to the page-rendering layer: the
// options for the step, the currently selected value (for re-display on
// validation failure or edit resume), and an optional error message.
type StepView struct {
	Step     string       `json:"step"`
	Options  []StepOption `json:"options,omitempty"`
	Selected string       `json:"selected,omitempty"`
	Error    string       `json:"error,omitempty"`
	Info     string       `json:"info,omitempty"`

	// Date step bounds, inclusive.
	MinDate string `json:"minDate,omitempty"`
	MaxDate string `json:"maxDate,omitempty"`
}

// ConfirmView summarizes the staged selection before commit.
type ConfirmView struct {
	Office       Office           `json:"office"`
	FacilityType FacilityType     `json:"facilityType"`
	Item         FacilityItem     `json:"item"`
	Date         string           `json:"date"`
	TimeSlot     TimeSlotTemplate `json:"timeSlot"`
	Contact      *GuestContact    `json:"contact,omitempty"`
	Editing      bool             `json:"editing"`
	Error        string           `json:"error,omitempty"`
}
