package models

import "testing"

func TestFirstMissingWalksStepOrder(t *testing.T) {
	state := &WizardState{OfficeID: "off-1"}

	step, missing := state.FirstMissing(StepConfirm, false)
	if !missing || step != StepFacilityType {
		t.Fatalf("expected facility type missing, got %v (%v)", step, missing)
	}

	state.FacilityTypeID = "ft-1"
	state.FacilityItemID = "item-1"
	state.Date = "2024-01-12"
	step, missing = state.FirstMissing(StepConfirm, false)
	if !missing || step != StepSlot {
		t.Fatalf("expected slot missing, got %v (%v)", step, missing)
	}

	state.TimeSlotID = "tpl-1"
	if _, missing = state.FirstMissing(StepConfirm, false); missing {
		t.Fatal("registered flow must be complete without contact info")
	}
}

func TestFirstMissingContactOnlyInGuestFlow(t *testing.T) {
	state := &WizardState{
		OfficeID:       "off-1",
		FacilityTypeID: "ft-1",
		FacilityItemID: "item-1",
		Date:           "2024-01-12",
		TimeSlotID:     "tpl-1",
	}

	step, missing := state.FirstMissing(StepConfirm, true)
	if !missing || step != StepContact {
		t.Fatalf("guest flow must require contact, got %v (%v)", step, missing)
	}

	state.GuestID = "guest-1"
	if _, missing = state.FirstMissing(StepConfirm, true); missing {
		t.Fatal("guest flow must be complete once the guest record exists")
	}
}

func TestFirstMissingIgnoresLaterSteps(t *testing.T) {
	state := &WizardState{OfficeID: "off-1"}

	if _, missing := state.FirstMissing(StepFacilityType, false); missing {
		t.Fatal("entering facility type only requires the office selection")
	}
}
