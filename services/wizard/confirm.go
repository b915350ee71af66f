// File: services/wizard/confirm.go
package wizard

import (
	"context"
	"errors"

	"slotbook/models"
)

// ViewConfirm summarizes the staged selection before commit. Catalog
// ids pointing at entities deleted mid-flow surface as ErrEntityGone
// after the state is cleared.
func (s *DefaultWizardService) ViewConfirm(ctx context.Context, flow Flow, key string) (*models.ConfirmView, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepConfirm, flow); err != nil {
		return nil, err
	}

	office, ft, item, tpl, err := s.loadStagedSelection(ctx, flow, key, state)
	if err != nil {
		return nil, err
	}

	return &models.ConfirmView{
		Office:       *office,
		FacilityType: *ft,
		Item:         *item,
		Date:         state.Date,
		TimeSlot:     *tpl,
		Contact:      state.Contact,
		Editing:      state.Editing(),
	}, nil
}

// Confirm re-runs the conflict check at commit time and creates or
// updates the reservation. On ErrSlotTaken session state is preserved
// so the user can back up and pick a different slot; on success the
// entire wizard state is cleared.
func (s *DefaultWizardService) Confirm(ctx context.Context, flow Flow, key, userID string) (*models.Reservation, error) {
	state, err := s.loadState(ctx, flow, key)
	if err != nil {
		return nil, err
	}
	if err := guard(state, models.StepConfirm, flow); err != nil {
		return nil, err
	}

	_, _, item, tpl, err := s.loadStagedSelection(ctx, flow, key, state)
	if err != nil {
		return nil, err
	}

	req := CommitRequest{
		Item:                 item,
		Date:                 state.Date,
		Template:             tpl,
		EditingReservationID: state.EditingReservationID,
	}
	if flow.RequireContact {
		req.GuestID = state.GuestID
	} else {
		req.UserID = userID
	}

	res, err := s.Committer.Commit(ctx, req)
	if err != nil {
		if errors.Is(err, ErrReservationGone) {
			_ = s.Sessions.Clear(ctx, flow.Scope, key)
		}
		return nil, err
	}

	if err := s.Sessions.Clear(ctx, flow.Scope, key); err != nil {
		return nil, err
	}
	return res, nil
}

// Cancel discards the in-progress wizard run.
func (s *DefaultWizardService) Cancel(ctx context.Context, flow Flow, key string) error {
	return s.Sessions.Clear(ctx, flow.Scope, key)
}
