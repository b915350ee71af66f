package wizard

import (
	"errors"
	"fmt"

	"slotbook/models"
)

// ErrSlotTaken signals that the chosen (item, date, start, end) tuple
// is already reserved by someone else. Recoverable: the confirmation
// step re-renders with a message and session state is preserved.
var ErrSlotTaken = errors.New("the selected date and time are already reserved")

// ErrReservationGone signals that the reservation being edited no
// longer exists. Unrecoverable without restarting the wizard; callers
// must clear session state.
var ErrReservationGone = errors.New("the reservation being edited no longer exists")

// ErrEntityGone signals that a catalog id staged in the session points
// to an entity deleted by another actor mid-flow. Unrecoverable;
// callers must clear session state and restart.
var ErrEntityGone = errors.New("a selected facility no longer exists")

// ErrForbidden signals that the requester does not own the reservation
// they are trying to edit.
var ErrForbidden = errors.New("reservation does not belong to the requester")

// RedirectError tells the caller to send the client to another step:
// either a prerequisite is missing, or a step auto-advanced.
type RedirectError struct {
	To models.Step
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to step %s", e.To)
}

// RedirectTo extracts the target step when err is a RedirectError.
func RedirectTo(err error) (models.Step, bool) {
	var re *RedirectError
	if errors.As(err, &re) {
		return re.To, true
	}
	return 0, false
}
