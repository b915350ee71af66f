// File: handlers/wizard.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotbook/middleware"
	"slotbook/models"
	"slotbook/services/wizard"
	"slotbook/utils"
)

// wizardKey resolves the session key the wizard state is stored under.
// Registered users are keyed by user id so an in-progress run follows
// them across devices; guests are keyed by their session cookie.
func wizardKey(c *gin.Context, flow wizard.Flow) string {
	if flow.Scope == "guest" {
		return c.GetString(middleware.ContextSessionKey)
	}
	return c.GetString(middleware.ContextUserID)
}

// stepPath maps a wizard step to its URL under the flow's base path.
func stepPath(base string, step models.Step) string {
	return base + "/" + step.String()
}

// respondWizardError translates wizard errors into HTTP. A redirect
// becomes a 303 so browsers re-GET the target step after a form post;
// an entity vanishing mid-flow sends the client back to the entry step
// on a cleared session.
func respondWizardError(c *gin.Context, base string, err error) {
	if step, ok := wizard.RedirectTo(err); ok {
		c.Redirect(http.StatusSeeOther, stepPath(base, step))
		return
	}
	switch {
	case errors.Is(err, wizard.ErrEntityGone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "restart": stepPath(base, models.StepOffice)})
	case errors.Is(err, wizard.ErrReservationGone):
		c.JSON(http.StatusGone, gin.H{"error": err.Error(), "restart": stepPath(base, models.StepOffice)})
	case errors.Is(err, wizard.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Booking step failed", err.Error())
	}
}

// respondStepView renders a submit outcome: a view means validation
// failed and the step re-renders with its error message.
func respondStepView(c *gin.Context, view *models.StepView) {
	status := http.StatusOK
	if view.Error != "" {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, view)
}

// EnterOfficeHandler starts a wizard run. A fresh entry discards stale
// state; the registered flow additionally accepts ?edit=<reservation id>
// to seed the run from an existing booking.
func (hb *HandlerBundle) EnterOfficeHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := wizard.OfficeEntry{
			EditReservationID: c.Query("edit"),
			UserID:            c.GetString(middleware.ContextUserID),
		}
		view, err := hb.Wizard.EnterOffice(c.Request.Context(), flow, wizardKey(c, flow), entry)
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (hb *HandlerBundle) SubmitOfficeHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.SubmitOffice(c.Request.Context(), flow, wizardKey(c, flow), c.PostForm("office_id"))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		respondStepView(c, view)
	}
}

func (hb *HandlerBundle) ViewFacilityTypeHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.ViewFacilityType(c.Request.Context(), flow, wizardKey(c, flow))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (hb *HandlerBundle) SubmitFacilityTypeHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.SubmitFacilityType(c.Request.Context(), flow, wizardKey(c, flow), c.PostForm("facility_id"))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		respondStepView(c, view)
	}
}

func (hb *HandlerBundle) ViewItemHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.ViewItem(c.Request.Context(), flow, wizardKey(c, flow))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (hb *HandlerBundle) SubmitItemHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.SubmitItem(c.Request.Context(), flow, wizardKey(c, flow), c.PostForm("item_id"))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		respondStepView(c, view)
	}
}

func (hb *HandlerBundle) ViewDateHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.ViewDate(c.Request.Context(), flow, wizardKey(c, flow))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (hb *HandlerBundle) SubmitDateHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.SubmitDate(c.Request.Context(), flow, wizardKey(c, flow), c.PostForm("date"))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		respondStepView(c, view)
	}
}

func (hb *HandlerBundle) ViewSlotHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.ViewSlot(c.Request.Context(), flow, wizardKey(c, flow))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (hb *HandlerBundle) SubmitSlotHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.SubmitSlot(c.Request.Context(), flow, wizardKey(c, flow), c.PostForm("time_slot"))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		respondStepView(c, view)
	}
}

func (hb *HandlerBundle) ViewContactHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		contact, err := hb.Wizard.ViewContact(c.Request.Context(), flow, wizardKey(c, flow))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": models.StepContact.String(), "contact": contact})
	}
}

func (hb *HandlerBundle) SubmitContactHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contact models.GuestContact
		if err := c.ShouldBind(&contact); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"step":  models.StepContact.String(),
				"error": "Please fill in your name, phone and a valid email.",
			})
			return
		}
		if err := hb.Wizard.SubmitContact(c.Request.Context(), flow, wizardKey(c, flow), contact); err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.Redirect(http.StatusSeeOther, stepPath(base, models.StepConfirm))
	}
}

func (hb *HandlerBundle) ViewConfirmHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := hb.Wizard.ViewConfirm(c.Request.Context(), flow, wizardKey(c, flow))
		if err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// ConfirmHandler commits the reservation. A slot conflict re-renders
// the confirmation with the error; session state survives so the user
// can back up and pick another slot.
func (hb *HandlerBundle) ConfirmHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := wizardKey(c, flow)
		res, err := hb.Wizard.Confirm(ctx, flow, key, c.GetString(middleware.ContextUserID))
		if err != nil {
			if errors.Is(err, wizard.ErrSlotTaken) {
				view, viewErr := hb.Wizard.ViewConfirm(ctx, flow, key)
				if viewErr != nil {
					respondWizardError(c, base, viewErr)
					return
				}
				view.Error = err.Error()
				c.JSON(http.StatusConflict, view)
				return
			}
			respondWizardError(c, base, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

func (hb *HandlerBundle) CancelWizardHandler(flow wizard.Flow, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := hb.Wizard.Cancel(c.Request.Context(), flow, wizardKey(c, flow)); err != nil {
			respondWizardError(c, base, err)
			return
		}
		c.Redirect(http.StatusSeeOther, stepPath(base, models.StepOffice))
	}
}
