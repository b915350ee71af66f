// File: handlers/reservation.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotbook/middleware"
	"slotbook/models"
	reservationSvc "slotbook/services/reservation"
)

// ListReservationsHandler returns the requester's upcoming reservations
// joined with catalog names.
func (hb *HandlerBundle) ListReservationsHandler(c *gin.Context) {
	details, err := hb.Reservations.ListUpcoming(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reservations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": details})
}

// DeleteReservationHandler removes a reservation. Owners delete their
// own; managers delete any.
func (hb *HandlerBundle) DeleteReservationHandler(c *gin.Context) {
	err := hb.Reservations.Delete(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.ContextUserID), c.GetBool(middleware.ContextManager))
	if err != nil {
		switch {
		case errors.Is(err, reservationSvc.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, reservationSvc.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete reservation"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminSearchReservationsHandler is the manager-facing reservation
// search. Contact filters match by prefix against registered users and
// guest records alike.
func (hb *HandlerBundle) AdminSearchReservationsHandler(c *gin.Context) {
	criteria := models.ReservationSearchCriteria{
		Name:     c.Query("name"),
		Phone:    c.Query("phone"),
		Email:    c.Query("email"),
		DateFrom: c.Query("date_from"),
	}
	details, err := hb.Reservations.Search(c.Request.Context(), criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search reservations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": details})
}
