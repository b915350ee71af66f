// File: handlers/bundle.go
package handlers

import (
	catalogSvc "slotbook/services/catalog"
	reservationSvc "slotbook/services/reservation"
	userSvc "slotbook/services/user"
	"slotbook/services/wizard"
)

// HandlerBundle groups the service dependencies of all HTTP handlers so
// routing code receives a single wired value.
type HandlerBundle struct {
	Wizard       wizard.WizardService
	Catalog      catalogSvc.CatalogService
	Reservations reservationSvc.ReservationService
	Users        userSvc.UserService
}

// NewHandlerBundle constructs a HandlerBundle.
func NewHandlerBundle(
	wizardService wizard.WizardService,
	catalogService catalogSvc.CatalogService,
	reservationService reservationSvc.ReservationService,
	userService userSvc.UserService,
) *HandlerBundle {
	return &HandlerBundle{
		Wizard:       wizardService,
		Catalog:      catalogService,
		Reservations: reservationService,
		Users:        userService,
	}
}
