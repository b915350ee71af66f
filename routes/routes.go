// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slotbook/handlers"
	"slotbook/middleware"
	"slotbook/services/wizard"
	"slotbook/utils"
)

// registerWizardSteps wires one flow's step endpoints under base. The
// registered and guest flows share every handler; only the flow value
// and the middleware in front differ.
func registerWizardSteps(group *gin.RouterGroup, hb *handlers.HandlerBundle, flow wizard.Flow, base string) {
	group.GET("/office", hb.EnterOfficeHandler(flow, base))
	group.POST("/office", hb.SubmitOfficeHandler(flow, base))
	group.GET("/facility", hb.ViewFacilityTypeHandler(flow, base))
	group.POST("/facility", hb.SubmitFacilityTypeHandler(flow, base))
	group.GET("/item", hb.ViewItemHandler(flow, base))
	group.POST("/item", hb.SubmitItemHandler(flow, base))
	group.GET("/date", hb.ViewDateHandler(flow, base))
	group.POST("/date", hb.SubmitDateHandler(flow, base))
	group.GET("/slot", hb.ViewSlotHandler(flow, base))
	group.POST("/slot", hb.SubmitSlotHandler(flow, base))
	if flow.RequireContact {
		group.GET("/contact", hb.ViewContactHandler(flow, base))
		group.POST("/contact", hb.SubmitContactHandler(flow, base))
	}
	group.GET("/confirm", hb.ViewConfirmHandler(flow, base))
	group.POST("/confirm", hb.ConfirmHandler(flow, base))
	group.POST("/cancel", hb.CancelWizardHandler(flow, base))
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/register-manager", hb.RegisterManagerHandler)
		api.POST("/login", hb.AuthenticateUserHandler)
	}
}

// RegisterBookingRoutes sets up the reservation wizard for registered
// users.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	base := "/api/booking"
	group := r.Group(base)
	group.Use(middleware.JWTAuthMiddleware())
	registerWizardSteps(group, hb, wizard.RegisteredFlow, base)
}

// RegisterGuestBookingRoutes sets up the reservation wizard for
// anonymous guests, keyed by session cookie.
func RegisterGuestBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	base := "/api/guest/booking"
	group := r.Group(base)
	group.Use(middleware.GuestSessionMiddleware())
	registerWizardSteps(group, hb, wizard.GuestFlow, base)
}

// RegisterReservationRoutes registers the listing and deletion
// endpoints for committed reservations.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reservations")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("", hb.ListReservationsHandler)
		api.DELETE("/:id", hb.DeleteReservationHandler)
	}
}

// RegisterAdminRoutes sets up the manager-only surface: catalog
// management, reservation search and user search.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.ManagerOnlyMiddleware())
	{
		admin.GET("/reservations", hb.AdminSearchReservationsHandler)
		admin.GET("/users", hb.SearchUsersHandler)

		admin.GET("/offices", hb.ListOfficesHandler)
		admin.POST("/offices", hb.CreateOfficeHandler)
		admin.DELETE("/offices/:id", hb.DeleteOfficeHandler)

		admin.GET("/facility-types", hb.ListFacilityTypesHandler)
		admin.GET("/facility-types/:id", hb.GetFacilityTypeHandler)
		admin.POST("/facility-types", hb.CreateFacilityTypeHandler)
		admin.PUT("/facility-types/:id", hb.UpdateFacilityTypeHandler)
		admin.DELETE("/facility-types/:id", hb.DeleteFacilityTypeHandler)

		admin.GET("/facility-items", hb.ListFacilityItemsHandler)
		admin.POST("/facility-items", hb.CreateFacilityItemHandler)
		admin.PUT("/facility-items/:id", hb.UpdateFacilityItemHandler)
		admin.DELETE("/facility-items/:id", hb.DeleteFacilityItemHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint serving the
// latest monitor snapshot.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterGuestBookingRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
