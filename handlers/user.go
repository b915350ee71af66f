// File: handlers/user.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotbook/models"
	userSvc "slotbook/services/user"
)

// RegisterUserHandler creates a regular account.
func (hb *HandlerBundle) RegisterUserHandler(c *gin.Context) {
	var req models.UserRegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	user, err := hb.Users.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, userSvc.ErrEmailTaken), errors.Is(err, userSvc.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// RegisterManagerHandler creates an account bound to an office through
// a single-use invitation code.
func (hb *HandlerBundle) RegisterManagerHandler(c *gin.Context) {
	var req models.ManagerRegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	user, err := hb.Users.RegisterManager(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, userSvc.ErrInvalidInvitation):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, userSvc.ErrEmailTaken), errors.Is(err, userSvc.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register manager"})
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// AuthenticateUserHandler verifies credentials and returns a signed
// token carrying the manager flag.
func (hb *HandlerBundle) AuthenticateUserHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" form:"email" binding:"required,email"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	token, user, err := hb.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userSvc.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// SearchUsersHandler runs the manager's user lookup by contact fields.
func (hb *HandlerBundle) SearchUsersHandler(c *gin.Context) {
	criteria := models.UserSearchCriteria{
		FullName: c.Query("name"),
		Phone:    c.Query("phone"),
		Email:    c.Query("email"),
	}
	users, err := hb.Users.Search(c.Request.Context(), criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
