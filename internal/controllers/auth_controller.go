package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roadcall/internal/middleware"
	"roadcall/internal/models"
	"roadcall/internal/session"
)

// AuthController exposes signup and login over the session resolver.
type AuthController struct {
	Resolver *session.Resolver
}

type riderSignupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type mechanicSignupInput struct {
	Name          string           `json:"name" binding:"required"`
	Email         string           `json:"email" binding:"required,email"`
	Password      string           `json:"password" binding:"required"`
	Phone         string           `json:"phone"`
	BusinessName  string           `json:"business_name" binding:"required"`
	LicenseNumber string           `json:"license_number" binding:"required"`
	Location      *models.Location `json:"location"`
}

func (a *AuthController) SignupRider(c *gin.Context) {
	var input riderSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := a.Resolver.RegisterRider(c.Request.Context(), session.RiderSignup{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(acct.ID, acct.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "role": acct.Role, "user": acct.Rider})
}

func (a *AuthController) SignupMechanic(c *gin.Context) {
	var input mechanicSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := a.Resolver.RegisterMechanic(c.Request.Context(), session.MechanicSignup{
		Name:          input.Name,
		Email:         input.Email,
		Password:      input.Password,
		Phone:         input.Phone,
		BusinessName:  input.BusinessName,
		LicenseNumber: input.LicenseNumber,
		Location:      input.Location,
	})
	if err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(acct.ID, acct.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "role": acct.Role, "user": acct.Mechanic})
}

// Login resolves the credential pair and answers with a token plus the
// role-specific profile, so the client can mount the right navigation
// tree from this one response.
func (a *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := a.Resolver.Resolve(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(acct.ID, acct.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	resp := gin.H{"token": token, "role": acct.Role}
	switch acct.Role {
	case models.RoleRider:
		resp["user"] = acct.Rider
	case models.RoleMechanic:
		resp["user"] = acct.Mechanic
	}
	c.JSON(http.StatusOK, resp)
}
