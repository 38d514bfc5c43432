package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roadcall/internal/lifecycle"
	"roadcall/internal/middleware"
	"roadcall/internal/models"
	"roadcall/internal/session"
)

// RequestController exposes the breakdown-request lifecycle to riders and
// mechanics. All state transitions go through the lifecycle manager.
type RequestController struct {
	Manager  *lifecycle.Manager
	Resolver *session.Resolver
}

type createRequestInput struct {
	Location  *models.Location `json:"location" binding:"required"`
	Address   string           `json:"address"`
	Reason    string           `json:"reason" binding:"required"`
	VehicleID string           `json:"vehicle_id"`
}

// Create files a new breakdown request for the authenticated rider. The
// rider's name, phone and the chosen vehicle are denormalized onto the
// request so mechanics see a self-contained document.
func (rc *RequestController) Create(c *gin.Context) {
	var input createRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request input: " + err.Error()})
		return
	}

	riderID := middleware.AccountID(c)
	rider, err := rc.Resolver.GetRider(c.Request.Context(), riderID)
	if err != nil {
		fail(c, err)
		return
	}

	var vehicle *models.Vehicle
	if input.VehicleID != "" {
		for i := range rider.Vehicles {
			if rider.Vehicles[i].ID == input.VehicleID {
				vehicle = &rider.Vehicles[i]
				break
			}
		}
		if vehicle == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_id does not match any of your vehicles"})
			return
		}
	}

	req, err := rc.Manager.Create(c.Request.Context(), lifecycle.CreateInput{
		UserID:    riderID,
		UserName:  rider.Name,
		PhoneNum:  rider.Phone,
		Location:  input.Location,
		Address:   input.Address,
		VehicleID: input.VehicleID,
		Vehicle:   vehicle,
		Reason:    input.Reason,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// ListMine returns the rider's own requests, most recent first.
func (rc *RequestController) ListMine(c *gin.Context) {
	reqs, err := rc.Manager.RequestsForRider(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs})
}

// ListPending returns the open request pool for the mechanic dashboard.
func (rc *RequestController) ListPending(c *gin.Context) {
	reqs, err := rc.Manager.PendingRequests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs})
}

// ListClaimed returns the requests the mechanic has claimed.
func (rc *RequestController) ListClaimed(c *gin.Context) {
	reqs, err := rc.Manager.RequestsForMechanic(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs})
}

// Claim lets a mechanic take a pending request. First claim wins; losers
// get a conflict response, not an overwrite.
func (rc *RequestController) Claim(c *gin.Context) {
	mechID := middleware.AccountID(c)
	mech, err := rc.Resolver.GetMechanic(c.Request.Context(), mechID)
	if err != nil {
		fail(c, err)
		return
	}
	if mech.Status != models.MechanicStatusApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "your account has not been approved yet"})
		return
	}

	req, err := rc.Manager.Claim(c.Request.Context(), c.Param("id"), mechID, mech.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

// Approve lets the owning rider accept the claiming mechanic.
func (rc *RequestController) Approve(c *gin.Context) {
	req, err := rc.Manager.Approve(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

// Cancel ends a pending or claimed request. Works for both parties; the
// manager checks the caller is the rider or the claiming mechanic.
func (rc *RequestController) Cancel(c *gin.Context) {
	req, err := rc.Manager.Cancel(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

type userFeedbackInput struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
	Auto   bool   `json:"auto"` // client auto-submitted after the confirmation window
}

// UserFeedback records the rider's rating of the assistance.
func (rc *RequestController) UserFeedback(c *gin.Context) {
	var input userFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback input: " + err.Error()})
		return
	}

	req, err := rc.Manager.SubmitUserFeedback(c.Request.Context(), c.Param("id"), middleware.AccountID(c), input.Rating, input.Text, input.Auto)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

type mechanicFeedbackInput struct {
	Notes  string   `json:"notes" binding:"required"`
	Photos []string `json:"photos"`
}

// MechanicFeedback closes out an approved request with the mechanic's
// notes and evidence photo URLs (uploaded separately via /uploads).
func (rc *RequestController) MechanicFeedback(c *gin.Context) {
	var input mechanicFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback input: " + err.Error()})
		return
	}

	req, err := rc.Manager.SubmitMechanicFeedback(c.Request.Context(), c.Param("id"), middleware.AccountID(c), input.Notes, input.Photos)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}
