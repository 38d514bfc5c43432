package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/middleware"
	"roadcall/internal/models"
	"roadcall/internal/session"
)

// VehicleController manages the vehicle list embedded in a rider profile.
type VehicleController struct {
	Resolver *session.Resolver
	Store    docstore.Store
}

type vehicleInput struct {
	Make        string `json:"make" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Year        int    `json:"year"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Color       string `json:"color"`
	PhotoURL    string `json:"photo_url"`
}

func (vc *VehicleController) List(c *gin.Context) {
	rider, err := vc.Resolver.GetRider(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": rider.Vehicles})
}

func (vc *VehicleController) Add(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	riderID := middleware.AccountID(c)
	rider, err := vc.Resolver.GetRider(c.Request.Context(), riderID)
	if err != nil {
		fail(c, err)
		return
	}

	vehicle := models.Vehicle{
		ID:          primitive.NewObjectID().Hex(),
		Make:        input.Make,
		Model:       input.Model,
		Year:        input.Year,
		PlateNumber: input.PlateNumber,
		Color:       input.Color,
		PhotoURL:    input.PhotoURL,
	}
	vehicles := append(rider.Vehicles, vehicle)
	if err := vc.saveVehicles(c, riderID, vehicles); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

func (vc *VehicleController) Update(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	riderID := middleware.AccountID(c)
	rider, err := vc.Resolver.GetRider(c.Request.Context(), riderID)
	if err != nil {
		fail(c, err)
		return
	}

	id := c.Param("id")
	updated := false
	for i := range rider.Vehicles {
		if rider.Vehicles[i].ID != id {
			continue
		}
		rider.Vehicles[i] = models.Vehicle{
			ID:          id,
			Make:        input.Make,
			Model:       input.Model,
			Year:        input.Year,
			PlateNumber: input.PlateNumber,
			Color:       input.Color,
			PhotoURL:    input.PhotoURL,
		}
		updated = true
		break
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	if err := vc.saveVehicles(c, riderID, rider.Vehicles); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": rider.Vehicles})
}

func (vc *VehicleController) Remove(c *gin.Context) {
	riderID := middleware.AccountID(c)
	rider, err := vc.Resolver.GetRider(c.Request.Context(), riderID)
	if err != nil {
		fail(c, err)
		return
	}

	id := c.Param("id")
	vehicles := make([]models.Vehicle, 0, len(rider.Vehicles))
	for _, v := range rider.Vehicles {
		if v.ID != id {
			vehicles = append(vehicles, v)
		}
	}
	if len(vehicles) == len(rider.Vehicles) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	if err := vc.saveVehicles(c, riderID, vehicles); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (vc *VehicleController) saveVehicles(c *gin.Context, riderID string, vehicles []models.Vehicle) error {
	ok, err := vc.Store.Update(c.Request.Context(), docstore.CollUsers, riderID, docstore.Filter{"vehicles": vehicles})
	if err != nil {
		return apperr.Storage("vehicle save", err)
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}
