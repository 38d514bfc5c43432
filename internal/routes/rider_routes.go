package routes

import (
	"github.com/gin-gonic/gin"

	"roadcall/internal/controllers"
	"roadcall/internal/middleware"
	"roadcall/internal/models"
)

func RiderRoutes(r *gin.Engine, requests *controllers.RequestController, vehicles *controllers.VehicleController, mechanic *controllers.MechanicController, hub *controllers.HubController) {
	group := r.Group("/rider", middleware.RequireRole(models.RoleRider))
	{
		group.POST("/requests", requests.Create)
		group.GET("/requests", requests.ListMine)
		group.POST("/requests/:id/approve", requests.Approve)
		group.POST("/requests/:id/cancel", requests.Cancel)
		group.POST("/requests/:id/feedback", requests.UserFeedback)

		group.GET("/vehicles", vehicles.List)
		group.POST("/vehicles", vehicles.Add)
		group.PUT("/vehicles/:id", vehicles.Update)
		group.DELETE("/vehicles/:id", vehicles.Remove)

		group.GET("/mechanics/nearby", mechanic.Nearby)
		group.POST("/reports", hub.CreateReport)
	}
}
