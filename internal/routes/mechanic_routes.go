package routes

import (
	"github.com/gin-gonic/gin"

	"roadcall/internal/controllers"
	"roadcall/internal/middleware"
	"roadcall/internal/models"
)

func MechanicRoutes(r *gin.Engine, requests *controllers.RequestController, mechanic *controllers.MechanicController, hub *controllers.HubController) {
	group := r.Group("/mechanic", middleware.RequireRole(models.RoleMechanic))
	{
		group.GET("/requests/pending", requests.ListPending)
		group.GET("/requests", requests.ListClaimed)
		group.POST("/requests/:id/claim", requests.Claim)
		group.POST("/requests/:id/cancel", requests.Cancel)
		group.POST("/requests/:id/feedback", requests.MechanicFeedback)

		group.GET("/profile", mechanic.Profile)
		group.GET("/rating", mechanic.Rating)
		group.POST("/verification", mechanic.UploadVerification)
		group.GET("/notifications", mechanic.Notifications)
		group.POST("/notifications/:id/read", mechanic.MarkNotificationRead)
		group.GET("/reports", hub.ListReports)
	}
}
