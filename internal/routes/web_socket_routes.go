package routes

import (
	"github.com/gin-gonic/gin"

	"roadcall/internal/controllers"
	"roadcall/internal/middleware"
	"roadcall/internal/models"
)

func WebSocketRoutes(r *gin.Engine, feed *controllers.FeedController) {
	r.GET("/ws/mechanic/requests", middleware.RequireRole(models.RoleMechanic), feed.PendingFeed)
}
