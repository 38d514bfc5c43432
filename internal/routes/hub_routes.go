package routes

import (
	"github.com/gin-gonic/gin"

	"roadcall/internal/controllers"
	"roadcall/internal/middleware"
)

func HubRoutes(r *gin.Engine, hub *controllers.HubController, uploads *controllers.UploadController) {
	group := r.Group("/hub", middleware.RequireAuth())
	{
		group.GET("/posts", hub.ListPosts)
		group.POST("/posts", hub.CreatePost)
	}

	r.POST("/uploads", middleware.RequireAuth(), uploads.Upload)
}
