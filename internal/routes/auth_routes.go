package routes

import (
	"github.com/gin-gonic/gin"

	"roadcall/internal/controllers"
)

func AuthRoutes(r *gin.Engine, auth *controllers.AuthController) {
	group := r.Group("/auth")
	{
		group.POST("/signup/rider", auth.SignupRider)
		group.POST("/signup/mechanic", auth.SignupMechanic)
		group.POST("/login", auth.Login)
	}
}
