package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"roadcall/internal/controllers"
)

// Controllers bundles every handler group for route registration.
type Controllers struct {
	Auth     *controllers.AuthController
	Requests *controllers.RequestController
	Vehicles *controllers.VehicleController
	Mechanic *controllers.MechanicController
	Hub      *controllers.HubController
	Uploads  *controllers.UploadController
	Feed     *controllers.FeedController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r, ctrl.Auth)
	RiderRoutes(r, ctrl.Requests, ctrl.Vehicles, ctrl.Mechanic, ctrl.Hub)
	MechanicRoutes(r, ctrl.Requests, ctrl.Mechanic, ctrl.Hub)
	HubRoutes(r, ctrl.Hub, ctrl.Uploads)
	WebSocketRoutes(r, ctrl.Feed)

	return r
}
