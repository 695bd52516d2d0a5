package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/controllers"
)

func RegisterRoutes(r *gin.Engine, nc *controllers.NotificationController, verifier *auth.Verifier) {
	admin := r.Group("/admin/notifications", middleware.RequireAuth(verifier), middleware.AdminOnly())
	{
		admin.GET("", nc.GetNotificationLogs)
	}
}
