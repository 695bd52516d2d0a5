package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/controllers"
)

// RegisterOrderRoutes wires order creation for checkout, customer reads, and
// admin listing and status changes.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController, verifier *auth.Verifier) {
	// Called service-to-service by checkout; keep this port off the public edge.
	r.POST("/orders", oc.CreateOrder)

	orderRoutes := r.Group("/orders", middleware.RequireAuth(verifier))
	{
		orderRoutes.GET("", oc.GetOrders)
		orderRoutes.GET("/:id", oc.GetOrderByID)
		orderRoutes.GET("/:id/timeline", oc.GetOrderTimeline)
	}

	adminRoutes := r.Group("/admin", middleware.RequireAuth(verifier), middleware.AdminOnly())
	{
		adminRoutes.GET("/orders", oc.GetAllOrders)
		adminRoutes.PATCH("/orders/:id/status", oc.UpdateOrderStatus)
	}
}
