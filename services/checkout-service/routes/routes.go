package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/controllers"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
)

// RegisterRoutes wires cart and checkout endpoints. Placing orders is rate
// limited per client IP.
func RegisterRoutes(r *gin.Engine, cc *controllers.CheckoutController, verifier *auth.Verifier, checkoutPerMinute int) {
	public := r.Group("/checkout")
	{
		public.GET("/delivery-zones", cc.DeliveryZones)
		public.POST("/delivery-quote", cc.DeliveryQuote)
		public.POST("/quote", cc.Quote)
	}

	authed := r.Group("/", middleware.RequireAuth(verifier))
	{
		authed.POST("/cart/quote", cc.Quote)
		authed.POST("/checkout/orders", middleware.RateLimitMiddleware(checkoutPerMinute, 0), cc.PlaceOrder)

		authed.GET("/cart", cc.GetCart)
		authed.POST("/cart/items", cc.AddItem)
		authed.DELETE("/cart/items/:productId", cc.RemoveItem)
		authed.DELETE("/cart", cc.ClearCart)
	}
}
