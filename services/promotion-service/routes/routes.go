package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/controllers"
)

// RegisterCouponRoutes sets up all coupon-related routes.
func RegisterCouponRoutes(r *gin.Engine, cc *controllers.CouponController, verifier *auth.Verifier) {
	couponRoutes := r.Group("/coupons", middleware.RequireAuth(verifier))
	{
		couponRoutes.POST("/validate", cc.ValidateCoupon)
		couponRoutes.POST("/redeem", cc.RedeemCoupon)
		couponRoutes.GET("/:code", cc.GetCoupon)
	}

	adminRoutes := couponRoutes.Group("", middleware.AdminOnly())
	{
		adminRoutes.POST("", cc.CreateCoupon)
		adminRoutes.GET("", cc.ListCoupons)
		adminRoutes.DELETE("/:code", cc.DeactivateCoupon)
	}
}
