package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/api-gateway/config"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/api-gateway/proxy"
)

// RegisterAllRoutes mounts the storefront API. Tokens are checked by the
// services themselves. Order creation is service-to-service only and is not
// exposed here.
func RegisterAllRoutes(r *gin.Engine, up config.Upstreams, timeout time.Duration) {
	products := proxy.NewForwarder(up.Product, timeout).Handle
	mount(r, "/products", products, "GET", "POST")

	checkout := proxy.NewForwarder(up.Checkout, timeout).Handle
	mount(r, "/cart", checkout, "GET", "POST", "DELETE")
	mount(r, "/checkout", checkout, "GET", "POST")

	orders := proxy.NewForwarder(up.Order, timeout).Handle
	mount(r, "/orders", orders, "GET")
	mount(r, "/admin/orders", orders, "GET", "PATCH")

	coupons := proxy.NewForwarder(up.Promotion, timeout).Handle
	mount(r, "/coupons", coupons, "GET", "POST", "DELETE")

	notifications := proxy.NewForwarder(up.Notification, timeout).Handle
	mount(r, "/admin/notifications", notifications, "GET")
}

// mount forwards prefix and everything below it for the given methods.
func mount(r *gin.Engine, prefix string, h gin.HandlerFunc, methods ...string) {
	for _, m := range methods {
		r.Handle(m, prefix, h)
		r.Handle(m, prefix+"/*any", h)
	}
}
