package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/pricing"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/services"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
)

// DefaultContextTimeout bounds each request's downstream calls.
const DefaultContextTimeout = 15 * time.Second

// CheckoutServiceAPI is what the HTTP layer needs from the checkout service.
type CheckoutServiceAPI interface {
	Quote(ctx context.Context, userID string, items []models.CartLine, pincode string) (*services.Quote, *services.ServiceError)
	PlaceOrder(ctx context.Context, userID string, req models.CheckoutRequest, idempotencyKey string) (*models.Order, *services.ServiceError)
	DeliveryZones() []pricing.DeliveryZone
	DeliveryQuote(pincode string, subtotal float64) (*services.DeliveryQuote, *services.ServiceError)
	GetCart(ctx context.Context, userID string) (*models.Cart, *services.ServiceError)
	AddItem(ctx context.Context, userID string, line models.CartLine) (*models.Cart, *services.ServiceError)
	RemoveItem(ctx context.Context, userID, productID, weight string) (*models.Cart, *services.ServiceError)
	ClearCart(ctx context.Context, userID string) *services.ServiceError
}

type CheckoutController struct {
	service CheckoutServiceAPI
}

func NewCheckoutController(service CheckoutServiceAPI) *CheckoutController {
	return &CheckoutController{service: service}
}

func respondError(c *gin.Context, err *services.ServiceError) {
	body := gin.H{"success": false, "error": err.Message}
	if len(err.Fields) > 0 {
		body["fields"] = err.Fields
	}
	c.JSON(err.StatusCode, body)
}

type quoteRequest struct {
	Items   []models.CartLine `json:"items" binding:"omitempty,dive"`
	Pincode string            `json:"pincode"`
}

// Quote handles POST /checkout/quote. Without items the stored cart is priced.
func (cc *CheckoutController) Quote(c *gin.Context) {
	var req quoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
			return
		}
	}
	userID, _ := middleware.GetUserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	quote, svcErr := cc.service.Quote(ctx, userID, req.Items, req.Pincode)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// PlaceOrder handles POST /checkout/orders.
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	order, svcErr := cc.service.PlaceOrder(ctx, userID, req, c.GetHeader("Idempotency-Key"))
	if svcErr != nil {
		logger.FromGin(c).Info("checkout rejected",
			zap.Int("status", svcErr.StatusCode),
			zap.String("reason", svcErr.Message),
		)
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}

// DeliveryZones handles GET /checkout/delivery-zones.
func (cc *CheckoutController) DeliveryZones(c *gin.Context) {
	zones := cc.service.DeliveryZones()
	if zones == nil {
		zones = []pricing.DeliveryZone{}
	}
	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

// DeliveryQuote handles POST /checkout/delivery-quote.
func (cc *CheckoutController) DeliveryQuote(c *gin.Context) {
	var req models.DeliveryQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
		return
	}
	quote, svcErr := cc.service.DeliveryQuote(req.Pincode, req.Subtotal)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, quote)
}
