package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/clients"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/pricing"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/validation"
)

const (
	ShippingPolicyFlat  = "flat"
	ShippingPolicyZones = "zones"
)

// CartStore persists shopper carts and checkout idempotency keys.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error
}

// OrderCreator is the order creation collaborator.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.OrderResponse, error)
}

// EventPublisher publishes order_placed after a successful checkout.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error
}

// Options configure pricing for a deployment.
type Options struct {
	Rates          pricing.Rates
	ShippingPolicy string
	Zones          *pricing.ZoneTable
	IdempotencyTTL time.Duration
}

// Quote is a priced cart.
type Quote struct {
	models.OrderTotals
	Policy               string                `json:"shippingPolicy"`
	Zone                 *pricing.DeliveryZone `json:"zone,omitempty"`
	AmountToFreeShipping float64               `json:"amountToFreeShipping"`
}

// DeliveryQuote is the zone charge for a destination pincode.
type DeliveryQuote struct {
	Zone     pricing.DeliveryZone `json:"zone"`
	Subtotal float64              `json:"subtotal"`
	Charge   float64              `json:"charge"`
}

// CheckoutService prices carts and places orders.
type CheckoutService struct {
	carts     CartStore
	orders    OrderCreator
	events    EventPublisher
	validator *validation.Validator
	metrics   *awspkg.MetricsClient
	opts      Options
	flat      pricing.Calculator
	log       *zap.Logger
}

func NewCheckoutService(carts CartStore, orders OrderCreator, events EventPublisher, metrics *awspkg.MetricsClient, opts Options, log *zap.Logger) *CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}
	if opts.ShippingPolicy == "" {
		opts.ShippingPolicy = ShippingPolicyFlat
	}
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		events:    events,
		validator: validation.New(),
		metrics:   metrics,
		opts:      opts,
		flat:      pricing.New(opts.Rates),
		log:       log,
	}
}

// calculatorFor picks the zone policy for pincode when zones are enabled and
// the pincode resolves; otherwise the flat rule.
func (s *CheckoutService) calculatorFor(pincode string) (pricing.Calculator, *pricing.DeliveryZone) {
	if s.opts.ShippingPolicy != ShippingPolicyZones || s.opts.Zones == nil || strings.TrimSpace(pincode) == "" {
		return s.flat, nil
	}
	zone, err := s.opts.Zones.Resolve(pincode)
	if err != nil {
		s.log.Warn("no delivery zone, using flat shipping", zap.String("pincode", pincode))
		return s.flat, nil
	}
	return pricing.NewWithPolicy(s.opts.Rates, pricing.ZoneShippingPolicy{Zone: zone}), &zone
}

// Quote prices items (or the stored cart when items is empty). It has no side effects.
func (s *CheckoutService) Quote(ctx context.Context, userID string, items []models.CartLine, pincode string) (*Quote, *ServiceError) {
	if len(items) == 0 && userID != "" {
		cart, err := s.carts.GetCart(ctx, userID)
		if err != nil {
			s.log.Error("failed to load cart", zap.String("user_id", userID), zap.Error(err))
			return nil, internal("Failed to load cart")
		}
		items = cart.Items
	}
	if svcErr := checkLines(items); svcErr != nil {
		return nil, svcErr
	}

	calc, zone := s.calculatorFor(pincode)
	totals := calc.Totals(items)

	q := &Quote{OrderTotals: totals, Policy: ShippingPolicyFlat, Zone: zone}
	threshold := s.opts.Rates.FreeShippingThreshold
	if zone != nil {
		q.Policy = ShippingPolicyZones
		threshold = zone.MinOrderForFree
	}
	if totals.ShippingCost > 0 && threshold > totals.Subtotal {
		q.AmountToFreeShipping = threshold - totals.Subtotal
	}
	checkoutQuotesTotal.WithLabelValues(q.Policy).Inc()
	return q, nil
}

// PlaceOrder validates the form, prices the cart and asks the order service to
// create the order. The cart is cleared only after the order service accepts.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req models.CheckoutRequest, idempotencyKey string) (*models.Order, *ServiceError) {
	if errs := s.validator.Validate(req.ShippingAddress, req.BillingAddress, req.SameAsShipping); len(errs) > 0 {
		checkoutOrdersTotal.WithLabelValues("invalid").Inc()
		return nil, &ServiceError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "Please correct the highlighted fields",
			Fields:     errs,
		}
	}

	if idempotencyKey != "" {
		existing, err := s.carts.GetIdempotency(ctx, idempotencyKey)
		if err != nil {
			s.log.Warn("idempotency lookup failed", zap.Error(err))
		} else if existing != "" {
			return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Order already placed: " + existing}
		}
	}

	items := req.Items
	if len(items) == 0 {
		cart, err := s.carts.GetCart(ctx, userID)
		if err != nil {
			s.log.Error("failed to load cart", zap.String("user_id", userID), zap.Error(err))
			return nil, internal("Failed to load cart")
		}
		items = cart.Items
	}
	if len(items) == 0 {
		return nil, badRequest("Cart is empty")
	}
	if svcErr := checkLines(items); svcErr != nil {
		return nil, svcErr
	}

	billing := req.BillingAddress
	if req.SameAsShipping {
		billing = req.ShippingAddress
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentCOD
	}

	calc, _ := s.calculatorFor(req.ShippingAddress.Pincode)
	totals := calc.Totals(items)

	resp, err := s.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		ShippingCost:    totals.ShippingCost,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		PaymentMethod:   paymentMethod,
	})
	if err != nil {
		checkoutOrdersTotal.WithLabelValues("upstream_error").Inc()
		s.log.Error("order service call failed", zap.String("user_id", userID), zap.Error(err))
		msg := "Failed to place order"
		var upErr *clients.UpstreamError
		if errors.As(err, &upErr) && upErr.Message != "" {
			msg = upErr.Message
		}
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: msg}
	}
	if !resp.Success || resp.Data == nil {
		checkoutOrdersTotal.WithLabelValues("rejected").Inc()
		_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersRejected, nil)
		msg := resp.Error
		if msg == "" {
			msg = "Failed to place order"
		}
		return nil, badRequest(msg)
	}

	order := resp.Data
	checkoutOrdersTotal.WithLabelValues("placed").Inc()
	checkoutOrderValue.Observe(totals.Total)
	_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersPlaced, map[string]string{"PaymentMethod": paymentMethod})

	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		s.log.Warn("failed to clear cart after order", zap.String("order_id", order.ID), zap.Error(err))
	}
	if idempotencyKey != "" {
		if err := s.carts.SetIdempotency(ctx, idempotencyKey, order.ID, s.opts.IdempotencyTTL); err != nil {
			s.log.Warn("failed to record idempotency key", zap.Error(err))
		}
	}
	if s.events != nil {
		evt := models.OrderPlacedEvent{
			Event:     "order_placed",
			OrderID:   order.ID,
			UserID:    userID,
			ItemCount: len(items),
			Total:     totals.Total,
			Pincode:   req.ShippingAddress.Pincode,
			Timestamp: time.Now().UTC(),
		}
		if err := s.events.PublishOrderPlaced(ctx, evt); err != nil {
			s.log.Warn("order_placed not published", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total", totals.Total),
	)
	return order, nil
}

// DeliveryZones lists the configured zones, or nil when none are loaded.
func (s *CheckoutService) DeliveryZones() []pricing.DeliveryZone {
	if s.opts.Zones == nil {
		return nil
	}
	return s.opts.Zones.Zones()
}

// DeliveryQuote prices delivery to pincode from the zone table, regardless of
// the active shipping policy.
func (s *CheckoutService) DeliveryQuote(pincode string, subtotal float64) (*DeliveryQuote, *ServiceError) {
	if s.opts.Zones == nil {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Delivery zones are not configured"}
	}
	zone, charge, err := s.opts.Zones.Quote(pincode, subtotal)
	if errors.Is(err, pricing.ErrNoZone) {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "We do not deliver to this pincode yet"}
	}
	if err != nil {
		return nil, internal("Failed to resolve delivery zone")
	}
	return &DeliveryQuote{Zone: zone, Subtotal: subtotal, Charge: charge}, nil
}

// checkLines rejects lines the calculator must never price: a quantity below
// one or a negative price would produce negative totals.
func checkLines(items []models.CartLine) *ServiceError {
	for i, line := range items {
		if line.Quantity < 1 {
			return badRequest(fmt.Sprintf("items[%d]: quantity must be at least 1", i))
		}
		if line.Price < 0 || math.IsNaN(line.Price) || math.IsInf(line.Price, 0) {
			return badRequest(fmt.Sprintf("items[%d]: price must not be negative", i))
		}
	}
	return nil
}
