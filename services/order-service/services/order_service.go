package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/repository"
)

// amountTolerance absorbs float noise when comparing submitted totals.
const amountTolerance = 0.005

var paymentMethods = map[string]bool{"cod": true, "online": true, "upi": true}

type ItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Weight    string  `json:"weight,omitempty"`
}

// CreateOrderRequest is what checkout submits once totals are computed.
type CreateOrderRequest struct {
	UserID          string         `json:"userId"`
	Items           []ItemRequest  `json:"items"`
	ShippingAddress models.Address `json:"shippingAddress"`
	BillingAddress  models.Address `json:"billingAddress"`
	ShippingCost    float64        `json:"shippingCost"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	Total           float64        `json:"total"`
	PaymentMethod   string         `json:"paymentMethod"`
}

// OrderList is a page of orders.
type OrderList struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type OrderService struct {
	repo     repository.OrderRepository
	sns      awspkg.SNSPublisher
	topicArn string
	metrics  *awspkg.MetricsClient
	log      *zap.Logger
	now      func() time.Time
}

// NewOrderService wires the service. sns may be nil to skip event publishing.
func NewOrderService(repo repository.OrderRepository, sns awspkg.SNSPublisher, topicArn string, metrics *awspkg.MetricsClient, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		repo:     repo,
		sns:      sns,
		topicArn: topicArn,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// CreateOrder checks the submitted totals and stores a pending order.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, *ServiceError) {
	if svcErr := validateCreate(req); svcErr != nil {
		ordersRejected.Inc()
		_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersRejected, map[string]string{"Service": "order-service"})
		s.log.Info("Order rejected", zap.String("user_id", req.UserID), zap.String("reason", svcErr.Message))
		return nil, svcErr
	}

	billing := req.BillingAddress
	if billing == (models.Address{}) {
		billing = req.ShippingAddress
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber(now),
		UserID:          req.UserID,
		Status:          models.StatusPending,
		Subtotal:        req.Subtotal,
		ShippingCost:    req.ShippingCost,
		Tax:             req.Tax,
		Total:           req.Total,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		OrderItems:      make([]models.OrderItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Weight:    it.Weight,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Order already exists")
		}
		s.log.Error("Failed to store order", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, internal("Failed to create order")
	}

	ordersCreated.WithLabelValues(order.PaymentMethod).Inc()
	_ = s.metrics.RecordValue(ctx, awspkg.MetricOrderValue, order.Total, map[string]string{"PaymentMethod": order.PaymentMethod})

	evt := models.OrderCreatedEvent{
		Event:       "order_created",
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Email:       order.ShippingAddress.Email,
		Name:        strings.TrimSpace(order.ShippingAddress.FirstName + " " + order.ShippingAddress.LastName),
		Total:       order.Total,
		ItemCount:   len(order.OrderItems),
		Timestamp:   now,
	}
	if err := awspkg.PublishEvent(ctx, s.sns, s.topicArn, evt); err != nil {
		s.log.Warn("Failed to publish order_created", zap.String("order_id", evt.OrderID), zap.Error(err))
	}

	s.log.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

func validateCreate(req *CreateOrderRequest) *ServiceError {
	if strings.TrimSpace(req.UserID) == "" {
		return badRequest("userId is required")
	}
	if len(req.Items) == 0 {
		return unprocessable("Order must contain at least one item")
	}

	var subtotal float64
	for i, it := range req.Items {
		switch {
		case it.ProductID == "" || it.Name == "":
			return unprocessable(fmt.Sprintf("item %d: productId and name are required", i+1))
		case it.Quantity < 1:
			return unprocessable(fmt.Sprintf("item %d: quantity must be at least 1", i+1))
		case it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0):
			return unprocessable(fmt.Sprintf("item %d: invalid price", i+1))
		}
		subtotal += it.Price * float64(it.Quantity)
	}

	if req.ShippingCost < 0 || req.Tax < 0 {
		return unprocessable("shippingCost and tax cannot be negative")
	}
	if math.Abs(subtotal-req.Subtotal) > amountTolerance {
		return unprocessable("subtotal does not match items")
	}
	if math.Abs(req.Subtotal+req.ShippingCost+req.Tax-req.Total) > amountTolerance {
		return unprocessable("total must equal subtotal + shippingCost + tax")
	}
	if !paymentMethods[req.PaymentMethod] {
		return unprocessable("paymentMethod must be one of cod, online, upi")
	}

	addr := req.ShippingAddress
	if addr.FirstName == "" || addr.Address == "" || addr.City == "" || addr.Pincode == "" {
		return unprocessable("shipping address is incomplete")
	}
	return nil
}

func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("MB-%s-%s", now.Format("20060102"), suffix)
}

// GetOrder returns the order if it belongs to userID. Admins pass an empty
// userID to skip the ownership check.
func (s *OrderService) GetOrder(ctx context.Context, userID string, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		s.log.Error("Failed to load order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, internal("Failed to fetch order")
	}
	if userID != "" && order.UserID != userID {
		return nil, notFound("Order not found")
	}
	return order, nil
}

// GetUserOrders pages through a user's orders.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderList, *ServiceError) {
	orders, total, err := s.repo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.log.Error("Failed to list orders", zap.String("user_id", userID), zap.Error(err))
		return nil, internal("Failed to fetch orders")
	}
	return newOrderList(orders, total, page, limit), nil
}

// GetAllOrders pages through every order.
func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderList, *ServiceError) {
	orders, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.log.Error("Failed to list all orders", zap.Error(err))
		return nil, internal("Failed to fetch orders")
	}
	return newOrderList(orders, total, page, limit), nil
}

func newOrderList(orders []models.Order, total int64, page, limit int) *OrderList {
	if orders == nil {
		orders = []models.Order{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &OrderList{
		Orders: orders,
		Meta:   MetaData{Total: total, Page: page, Limit: limit, Pages: pages},
	}
}

// Timeline returns the tracking steps of an order owned by userID.
func (s *OrderService) Timeline(ctx context.Context, userID string, id uuid.UUID) ([]models.TimelineStep, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, userID, id)
	if svcErr != nil {
		return nil, svcErr
	}
	return models.Timeline(order.Status, order.CancelledFrom), nil
}

// UpdateStatus moves an order one step along, or cancels it.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, "", id)
	if svcErr != nil {
		return nil, svcErr
	}
	if err := models.CheckTransition(order.Status, status); err != nil {
		return nil, conflict(err.Error())
	}

	from := order.Status
	cancelledFrom := ""
	if status == models.StatusCancelled {
		cancelledFrom = from
	}
	if err := s.repo.UpdateStatus(ctx, id, status, cancelledFrom); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		s.log.Error("Failed to update order status", zap.String("order_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update order")
	}
	order.Status = status
	order.CancelledFrom = cancelledFrom
	orderTransitions.WithLabelValues(status).Inc()

	evt := models.OrderStatusEvent{
		Event:       "order_status_changed",
		OrderID:     id.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Email:       order.ShippingAddress.Email,
		From:        from,
		To:          status,
		Timestamp:   s.now().UTC(),
	}
	if err := awspkg.PublishEvent(ctx, s.sns, s.topicArn, evt); err != nil {
		s.log.Warn("Failed to publish status change", zap.String("order_id", evt.OrderID), zap.Error(err))
	}
	return order, nil
}
