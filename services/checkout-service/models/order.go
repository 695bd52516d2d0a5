package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
	PaymentUPI    = "upi"
)

// CheckoutRequest is the checkout form. Items may be omitted, in which case
// the shopper's stored cart is used.
type CheckoutRequest struct {
	Items           []CartLine `json:"items" binding:"omitempty,dive"`
	ShippingAddress Address    `json:"shippingAddress"`
	BillingAddress  Address    `json:"billingAddress"`
	SameAsShipping  bool       `json:"sameAsShipping"`
	PaymentMethod   string     `json:"paymentMethod" binding:"omitempty,oneof=cod online upi"`
}

// CreateOrderRequest is sent to the order service.
type CreateOrderRequest struct {
	UserID          string     `json:"userId"`
	Items           []CartLine `json:"items"`
	ShippingAddress Address    `json:"shippingAddress"`
	BillingAddress  Address    `json:"billingAddress"`
	ShippingCost    float64    `json:"shippingCost"`
	Subtotal        float64    `json:"subtotal"`
	Tax             float64    `json:"tax"`
	Total           float64    `json:"total"`
	PaymentMethod   string     `json:"paymentMethod"`
}

// Order is the order as returned by the order service.
type Order struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	Status        string    `json:"status"`
	Subtotal      float64   `json:"subtotal"`
	ShippingCost  float64   `json:"shippingCost"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OrderResponse is the order service envelope.
type OrderResponse struct {
	Success bool   `json:"success"`
	Data    *Order `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OrderPlacedEvent is published after an order is created.
type OrderPlacedEvent struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	ItemCount int       `json:"item_count"`
	Total     float64   `json:"total"`
	Pincode   string    `json:"pincode"`
	Timestamp time.Time `json:"timestamp"`
}

// DeliveryQuoteRequest asks for the zone charge of a destination.
type DeliveryQuoteRequest struct {
	Pincode  string  `json:"pincode" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"gte=0"`
}
