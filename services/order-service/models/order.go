package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a shipping or billing address stored inline on the order.
type Address struct {
	FirstName string `json:"firstName" gorm:"type:varchar(100)"`
	LastName  string `json:"lastName" gorm:"type:varchar(100)"`
	Email     string `json:"email,omitempty" gorm:"type:varchar(255)"`
	Phone     string `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Address   string `json:"address" gorm:"type:text"`
	City      string `json:"city" gorm:"type:varchar(100)"`
	State     string `json:"state" gorm:"type:varchar(100)"`
	Pincode   string `json:"pincode" gorm:"type:varchar(10)"`
	Landmark  string `json:"landmark,omitempty" gorm:"type:varchar(255)"`
}

type Order struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string         `json:"orderNumber" gorm:"type:varchar(32);uniqueIndex;not null"`
	UserID          string         `json:"userId" gorm:"type:varchar(64);not null;index"`
	Status          string         `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CancelledFrom   string         `json:"-" gorm:"type:varchar(20)"`
	Subtotal        float64        `json:"subtotal" gorm:"not null"`
	ShippingCost    float64        `json:"shippingCost" gorm:"not null"`
	Tax             float64        `json:"tax" gorm:"not null"`
	Total           float64        `json:"total" gorm:"not null"`
	PaymentMethod   string         `json:"paymentMethod" gorm:"type:varchar(20);not null"`
	ShippingAddress Address        `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	BillingAddress  Address        `json:"billingAddress" gorm:"embedded;embeddedPrefix:bill_"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	OrderItems      []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	ProductID string    `json:"productId" gorm:"type:varchar(64);not null"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	Weight    string    `json:"weight,omitempty" gorm:"type:varchar(20)"`
	Price     float64   `json:"price" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// OrderCreatedEvent is published to SNS once an order is stored.
type OrderCreatedEvent struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// OrderStatusEvent is published when an admin moves an order along.
type OrderStatusEvent struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Timestamp   time.Time `json:"timestamp"`
}
