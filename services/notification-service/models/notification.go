package models

import "time"

const (
	ChannelEmail = "email"

	StatusSent   = "sent"
	StatusFailed = "failed"

	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// NotificationLog records one delivery attempt sequence for a customer.
type NotificationLog struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);index"`
	OrderID   string    `json:"order_id" gorm:"type:varchar(64);index:idx_notification_order_kind"`
	Kind      string    `json:"kind" gorm:"type:varchar(64);index:idx_notification_order_kind"`
	Channel   string    `json:"channel" gorm:"type:varchar(16)"`
	Recipient string    `json:"recipient" gorm:"type:varchar(255)"`
	Subject   string    `json:"subject" gorm:"type:varchar(255)"`
	Status    string    `json:"status" gorm:"type:varchar(16);index"`
	Error     string    `json:"error,omitempty" gorm:"type:text"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NotificationFilter narrows the admin log listing.
type NotificationFilter struct {
	UserID  string
	OrderID string
	Status  string
	Page    int
	Limit   int
}

// OrderEvent is the union of the order events published by the order service.
type OrderEvent struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"item_count"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Timestamp   time.Time `json:"timestamp"`
}
