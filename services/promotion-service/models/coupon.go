package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponType represents the type of discount a coupon provides.
type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFlat         CouponType = "flat"
	CouponTypeFreeShipping CouponType = "freeshipping"
)

// Coupon represents a promotional coupon stored in Postgres.
type Coupon struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Description   string         `gorm:"type:varchar(255)" json:"description,omitempty"`
	Type          CouponType     `gorm:"type:varchar(20);not null" json:"type"`
	Value         float64        `gorm:"not null" json:"value"`
	MinOrderValue float64        `gorm:"not null;default:0" json:"min_order_value"`
	MaxDiscount   float64        `gorm:"not null;default:0" json:"max_discount"` // 0 = uncapped
	UsageLimit    int            `gorm:"not null;default:0" json:"usage_limit"`  // 0 = unlimited
	UsedCount     int            `gorm:"not null;default:0" json:"used_count"`
	StartsAt      time.Time      `gorm:"not null" json:"starts_at"`
	ExpiresAt     time.Time      `gorm:"not null" json:"expires_at"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsActiveAt reports whether now falls in [StartsAt, ExpiresAt).
func (c *Coupon) IsActiveAt(now time.Time) bool {
	return c.Active && !now.Before(c.StartsAt) && now.Before(c.ExpiresAt)
}

// Exhausted reports whether the usage limit has been reached.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// Listing states for the admin coupon list, relative to the current time.
const (
	CouponStateLive      = "live"
	CouponStateScheduled = "scheduled"
	CouponStateExpired   = "expired"
	CouponStateInactive  = "inactive"
)

// CouponFilter selects a page of coupons. An empty State lists all of them.
type CouponFilter struct {
	State string
	Page  int
	Limit int
}

// CreateCouponRequest is the payload for creating a new coupon. StartsAt
// defaults to the time of creation.
type CreateCouponRequest struct {
	Code          string     `json:"code" binding:"required,min=3,max=64,alphanum"`
	Description   string     `json:"description" binding:"max=255"`
	Type          CouponType `json:"type" binding:"required,oneof=percentage flat freeshipping"`
	Value         float64    `json:"value" binding:"gte=0"`
	MinOrderValue float64    `json:"min_order_value" binding:"gte=0"`
	MaxDiscount   float64    `json:"max_discount" binding:"gte=0"`
	UsageLimit    int        `json:"usage_limit" binding:"gte=0"`
	StartsAt      *time.Time `json:"starts_at"`
	ExpiresAt     time.Time  `json:"expires_at" binding:"required"`
}

// ValidateCouponRequest checks a coupon against a cart subtotal.
type ValidateCouponRequest struct {
	Code      string  `json:"code" binding:"required"`
	CartTotal float64 `json:"cart_total" binding:"required,gt=0"`
}

// ValidateCouponResponse carries the discount a coupon would give. Coupons
// never change the checkout totals themselves; the caller applies the
// discount.
type ValidateCouponResponse struct {
	Valid          bool       `json:"valid"`
	Code           string     `json:"code"`
	Type           CouponType `json:"type,omitempty"`
	DiscountAmount float64    `json:"discount_amount"`
	FreeShipping   bool       `json:"free_shipping"`
	Message        string     `json:"message,omitempty"`
}

// CouponAppliedEvent is published to SNS when a coupon is redeemed.
type CouponAppliedEvent struct {
	EventType      string    `json:"event_type"`
	CouponID       string    `json:"coupon_id"`
	CouponCode     string    `json:"coupon_code"`
	CouponType     string    `json:"coupon_type"`
	DiscountAmount float64   `json:"discount_amount"`
	CartTotal      float64   `json:"cart_total"`
	Timestamp      time.Time `json:"timestamp"`
}
