package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoupon_IsActiveAt(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	c := &Coupon{Active: true, StartsAt: start, ExpiresAt: end}

	assert.False(t, c.IsActiveAt(start.Add(-time.Second)))
	assert.True(t, c.IsActiveAt(start), "window start is inclusive")
	assert.True(t, c.IsActiveAt(end.Add(-time.Nanosecond)))
	assert.False(t, c.IsActiveAt(end), "window end is exclusive")

	c.Active = false
	assert.False(t, c.IsActiveAt(start.Add(time.Hour)))
}

func TestCoupon_Exhausted(t *testing.T) {
	assert.False(t, (&Coupon{UsageLimit: 0, UsedCount: 1000}).Exhausted())
	assert.False(t, (&Coupon{UsageLimit: 3, UsedCount: 2}).Exhausted())
	assert.True(t, (&Coupon{UsageLimit: 3, UsedCount: 3}).Exhausted())
}
