package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/models"
)

// ErrUsageLimitReached is returned when a redemption would exceed the limit.
var ErrUsageLimitReached = errors.New("coupon usage limit reached")

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsedCount(ctx context.Context, code string) error
	Deactivate(ctx context.Context, code string) error
	FindAll(ctx context.Context, filter models.CouponFilter, now time.Time) ([]models.Coupon, int64, error)
}

type GormCouponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// byCode scopes a query to one coupon. Codes match case-insensitively.
func (r *GormCouponRepository) byCode(ctx context.Context, code string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("LOWER(code) = ?", strings.ToLower(strings.TrimSpace(code)))
}

func (r *GormCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// FindByCode returns the coupon only while it is switched on; the validity
// window is checked by the caller.
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.byCode(ctx, code).Where("active = ?", true).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IncrementUsedCount counts one redemption. The limit is part of the WHERE
// clause so concurrent redemptions cannot overshoot it.
func (r *GormCouponRepository) IncrementUsedCount(ctx context.Context, code string) error {
	res := r.byCode(ctx, code).
		Where("usage_limit = 0 OR used_count < usage_limit").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return ErrUsageLimitReached
	}
	return nil
}

func (r *GormCouponRepository) Deactivate(ctx context.Context, code string) error {
	res := r.byCode(ctx, code).Update("active", false)
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll pages through coupons newest first, narrowed to filter.State as
// seen at now.
func (r *GormCouponRepository) FindAll(ctx context.Context, filter models.CouponFilter, now time.Time) ([]models.Coupon, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Coupon{})
	switch filter.State {
	case models.CouponStateLive:
		q = q.Where("active = ? AND starts_at <= ? AND expires_at > ?", true, now, now)
	case models.CouponStateScheduled:
		q = q.Where("active = ? AND starts_at > ?", true, now)
	case models.CouponStateExpired:
		q = q.Where("expires_at <= ?", now)
	case models.CouponStateInactive:
		q = q.Where("active = ?", false)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var coupons []models.Coupon
	err := q.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&coupons).Error
	if err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}
