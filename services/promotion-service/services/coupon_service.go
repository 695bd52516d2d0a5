package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"gorm.io/gorm"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/repository"
)

var couponRedemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "coupon_redemptions_total",
	Help: "Coupon redemptions by coupon type.",
}, []string{"type"})

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CouponService defines the interface for coupon business logic.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	ValidateCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *ServiceError)
	RedeemCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *ServiceError)
	GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError)
	DeactivateCoupon(ctx context.Context, code string) *ServiceError
	ListCoupons(ctx context.Context, filter models.CouponFilter) ([]models.Coupon, int64, *ServiceError)
}

type couponServiceImpl struct {
	repo        repository.CouponRepository
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	metrics     *awspkg.MetricsClient
	logger      *zap.Logger
	now         func() time.Time
}

// NewCouponService creates a new CouponService. snsClient may be nil.
func NewCouponService(
	repo repository.CouponRepository,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	metrics *awspkg.MetricsClient,
	logger *zap.Logger,
) CouponService {
	return newCouponService(repo, snsClient, snsTopicArn, metrics, logger, time.Now)
}

func newCouponService(
	repo repository.CouponRepository,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	metrics *awspkg.MetricsClient,
	logger *zap.Logger,
	now func() time.Time,
) *couponServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &couponServiceImpl{
		repo:        repo,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
		now:         now,
	}
}

// CreateCoupon creates a new coupon.
func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	now := s.now()
	startsAt := now
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	}

	switch {
	case !req.ExpiresAt.After(now):
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Expiry date must be in the future"}
	case !req.ExpiresAt.After(startsAt):
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Expiry date must be after the start date"}
	case req.Type == models.CouponTypePercentage && (req.Value <= 0 || req.Value > 100):
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Percentage discount must be between 0 and 100"}
	case req.Type == models.CouponTypeFlat && req.Value <= 0:
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Flat discount must be greater than 0"}
	}

	value := req.Value
	if req.Type == models.CouponTypeFreeShipping {
		value = 0
	}

	coupon := &models.Coupon{
		Code:          strings.ToUpper(req.Code),
		Description:   req.Description,
		Type:          req.Type,
		Value:         value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		UsageLimit:    req.UsageLimit,
		StartsAt:      startsAt,
		ExpiresAt:     req.ExpiresAt,
		Active:        true,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") {
			return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Coupon code already exists"}
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create coupon"}
	}

	s.logger.Info("Coupon created",
		zap.String("code", coupon.Code),
		zap.String("type", string(coupon.Type)),
		zap.Time("starts_at", coupon.StartsAt),
		zap.Time("expires_at", coupon.ExpiresAt),
	)
	return coupon, nil
}

// ValidateCoupon reports the discount a coupon would give without using it.
func (s *couponServiceImpl) ValidateCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *ServiceError) {
	_, resp := s.evaluate(ctx, req)
	return resp, nil
}

// RedeemCoupon validates the coupon and counts one use of it.
func (s *couponServiceImpl) RedeemCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *ServiceError) {
	coupon, resp := s.evaluate(ctx, req)
	if !resp.Valid {
		return resp, nil
	}

	if err := s.repo.IncrementUsedCount(ctx, coupon.Code); err != nil {
		if errors.Is(err, repository.ErrUsageLimitReached) {
			return invalid(req.Code, "Coupon usage limit reached"), nil
		}
		s.logger.Error("Failed to increment coupon usage", zap.String("code", coupon.Code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to apply coupon"}
	}

	couponRedemptions.WithLabelValues(string(coupon.Type)).Inc()
	_ = s.metrics.RecordCount(ctx, awspkg.MetricCouponsApplied, map[string]string{"CouponType": string(coupon.Type)})
	s.publishCouponAppliedEvent(ctx, coupon, resp.DiscountAmount, req.CartTotal)

	resp.Message = "Coupon applied successfully"
	return resp, nil
}

func (s *couponServiceImpl) evaluate(ctx context.Context, req *models.ValidateCouponRequest) (*models.Coupon, *models.ValidateCouponResponse) {
	coupon, err := s.repo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, invalid(req.Code, "Coupon not found or inactive")
	}

	now := s.now()
	switch {
	case now.Before(coupon.StartsAt):
		return coupon, invalid(req.Code, "Coupon is not active yet")
	case !coupon.IsActiveAt(now):
		return coupon, invalid(req.Code, "Coupon has expired")
	case coupon.Exhausted():
		return coupon, invalid(req.Code, "Coupon usage limit reached")
	case req.CartTotal < coupon.MinOrderValue:
		return coupon, invalid(req.Code, fmt.Sprintf("Minimum order value of %.2f required", coupon.MinOrderValue))
	}

	return coupon, &models.ValidateCouponResponse{
		Valid:          true,
		Code:           coupon.Code,
		Type:           coupon.Type,
		DiscountAmount: Discount(coupon, req.CartTotal),
		FreeShipping:   coupon.Type == models.CouponTypeFreeShipping,
		Message:        "Coupon is valid",
	}
}

func invalid(code, msg string) *models.ValidateCouponResponse {
	return &models.ValidateCouponResponse{Valid: false, Code: code, Message: msg}
}

// Discount is the amount taken off cartTotal, rounded to paise and never more
// than the cart. Free shipping coupons carry no amount.
func Discount(c *models.Coupon, cartTotal float64) float64 {
	var d float64
	switch c.Type {
	case models.CouponTypePercentage:
		d = math.Round(cartTotal*c.Value) / 100
	case models.CouponTypeFlat:
		d = c.Value
	default:
		return 0
	}
	if c.MaxDiscount > 0 && d > c.MaxDiscount {
		d = c.MaxDiscount
	}
	if d > cartTotal {
		d = cartTotal
	}
	return d
}

// GetCoupon retrieves a coupon by code.
func (s *couponServiceImpl) GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Coupon not found"}
		}
		s.logger.Error("Failed to load coupon", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch coupon"}
	}
	return coupon, nil
}

// DeactivateCoupon deactivates a coupon by code.
func (s *couponServiceImpl) DeactivateCoupon(ctx context.Context, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Coupon not found"}
		}
		s.logger.Error("Failed to deactivate coupon", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to deactivate coupon"}
	}

	s.logger.Info("Coupon deactivated", zap.String("code", code))
	return nil
}

// ListCoupons returns a page of coupons in the requested state.
func (s *couponServiceImpl) ListCoupons(ctx context.Context, filter models.CouponFilter) ([]models.Coupon, int64, *ServiceError) {
	switch filter.State {
	case "", models.CouponStateLive, models.CouponStateScheduled, models.CouponStateExpired, models.CouponStateInactive:
	default:
		return nil, 0, &ServiceError{StatusCode: http.StatusBadRequest, Message: "state must be one of live, scheduled, expired, inactive"}
	}
	coupons, total, err := s.repo.FindAll(ctx, filter, s.now())
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to list coupons"}
	}
	return coupons, total, nil
}

func (s *couponServiceImpl) publishCouponAppliedEvent(ctx context.Context, coupon *models.Coupon, discount, cartTotal float64) {
	event := models.CouponAppliedEvent{
		EventType:      "coupon_applied",
		CouponID:       coupon.ID.String(),
		CouponCode:     coupon.Code,
		CouponType:     string(coupon.Type),
		DiscountAmount: discount,
		CartTotal:      cartTotal,
		Timestamp:      s.now().UTC(),
	}
	if err := awspkg.PublishEvent(ctx, s.snsClient, s.snsTopicArn, event); err != nil {
		s.logger.Error("Failed to publish coupon_applied event", zap.Error(err))
		return
	}
	s.logger.Debug("Published coupon_applied event",
		zap.String("coupon_code", coupon.Code),
		zap.Float64("discount", discount),
	)
}
