package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/services"
)

// CouponController handles HTTP requests for coupon operations.
type CouponController struct {
	couponService services.CouponService
}

func NewCouponController(couponService services.CouponService) *CouponController {
	return &CouponController{couponService: couponService}
}

// CreateCoupon handles POST /coupons (admin only).
func (cc *CouponController) CreateCoupon(ctx *gin.Context) {
	var req models.CreateCouponRequest
	if !bind(ctx, &req) {
		return
	}

	coupon, svcErr := cc.couponService.CreateCoupon(ctx.Request.Context(), &req)
	reply(ctx, http.StatusCreated, gin.H{"coupon": coupon}, svcErr)
}

// ValidateCoupon handles POST /coupons/validate. It never uses up the coupon.
func (cc *CouponController) ValidateCoupon(ctx *gin.Context) {
	cc.check(ctx, cc.couponService.ValidateCoupon)
}

// RedeemCoupon handles POST /coupons/redeem once an order is placed.
func (cc *CouponController) RedeemCoupon(ctx *gin.Context) {
	cc.check(ctx, cc.couponService.RedeemCoupon)
}

type checkFn func(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *services.ServiceError)

func (cc *CouponController) check(ctx *gin.Context, fn checkFn) {
	var req models.ValidateCouponRequest
	if !bind(ctx, &req) {
		return
	}

	resp, svcErr := fn(ctx.Request.Context(), &req)
	if svcErr != nil {
		fail(ctx, svcErr)
		return
	}
	if !resp.Valid {
		logger.FromGin(ctx).Debug("coupon rejected", zap.String("code", req.Code), zap.String("reason", resp.Message))
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetCoupon handles GET /coupons/:code.
func (cc *CouponController) GetCoupon(ctx *gin.Context) {
	coupon, svcErr := cc.couponService.GetCoupon(ctx.Request.Context(), ctx.Param("code"))
	reply(ctx, http.StatusOK, gin.H{"coupon": coupon}, svcErr)
}

// DeactivateCoupon handles DELETE /coupons/:code (admin only).
func (cc *CouponController) DeactivateCoupon(ctx *gin.Context) {
	svcErr := cc.couponService.DeactivateCoupon(ctx.Request.Context(), ctx.Param("code"))
	reply(ctx, http.StatusOK, gin.H{"message": "Coupon deactivated"}, svcErr)
}

// ListCoupons handles GET /coupons (admin only). ?state= narrows the list
// to live, scheduled, expired or inactive coupons.
func (cc *CouponController) ListCoupons(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	filter := models.CouponFilter{
		State: strings.ToLower(strings.TrimSpace(ctx.Query("state"))),
		Page:  page,
		Limit: limit,
	}

	coupons, total, svcErr := cc.couponService.ListCoupons(ctx.Request.Context(), filter)
	if svcErr != nil {
		fail(ctx, svcErr)
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"meta": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_more":    total > int64(page*limit),
		},
	})
}

func parsePaginationParams(ctx *gin.Context) (page, limit int) {
	page, limit = 1, 10
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 {
		limit = min(l, 100)
	}
	return page, limit
}

func bind(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return false
	}
	return true
}

func fail(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

func reply(ctx *gin.Context, status int, body any, svcErr *services.ServiceError) {
	if svcErr != nil {
		fail(ctx, svcErr)
		return
	}
	ctx.JSON(status, body)
}
