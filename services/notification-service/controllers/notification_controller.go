package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/services"
)

type NotificationController struct {
	notifications services.NotificationService
}

func NewNotificationController(svc services.NotificationService) *NotificationController {
	return &NotificationController{notifications: svc}
}

const (
	maxLimit     = 100
	defaultLimit = 20
)

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page, limit := 1, defaultLimit
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 {
		limit = min(l, maxLimit)
	}
	return page, limit
}

// GetNotificationLogs lists delivery records, newest first.
func (nc *NotificationController) GetNotificationLogs(ctx *gin.Context) {
	status := ctx.Query("status")
	if status != "" && status != models.StatusSent && status != models.StatusFailed {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "status must be sent or failed"})
		return
	}

	page, limit := parsePaginationParams(ctx)
	filter := models.NotificationFilter{
		UserID:  ctx.Query("user_id"),
		OrderID: ctx.Query("order_id"),
		Status:  status,
		Page:    page,
		Limit:   limit,
	}

	logs, total, err := nc.notifications.GetLogs(ctx.Request.Context(), filter)
	if err != nil {
		logger.FromGin(ctx).Error("Failed to get notification logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notification logs"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": logs,
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}
