package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/services"
)

// OrderAPI is the part of services.OrderService the handlers use.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req *services.CreateOrderRequest) (*models.Order, *services.ServiceError)
	GetOrder(ctx context.Context, userID string, id uuid.UUID) (*models.Order, *services.ServiceError)
	GetUserOrders(ctx context.Context, userID string, page, limit int) (*services.OrderList, *services.ServiceError)
	GetAllOrders(ctx context.Context, page, limit int) (*services.OrderList, *services.ServiceError)
	Timeline(ctx context.Context, userID string, id uuid.UUID) ([]models.TimelineStep, *services.ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *services.ServiceError)
}

type OrderController struct {
	orders OrderAPI
}

func NewOrderController(orders OrderAPI) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder answers checkout with {success, data} or {success: false, error}.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	order, svcErr := oc.orders.CreateOrder(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}

// GetOrders lists the caller's own orders, newest first.
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	pq := readPage(ctx)
	result, svcErr := oc.orders.GetUserOrders(ctx.Request.Context(), userID, pq.Page, pq.Limit)
	reply(ctx, http.StatusOK, result, svcErr)
}

// GetAllOrders is the admin view over every customer's orders.
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	pq := readPage(ctx)
	result, svcErr := oc.orders.GetAllOrders(ctx.Request.Context(), pq.Page, pq.Limit)
	reply(ctx, http.StatusOK, result, svcErr)
}

// GetOrderByID returns one order; customers only see their own.
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	userID, orderID, ok := oc.ownerAndID(ctx)
	if !ok {
		return
	}

	order, svcErr := oc.orders.GetOrder(ctx.Request.Context(), userID, orderID)
	reply(ctx, http.StatusOK, gin.H{"order": order}, svcErr)
}

// GetOrderTimeline returns the tracking steps for an order.
func (oc *OrderController) GetOrderTimeline(ctx *gin.Context) {
	userID, orderID, ok := oc.ownerAndID(ctx)
	if !ok {
		return
	}

	steps, svcErr := oc.orders.Timeline(ctx.Request.Context(), userID, orderID)
	reply(ctx, http.StatusOK, gin.H{"order_id": orderID, "timeline": steps}, svcErr)
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed processing shipped delivered cancelled"`
}

// UpdateOrderStatus moves an order along its fulfilment path (admin only).
func (oc *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	orderID, ok := pathOrderID(ctx)
	if !ok {
		return
	}

	var req statusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	order, svcErr := oc.orders.UpdateStatus(ctx.Request.Context(), orderID, req.Status)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	logger.FromGin(ctx).Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", req.Status),
	)
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ownerAndID reads the caller and the :id param. Admins see every order.
func (oc *OrderController) ownerAndID(ctx *gin.Context) (string, uuid.UUID, bool) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", uuid.Nil, false
	}
	orderID, ok := pathOrderID(ctx)
	if !ok {
		return "", uuid.Nil, false
	}
	if ctx.GetString(middleware.RoleContextKey) == "admin" {
		userID = ""
	}
	return userID, orderID, true
}

func pathOrderID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "order id must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

const maxPageSize = 100

// readPage never fails: junk or missing values fall back to page 1 of 10.
func readPage(ctx *gin.Context) pageQuery {
	var pq pageQuery
	_ = ctx.ShouldBindQuery(&pq)
	if pq.Page < 1 {
		pq.Page = 1
	}
	switch {
	case pq.Limit < 1:
		pq.Limit = 10
	case pq.Limit > maxPageSize:
		pq.Limit = maxPageSize
	}
	return pq
}

func reply(ctx *gin.Context, status int, body any, svcErr *services.ServiceError) {
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(status, body)
}
