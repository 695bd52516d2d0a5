package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var knownOrder = uuid.MustParse("7d3b1c1e-2f4a-4b7e-9a51-0c2d3e4f5a6b")

type fakeOrders struct {
	created   *services.CreateOrderRequest
	lastUser  string
	newStatus string
	page      [2]int
}

func (f *fakeOrders) CreateOrder(_ context.Context, req *services.CreateOrderRequest) (*models.Order, *services.ServiceError) {
	f.created = req
	if len(req.Items) == 0 {
		return nil, &services.ServiceError{StatusCode: http.StatusUnprocessableEntity, Message: "Order must contain at least one item"}
	}
	return &models.Order{ID: knownOrder, OrderNumber: "MB-20260102-ABCDEF", Status: models.StatusPending, Total: req.Total, PaymentMethod: req.PaymentMethod}, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, userID string, id uuid.UUID) (*models.Order, *services.ServiceError) {
	f.lastUser = userID
	if id != knownOrder {
		return nil, &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
	}
	return &models.Order{ID: id, UserID: "user-1", Status: models.StatusShipped}, nil
}

func (f *fakeOrders) GetUserOrders(_ context.Context, userID string, page, limit int) (*services.OrderList, *services.ServiceError) {
	f.lastUser = userID
	f.page = [2]int{page, limit}
	return &services.OrderList{Orders: []models.Order{}, Meta: services.MetaData{Page: page, Limit: limit}}, nil
}

func (f *fakeOrders) GetAllOrders(_ context.Context, page, limit int) (*services.OrderList, *services.ServiceError) {
	f.page = [2]int{page, limit}
	return &services.OrderList{Orders: []models.Order{}, Meta: services.MetaData{Page: page, Limit: limit}}, nil
}

func (f *fakeOrders) Timeline(_ context.Context, userID string, id uuid.UUID) ([]models.TimelineStep, *services.ServiceError) {
	f.lastUser = userID
	return models.Timeline(models.StatusShipped, ""), nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*models.Order, *services.ServiceError) {
	f.newStatus = status
	if status == models.StatusDelivered {
		return nil, &services.ServiceError{StatusCode: http.StatusConflict, Message: "cannot move order from pending to delivered"}
	}
	return &models.Order{ID: id, Status: status}, nil
}

const testSecret = "test-secret"

func newRouter(f *fakeOrders) *gin.Engine {
	r := gin.New()
	oc := NewOrderController(f)
	v := auth.NewVerifier(testSecret)

	r.POST("/orders", oc.CreateOrder)
	authed := r.Group("/", middleware.RequireAuth(v))
	authed.GET("/orders", oc.GetOrders)
	authed.GET("/orders/:id", oc.GetOrderByID)
	authed.GET("/orders/:id/timeline", oc.GetOrderTimeline)
	admin := r.Group("/admin", middleware.RequireAuth(v), middleware.AdminOnly())
	admin.GET("/orders", oc.GetAllOrders)
	admin.PATCH("/orders/:id/status", oc.UpdateOrderStatus)
	return r
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := auth.NewVerifier(testSecret).Sign(userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrder_Created(t *testing.T) {
	f := &fakeOrders{}
	w := do(newRouter(f), http.MethodPost, "/orders", "", map[string]interface{}{
		"userId":        "user-1",
		"items":         []map[string]interface{}{{"productId": "p-1", "name": "Kaju Katli", "price": 450, "quantity": 1}},
		"subtotal":      450,
		"shippingCost":  50,
		"tax":           23,
		"total":         523,
		"paymentMethod": "cod",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID          string  `json:"id"`
			OrderNumber string  `json:"orderNumber"`
			Status      string  `json:"status"`
			Total       float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, knownOrder.String(), body.Data.ID)
	assert.Equal(t, "pending", body.Data.Status)
	assert.Equal(t, 523.0, body.Data.Total)
	assert.Equal(t, "user-1", f.created.UserID)
}

func TestCreateOrder_Rejected(t *testing.T) {
	w := do(newRouter(&fakeOrders{}), http.MethodPost, "/orders", "", map[string]interface{}{"userId": "user-1", "items": []interface{}{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Order must contain at least one item"}`, w.Body.String())
}

func TestCreateOrder_BadJSON(t *testing.T) {
	r := newRouter(&fakeOrders{})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestGetOrders_UsesTokenSubjectAndPaging(t *testing.T) {
	f := &fakeOrders{}
	w := do(newRouter(f), http.MethodGet, "/orders?page=2&limit=500", token(t, "user-1", "customer"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", f.lastUser)
	assert.Equal(t, [2]int{2, 100}, f.page)
}

func TestGetOrders_RequiresAuth(t *testing.T) {
	w := do(newRouter(&fakeOrders{}), http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetOrderByID(t *testing.T) {
	f := &fakeOrders{}
	r := newRouter(f)

	w := do(r, http.MethodGet, "/orders/"+knownOrder.String(), token(t, "user-1", "customer"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", f.lastUser)

	w = do(r, http.MethodGet, "/orders/"+knownOrder.String(), token(t, "admin-1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", f.lastUser, "admins skip the ownership check")

	w = do(r, http.MethodGet, "/orders/not-a-uuid", token(t, "user-1", "customer"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/orders/"+uuid.NewString(), token(t, "user-1", "customer"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderTimeline(t *testing.T) {
	w := do(newRouter(&fakeOrders{}), http.MethodGet, "/orders/"+knownOrder.String()+"/timeline", token(t, "user-1", "customer"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Timeline []models.TimelineStep `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Timeline, 5)
	assert.True(t, body.Timeline[3].Current)
	assert.Equal(t, models.StatusShipped, body.Timeline[3].Status)
}

func TestAdminRoutes(t *testing.T) {
	f := &fakeOrders{}
	r := newRouter(f)
	path := "/admin/orders/" + knownOrder.String() + "/status"

	w := do(r, http.MethodPatch, path, token(t, "user-1", "customer"), map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPatch, path, token(t, "admin-1", "admin"), map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", f.newStatus)

	w = do(r, http.MethodPatch, path, token(t, "admin-1", "admin"), map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, path, token(t, "admin-1", "admin"), map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/admin/orders", token(t, "admin-1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]int{1, 10}, f.page)
}
