package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/pricing"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCheckoutService struct {
	placeFn    func(ctx context.Context, userID string, req models.CheckoutRequest, key string) (*models.Order, *services.ServiceError)
	lastQuote  []models.CartLine
	lastUserID string
	lastKey    string
}

func (f *fakeCheckoutService) Quote(_ context.Context, userID string, items []models.CartLine, _ string) (*services.Quote, *services.ServiceError) {
	f.lastQuote = items
	f.lastUserID = userID
	return &services.Quote{OrderTotals: pricing.ComputeTotal(items), Policy: "flat"}, nil
}

func (f *fakeCheckoutService) PlaceOrder(ctx context.Context, userID string, req models.CheckoutRequest, key string) (*models.Order, *services.ServiceError) {
	f.lastUserID = userID
	f.lastKey = key
	return f.placeFn(ctx, userID, req, key)
}

func (f *fakeCheckoutService) DeliveryZones() []pricing.DeliveryZone { return pricing.DefaultZones() }

func (f *fakeCheckoutService) DeliveryQuote(pincode string, subtotal float64) (*services.DeliveryQuote, *services.ServiceError) {
	return &services.DeliveryQuote{Zone: pricing.DeliveryZone{ID: "local"}, Subtotal: subtotal, Charge: 30}, nil
}

func (f *fakeCheckoutService) GetCart(_ context.Context, userID string) (*models.Cart, *services.ServiceError) {
	return &models.Cart{UserID: userID, Items: []models.CartLine{}}, nil
}

func (f *fakeCheckoutService) AddItem(_ context.Context, userID string, line models.CartLine) (*models.Cart, *services.ServiceError) {
	return &models.Cart{UserID: userID, Items: []models.CartLine{line}}, nil
}

func (f *fakeCheckoutService) RemoveItem(_ context.Context, userID, _, _ string) (*models.Cart, *services.ServiceError) {
	return &models.Cart{UserID: userID, Items: []models.CartLine{}}, nil
}

func (f *fakeCheckoutService) ClearCart(context.Context, string) *services.ServiceError { return nil }

func newRouter(svc CheckoutServiceAPI, userID string) *gin.Engine {
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) {
			c.Set("userID", userID)
			c.Next()
		})
	}
	cc := NewCheckoutController(svc)
	r.POST("/checkout/quote", cc.Quote)
	r.POST("/checkout/orders", cc.PlaceOrder)
	r.GET("/checkout/delivery-zones", cc.DeliveryZones)
	r.POST("/checkout/delivery-quote", cc.DeliveryQuote)
	r.POST("/cart/items", cc.AddItem)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQuote_ReturnsTotals(t *testing.T) {
	svc := &fakeCheckoutService{}
	w := doJSON(newRouter(svc, ""), http.MethodPost, "/checkout/quote", gin.H{
		"items": []gin.H{{"productId": "p1", "name": "Kaju Katli", "price": 300, "quantity": 2}},
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 600.0, got["subtotal"])
	assert.Equal(t, 0.0, got["shippingCost"])
	assert.Equal(t, 30.0, got["tax"])
	assert.Equal(t, 630.0, got["total"])
	assert.Equal(t, "", svc.lastUserID)
}

func TestQuote_RejectsBadLines(t *testing.T) {
	cases := map[string]gin.H{
		"negative quantity": {"productId": "p", "name": "Peda", "price": 100, "quantity": -3},
		"zero quantity":     {"productId": "p", "name": "Peda", "price": 100, "quantity": 0},
		"negative price":    {"productId": "p", "name": "Peda", "price": -100, "quantity": 1},
		"missing product":   {"name": "Peda", "price": 100, "quantity": 1},
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeCheckoutService{}
			w := doJSON(newRouter(svc, ""), http.MethodPost, "/checkout/quote", gin.H{"items": []gin.H{line}}, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, svc.lastQuote, "nothing is priced")
			assert.NotContains(t, w.Body.String(), "subtotal")
		})
	}
}

func TestPlaceOrder_RejectsBadLines(t *testing.T) {
	svc := &fakeCheckoutService{placeFn: func(context.Context, string, models.CheckoutRequest, string) (*models.Order, *services.ServiceError) {
		t.Fatal("order must not be placed")
		return nil, nil
	}}
	w := doJSON(newRouter(svc, "u1"), http.MethodPost, "/checkout/orders", gin.H{
		"sameAsShipping": true,
		"items":          []gin.H{{"productId": "p", "name": "Peda", "price": 100, "quantity": -1}},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrder_ValidationErrorShape(t *testing.T) {
	svc := &fakeCheckoutService{placeFn: func(context.Context, string, models.CheckoutRequest, string) (*models.Order, *services.ServiceError) {
		return nil, &services.ServiceError{StatusCode: http.StatusUnprocessableEntity, Message: "Please correct the highlighted fields", Fields: map[string]string{"phone": "Valid 10-digit phone number is required"}}
	}}
	w := doJSON(newRouter(svc, "u1"), http.MethodPost, "/checkout/orders", gin.H{"sameAsShipping": true}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, map[string]any{"phone": "Valid 10-digit phone number is required"}, got["fields"])
}

func TestPlaceOrder_Created(t *testing.T) {
	svc := &fakeCheckoutService{placeFn: func(context.Context, string, models.CheckoutRequest, string) (*models.Order, *services.ServiceError) {
		return &models.Order{ID: "o-1", Status: "pending", Total: 630}, nil
	}}
	w := doJSON(newRouter(svc, "u1"), http.MethodPost, "/checkout/orders", gin.H{"sameAsShipping": true, "paymentMethod": "upi"}, map[string]string{"Idempotency-Key": "abc"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"o-1"`)
	assert.Equal(t, "u1", svc.lastUserID)
	assert.Equal(t, "abc", svc.lastKey)
}

func TestPlaceOrder_RejectsUnknownPaymentMethod(t *testing.T) {
	svc := &fakeCheckoutService{}
	w := doJSON(newRouter(svc, "u1"), http.MethodPost, "/checkout/orders", gin.H{"paymentMethod": "barter"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrder_Unauthenticated(t *testing.T) {
	w := doJSON(newRouter(&fakeCheckoutService{}, ""), http.MethodPost, "/checkout/orders", gin.H{}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlaceOrder_UpstreamMessageVerbatim(t *testing.T) {
	svc := &fakeCheckoutService{placeFn: func(context.Context, string, models.CheckoutRequest, string) (*models.Order, *services.ServiceError) {
		return nil, &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Product Rasmalai is out of stock"}
	}}
	w := doJSON(newRouter(svc, "u1"), http.MethodPost, "/checkout/orders", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Product Rasmalai is out of stock"}`, w.Body.String())
}

func TestDeliveryZonesAndQuote(t *testing.T) {
	r := newRouter(&fakeCheckoutService{}, "")

	w := doJSON(r, http.MethodGet, "/checkout/delivery-zones", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"remote"`)

	w = doJSON(r, http.MethodPost, "/checkout/delivery-quote", gin.H{"pincode": "110001", "subtotal": 100}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"charge":30`)

	w = doJSON(r, http.MethodPost, "/checkout/delivery-quote", gin.H{"subtotal": 100}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItem_BindsQuantity(t *testing.T) {
	r := newRouter(&fakeCheckoutService{}, "u1")
	w := doJSON(r, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "name": "Peda", "price": 20, "quantity": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "name": "Peda", "price": 20, "quantity": 3}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
