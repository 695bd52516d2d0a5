package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeNotifications struct {
	filter models.NotificationFilter
	err    error
}

func (f *fakeNotifications) HandleMessage(context.Context, string) error { return nil }

func (f *fakeNotifications) GetLogs(_ context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	f.filter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return []models.NotificationLog{{ID: 7, OrderID: "o-1", Status: models.StatusFailed}}, 41, nil
}

func get(f *fakeNotifications, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/admin/notifications", NewNotificationController(f).GetNotificationLogs)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetNotificationLogs(t *testing.T) {
	f := &fakeNotifications{}
	w := get(f, "/admin/notifications?status=failed&order_id=o-1&page=2&limit=500")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.NotificationFilter{OrderID: "o-1", Status: models.StatusFailed, Page: 2, Limit: 100}, f.filter)

	var body struct {
		Data []models.NotificationLog `json:"data"`
		Meta struct {
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.EqualValues(t, 7, body.Data[0].ID)
	assert.Equal(t, 41, body.Meta.Total)
	assert.Equal(t, 1, body.Meta.Pages)
}

func TestGetNotificationLogs_Defaults(t *testing.T) {
	f := &fakeNotifications{}
	w := get(f, "/admin/notifications")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.filter.Page)
	assert.Equal(t, 20, f.filter.Limit)
}

func TestGetNotificationLogs_BadStatus(t *testing.T) {
	w := get(&fakeNotifications{}, "/admin/notifications?status=queued")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetNotificationLogs_StoreError(t *testing.T) {
	w := get(&fakeNotifications{err: errors.New("db down")}, "/admin/notifications")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
