package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWrap_KeepsSentinelIdentity(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(ErrBadGateway, cause)

	assert.True(t, stderrors.Is(err, ErrBadGateway))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "Upstream service failed: dial tcp: refused", err.Error())
	assert.Nil(t, ErrBadGateway.Err, "sentinel must not be mutated")
}

func TestErrorMiddleware_RendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(Validation(map[string]string{"pincode": "Pincode must be 6 digits"}))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Please correct the highlighted fields", body["error"])
	assert.Equal(t, map[string]any{"pincode": "Pincode must be 6 digits"}, body["fields"])
}

func TestErrorMiddleware_PlainErrorIs500(t *testing.T) {
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
