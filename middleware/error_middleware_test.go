package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streamhive/streamhive-backend/utils"
)

func errorEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerRendersApiError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		Fail(c, utils.Conflict("Username or email already exists"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	body := errorEnvelope(t, w)
	assert.Equal(t, "Username or email already exists", body["message"])
	assert.Equal(t, false, body["success"])
	assert.NotNil(t, body["errors"])
	assert.NotContains(t, body, "data")
}

func TestErrorHandlerWrapsUnknownErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_ENV", "development")

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		Fail(c, errors.New("upstream exploded"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := errorEnvelope(t, w)
	assert.Equal(t, "upstream exploded", body["message"])
	assert.Contains(t, body, "stack")
}

func TestErrorHandlerSuppressesStackInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_ENV", "production")

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		Fail(c, errors.New("upstream exploded"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, errorEnvelope(t, w), "stack")
}

func TestNotFoundHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.NoRoute(NotFoundHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := errorEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "/no/such/route")
}
