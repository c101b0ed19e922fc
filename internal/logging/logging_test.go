package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", "json", &buf)
	t.Cleanup(func() { Init("info", "json", &bytes.Buffer{}) })

	Component("test").Debug("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "test", line["component"])
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	Init("loud", "text", &bytes.Buffer{})
	t.Cleanup(func() { Init("info", "json", &bytes.Buffer{}) })

	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)
	t.Cleanup(func() { Init("info", "json", &bytes.Buffer{}) })

	e := echo.New()
	e.Use(RequestLogger(func(c echo.Context) bool {
		return c.Request().URL.Path == "/api/health"
	}))
	e.GET("/api/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/uploads", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Empty(t, buf.String(), "skipped path must not be logged")

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	assert.Contains(t, buf.String(), `"uri":"/api/uploads"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestRequestLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)
	t.Cleanup(func() { Init("info", "json", &bytes.Buffer{}) })

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(nil))
	e.GET("/api/uploads", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	buf.Reset()
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))

	generated := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, generated)
	assert.Contains(t, buf.String(), `"request_id":"`+generated+`"`)
}
