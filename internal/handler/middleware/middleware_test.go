//go:build unit

package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/pkg/config"
	"tour-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logCfg := config.LogConfig{Level: "error", TimeZone: "UTC", TimeFormat: time.RFC3339}

	r := gin.New()
	r.Use(middleware.NewCORSMiddleware(config.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))
	r.Use(middleware.LoggingMiddleware(logger, logCfg))
	r.Use(middleware.CustomRecovery())
	r.Use(middleware.ErrorHandler())

	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/panic", func(c *gin.Context) { panic("slot ledger exploded") })
	return r
}

func TestRequestID(t *testing.T) {
	r := newTestRouter()

	t.Run("client supplied id is echoed", func(t *testing.T) {
		req := nethttptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := nethttptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		httptest.AssertHeaders(t, w, map[string]string{"X-Request-ID": "req-42"})
	})

	t.Run("generated when missing", func(t *testing.T) {
		w := httptest.PerformRequest(t, r, http.MethodGet, "/ok", nil, "")

		assert.Regexp(t, `^\d{14}-[0-9a-f]{8}$`, w.Header().Get("X-Request-ID"))
	})
}

func TestCustomRecovery(t *testing.T) {
	r := newTestRouter()

	req := nethttptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("X-Request-ID", "req-panic")
	w := nethttptest.NewRecorder()
	r.ServeHTTP(w, req)

	httptest.AssertErrorResponse(t, w, http.StatusInternalServerError, "Internal server error")
	httptest.AssertHeaders(t, w, map[string]string{"X-Request-ID": "req-panic"})
	assert.NotContains(t, w.Body.String(), "slot ledger exploded")
}

func TestCORSExposesRequestID(t *testing.T) {
	r := newTestRouter()

	req := nethttptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := nethttptest.NewRecorder()
	r.ServeHTTP(w, req)

	httptest.AssertHeaders(t, w, map[string]string{
		"Access-Control-Allow-Origin":      "http://localhost:3000",
		"Access-Control-Allow-Credentials": "true",
	})
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Request-Id")
}
