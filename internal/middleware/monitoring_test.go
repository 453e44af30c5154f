package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"easybuy/internal/metrics"
	"easybuy/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// ハンドラがレスポンスを書かずにエラーを返しても、指標は実際のステータスで数える
func TestPrometheusMiddleware_UncommittedErrorStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/teapots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/teapots")

	h := middleware.PrometheusMiddleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "teapot")
	})

	err := h(c)
	assert.Error(t, err)

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/teapots", "418"))
	assert.Equal(t, float64(1), got)
}

func TestPrometheusMiddleware_CommittedStatusKept(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/empty", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/empty")

	h := middleware.PrometheusMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	assert.NoError(t, h(c))

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/empty", "204"))
	assert.Equal(t, float64(1), got)
}
