package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"easybuy/internal/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ハンドラがレスポンスを書かずにエラーを返した時点では
// HTTPErrorHandlerがまだ走っておらずResponse().Statusは200のままなので、
// ステータスはエラー側から決める。
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// Prometheus 指標を収集する
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(responseStatus(c, err))

			metrics.HTTPRequestsTotal.WithLabelValues(
				c.Request().Method,
				path,
				status,
			).Inc()

			metrics.HTTPRequestDuration.WithLabelValues(
				c.Request().Method,
				path,
				status,
			).Observe(duration)

			return err
		}
	}
}

// アクセスログを1行出す
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			zap.L().Info("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", responseStatus(c, err)),
				zap.Duration("took", time.Since(start)),
			)

			return err
		}
	}
}
