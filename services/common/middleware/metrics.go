package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
)

// MetricsMiddleware sends request count, latency and error counts to
// CloudWatch in one call per request, off the request goroutine. The route
// template is the Path dimension so cardinality stays bounded.
func MetricsMiddleware(metricsClient *awspkg.MetricsClient, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !metricsClient.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		data := requestMetrics(metricsClient, serviceName, c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsClient.Put(ctx, data...); err != nil {
				zap.L().Debug("request metrics not sent", zap.Error(err))
			}
		}()
	}
}

func requestMetrics(m *awspkg.MetricsClient, service, method, path string, status int, took time.Duration) []types.MetricDatum {
	dims := map[string]string{
		"Service": service,
		"Method":  method,
		"Path":    path,
		"Status":  statusClass(status),
	}
	data := []types.MetricDatum{
		m.Datum(awspkg.MetricHTTPRequests, 1, types.StandardUnitCount, dims),
		m.Datum(awspkg.MetricHTTPLatency, float64(took.Milliseconds()), types.StandardUnitMilliseconds, dims),
	}
	switch {
	case status >= 500:
		data = append(data,
			m.Datum(awspkg.MetricHTTPErrors, 1, types.StandardUnitCount, dims),
			m.Datum(awspkg.MetricHTTP5xx, 1, types.StandardUnitCount, dims))
	case status >= 400:
		data = append(data,
			m.Datum(awspkg.MetricHTTPErrors, 1, types.StandardUnitCount, dims),
			m.Datum(awspkg.MetricHTTP4xx, 1, types.StandardUnitCount, dims))
	}
	return data
}

// statusClass maps 404 to "4xx".
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
