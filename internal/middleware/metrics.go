package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dramahub",
		Name:      "http_requests_total",
		Help:      "API 请求次数",
	}, []string{"route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dramahub",
		Name:      "http_request_duration_seconds",
		Help:      "API 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// Metrics 按路由模板统计请求次数与耗时，未匹配的路由记为 "unmatched"
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
