package provider

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dramahub",
		Name:      "upstream_requests_total",
		Help:      "上游请求次数，按 provider、操作和结果分类",
	}, []string{"provider", "op", "outcome"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dramahub",
		Name:      "upstream_request_duration_seconds",
		Help:      "上游单次 HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
)

// record 统计一次 provider 操作的结果并原样返回
func record[T any](provider, op string, o Outcome[T]) Outcome[T] {
	upstreamRequests.WithLabelValues(provider, op, o.Kind.String()).Inc()
	return o
}

func observeLatency(provider string, start time.Time) {
	upstreamLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
