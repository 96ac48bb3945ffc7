package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_http_requests_total",
			Help: "Total number of HTTP requests processed by the sync service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	groupsSyncedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_groups_synced_total",
			Help: "Total number of group rows upserted by sync passes.",
		},
	)
	passFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_pass_record_failures_total",
			Help: "Total number of per-record failures skipped inside a pass.",
		},
		[]string{"pass"},
	)
	messagesSavedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_messages_saved_total",
			Help: "Total number of new messages stored.",
		},
	)
	messagesSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_messages_skipped_total",
			Help: "Total number of message records skipped as duplicates or unusable.",
		},
	)
	gatewayErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_gateway_errors_total",
			Help: "Total number of failed gateway calls.",
		},
	)
	batchGroupFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_batch_group_failures_total",
			Help: "Total number of groups that failed inside a background batch run.",
		},
	)
	batchJobsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_batch_jobs_inflight",
			Help: "Number of background full-sync jobs queued or running.",
		},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		groupsSyncedTotal,
		passFailuresTotal,
		messagesSavedTotal,
		messagesSkippedTotal,
		gatewayErrorsTotal,
		batchGroupFailuresTotal,
		batchJobsInflight,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func AddGroupsSynced(n int) {
	groupsSyncedTotal.Add(float64(n))
}

func IncPassFailure(pass string) {
	passFailuresTotal.WithLabelValues(pass).Inc()
}

func AddMessagesSaved(n int) {
	messagesSavedTotal.Add(float64(n))
}

func AddMessagesSkipped(n int) {
	messagesSkippedTotal.Add(float64(n))
}

func IncGatewayError() {
	gatewayErrorsTotal.Inc()
}

func IncBatchGroupFailure() {
	batchGroupFailuresTotal.Inc()
}

func IncBatchJobsInflight() {
	batchJobsInflight.Inc()
}

func DecBatchJobsInflight() {
	batchJobsInflight.Dec()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
