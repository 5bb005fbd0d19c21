package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Auth Metrics
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_token_refreshes_total",
			Help: "Total number of refresh token rotations",
		},
		[]string{"status"},
	)

	// Upload Metrics
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_media_uploads_total",
			Help: "Total number of media uploads",
		},
		[]string{"kind"},
	)

	MediaUploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vidtube_media_upload_size_bytes",
			Help:    "Size of uploaded media in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 12), // 1KB to 4GB
		},
	)

	// Engagement Metrics
	VideoViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vidtube_video_views_total",
			Help: "Total number of recorded video views",
		},
	)

	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_like_toggles_total",
			Help: "Total number of like toggles",
		},
		[]string{"target", "state"},
	)

	SubscriptionTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_subscription_toggles_total",
			Help: "Total number of subscription toggles",
		},
		[]string{"state"},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordLogin records a login attempt
func RecordLogin(success bool) {
	LoginsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordTokenRefresh records a refresh token rotation
func RecordTokenRefresh(success bool) {
	TokenRefreshesTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordMediaUpload records a media upload
func RecordMediaUpload(kind string, sizeBytes int64) {
	MediaUploadsTotal.WithLabelValues(kind).Inc()
	MediaUploadSizeBytes.Observe(float64(sizeBytes))
}

// RecordLikeToggle records a like toggle and its resulting state
func RecordLikeToggle(target string, liked bool) {
	state := "unliked"
	if liked {
		state = "liked"
	}
	LikeTogglesTotal.WithLabelValues(target, state).Inc()
}

// RecordSubscriptionToggle records a subscription toggle
func RecordSubscriptionToggle(subscribed bool) {
	state := "unsubscribed"
	if subscribed {
		state = "subscribed"
	}
	SubscriptionTogglesTotal.WithLabelValues(state).Inc()
}

// RecordStorageOperation records a storage operation
func RecordStorageOperation(operation, status string, duration float64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
