// Package metrics объявляет Prometheus-метрики сервиса.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP метрики
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)

	// Подписки
	VipActivations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syndicate_vip_activations_total",
			Help: "VIP grants applied, by confirmation path",
		},
		[]string{"path"},
	)
	WebhookResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syndicate_webhook_results_total",
			Help: "Payment webhook outcomes",
		},
		[]string{"status"},
	)

	// Импорт из канала
	PicksImported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "syndicate_feed_picks_imported_total",
			Help: "Picks imported from the channel feed",
		},
	)
	PicksSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "syndicate_feed_picks_skipped_total",
			Help: "Channel messages skipped as already imported",
		},
	)

	// Рассылки
	NotificationsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syndicate_notifications_published_total",
			Help: "Broadcast events published to the broker",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// InitMetrics регистрирует метрики в глобальном реестре. Повторный вызов ничего не делает.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			VipActivations,
			WebhookResults,
			PicksImported,
			PicksSkipped,
			NotificationsPublished,
		)
	})
}
