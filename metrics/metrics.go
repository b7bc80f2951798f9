package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scrape statuses
const (
	StatusOK         = "ok"
	StatusFetchError = "fetch_error"
	StatusParseError = "parse_error"
	StatusMissingURL = "missing_url"
)

var (
	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_scrapes_total",
			Help: "Total number of price scrapes by outcome",
		},
		[]string{"asset", "status"},
	)

	Price = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pricewatch_price",
			Help: "Last normalized price per asset",
		},
		[]string{"asset"},
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_alerts_total",
			Help: "Total number of threshold alerts emitted",
		},
		[]string{"asset", "direction"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_notifications_total",
			Help: "Total number of notification deliveries by channel",
		},
		[]string{"channel", "status"}, // status: sent, failed
	)

	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricewatch_cycle_duration_seconds",
			Help:    "Time taken by one poll cycle over all assets",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)
