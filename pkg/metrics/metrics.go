package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slotpoll",
		Subsystem: "store",
		Name:      "err_count",
	}, []string{"method"})
	StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slotpoll",
		Subsystem: "store",
		Name:      "duration_seconds",
	}, []string{"method"})
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slotpoll",
		Subsystem: "http",
		Name:      "requests_total",
	}, []string{"route", "status"})
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slotpoll",
		Subsystem: "http",
		Name:      "duration_seconds",
	}, []string{"route"})
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slotpoll",
		Subsystem: "notifier",
		Name:      "messages_total",
	}, []string{"result"})
)
