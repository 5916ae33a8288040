package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotificationMetrics exposes counters for outbound patient notifications.
type NotificationMetrics struct {
	sentTotal   *prometheus.CounterVec
	failedTotal *prometheus.CounterVec
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	m := &NotificationMetrics{
		sentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meditrack",
			Subsystem: "notify",
			Name:      "sent_total",
			Help:      "Total notifications handed to the transport",
		}, []string{"channel"}),
		failedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meditrack",
			Subsystem: "notify",
			Name:      "failed_total",
			Help:      "Total notifications the transport rejected",
		}, []string{"channel"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sentTotal, m.failedTotal)
	return m
}

func (m *NotificationMetrics) ObserveSent(channel string) {
	if m == nil {
		return
	}
	m.sentTotal.WithLabelValues(channel).Inc()
}

func (m *NotificationMetrics) ObserveFailed(channel string) {
	if m == nil {
		return
	}
	m.failedTotal.WithLabelValues(channel).Inc()
}

// AppointmentMetrics exposes counters for the appointment workflow and the
// admin view cache.
type AppointmentMetrics struct {
	createdTotal prometheus.Counter
	updatedTotal *prometheus.CounterVec
	viewCache    *prometheus.CounterVec
}

func NewAppointmentMetrics(reg prometheus.Registerer) *AppointmentMetrics {
	m := &AppointmentMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meditrack",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Total appointments created",
		}),
		updatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meditrack",
			Subsystem: "appointments",
			Name:      "updated_total",
			Help:      "Total appointment updates by type",
		}, []string{"type"}),
		viewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meditrack",
			Subsystem: "admin",
			Name:      "view_cache_total",
			Help:      "Admin view cache lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.updatedTotal, m.viewCache)
	return m
}

func (m *AppointmentMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *AppointmentMetrics) ObserveUpdated(updateType string) {
	if m == nil {
		return
	}
	m.updatedTotal.WithLabelValues(updateType).Inc()
}

func (m *AppointmentMetrics) ObserveViewCache(result string) {
	if m == nil {
		return
	}
	m.viewCache.WithLabelValues(result).Inc()
}
