package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор метрик сервиса: HTTP, БД и доменные счётчики.
// Методы безопасно вызывать на nil (метрики выключены).
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge

	AllocationsOpened  *prometheus.CounterVec
	AllocationsClosed  *prometheus.CounterVec
	CapacityRejections *prometheus.CounterVec
	BilledAmountTotal  *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),

		AllocationsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_allocations_opened_total",
			Help:        "Allocations opened",
			ConstLabels: labels,
		}, []string{"vehicle_type", "payment_type"}),
		AllocationsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_allocations_closed_total",
			Help:        "Allocations closed",
			ConstLabels: labels,
		}, []string{"payment_type", "tariff_rule"}),
		CapacityRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_capacity_rejections_total",
			Help:        "Open requests rejected because no spot was free",
			ConstLabels: labels,
		}, []string{"vehicle_type"}),
		BilledAmountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_billed_amount_total",
			Help:        "Sum of amounts billed on close",
			ConstLabels: labels,
		}, []string{"payment_type"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.AllocationsOpened,
		m.AllocationsClosed,
		m.CapacityRejections,
		m.BilledAmountTotal,
	)

	return m
}

// ObserveHTTPRequest записывает результат HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет статистику connection pool
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(open))
	m.DBInUseConnections.Set(float64(inUse))
	m.DBIdleConnections.Set(float64(idle))
}

func (m *Metrics) AllocationOpened(vehicleType, paymentType string) {
	if m == nil {
		return
	}
	m.AllocationsOpened.WithLabelValues(vehicleType, paymentType).Inc()
}

func (m *Metrics) CapacityRejected(vehicleType string) {
	if m == nil {
		return
	}
	m.CapacityRejections.WithLabelValues(vehicleType).Inc()
}

func (m *Metrics) AllocationClosed(paymentType, tariffRule string, amount float64) {
	if m == nil {
		return
	}
	m.AllocationsClosed.WithLabelValues(paymentType, tariffRule).Inc()
	m.BilledAmountTotal.WithLabelValues(paymentType).Add(amount)
}
