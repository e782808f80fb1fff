package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	dbQueryDuration    *prometheus.HistogramVec
	dbOpenConnections  *prometheus.GaugeVec
	capacityAdjustment *prometheus.CounterVec
	scheduleSaves      *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создаёт метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests by route, method and status.",
				ConstLabels: constLabels,
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration by route and method.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"route", "method"},
		),
		dbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query duration by operation.",
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		dbOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_connections",
				Help:        "Database pool connections by state.",
				ConstLabels: constLabels,
			},
			[]string{"state"},
		),
		capacityAdjustment: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "capacity_adjustments_total",
				Help:        "Capacity adjustments by action and result.",
				ConstLabels: constLabels,
			},
			[]string{"action", "result"},
		),
		scheduleSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "schedule_saves_total",
				Help:        "Weekly schedule saves by result.",
				ConstLabels: constLabels,
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.capacityAdjustment,
		m.scheduleSaves,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBConnections обновляет статистику пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	m.dbOpenConnections.WithLabelValues("open").Set(float64(open))
	m.dbOpenConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbOpenConnections.WithLabelValues("idle").Set(float64(idle))
}

// IncCapacityAdjustment фиксирует попытку изменения ёмкости слота
func (m *Metrics) IncCapacityAdjustment(action, result string) {
	m.capacityAdjustment.WithLabelValues(action, result).Inc()
}

// IncScheduleSave фиксирует сохранение недельного расписания
func (m *Metrics) IncScheduleSave(result string) {
	m.scheduleSaves.WithLabelValues(result).Inc()
}
