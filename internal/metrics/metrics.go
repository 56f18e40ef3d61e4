package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const namespace = "orderdesk"

// Metrics owns the service registry and the order and HTTP collectors.
type Metrics struct {
	registry *prometheus.Registry

	ordersCreated       *prometheus.CounterVec
	orderTotal          *prometheus.HistogramVec
	statusChanges       *prometheus.CounterVec
	allocationConflicts *prometheus.CounterVec
	requests            *prometheus.CounterVec
	latency             *prometheus.HistogramVec
}

// New builds collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders accepted, by fulfillment type and source.",
		}, []string{"fulfillment", "source"}),
		orderTotal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_final_total",
			Help:      "Final order total in rubles.",
			Buckets:   []float64{250, 500, 1000, 1500, 2000, 3000, 5000, 10000},
		}, []string{"fulfillment"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Applied status transitions.",
		}, []string{"from", "to"}),
		allocationConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_number_conflicts_total",
			Help:      "Order number collisions that forced a retry.",
		}, []string{"prefix"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ordersCreated,
		m.orderTotal,
		m.statusChanges,
		m.allocationConflicts,
		m.requests,
		m.latency,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OrderCreated(order model.Order) {
	m.ordersCreated.WithLabelValues(string(order.Fulfillment.Type), string(order.Source)).Inc()
	m.orderTotal.WithLabelValues(string(order.Fulfillment.Type)).Observe(float64(order.Pricing.FinalTotal))
}

func (m *Metrics) StatusChanged(from, to model.OrderStatus) {
	m.statusChanges.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) AllocationConflict(prefix string) {
	m.allocationConflicts.WithLabelValues(prefix).Inc()
}

// Middleware records request count and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}
