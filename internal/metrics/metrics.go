package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "storefront"

// Collector is a prometheus.Collector for the storefront API.
type Collector struct {
	ordersCreated    prometheus.Counter
	deliveryFailures *prometheus.CounterVec
	cartsSwept       prometheus.Counter
	requestDuration  *prometheus.HistogramVec
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		ordersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "orders_created_total",
				Help:      "The number of orders created from carts.",
			},
		),
		deliveryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "event_delivery_failures_total",
				Help:      "The number of failed event deliveries.",
			}, []string{"subscriber"},
		),
		cartsSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "carts_swept_total",
				Help:      "The number of abandoned carts deleted by the janitor.",
			},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route", "status"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.ordersCreated.Describe(ch)
	c.deliveryFailures.Describe(ch)
	c.cartsSwept.Describe(ch)
	c.requestDuration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.ordersCreated.Collect(ch)
	c.deliveryFailures.Collect(ch)
	c.cartsSwept.Collect(ch)
	c.requestDuration.Collect(ch)
}

func (c *Collector) OrderCreated() {
	c.ordersCreated.Inc()
}

func (c *Collector) DeliveryFailed(subscriber string) {
	c.deliveryFailures.WithLabelValues(subscriber).Inc()
}

func (c *Collector) CartsSwept(n int64) {
	c.cartsSwept.Add(float64(n))
}

// Middleware records request latency labelled by the matched route pattern.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			status := ctx.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			c.requestDuration.WithLabelValues(
				ctx.Request().Method,
				ctx.Path(),
				strconv.Itoa(status),
			).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
