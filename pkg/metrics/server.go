package metrics

import (
	"errors"
	"runtime"
	"strconv"
	"time"
)

// Store operation results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// ServerMetrics is the metric set exposed by a blogd server.
type ServerMetrics struct {
	Registry *Registry

	// RequestsTotal counts HTTP requests. Labels: method, route, status.
	RequestsTotal *Counter

	// RequestDuration tracks HTTP request latency in seconds. Labels: method, route.
	RequestDuration *Histogram

	// StoreOperations counts store calls. Labels: operation, result.
	StoreOperations *Counter

	// StoreDuration tracks successful store call latency in seconds. Labels: operation.
	StoreDuration *Histogram
}

// NewServerMetrics registers the blogd metric set on a new Registry.
// postCount is sampled for the blogd_posts gauge on each scrape; nil
// leaves the gauge out.
func NewServerMetrics(postCount func() int) *ServerMetrics {
	r := NewRegistry()
	m := &ServerMetrics{
		Registry: r,
		RequestsTotal: r.NewCounter(
			"blogd_http_requests_total",
			"Total HTTP requests handled",
			"method", "route", "status",
		),
		RequestDuration: r.NewHistogram(
			"blogd_http_request_duration_seconds",
			"HTTP request latency in seconds",
			DefaultBuckets,
			"method", "route",
		),
		StoreOperations: r.NewCounter(
			"blogd_store_operations_total",
			"Post store operations by result",
			"operation", "result",
		),
		StoreDuration: r.NewHistogram(
			"blogd_store_operation_duration_seconds",
			"Post store operation latency in seconds",
			DefaultBuckets,
			"operation",
		),
	}

	if postCount != nil {
		r.NewGaugeFunc("blogd_posts", "Number of live posts", func() float64 {
			return float64(postCount())
		})
	}

	start := time.Now()
	r.NewGaugeFunc("blogd_uptime_seconds", "Seconds since the server started", func() float64 {
		return time.Since(start).Seconds()
	})
	r.NewGaugeFunc("go_goroutines", "Number of goroutines that currently exist", func() float64 {
		return float64(runtime.NumGoroutine())
	})

	return m
}

// ObserveRequest records one finished HTTP request.
func (m *ServerMetrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if vec, err := m.RequestsTotal.WithLabels(method, route, strconv.Itoa(status)); err == nil {
		_ = vec.Inc()
	}
	if vec, err := m.RequestDuration.WithLabels(method, route); err == nil {
		vec.Observe(d.Seconds())
	}
}

// StoreObserver returns a blog.Observer backed by m.
func (m *ServerMetrics) StoreObserver() *StoreObserver {
	return &StoreObserver{m: m}
}

// StoreObserver records store hooks as blogd_store_* samples.
// Its method set matches blog.Observer.
type StoreObserver struct {
	m *ServerMetrics
}

func (o *StoreObserver) ok(op string, d time.Duration) {
	if vec, err := o.m.StoreOperations.WithLabels(op, ResultOK); err == nil {
		_ = vec.Inc()
	}
	if vec, err := o.m.StoreDuration.WithLabels(op); err == nil {
		vec.Observe(d.Seconds())
	}
}

func (o *StoreObserver) OnCreate(_ int, d time.Duration) { o.ok("create", d) }
func (o *StoreObserver) OnRead(_ int, d time.Duration)   { o.ok("read", d) }
func (o *StoreObserver) OnList(_ int, d time.Duration)   { o.ok("list", d) }
func (o *StoreObserver) OnUpdate(_ int, d time.Duration) { o.ok("update", d) }
func (o *StoreObserver) OnDelete(_ int, d time.Duration) { o.ok("delete", d) }

func (o *StoreObserver) OnError(operation string, _ int, err error) {
	if vec, e := o.m.StoreOperations.WithLabels(operation, classify(err)); e == nil {
		_ = vec.Inc()
	}
}

type statusCoder interface {
	StatusCode() int
}

// classify maps a store error to a result label without importing the
// blog package.
func classify(err error) string {
	var sc statusCoder
	if errors.As(err, &sc) {
		switch sc.StatusCode() {
		case 404:
			return ResultNotFound
		case 409:
			return ResultConflict
		}
	}
	return ResultError
}
