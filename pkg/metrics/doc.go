// Package metrics provides Prometheus-compatible metrics for the blogd server.
//
// The package writes the Prometheus text exposition format
// (text/plain; version=0.0.4) using only the standard library.
//
// Supported metric types:
//   - Counter: monotonically increasing value (e.g., request counts)
//   - Gauge: value that can go up or down, either set directly or computed
//     at scrape time with NewGaugeFunc
//   - Histogram: distribution of values with configurable buckets
//
// All metrics are safe for concurrent use.
//
// # Server Metrics
//
// NewServerMetrics registers the blogd set on a fresh Registry:
//
//   - blogd_http_requests_total: requests by method, route and status
//   - blogd_http_request_duration_seconds: request latency by method and route
//   - blogd_store_operations_total: store calls by operation and result
//   - blogd_posts: live posts, read from the store on every scrape
//   - go_goroutines, blogd_uptime_seconds: runtime gauges
//
// StoreObserver adapts ServerMetrics to the blog.Observer hooks.
//
// # Usage
//
//	m := metrics.NewServerMetrics(store.Count)
//	store := blog.NewStore(blog.WithObserver(m.StoreObserver()))
//	mux.Handle("GET /metrics", m.Registry.Handler())
package metrics
