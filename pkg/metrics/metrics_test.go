package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	t.Run("without labels", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("test_counter", "A test counter")

		require.NoError(t, c.Inc())
		require.NoError(t, c.Inc())
		require.NoError(t, c.Add(3))

		samples := c.Collect()
		require.Len(t, samples, 1)
		assert.Equal(t, float64(5), samples[0].Value)
	})

	t.Run("with labels", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("requests", "Requests", "method", "status")

		vec, err := c.WithLabels("GET", "200")
		require.NoError(t, err)
		_ = vec.Inc()
		vec, _ = c.WithLabels("GET", "200")
		_ = vec.Inc()
		vec, _ = c.WithLabels("POST", "200")
		_ = vec.Add(5)

		samples := c.Collect()
		require.Len(t, samples, 2)
		// Children are ordered by label values.
		assert.Equal(t, "GET", samples[0].Labels["method"])
		assert.Equal(t, float64(2), samples[0].Value)
		assert.Equal(t, "POST", samples[1].Labels["method"])
		assert.Equal(t, float64(5), samples[1].Value)
	})

	t.Run("rejects negative delta", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("neg", "neg")

		err := c.Add(-1)
		assert.True(t, errors.Is(err, ErrNegativeCounterValue))
	})

	t.Run("label count mismatch", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("mismatch", "m", "a", "b")

		_, err := c.WithLabels("only-one")
		assert.True(t, errors.Is(err, ErrLabelCountMismatch))
	})
}

func TestGauge(t *testing.T) {
	r := NewRegistry()
	g := r.NewGauge("conns", "Connections", "kind")

	vec, err := g.WithLabels("http")
	require.NoError(t, err)
	vec.Set(10)
	vec.Inc()
	vec.Dec()
	vec.Dec()
	vec.Add(0.5)

	samples := g.Collect()
	require.Len(t, samples, 1)
	assert.Equal(t, 9.5, samples[0].Value)
}

func TestGaugeFunc(t *testing.T) {
	r := NewRegistry()
	n := 3
	g := r.NewGaugeFunc("live", "Live things", func() float64 { return float64(n) })

	assert.Equal(t, float64(3), g.Collect()[0].Value)
	n = 7
	assert.Equal(t, float64(7), g.Collect()[0].Value)
}

func TestHistogram(t *testing.T) {
	r := NewRegistry()
	h := r.NewHistogram("latency", "Latency", []float64{1, 0.1}, "route")

	vec, err := h.WithLabels("/blogs")
	require.NoError(t, err)
	vec.Observe(0.05)
	vec.Observe(0.5)
	vec.Observe(5)

	samples := h.Collect()
	// 0.1, 1, +Inf buckets, then _sum and _count
	require.Len(t, samples, 5)

	assert.Equal(t, "latency_bucket", samples[0].Name)
	assert.Equal(t, "0.1", samples[0].Labels["le"])
	assert.Equal(t, float64(1), samples[0].Value)
	assert.Equal(t, "1", samples[1].Labels["le"])
	assert.Equal(t, float64(2), samples[1].Value)
	assert.Equal(t, "+Inf", samples[2].Labels["le"])
	assert.Equal(t, float64(3), samples[2].Value)

	assert.Equal(t, "latency_sum", samples[3].Name)
	assert.InDelta(t, 5.55, samples[3].Value, 1e-9)
	assert.Equal(t, "latency_count", samples[4].Name)
	assert.Equal(t, float64(3), samples[4].Value)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.NewCounter("dup", "first")

	assert.Panics(t, func() {
		r.NewGauge("dup", "second")
	})
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("blogd_test_total", "Test \"counter\"\nsecond line", "path")
	vec, _ := c.WithLabels(`/a"b`)
	_ = vec.Inc()
	r.NewCounter("blogd_unused_total", "Never incremented")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	assert.Equal(t, "text/plain; version=0.0.4; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, out, "# HELP blogd_test_total Test \"counter\"\\nsecond line\n")
	assert.Contains(t, out, "# TYPE blogd_test_total counter\n")
	assert.Contains(t, out, `blogd_test_total{path="/a\"b"} 1`+"\n")
	assert.NotContains(t, out, "blogd_unused_total", "metrics without samples are omitted")
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0:      "0",
		42:     "42",
		0.25:   "0.25",
		1.5e-7: "1.5e-07",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatFloat(in), "formatFloat(%v)", in)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("concurrent_total", "c", "worker")

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				vec, _ := c.WithLabels(fmt.Sprint(w % 2))
				_ = vec.Inc()
			}
		}(w)
	}
	wg.Wait()

	var total float64
	for _, s := range c.Collect() {
		total += s.Value
	}
	assert.Equal(t, float64(8000), total)
}

type notFound struct{}

func (notFound) Error() string   { return "not found" }
func (notFound) StatusCode() int { return 404 }

type conflict struct{}

func (conflict) Error() string   { return "conflict" }
func (conflict) StatusCode() int { return 409 }

func TestServerMetrics_StoreObserver(t *testing.T) {
	m := NewServerMetrics(func() int { return 2 })
	obs := m.StoreObserver()

	obs.OnCreate(1, time.Millisecond)
	obs.OnRead(1, time.Millisecond)
	obs.OnError("read", 9, notFound{})
	obs.OnError("create", 1, fmt.Errorf("seed: %w", conflict{}))
	obs.OnError("update", 1, errors.New("boom"))

	var sb strings.Builder
	_, err := m.Registry.WriteTo(&sb)
	require.NoError(t, err)
	out := sb.String()

	assert.Contains(t, out, `blogd_store_operations_total{operation="create",result="ok"} 1`)
	assert.Contains(t, out, `blogd_store_operations_total{operation="read",result="ok"} 1`)
	assert.Contains(t, out, `blogd_store_operations_total{operation="read",result="not_found"} 1`)
	assert.Contains(t, out, `blogd_store_operations_total{operation="create",result="conflict"} 1`)
	assert.Contains(t, out, `blogd_store_operations_total{operation="update",result="error"} 1`)
	assert.Contains(t, out, "blogd_posts 2\n")
	assert.Contains(t, out, "# TYPE go_goroutines gauge")
}

func TestServerMetrics_ObserveRequest(t *testing.T) {
	m := NewServerMetrics(nil)

	m.ObserveRequest("GET", "/blogs/{id}", 404, 2*time.Millisecond)

	var sb strings.Builder
	_, _ = m.Registry.WriteTo(&sb)
	out := sb.String()

	assert.Contains(t, out, `blogd_http_requests_total{method="GET",route="/blogs/{id}",status="404"} 1`)
	assert.Contains(t, out, `blogd_http_request_duration_seconds_count{method="GET",route="/blogs/{id}"} 1`)
	assert.NotContains(t, out, "blogd_posts ")
}
