package metrics

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the worker.
	Registry = prometheus.NewRegistry()

	// RunsTotal counts optimization runs by outcome.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimization_runs_total", Help: "Optimization runs by outcome."},
		[]string{"outcome"},
	)
	// SolveDuration tracks the formulation-plus-solve wall time in seconds.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "optimization_solve_duration_seconds",
			Help:    "Wall time of the solve stage in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)
	// OrdersRouted counts orders placed on a route across runs.
	OrdersRouted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orders_routed_total", Help: "Orders assigned to a route."},
	)
	// OrdersDropped counts orders excluded via their drop penalty.
	OrdersDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orders_dropped_total", Help: "Orders dropped from all routes."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the worker registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(RunsTotal)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(OrdersRouted)
		Registry.MustRegister(OrdersDropped)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Serve exposes /metrics on addr in a background goroutine.
func Serve(addr string) {
	RegisterDefault()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
}
