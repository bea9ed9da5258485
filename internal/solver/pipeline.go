package solver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/E-Rombi/route-go/internal/metrics"
	"github.com/E-Rombi/route-go/internal/models"
)

// EventPublisher receives a notification after each successful run. The
// Kafka producer satisfies it; a nil publisher disables notifications.
type EventPublisher interface {
	Publish(topic string, message []byte) error
}

// Exporter receives the solved plan for out-of-band consumers.
type Exporter interface {
	WritePlan(routeDate time.Time, payload *models.SolutionPayload) error
}

// Pipeline runs one full optimization cycle: build the data model, formulate
// constraints, solve, reconcile. Each run is a single synchronous unit of
// work; runs within one process are serialized by the mutex, runs across
// processes by the store's per-date lock.
type Pipeline struct {
	cfg        models.SolverConfig
	builder    *Builder
	engine     Engine
	reconciler *Reconciler

	publisher   EventPublisher
	resultTopic string
	exporter    Exporter

	mu  sync.Mutex
	now func() time.Time
}

func NewPipeline(cfg models.SolverConfig, builder *Builder, engine Engine, reconciler *Reconciler) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		builder:    builder,
		engine:     engine,
		reconciler: reconciler,
		now:        time.Now,
	}
}

// WithPublisher attaches a result-event publisher.
func (p *Pipeline) WithPublisher(pub EventPublisher, topic string) *Pipeline {
	p.publisher = pub
	p.resultTopic = topic
	return p
}

// WithExporter attaches a plan exporter.
func (p *Pipeline) WithExporter(exp Exporter) *Pipeline {
	p.exporter = exp
	return p
}

// resultEvent is the message published after a successful run.
type resultEvent struct {
	RouteID        int64  `json:"route_id"`
	RouteDate      string `json:"route_date"`
	OrdersRouted   int    `json:"orders_routed"`
	OrdersDropped  int    `json:"orders_dropped"`
	TotalDistanceM int64  `json:"total_distance_m"`
}

// Run executes one optimization run for today's route date.
func (p *Pipeline) Run(ctx context.Context) (*ReconcileResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	routeDate := truncateToDate(p.now())
	started := time.Now()

	model, err := p.builder.Build(ctx, routeDate)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("build_failed").Inc()
		return nil, stageErr(StageBuild, err)
	}
	log.Printf("optimizing %d orders with %d vehicles for %s",
		model.NumOrders, model.NumVehicles(), routeDate.Format("2006-01-02"))

	formulation := Formulate(model, p.cfg)

	assignment, err := p.engine.Solve(ctx, formulation)
	metrics.SolveDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		if errors.Is(err, ErrNoSolution) {
			metrics.RunsTotal.WithLabelValues("no_solution").Inc()
			log.Printf("no solution found for %d orders / %d vehicles; nothing persisted",
				model.NumOrders, model.NumVehicles())
		} else {
			metrics.RunsTotal.WithLabelValues("solve_failed").Inc()
		}
		return nil, stageErr(StageSolve, err)
	}

	for _, g := range formulation.UnappliedExclusions() {
		log.Printf("warning: engine could not exclude interval (%d,%d) on node %d",
			g.Start, g.End, g.Node)
	}

	payload, result := BuildPayload(model, assignment)
	if err := p.reconciler.Persist(ctx, routeDate, result); err != nil {
		metrics.RunsTotal.WithLabelValues("persist_failed").Inc()
		return nil, stageErr(StagePersist, err)
	}

	metrics.RunsTotal.WithLabelValues("ok").Inc()
	metrics.OrdersRouted.Add(float64(len(result.RoutedOrderIDs)))
	metrics.OrdersDropped.Add(float64(len(result.DroppedOrderIDs)))
	log.Printf("route %d saved: %d routed, %d dropped, %.1f km total",
		result.RouteID, len(result.RoutedOrderIDs), len(result.DroppedOrderIDs),
		float64(result.TotalDistanceM)/1000)

	p.notify(result)
	p.export(routeDate, payload)

	return result, nil
}

func (p *Pipeline) notify(res *ReconcileResult) {
	if p.publisher == nil {
		return
	}
	msg, err := json.Marshal(resultEvent{
		RouteID:        res.RouteID,
		RouteDate:      res.RouteDate.Format("2006-01-02"),
		OrdersRouted:   len(res.RoutedOrderIDs),
		OrdersDropped:  len(res.DroppedOrderIDs),
		TotalDistanceM: res.TotalDistanceM,
	})
	if err != nil {
		log.Printf("marshal result event: %v", err)
		return
	}
	if err := p.publisher.Publish(p.resultTopic, msg); err != nil {
		// Notification failure does not fail the run; the route is saved.
		log.Printf("publish result event: %v", err)
	}
}

func (p *Pipeline) export(routeDate time.Time, payload *models.SolutionPayload) {
	if p.exporter == nil {
		return
	}
	if err := p.exporter.WritePlan(routeDate, payload); err != nil {
		log.Printf("export plan: %v", err)
	}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
