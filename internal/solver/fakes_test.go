package solver

import (
	"context"
	"time"

	"github.com/E-Rombi/route-go/internal/models"
)

// In-memory repositories backing the solver tests.

type fakeOrderRepo struct {
	orders []*models.Order
	err    error
}

func (f *fakeOrderRepo) ListForPlanning(ctx context.Context, routeDate time.Time) ([]*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) BulkCreate(ctx context.Context, orders []*models.Order) error {
	f.orders = append(f.orders, orders...)
	return nil
}

func (f *fakeOrderRepo) Count(ctx context.Context) (int, error) {
	return len(f.orders), nil
}

type fakeVehicleRepo struct {
	vehicles []*models.Vehicle
	err      error
}

func (f *fakeVehicleRepo) GetAll(ctx context.Context) ([]*models.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vehicles, nil
}

func (f *fakeVehicleRepo) BulkCreate(ctx context.Context, vehicles []*models.Vehicle) error {
	f.vehicles = append(f.vehicles, vehicles...)
	return nil
}

func (f *fakeVehicleRepo) Count(ctx context.Context) (int, error) {
	return len(f.vehicles), nil
}

// fakeRouteRepo mimics SaveSolution's reconcile contract: one draft route per
// date, orders reset then reassigned on every save.
type fakeRouteRepo struct {
	err error

	routeIDs  map[string]int64
	saves     int
	solutions map[string][][]byte
	assigned  map[string][]int64
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{
		routeIDs:  make(map[string]int64),
		solutions: make(map[string][][]byte),
		assigned:  make(map[string][]int64),
	}
}

func (f *fakeRouteRepo) SaveSolution(ctx context.Context, routeDate time.Time, solutionJSON []byte, routedOrderIDs []int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	key := routeDate.Format("2006-01-02")
	id, ok := f.routeIDs[key]
	if !ok {
		id = int64(len(f.routeIDs) + 1)
		f.routeIDs[key] = id
	}
	f.saves++
	f.solutions[key] = append(f.solutions[key], solutionJSON)
	f.assigned[key] = append([]int64(nil), routedOrderIDs...)
	return id, nil
}

func (f *fakeRouteRepo) FindDraft(ctx context.Context, routeDate time.Time) (*models.Route, error) {
	key := routeDate.Format("2006-01-02")
	id, ok := f.routeIDs[key]
	if !ok {
		return nil, nil
	}
	return &models.Route{ID: id, RouteDate: routeDate, Status: models.RouteStatusDraft}, nil
}

// testSolverConfig mirrors the production defaults.
func testSolverConfig() models.SolverConfig {
	return models.SolverConfig{
		TimeLimitSec:          30,
		AverageSpeedMPerMin:   500,
		WaitingSlackMin:       120,
		TimeHorizonMin:        models.DayMinutes,
		HardGraceMin:          30,
		SoftPenaltyPerMin:     1000,
		FixedVehicleCost:      100000,
		SpanCostCoefficient:   2,
		DropPenalty:           1000000,
		FirstSolutionStrategy: "path_cheapest_arc",
		Metaheuristic:         "guided_local_search",
	}
}

func testOrder(id int64, lat, lon float64, demand int, rawWindows string) *models.Order {
	return &models.Order{
		ID:              id,
		CustomerID:      id * 10,
		CustomerName:    "customer",
		Location:        models.Location{Lat: lat, Lon: lon},
		Demand:          demand,
		RawTimeWindows:  []byte(rawWindows),
		ServiceDuration: 10,
		Status:          models.OrderStatusPending,
	}
}

func testVehicle(id int64, capacity int, depot models.Location) *models.Vehicle {
	return &models.Vehicle{ID: id, Name: "van", Capacity: capacity, Start: depot, End: depot}
}
