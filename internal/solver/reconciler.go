package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/E-Rombi/route-go/internal/models"
	"github.com/E-Rombi/route-go/internal/repositories"
)

// ReconcileResult is what a successful run leaves behind.
type ReconcileResult struct {
	RouteID         int64
	RouteDate       time.Time
	Payload         *models.SolutionPayload
	SolutionJSON    []byte
	TotalDistanceM  int64
	RoutedOrderIDs  []int64
	DroppedOrderIDs []int64
}

// Reconciler turns an engine assignment back into persistent order and route
// state.
type Reconciler struct {
	routes repositories.RouteRepository
}

func NewReconciler(routes repositories.RouteRepository) *Reconciler {
	return &Reconciler{routes: routes}
}

// BuildPayload decodes the assignment into the persisted solution shape:
// per-vehicle stop sequences with realized time bounds, order metadata on
// order stops, an "end"-tagged final stop, and per-vehicle distances. It
// also computes the routed-order id set; every eligible order not in it was
// dropped.
func BuildPayload(m *DataModel, a *Assignment) (*models.SolutionPayload, *ReconcileResult) {
	payload := &models.SolutionPayload{}
	res := &ReconcileResult{Payload: payload}

	routed := make(map[int64]bool)

	for _, vr := range a.Routes {
		plan := models.VehiclePlan{
			VehicleDBID:    m.VehicleIDs[vr.VehicleIndex],
			Route:          []models.Stop{},
			TotalDistanceM: vr.DistanceM,
		}

		for i, s := range vr.Stops {
			stop := models.Stop{
				NodeIndex: s.Node,
				MinTime:   s.MinTime,
				MaxTime:   s.MaxTime,
			}
			meta := m.Meta[s.Node]
			if meta.Kind == NodeOrder {
				stop.OrderID = meta.OrderID
				stop.CustomerID = meta.CustomerID
				stop.CustomerName = meta.CustomerName
				if !routed[meta.OrderID] {
					routed[meta.OrderID] = true
					res.RoutedOrderIDs = append(res.RoutedOrderIDs, meta.OrderID)
				}
			}
			if i == len(vr.Stops)-1 {
				stop.Type = "end"
			}
			plan.Route = append(plan.Route, stop)
		}

		res.TotalDistanceM += vr.DistanceM
		payload.Vehicles = append(payload.Vehicles, plan)
	}

	for _, id := range m.OrderIDs {
		if !routed[id] {
			res.DroppedOrderIDs = append(res.DroppedOrderIDs, id)
		}
	}

	return payload, res
}

// Persist writes the run's outcome as one logical transaction: upsert the
// date's draft route, reset its previously attached orders, then mark
// exactly this run's routed orders. Serialization per date is handled by the
// repository's advisory lock.
func (r *Reconciler) Persist(ctx context.Context, routeDate time.Time, res *ReconcileResult) error {
	data, err := json.Marshal(res.Payload)
	if err != nil {
		return fmt.Errorf("marshal solution: %w", err)
	}
	res.SolutionJSON = data
	res.RouteDate = routeDate

	routeID, err := r.routes.SaveSolution(ctx, routeDate, data, res.RoutedOrderIDs)
	if err != nil {
		return fmt.Errorf("save solution: %w", err)
	}
	res.RouteID = routeID
	return nil
}
