package solver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/E-Rombi/route-go/internal/cluster"
	"github.com/E-Rombi/route-go/internal/models"
	"github.com/E-Rombi/route-go/internal/repositories"
)

// Builder assembles the DataModel for one optimization run from the order
// and vehicle stores.
type Builder struct {
	orders    repositories.OrderRepository
	vehicles  repositories.VehicleRepository
	clusterer cluster.Clusterer
}

func NewBuilder(orders repositories.OrderRepository, vehicles repositories.VehicleRepository, clusterer cluster.Clusterer) *Builder {
	return &Builder{orders: orders, vehicles: vehicles, clusterer: clusterer}
}

// Build fetches pending and currently-drafted orders plus all vehicles and
// lays them out in a single flat node index space. Returns ErrNoVehicles
// before any engine work when the fleet is empty.
func (b *Builder) Build(ctx context.Context, routeDate time.Time) (*DataModel, error) {
	orders, err := b.orders.ListForPlanning(ctx, routeDate)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	vehicles, err := b.vehicles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch vehicles: %w", err)
	}
	if len(vehicles) == 0 {
		return nil, ErrNoVehicles
	}

	// The repository already orders by id; sort again so the node space
	// stays deterministic even with other repository implementations.
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	m := &DataModel{
		NumOrders: len(orders),
		Meta:      make(map[int]NodeMeta, len(orders)+2*len(vehicles)),
	}

	for i, o := range orders {
		m.Locations = append(m.Locations, o.Location)
		m.Demands = append(m.Demands, int64(o.Demand))
		m.ServiceTimes = append(m.ServiceTimes, int64(o.ServiceDuration))
		m.Windows = append(m.Windows, o.LegalizedWindows())
		m.OrderIDs = append(m.OrderIDs, o.ID)
		m.Meta[i] = NodeMeta{
			Kind:         NodeOrder,
			OrderID:      o.ID,
			CustomerID:   o.CustomerID,
			CustomerName: o.CustomerName,
		}
	}

	for _, v := range vehicles {
		m.VehicleIDs = append(m.VehicleIDs, v.ID)
		m.VehicleCapacities = append(m.VehicleCapacities, int64(v.Capacity))

		startIdx := len(m.Locations)
		m.Locations = append(m.Locations, v.Start)
		m.Demands = append(m.Demands, 0)
		m.ServiceTimes = append(m.ServiceTimes, 0)
		m.Windows = append(m.Windows, []models.TimeWindow{models.FullDay()})
		m.Starts = append(m.Starts, startIdx)
		m.Meta[startIdx] = NodeMeta{Kind: NodeDepotStart, VehicleID: v.ID}

		endIdx := len(m.Locations)
		m.Locations = append(m.Locations, v.End)
		m.Demands = append(m.Demands, 0)
		m.ServiceTimes = append(m.ServiceTimes, 0)
		m.Windows = append(m.Windows, []models.TimeWindow{models.FullDay()})
		m.Ends = append(m.Ends, endIdx)
		m.Meta[endIdx] = NodeMeta{Kind: NodeDepotEnd, VehicleID: v.ID}
	}

	// Cluster order locations only; depots get a zero label so the slice
	// aligns 1:1 with the node index space.
	if b.clusterer != nil && m.NumOrders > 1 {
		labels := b.clusterer.Cluster(m.Locations[:m.NumOrders])
		m.ClusterLabels = cluster.PadLabels(labels, m.NumNodes())
	} else {
		m.ClusterLabels = make([]int, m.NumNodes())
	}

	return m, nil
}
