package solver

import (
	"github.com/E-Rombi/route-go/internal/models"
)

// Node roles in the routing graph.
const (
	NodeOrder      = "order"
	NodeDepotStart = "depot_start"
	NodeDepotEnd   = "depot_end"
)

// NodeMeta identifies what a node index stands for. OrderID/CustomerID are
// set for order nodes, VehicleID for depot nodes.
type NodeMeta struct {
	Kind         string
	OrderID      int64
	CustomerID   int64
	CustomerName string
	VehicleID    int64
}

// DataModel is the unified node space handed to the formulator. Indices
// [0, NumOrders) are order nodes in ascending order-id order; depot nodes
// follow, one start and one end per vehicle in vehicle-retrieval order. The
// metadata map is total over the node index space and immutable once built.
type DataModel struct {
	Locations    []models.Location
	Demands      []int64
	ServiceTimes []int64
	Windows      [][]models.TimeWindow

	NumOrders int
	OrderIDs  []int64

	VehicleIDs        []int64
	VehicleCapacities []int64
	Starts            []int
	Ends              []int

	Meta          map[int]NodeMeta
	ClusterLabels []int
}

func (m *DataModel) NumNodes() int    { return len(m.Locations) }
func (m *DataModel) NumVehicles() int { return len(m.VehicleIDs) }

// IsDepot reports whether node is a vehicle start or end node.
func (m *DataModel) IsDepot(node int) bool {
	return node >= m.NumOrders
}
