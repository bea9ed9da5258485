package solver

import "context"

// Stop is one visited node in an engine assignment, with the bounds of the
// cumulative time variable the engine realized at that node.
type Stop struct {
	Node    int   `json:"node"`
	MinTime int64 `json:"min_time"`
	MaxTime int64 `json:"max_time"`
}

// VehicleRoute is the ordered stop sequence of one vehicle, start and end
// depot nodes included.
type VehicleRoute struct {
	VehicleIndex int    `json:"vehicle_index"`
	Stops        []Stop `json:"stops"`
	DistanceM    int64  `json:"distance_m"`
}

// Assignment is a feasible solution returned by an engine. Order nodes
// missing from every route were dropped via their disjunction.
type Assignment struct {
	Routes    []VehicleRoute `json:"routes"`
	Objective int64          `json:"objective"`
}

// Engine is the narrow boundary to the combinatorial search capability. It
// registers no state here: it receives the full formulation, runs within the
// configured time budget, and either returns an assignment or ErrNoSolution.
// The feasibility verdict is surfaced without interpretation.
type Engine interface {
	Solve(ctx context.Context, f *Formulation) (*Assignment, error)
}
