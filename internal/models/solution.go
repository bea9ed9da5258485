package models

// SolutionPayload is the serialized per-vehicle stop plan persisted in
// routes.solution_json and exported to downstream sinks.
type SolutionPayload struct {
	Vehicles []VehiclePlan `json:"vehicles"`
}

// VehiclePlan is one vehicle's ordered stop sequence. Vehicles that end up
// with an empty route (start followed directly by end) are still listed.
type VehiclePlan struct {
	VehicleDBID    int64  `json:"vehicle_db_id"`
	Route          []Stop `json:"route"`
	TotalDistanceM int64  `json:"total_distance_m"`
}

// Stop is one visited node. MinTime/MaxTime are the realized bounds of the
// cumulative time variable at that node. Order fields are set only for order
// stops; the final stop of every route carries Type "end".
type Stop struct {
	NodeIndex    int    `json:"node_index"`
	MinTime      int64  `json:"min_time"`
	MaxTime      int64  `json:"max_time"`
	OrderID      int64  `json:"order_id,omitempty"`
	CustomerID   int64  `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	Type         string `json:"type,omitempty"`
}
