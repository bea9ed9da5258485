package models

import "time"

const (
	RouteStatusDraft     = "draft"
	RouteStatusConfirmed = "confirmed"
)

// Route is a persisted route assignment for one date. At most one draft route
// exists per date; re-optimization rewrites that row in place.
type Route struct {
	ID           int64     `json:"id"`
	RouteDate    time.Time `json:"route_date"`
	Status       string    `json:"status"`
	SolutionJSON []byte    `json:"solution_json"`
	CreatedAt    time.Time `json:"created_at"`
}
