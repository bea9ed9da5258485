package models

// Vehicle is a capacity-limited delivery vehicle. Start and End are the depot
// endpoints; they are configured independently, so a vehicle does not have to
// return to where it started.
type Vehicle struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	Start    Location `json:"start_location"`
	End      Location `json:"end_location"`
}
