package models

import (
	"encoding/json"
	"time"
)

const (
	OrderStatusPending = "pending"
	OrderStatusRouted  = "routed"
)

// Order is a delivery order as stored in the orders table. RawTimeWindows
// holds the time_windows column verbatim; Windows is the legalized form.
type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	Location        Location        `json:"location"`
	Demand          int             `json:"demand"`
	RawTimeWindows  json.RawMessage `json:"time_windows"`
	Windows         []TimeWindow    `json:"-"`
	ServiceDuration int             `json:"service_duration"`
	Status          string          `json:"status"`
	RouteID         *int64          `json:"route_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LegalizedWindows parses the raw column on first use.
func (o *Order) LegalizedWindows() []TimeWindow {
	if o.Windows == nil {
		o.Windows = ParseTimeWindows(o.RawTimeWindows)
	}
	return o.Windows
}
