package solver

import (
	"time"

	"github.com/E-Rombi/route-go/internal/geo"
	"github.com/E-Rombi/route-go/internal/models"
)

// NodeWindow is the legalized time constraint on one node's cumulative time
// variable. Depots get a plain hard range. Orders additionally get a soft
// upper bound at the nominal close: arriving inside the hard grace past it is
// allowed at SoftPenalty per minute instead of being infeasible.
type NodeWindow struct {
	Node        int   `json:"node"`
	HardStart   int64 `json:"hard_start"`
	HardEnd     int64 `json:"hard_end"`
	HasSoft     bool  `json:"has_soft"`
	SoftEnd     int64 `json:"soft_end,omitempty"`
	SoftPenalty int64 `json:"soft_penalty,omitempty"`
}

// GapExclusion removes (Start, End) from a multi-window node's feasible time
// domain. Applied is reported back by the engine; exclusions it could not
// represent are surfaced as warnings instead of failing the formulation.
type GapExclusion struct {
	Node    int   `json:"node"`
	Start   int64 `json:"start"`
	End     int64 `json:"end"`
	Applied bool  `json:"applied"`
}

// Disjunction lets the engine leave a node out of every route at a fixed
// penalty. Only order nodes ever get one.
type Disjunction struct {
	Node    int   `json:"node"`
	Penalty int64 `json:"penalty"`
}

// SearchConfig is the search policy forwarded to the engine.
type SearchConfig struct {
	FirstSolutionStrategy string        `json:"first_solution_strategy"`
	Metaheuristic         string        `json:"metaheuristic"`
	TimeLimit             time.Duration `json:"-"`
	TimeLimitSec          int           `json:"time_limit_sec"`
}

// Formulation is the complete constraint encoding handed to an Engine. It is
// self-contained and serializable so remote engines can consume it as-is.
type Formulation struct {
	NodeCount    int   `json:"node_count"`
	VehicleCount int   `json:"vehicle_count"`
	Starts       []int `json:"starts"`
	Ends         []int `json:"ends"`

	Distance [][]int64 `json:"distance"`
	Travel   [][]int64 `json:"travel"`

	Demands           []int64 `json:"demands"`
	VehicleCapacities []int64 `json:"vehicle_capacities"`
	ServiceTimes      []int64 `json:"service_times"`

	TimeSlackMax int64 `json:"time_slack_max"`
	TimeHorizon  int64 `json:"time_horizon"`

	Windows       []NodeWindow   `json:"windows"`
	GapExclusions []GapExclusion `json:"gap_exclusions"`
	Disjunctions  []Disjunction  `json:"disjunctions"`

	FixedVehicleCost    int64 `json:"fixed_vehicle_cost"`
	SpanCostCoefficient int64 `json:"span_cost_coefficient"`

	Search SearchConfig `json:"search"`
}

// ArcCost is the routing arc cost: the great-circle distance in meters.
func (f *Formulation) ArcCost(from, to int) int64 {
	return f.Distance[from][to]
}

// TransitTime is the time-dimension transit: travel plus the service time
// spent at the origin node.
func (f *Formulation) TransitTime(from, to int) int64 {
	return f.Travel[from][to] + f.ServiceTimes[from]
}

// Window returns the node's window entry.
func (f *Formulation) Window(node int) NodeWindow {
	return f.Windows[node]
}

// Excluded reports whether t falls in one of the node's excluded gaps.
func (f *Formulation) Excluded(node int, t int64) bool {
	for _, g := range f.GapExclusions {
		if g.Node == node && t > g.Start && t < g.End {
			return true
		}
	}
	return false
}

// Formulate encodes capacity, time-window, fixed-cost, load-balancing and
// drop-penalty constraints over the data model's node space.
func Formulate(m *DataModel, cfg models.SolverConfig) *Formulation {
	dist := geo.DistanceMatrix(m.Locations)
	travel := geo.TravelTimeMatrix(dist, cfg.AverageSpeedMPerMin)

	horizon := int64(cfg.TimeHorizonMin)
	if horizon <= 0 {
		horizon = models.DayMinutes
	}

	f := &Formulation{
		NodeCount:         m.NumNodes(),
		VehicleCount:      m.NumVehicles(),
		Starts:            m.Starts,
		Ends:              m.Ends,
		Distance:          dist,
		Travel:            travel,
		Demands:           m.Demands,
		VehicleCapacities: m.VehicleCapacities,
		ServiceTimes:      m.ServiceTimes,
		TimeSlackMax:      int64(cfg.WaitingSlackMin),
		TimeHorizon:       horizon,
		FixedVehicleCost:  cfg.FixedVehicleCost,

		SpanCostCoefficient: cfg.SpanCostCoefficient,
		Search: SearchConfig{
			FirstSolutionStrategy: cfg.FirstSolutionStrategy,
			Metaheuristic:         cfg.Metaheuristic,
			TimeLimit:             cfg.TimeLimit(),
			TimeLimitSec:          cfg.TimeLimitSec,
		},
	}

	for node, windows := range m.Windows {
		first := windows[0]
		last := windows[len(windows)-1]

		nw := NodeWindow{
			Node:      node,
			HardStart: int64(first.Start),
			HardEnd:   int64(last.End),
		}

		if !m.IsDepot(node) {
			// Orders may run past the nominal close inside the hard grace,
			// paying the soft penalty per late minute.
			hardEnd := int64(last.End + cfg.HardGraceMin)
			if hardEnd > horizon {
				hardEnd = horizon
			}
			nw.HardEnd = hardEnd
			nw.HasSoft = true
			nw.SoftEnd = int64(last.End)
			nw.SoftPenalty = cfg.SoftPenaltyPerMin

			// Multi-window orders: carve the gaps between adjacent windows
			// out of the feasible domain.
			for i := 0; i < len(windows)-1; i++ {
				gapStart := int64(windows[i].End)
				gapEnd := int64(windows[i+1].Start)
				if gapEnd > gapStart {
					f.GapExclusions = append(f.GapExclusions, GapExclusion{
						Node:  node,
						Start: gapStart,
						End:   gapEnd,
					})
				}
			}

			f.Disjunctions = append(f.Disjunctions, Disjunction{
				Node:    node,
				Penalty: cfg.DropPenalty,
			})
		}

		f.Windows = append(f.Windows, nw)
	}

	return f
}

// UnappliedExclusions lists the gap exclusions the engine reported it could
// not represent.
func (f *Formulation) UnappliedExclusions() []GapExclusion {
	var out []GapExclusion
	for _, g := range f.GapExclusions {
		if !g.Applied {
			out = append(out, g)
		}
	}
	return out
}
