package solver

import (
	"context"
)

// GreedyEngine is the in-process fallback engine: cheapest-insertion
// construction followed by a 2-opt pass per route. It honors every hard
// constraint of the formulation (capacity, windows, gap exclusions, waiting
// slack, horizon) and drops orders it cannot place. It runs no
// metaheuristic; configure a remote engine for guided local search.
type GreedyEngine struct {
	// TwoOptIterations bounds the improvement pass. Zero means 2.
	TwoOptIterations int
}

func NewGreedyEngine() *GreedyEngine { return &GreedyEngine{} }

func (e *GreedyEngine) Solve(ctx context.Context, f *Formulation) (*Assignment, error) {
	if f.VehicleCount == 0 {
		return nil, ErrNoSolution
	}

	routes := make([][]int, f.VehicleCount)
	loads := make([]int64, f.VehicleCount)
	for v := 0; v < f.VehicleCount; v++ {
		routes[v] = []int{f.Starts[v], f.Ends[v]}
	}

	unassigned := make(map[int]bool, len(f.Disjunctions))
	pending := make([]int, 0, len(f.Disjunctions))
	for _, d := range f.Disjunctions {
		unassigned[d.Node] = true
		pending = append(pending, d.Node)
	}

	// Cheapest insertion: repeatedly place the globally cheapest feasible
	// (node, vehicle, position) triple until nothing fits anymore.
	for len(unassigned) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bestNode, bestVehicle, bestPos := -1, -1, -1
		var bestDelta int64

		for _, node := range pending {
			if !unassigned[node] {
				continue
			}
			for v := 0; v < f.VehicleCount; v++ {
				if loads[v]+f.Demands[node] > f.VehicleCapacities[v] {
					continue
				}
				for pos := 1; pos < len(routes[v]); pos++ {
					prev := routes[v][pos-1]
					next := routes[v][pos]
					delta := f.ArcCost(prev, node) + f.ArcCost(node, next) - f.ArcCost(prev, next)
					if len(routes[v]) == 2 {
						// Opening an empty vehicle pays its fixed cost.
						delta += f.FixedVehicleCost
					}
					if bestNode != -1 && delta >= bestDelta {
						continue
					}
					candidate := insertAt(routes[v], pos, node)
					if _, ok := f.schedule(candidate); !ok {
						continue
					}
					bestNode, bestVehicle, bestPos, bestDelta = node, v, pos, delta
				}
			}
		}

		if bestNode == -1 {
			break // remaining orders are dropped via their disjunctions
		}

		routes[bestVehicle] = insertAt(routes[bestVehicle], bestPos, bestNode)
		loads[bestVehicle] += f.Demands[bestNode]
		delete(unassigned, bestNode)
	}

	for v := range routes {
		routes[v] = e.improve(f, routes[v])
	}

	// This engine evaluates window gaps directly, so every exclusion attempt
	// is applied by construction.
	for i := range f.GapExclusions {
		f.GapExclusions[i].Applied = true
	}

	return f.assemble(routes, unassigned), nil
}

func insertAt(route []int, pos, node int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, node)
	out = append(out, route[pos:]...)
	return out
}

// improve applies 2-opt swaps to the interior of one route, keeping only
// swaps that stay feasible and shorten the path.
func (e *GreedyEngine) improve(f *Formulation, route []int) []int {
	iterations := e.TwoOptIterations
	if iterations <= 0 {
		iterations = 2
	}

	best := route
	bestDist := routeDistance(f, best)
	n := len(best)
	for it := 0; it < iterations; it++ {
		improved := false
		for i := 1; i < n-2; i++ {
			for k := i + 1; k < n-1; k++ {
				candidate := twoOptSwap(best, i, k)
				d := routeDistance(f, candidate)
				if d >= bestDist {
					continue
				}
				if _, ok := f.schedule(candidate); !ok {
					continue
				}
				best = candidate
				bestDist = d
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return best
}

func twoOptSwap(route []int, i, k int) []int {
	out := make([]int, len(route))
	copy(out, route[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = route[j]
		pos++
	}
	copy(out[pos:], route[k+1:])
	return out
}

func routeDistance(f *Formulation, route []int) int64 {
	var total int64
	for i := 0; i < len(route)-1; i++ {
		total += f.ArcCost(route[i], route[i+1])
	}
	return total
}

// schedule computes the earliest feasible service-start time at every stop
// of a route, or reports infeasibility. The vehicle start time is free (the
// time dimension does not force start cumul to zero); it departs so the
// first stop needs no waiting. Waiting elsewhere is capped at TimeSlackMax.
func (f *Formulation) schedule(route []int) ([]int64, bool) {
	times := make([]int64, len(route))

	start := f.Window(route[0]).HardStart
	if len(route) > 2 {
		first := route[1]
		firstStart := f.Window(first).HardStart - f.TransitTime(route[0], first)
		if firstStart > start {
			firstStart = minInt64(firstStart, f.Window(route[0]).HardEnd)
			start = firstStart
		}
	}
	times[0] = start

	for i := 1; i < len(route); i++ {
		node := route[i]
		arrival := times[i-1] + f.TransitTime(route[i-1], node)
		serviceStart := arrival

		w := f.Window(node)
		if serviceStart < w.HardStart {
			serviceStart = w.HardStart
		}
		// Arrivals inside an excluded gap wait for the next window to open.
		for f.Excluded(node, serviceStart) {
			serviceStart = f.gapEnd(node, serviceStart)
		}
		if serviceStart-arrival > f.TimeSlackMax {
			return nil, false
		}
		if serviceStart > w.HardEnd || serviceStart > f.TimeHorizon {
			return nil, false
		}
		times[i] = serviceStart
	}

	return times, true
}

// gapEnd returns the end of the excluded gap containing t.
func (f *Formulation) gapEnd(node int, t int64) int64 {
	for _, g := range f.GapExclusions {
		if g.Node == node && t > g.Start && t < g.End {
			return g.End
		}
	}
	return t
}

// latestTimes runs the backward pass producing the latest feasible
// service-start times, clamped to never undercut the earliest ones.
func (f *Formulation) latestTimes(route []int, earliest []int64) []int64 {
	latest := make([]int64, len(route))
	last := len(route) - 1

	latest[last] = minInt64(f.Window(route[last]).HardEnd, f.TimeHorizon)
	for i := last - 1; i >= 0; i-- {
		node := route[i]
		bound := latest[i+1] - f.TransitTime(node, route[i+1])
		bound = minInt64(bound, f.Window(node).HardEnd)
		for f.Excluded(node, bound) {
			bound = f.gapStart(node, bound)
		}
		latest[i] = bound
	}
	for i := range latest {
		if latest[i] < earliest[i] {
			latest[i] = earliest[i]
		}
	}
	return latest
}

// gapStart returns the start of the excluded gap containing t.
func (f *Formulation) gapStart(node int, t int64) int64 {
	for _, g := range f.GapExclusions {
		if g.Node == node && t > g.Start && t < g.End {
			return g.Start
		}
	}
	return t
}

func (f *Formulation) assemble(routes [][]int, dropped map[int]bool) *Assignment {
	a := &Assignment{}
	var objective int64

	for v, route := range routes {
		earliest, ok := f.schedule(route)
		if !ok {
			// Construction only ever commits feasible routes.
			earliest = make([]int64, len(route))
		}
		latest := f.latestTimes(route, earliest)

		vr := VehicleRoute{VehicleIndex: v}
		for i, node := range route {
			vr.Stops = append(vr.Stops, Stop{Node: node, MinTime: earliest[i], MaxTime: latest[i]})
			if i > 0 {
				vr.DistanceM += f.ArcCost(route[i-1], node)
			}
			w := f.Window(node)
			if w.HasSoft && earliest[i] > w.SoftEnd {
				objective += (earliest[i] - w.SoftEnd) * w.SoftPenalty
			}
		}
		if len(route) > 2 {
			objective += f.FixedVehicleCost
		}
		objective += vr.DistanceM
		a.Routes = append(a.Routes, vr)
	}

	for node := range dropped {
		for _, d := range f.Disjunctions {
			if d.Node == node {
				objective += d.Penalty
				break
			}
		}
	}

	a.Objective = objective
	return a
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
