package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E-Rombi/route-go/internal/models"
)

func routedNodes(a *Assignment) map[int]bool {
	routed := make(map[int]bool)
	for _, vr := range a.Routes {
		for i, s := range vr.Stops {
			if i == 0 || i == len(vr.Stops)-1 {
				continue
			}
			routed[s.Node] = true
		}
	}
	return routed
}

func TestGreedyRoutesEverythingWithCapacity(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, depot.Lat, depot.Lon, 4, `[[0, 1440]]`),
			testOrder(2, depot.Lat, depot.Lon, 4, `[[0, 1440]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)
	f := Formulate(m, testSolverConfig())

	a, err := NewGreedyEngine().Solve(context.Background(), f)
	require.NoError(t, err)

	routed := routedNodes(a)
	assert.True(t, routed[0])
	assert.True(t, routed[1])

	require.Len(t, a.Routes, 1)
	assert.Equal(t, int64(0), a.Routes[0].DistanceM)
	// All at one point: the objective is exactly the vehicle's fixed cost.
	assert.Equal(t, int64(100000), a.Objective)
}

func TestGreedyDropsOverCapacity(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, depot.Lat, depot.Lon, 4, `[[0, 1440]]`),
			testOrder(2, depot.Lat, depot.Lon, 4, `[[0, 1440]]`),
		},
		[]*models.Vehicle{testVehicle(1, 5, depot)},
	)
	f := Formulate(m, testSolverConfig())

	a, err := NewGreedyEngine().Solve(context.Background(), f)
	require.NoError(t, err)

	routed := routedNodes(a)
	assert.Len(t, routed, 1)
	// One drop penalty plus one opened vehicle.
	assert.Equal(t, int64(1100000), a.Objective)
}

func TestGreedyNoVehicles(t *testing.T) {
	f := &Formulation{}
	_, err := NewGreedyEngine().Solve(context.Background(), f)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestGreedyMarksExclusionsApplied(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{testOrder(1, depot.Lat, depot.Lon, 1, `[[480, 660], [840, 1020]]`)},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)
	f := Formulate(m, testSolverConfig())

	_, err := NewGreedyEngine().Solve(context.Background(), f)
	require.NoError(t, err)

	require.Len(t, f.GapExclusions, 1)
	assert.True(t, f.GapExclusions[0].Applied)
	assert.Empty(t, f.UnappliedExclusions())
}

func TestScheduleWaitsOutExcludedGap(t *testing.T) {
	// Order 1 pins the schedule so order 2's arrival lands inside its
	// closed midday gap; service must wait for the second window.
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, depot.Lat, depot.Lon, 1, `[[655, 1440]]`),
			testOrder(2, depot.Lat, depot.Lon, 1, `[[600, 660], [700, 760]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)
	f := Formulate(m, testSolverConfig())

	route := []int{2, 0, 1, 3} // start, order 1, order 2, end
	times, ok := f.schedule(route)
	require.True(t, ok)

	assert.Equal(t, int64(655), times[1])
	// Arrival at 665 falls in the (660, 700) gap; service starts at 700.
	assert.Equal(t, int64(700), times[2])
}

func TestScheduleRejectsExcessiveWaiting(t *testing.T) {
	// Next window opens more than the waiting slack past the arrival.
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, depot.Lat, depot.Lon, 1, `[[655, 1440]]`),
			testOrder(2, depot.Lat, depot.Lon, 1, `[[600, 660], [900, 960]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)
	f := Formulate(m, testSolverConfig())

	_, ok := f.schedule([]int{2, 0, 1, 3})
	assert.False(t, ok)
}

func TestScheduleRejectsPastHardEnd(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, depot.Lat, depot.Lon, 1, `[[1200, 1440]]`),
			testOrder(2, depot.Lat, depot.Lon, 1, `[[480, 600]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)
	f := Formulate(m, testSolverConfig())

	// Order 2's hard close (630 with grace) is long gone by the time
	// order 1 is served.
	_, ok := f.schedule([]int{2, 0, 1, 3})
	assert.False(t, ok)
}

func TestGreedySchedulesAroundGaps(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, depot.Lat, depot.Lon, 1, `[[655, 1440]]`),
			testOrder(2, depot.Lat, depot.Lon, 1, `[[600, 660], [700, 760]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)
	f := Formulate(m, testSolverConfig())

	a, err := NewGreedyEngine().Solve(context.Background(), f)
	require.NoError(t, err)

	routed := routedNodes(a)
	require.True(t, routed[1], "gapped order should still be served")

	for _, vr := range a.Routes {
		for _, s := range vr.Stops {
			if s.Node != 1 {
				continue
			}
			assert.False(t, s.MinTime > 660 && s.MinTime < 700,
				"service start %d lies in the excluded gap", s.MinTime)
		}
	}
}

func TestGreedyStopTimeBoundsOrdered(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, -22.755, -47.415, 1, `[[480, 1080]]`),
			testOrder(2, -22.739, -47.331, 1, `[[480, 1080]]`),
			testOrder(3, -22.725, -47.649, 1, `[[480, 1080]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)
	f := Formulate(m, testSolverConfig())

	a, err := NewGreedyEngine().Solve(context.Background(), f)
	require.NoError(t, err)

	for _, vr := range a.Routes {
		for _, s := range vr.Stops {
			assert.LessOrEqual(t, s.MinTime, s.MaxTime)
		}
	}
}

func TestTwoOptSwap(t *testing.T) {
	route := []int{9, 1, 2, 3, 4, 8}
	assert.Equal(t, []int{9, 3, 2, 1, 4, 8}, twoOptSwap(route, 1, 3))
	// Input untouched.
	assert.Equal(t, []int{9, 1, 2, 3, 4, 8}, route)
}

func TestInsertAt(t *testing.T) {
	route := []int{10, 11}
	assert.Equal(t, []int{10, 5, 11}, insertAt(route, 1, 5))
	assert.Equal(t, []int{10, 11}, route)
}
