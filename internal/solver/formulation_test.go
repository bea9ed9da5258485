package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E-Rombi/route-go/internal/models"
)

func buildModel(t *testing.T, orders []*models.Order, vehicles []*models.Vehicle) *DataModel {
	t.Helper()
	b := NewBuilder(&fakeOrderRepo{orders: orders}, &fakeVehicleRepo{vehicles: vehicles}, nil)
	m, err := b.Build(context.Background(), time.Now())
	require.NoError(t, err)
	return m
}

func TestFormulateOrderWindows(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{testOrder(1, -22.74, -47.33, 2, `[[480, 1080]]`)},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)

	f := Formulate(m, testSolverConfig())

	w := f.Window(0)
	assert.Equal(t, int64(480), w.HardStart)
	// Hard close is the nominal close plus the grace period.
	assert.Equal(t, int64(1110), w.HardEnd)
	assert.True(t, w.HasSoft)
	assert.Equal(t, int64(1080), w.SoftEnd)
	assert.Equal(t, int64(1000), w.SoftPenalty)
}

func TestFormulateGraceCappedAtHorizon(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{testOrder(1, -22.74, -47.33, 2, `[[480, 1430]]`)},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)

	f := Formulate(m, testSolverConfig())
	assert.Equal(t, int64(models.DayMinutes), f.Window(0).HardEnd)
}

func TestFormulateDepotWindows(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{testOrder(1, -22.74, -47.33, 2, `[[480, 1080]]`)},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)

	f := Formulate(m, testSolverConfig())

	for _, node := range []int{1, 2} { // depot start and end
		w := f.Window(node)
		assert.Equal(t, int64(0), w.HardStart)
		assert.Equal(t, int64(models.DayMinutes), w.HardEnd)
		assert.False(t, w.HasSoft)
	}
}

func TestFormulateGapExclusions(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{testOrder(1, -22.74, -47.33, 2, `[[480, 660], [840, 1020]]`)},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)

	f := Formulate(m, testSolverConfig())

	require.Len(t, f.GapExclusions, 1)
	g := f.GapExclusions[0]
	assert.Equal(t, 0, g.Node)
	assert.Equal(t, int64(660), g.Start)
	assert.Equal(t, int64(840), g.End)
	assert.False(t, g.Applied)

	// The overall hard span covers first open to last close plus grace.
	w := f.Window(0)
	assert.Equal(t, int64(480), w.HardStart)
	assert.Equal(t, int64(1050), w.HardEnd)

	assert.True(t, f.Excluded(0, 700))
	assert.False(t, f.Excluded(0, 660))
	assert.False(t, f.Excluded(0, 840))
	assert.False(t, f.Excluded(0, 500))
}

func TestFormulateDisjunctionsOnlyForOrders(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, -22.74, -47.33, 2, `[[480, 1080]]`),
			testOrder(2, -22.72, -47.64, 1, `[[480, 1080]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot), testVehicle(2, 8, depot)},
	)

	f := Formulate(m, testSolverConfig())

	require.Len(t, f.Disjunctions, 2)
	for _, d := range f.Disjunctions {
		assert.Less(t, d.Node, m.NumOrders)
		assert.Equal(t, int64(1000000), d.Penalty)
	}
}

func TestFormulateCostAndSearchParameters(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{testOrder(1, -22.74, -47.33, 2, `[[480, 1080]]`)},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)

	f := Formulate(m, testSolverConfig())

	assert.Equal(t, int64(100000), f.FixedVehicleCost)
	assert.Equal(t, int64(2), f.SpanCostCoefficient)
	assert.Equal(t, int64(120), f.TimeSlackMax)
	assert.Equal(t, int64(models.DayMinutes), f.TimeHorizon)
	assert.Equal(t, "path_cheapest_arc", f.Search.FirstSolutionStrategy)
	assert.Equal(t, "guided_local_search", f.Search.Metaheuristic)
	assert.Equal(t, 30*time.Second, f.Search.TimeLimit)
}

func TestTransitTimeIncludesService(t *testing.T) {
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, -22.755, -47.415, 1, `[[0, 1440]]`),
			testOrder(2, -22.739, -47.331, 1, `[[0, 1440]]`),
		},
		[]*models.Vehicle{testVehicle(1, 10, depot)},
	)

	f := Formulate(m, testSolverConfig())

	// Transit out of an order node carries its 10 minute service time.
	assert.Equal(t, f.Travel[0][1]+10, f.TransitTime(0, 1))
	// Depot nodes have zero service time.
	assert.Equal(t, f.Travel[2][0], f.TransitTime(2, 0))
}
