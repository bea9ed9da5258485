package solver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E-Rombi/route-go/internal/models"
)

func solvedFixture(t *testing.T) (*DataModel, *Assignment) {
	t.Helper()
	m := buildModel(t,
		[]*models.Order{
			testOrder(1, -22.755, -47.415, 4, `[[0, 1440]]`),
			testOrder(2, -22.739, -47.331, 4, `[[0, 1440]]`),
			testOrder(3, -22.725, -47.649, 4, `[[0, 1440]]`),
		},
		[]*models.Vehicle{testVehicle(11, 5, depot), testVehicle(12, 5, depot)},
	)
	f := Formulate(m, testSolverConfig())
	a, err := NewGreedyEngine().Solve(context.Background(), f)
	require.NoError(t, err)
	return m, a
}

func TestBuildPayloadShape(t *testing.T) {
	m, a := solvedFixture(t)
	payload, res := BuildPayload(m, a)

	// Every vehicle is listed, even with an empty route.
	require.Len(t, payload.Vehicles, 2)
	assert.Equal(t, int64(11), payload.Vehicles[0].VehicleDBID)
	assert.Equal(t, int64(12), payload.Vehicles[1].VehicleDBID)

	for _, plan := range payload.Vehicles {
		require.NotEmpty(t, plan.Route)
		last := plan.Route[len(plan.Route)-1]
		assert.Equal(t, "end", last.Type)

		for i, stop := range plan.Route {
			if m.IsDepot(stop.NodeIndex) {
				assert.Zero(t, stop.OrderID)
				continue
			}
			assert.NotZero(t, stop.OrderID)
			assert.NotZero(t, stop.CustomerID)
			assert.NotEmpty(t, stop.CustomerName)
			assert.Greater(t, i, 0)
		}
	}

	assert.Equal(t, res.Payload, payload)
}

func TestBuildPayloadPartitionsOrders(t *testing.T) {
	m, a := solvedFixture(t)
	_, res := BuildPayload(m, a)

	// Two vehicles of capacity 5 can serve two orders of demand 4; the
	// routed and dropped sets partition the eligible order ids.
	assert.Len(t, res.RoutedOrderIDs, 2)
	assert.Len(t, res.DroppedOrderIDs, 1)

	seen := make(map[int64]bool)
	for _, id := range append(append([]int64(nil), res.RoutedOrderIDs...), res.DroppedOrderIDs...) {
		assert.False(t, seen[id], "order %d appears twice", id)
		seen[id] = true
	}
	for _, id := range m.OrderIDs {
		assert.True(t, seen[id], "order %d missing from both sets", id)
	}
}

func TestBuildPayloadTotalDistance(t *testing.T) {
	m, a := solvedFixture(t)
	payload, res := BuildPayload(m, a)

	var sum int64
	for _, plan := range payload.Vehicles {
		sum += plan.TotalDistanceM
	}
	assert.Equal(t, sum, res.TotalDistanceM)
	assert.Greater(t, res.TotalDistanceM, int64(0))
}

func TestPersistSavesThroughRepository(t *testing.T) {
	m, a := solvedFixture(t)
	_, res := BuildPayload(m, a)

	repo := newFakeRouteRepo()
	r := NewReconciler(repo)

	routeDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Persist(context.Background(), routeDate, res))

	assert.Equal(t, int64(1), res.RouteID)
	assert.Equal(t, routeDate, res.RouteDate)

	var decoded models.SolutionPayload
	require.NoError(t, json.Unmarshal(res.SolutionJSON, &decoded))
	assert.Len(t, decoded.Vehicles, 2)
	assert.Equal(t, res.RoutedOrderIDs, repo.assigned["2026-03-14"])
}
