package postgres

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/E-Rombi/route-go/internal/models"
)

type RouteRepository struct {
	pool *pgxpool.Pool
}

func NewRouteRepository(pool *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{pool: pool}
}

// lockKey derives the advisory-lock key serializing writes per route date.
func lockKey(routeDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte("routes:" + routeDate.Format("2006-01-02")))
	return int64(h.Sum64())
}

// SaveSolution applies one run's result atomically. The transaction holds a
// per-date advisory lock, so two overlapping runs for the same date cannot
// interleave their reset/reassign steps. After commit, the set of orders
// pointing at the route equals exactly routedOrderIDs.
func (r *RouteRepository) SaveSolution(ctx context.Context, routeDate time.Time, solutionJSON []byte, routedOrderIDs []int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, classify(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey(routeDate)); err != nil {
		return 0, classify(err)
	}

	var routeID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM routes WHERE route_date = $1 AND status = $2 LIMIT 1`,
		routeDate, models.RouteStatusDraft,
	).Scan(&routeID)
	switch {
	case err == nil:
		_, err = tx.Exec(ctx,
			`UPDATE routes SET solution_json = $1, created_at = CURRENT_TIMESTAMP WHERE id = $2`,
			solutionJSON, routeID)
		if err != nil {
			return 0, classify(err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx,
			`INSERT INTO routes (solution_json, route_date, status) VALUES ($1, $2, $3) RETURNING id`,
			solutionJSON, routeDate, models.RouteStatusDraft,
		).Scan(&routeID)
		if err != nil {
			return 0, classify(err)
		}
	default:
		return 0, classify(err)
	}

	// Clear stale assignments first: re-optimization may have dropped orders
	// that the previous draft carried.
	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $1, route_id = NULL WHERE route_id = $2`,
		models.OrderStatusPending, routeID)
	if err != nil {
		return 0, classify(err)
	}

	if len(routedOrderIDs) > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE orders SET status = $1, route_id = $2 WHERE id = ANY($3)`,
			models.OrderStatusRouted, routeID, routedOrderIDs)
		if err != nil {
			return 0, classify(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, classify(err)
	}
	return routeID, nil
}

func (r *RouteRepository) FindDraft(ctx context.Context, routeDate time.Time) (*models.Route, error) {
	var rt models.Route
	err := r.pool.QueryRow(ctx,
		`SELECT id, route_date, status, solution_json, created_at
         FROM routes WHERE route_date = $1 AND status = $2 LIMIT 1`,
		routeDate, models.RouteStatusDraft,
	).Scan(&rt.ID, &rt.RouteDate, &rt.Status, &rt.SolutionJSON, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &rt, nil
}
