package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/E-Rombi/route-go/internal/models"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// ListForPlanning selects the superset an optimization run re-solves from:
// every pending order plus every order already attached to the date's draft
// route. Ordering by id keeps the node space reproducible across runs.
func (r *OrderRepository) ListForPlanning(ctx context.Context, routeDate time.Time) ([]*models.Order, error) {
	query := `
        SELECT id, customer_id, customer_name, lat, lon, demand,
               time_windows, service_duration, status, route_id, created_at
        FROM orders
        WHERE status = $1
           OR route_id IN (SELECT id FROM routes WHERE route_date = $2 AND status = $3)
        ORDER BY id
    `

	rows, err := r.pool.Query(ctx, query,
		models.OrderStatusPending, routeDate, models.RouteStatusDraft)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.CustomerName,
			&o.Location.Lat,
			&o.Location.Lon,
			&o.Demand,
			&o.RawTimeWindows,
			&o.ServiceDuration,
			&o.Status,
			&o.RouteID,
			&o.CreatedAt,
		); err != nil {
			return nil, classify(err)
		}
		orders = append(orders, &o)
	}
	return orders, classify(rows.Err())
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
        INSERT INTO orders (customer_id, customer_name, lat, lon, demand,
                            time_windows, service_duration, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	err := r.pool.QueryRow(ctx, query,
		order.CustomerID,
		order.CustomerName,
		order.Location.Lat,
		order.Location.Lon,
		order.Demand,
		order.RawTimeWindows,
		order.ServiceDuration,
		models.OrderStatusPending,
	).Scan(&order.ID)
	return classify(err)
}

func (r *OrderRepository) BulkCreate(ctx context.Context, orders []*models.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO orders (customer_id, customer_name, lat, lon, demand,
                            time_windows, service_duration, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	for _, order := range orders {
		_, err = tx.Exec(ctx, query,
			order.CustomerID,
			order.CustomerName,
			order.Location.Lat,
			order.Location.Lon,
			order.Demand,
			order.RawTimeWindows,
			order.ServiceDuration,
			models.OrderStatusPending,
		)
		if err != nil {
			return classify(err)
		}
	}

	return classify(tx.Commit(ctx))
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, classify(err)
}
