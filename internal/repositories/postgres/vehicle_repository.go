package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/E-Rombi/route-go/internal/models"
)

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

func (r *VehicleRepository) GetAll(ctx context.Context) ([]*models.Vehicle, error) {
	query := `
        SELECT id, name, capacity, start_lat, start_lon, end_lat, end_lon
        FROM vehicles
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Capacity,
			&v.Start.Lat,
			&v.Start.Lon,
			&v.End.Lat,
			&v.End.Lon,
		); err != nil {
			return nil, classify(err)
		}
		vehicles = append(vehicles, &v)
	}
	return vehicles, classify(rows.Err())
}

func (r *VehicleRepository) BulkCreate(ctx context.Context, vehicles []*models.Vehicle) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO vehicles (name, capacity, start_lat, start_lon, end_lat, end_lon)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	for _, v := range vehicles {
		_, err = tx.Exec(ctx, query,
			v.Name, v.Capacity, v.Start.Lat, v.Start.Lon, v.End.Lat, v.End.Lon)
		if err != nil {
			return classify(err)
		}
	}

	return classify(tx.Commit(ctx))
}

func (r *VehicleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&count)
	return count, classify(err)
}
