package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/E-Rombi/route-go/internal/models"
)

// Store errors. ErrConnection means the store is unreachable and a retry may
// succeed later; ErrSchemaMismatch means expected columns are absent and an
// external migration has to run first.
var (
	ErrConnection     = errors.New("store unreachable")
	ErrSchemaMismatch = errors.New("store schema mismatch")
)

type OrderRepository interface {
	// ListForPlanning returns orders with status pending plus orders already
	// attached to the given date's draft route, ordered by id.
	ListForPlanning(ctx context.Context, routeDate time.Time) ([]*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	BulkCreate(ctx context.Context, orders []*models.Order) error
	Count(ctx context.Context) (int, error)
}

type VehicleRepository interface {
	GetAll(ctx context.Context) ([]*models.Vehicle, error)
	BulkCreate(ctx context.Context, vehicles []*models.Vehicle) error
	Count(ctx context.Context) (int, error)
}

type RouteRepository interface {
	// SaveSolution reconciles one optimization run in a single transaction:
	// find or create the date's draft route, upsert its solution_json, reset
	// every order attached to that route to pending, then mark exactly
	// routedOrderIDs as routed on it. Writes for the same date are serialized
	// with a per-date lock.
	SaveSolution(ctx context.Context, routeDate time.Time, solutionJSON []byte, routedOrderIDs []int64) (routeID int64, err error)

	// FindDraft returns the draft route row for the date, if any.
	FindDraft(ctx context.Context, routeDate time.Time) (*models.Route, error)
}
