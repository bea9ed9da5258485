package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/E-Rombi/route-go/internal/factories"
	"github.com/E-Rombi/route-go/internal/models"
	"github.com/E-Rombi/route-go/internal/repositories/postgres"
)

var (
	seedOrders   int
	seedVehicles int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populates the database with generated orders and vehicles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if err := seed(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOrders, "orders", 200, "Number of orders to generate")
	seedCmd.Flags().IntVar(&seedVehicles, "vehicles", 10, "Number of vehicles to generate")
	rootCmd.AddCommand(seedCmd)
}

func seed(cfg *models.Config) error {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)

	vf := &factories.VehicleFactory{}
	of := &factories.OrderFactory{}

	bar := progressbar.Default(int64(seedVehicles+seedOrders), "seeding")

	vehicles := vf.CreateVehicles(seedVehicles)
	if err := vehicleRepo.BulkCreate(ctx, vehicles); err != nil {
		return fmt.Errorf("failed to seed vehicles: %w", err)
	}
	bar.Add(len(vehicles))

	// batch inserts so the bar moves while large seeds run
	const batch = 50
	orders := of.CreateOrders(seedOrders)
	for i := 0; i < len(orders); i += batch {
		end := i + batch
		if end > len(orders) {
			end = len(orders)
		}
		if err := orderRepo.BulkCreate(ctx, orders[i:end]); err != nil {
			return fmt.Errorf("failed to seed orders: %w", err)
		}
		bar.Add(end - i)
	}

	fmt.Printf("seeded %d vehicles and %d orders\n", len(vehicles), len(orders))
	return nil
}
