package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/E-Rombi/route-go/internal/cluster"
	"github.com/E-Rombi/route-go/internal/export"
	"github.com/E-Rombi/route-go/internal/listener"
	"github.com/E-Rombi/route-go/internal/metrics"
	"github.com/E-Rombi/route-go/internal/models"
	"github.com/E-Rombi/route-go/internal/repositories/postgres"
	"github.com/E-Rombi/route-go/internal/solver"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "routesolver",
	Short: "Plans daily delivery routes from pending orders",
	Long: `routesolver builds a vehicle routing problem from the day's pending
orders, solves it against a routing engine, and reconciles the winning plan
back into the database. It runs once or stays resident consuming trigger
events from Kafka.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if err := run(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./routesolver.yaml)")

	rootCmd.Flags().Bool("once", false, "Solve a single run and exit instead of listening for triggers")
	rootCmd.Flags().String("engine-url", "", "Routing engine service URL (empty uses the in-process engine)")
	rootCmd.Flags().String("metrics-addr", "", "Address for the Prometheus metrics endpoint")
	rootCmd.Flags().Bool("kafka-enabled", false, "Enable the Kafka trigger listener and result events")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	viper.BindPFlag("run_once", rootCmd.Flags().Lookup("once"))
	viper.BindPFlag("solver.engine_url", rootCmd.Flags().Lookup("engine-url"))
	viper.BindPFlag("metrics_addr", rootCmd.Flags().Lookup("metrics-addr"))
	viper.BindPFlag("kafka.enabled", rootCmd.Flags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka.broker_list", rootCmd.Flags().Lookup("kafka-broker-list"))
}

// pipelineRunner adapts the solve pipeline to the listener's Runner shape;
// trigger events only care whether the run succeeded.
type pipelineRunner struct {
	pipeline *solver.Pipeline
}

func (r pipelineRunner) Run(ctx context.Context) error {
	_, err := r.pipeline.Run(ctx)
	return err
}

func run(cfg *models.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metrics.RegisterDefault()
		metrics.Serve(cfg.MetricsAddr)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	orders := postgres.NewOrderRepository(pool)
	vehicles := postgres.NewVehicleRepository(pool)
	routes := postgres.NewRouteRepository(pool)

	builder := solver.NewBuilder(orders, vehicles, cluster.Grid{})
	reconciler := solver.NewReconciler(routes)

	var engine solver.Engine
	if cfg.Solver.EngineURL != "" {
		engine = solver.NewRemoteEngine(cfg.Solver.EngineURL)
	} else {
		engine = solver.NewGreedyEngine()
	}

	pipeline := solver.NewPipeline(cfg.Solver, builder, engine, reconciler)

	if cfg.Kafka.Enabled && cfg.Kafka.ResultTopic != "" {
		producer, err := listener.NewSaramaProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer producer.Close()
		pipeline.WithPublisher(producer, cfg.Kafka.ResultTopic)
	}

	exporter, err := export.ForConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}
	if exporter != nil {
		defer exporter.Close()
		pipeline.WithExporter(exporter)
	}

	if cfg.RunOnce || !cfg.Kafka.Enabled {
		_, err := pipeline.Run(ctx)
		return err
	}

	consumer, err := listener.NewConsumer(cfg.Kafka, pipelineRunner{pipeline: pipeline})
	if err != nil {
		return fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	log.Printf("listening for trigger events on %s", cfg.Kafka.TriggerTopic)
	return consumer.Listen(ctx)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
