package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Database     DatabaseConfig     `mapstructure:"database"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Solver       SolverConfig       `mapstructure:"solver"`
	Export       ExportConfig       `mapstructure:"export"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
	MetricsAddr  string             `mapstructure:"metrics_addr"`
	RunOnce      bool               `mapstructure:"run_once"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns a keyword/value connection string understood by pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type KafkaConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	BrokerList       string `mapstructure:"broker_list"`
	GroupID          string `mapstructure:"group_id"`
	TriggerTopic     string `mapstructure:"trigger_topic"`
	ResultTopic      string `mapstructure:"result_topic"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`
}

// SolverConfig carries the formulation constants and the search policy handed
// to the optimization engine. Defaults match the production formulation.
type SolverConfig struct {
	// EngineURL points at an external routing-solver service. Empty means
	// the in-process insertion engine is used instead.
	EngineURL string `mapstructure:"engine_url"`

	TimeLimitSec        int   `mapstructure:"time_limit_sec"`
	AverageSpeedMPerMin int   `mapstructure:"average_speed_m_per_min"`
	WaitingSlackMin     int   `mapstructure:"waiting_slack_min"`
	TimeHorizonMin      int   `mapstructure:"time_horizon_min"`
	HardGraceMin        int   `mapstructure:"hard_grace_min"`
	SoftPenaltyPerMin   int64 `mapstructure:"soft_penalty_per_min"`
	FixedVehicleCost    int64 `mapstructure:"fixed_vehicle_cost"`
	SpanCostCoefficient int64 `mapstructure:"span_cost_coefficient"`
	DropPenalty         int64 `mapstructure:"drop_penalty"`

	FirstSolutionStrategy string `mapstructure:"first_solution_strategy"`
	Metaheuristic         string `mapstructure:"metaheuristic"`
}

func (s SolverConfig) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitSec) * time.Second
}

type ExportConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Format       string `mapstructure:"format"`      // "json" or "parquet"
	Destination  string `mapstructure:"destination"` // "local" or "s3"
	OutputPath   string `mapstructure:"output_path"`
	OutputFolder string `mapstructure:"output_folder"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

// LoadConfig initializes and reads the configuration using Viper.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("routesolver")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; env vars and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5433")
	viper.SetDefault("database.user", "user")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.dbname", "routedb")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("kafka.broker_list", "localhost:9092")
	viper.SetDefault("kafka.group_id", "route-solver")
	viper.SetDefault("kafka.trigger_topic", "route-events")
	viper.SetDefault("kafka.result_topic", "route-solutions")

	viper.SetDefault("solver.time_limit_sec", 30)
	viper.SetDefault("solver.average_speed_m_per_min", 500)
	viper.SetDefault("solver.waiting_slack_min", 120)
	viper.SetDefault("solver.time_horizon_min", DayMinutes)
	viper.SetDefault("solver.hard_grace_min", 30)
	viper.SetDefault("solver.soft_penalty_per_min", 1000)
	viper.SetDefault("solver.fixed_vehicle_cost", 100000)
	viper.SetDefault("solver.span_cost_coefficient", 2)
	viper.SetDefault("solver.drop_penalty", 1000000)
	viper.SetDefault("solver.first_solution_strategy", "path_cheapest_arc")
	viper.SetDefault("solver.metaheuristic", "guided_local_search")

	viper.SetDefault("export.format", "json")
	viper.SetDefault("export.destination", "local")
	viper.SetDefault("export.output_path", "output")
	viper.SetDefault("export.output_folder", "plans")
}
