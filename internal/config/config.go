package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the settings shared by the server and the simulate command
type Config struct {
	GRPCAddress        string        `env:"GRPC_ADDRESS" env-default:":8080"`
	HTTPAddress        string        `env:"HTTP_ADDRESS" env-default:":8081"`
	APIToken           string        `env:"API_TOKEN" env-default:"dev-token"`
	Environment        string        `env:"ENVIRONMENT" env-default:"production"`
	LogLevel           string        `env:"LOG_LEVEL"`
	IDStrategy         string        `env:"ID_STRATEGY" env-default:"sequence"`
	SeedDemo           bool          `env:"SEED_DEMO" env-default:"true"`
	HarnessTimeout     time.Duration `env:"HARNESS_TIMEOUT" env-default:"10s"`
	HarnessWorkers     int           `env:"HARNESS_WORKERS" env-default:"0"`
	HarnessMaxAttempts int           `env:"HARNESS_MAX_ATTEMPTS" env-default:"10000"`
	SimulationSize     int           `env:"SIMULATION_SIZE" env-default:"100"`
}

// Load reads the environment, then lets command-line flags override it.
// args excludes the program name.
func Load(name string, args []string) (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.GRPCAddress, "g", cfg.GRPCAddress, "gRPC listen address")
	fs.StringVar(&cfg.HTTPAddress, "a", cfg.HTTPAddress, "HTTP listen address")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "environment (production, development, local)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level override")
	fs.StringVar(&cfg.IDStrategy, "ids", cfg.IDStrategy, "ID strategy (sequence, uuid)")
	fs.BoolVar(&cfg.SeedDemo, "seed", cfg.SeedDemo, "seed demo customer and accounts")
	fs.DurationVar(&cfg.HarnessTimeout, "timeout", cfg.HarnessTimeout, "load harness timeout")
	fs.IntVar(&cfg.HarnessWorkers, "workers", cfg.HarnessWorkers, "load harness worker limit, 0 for unbounded")
	fs.IntVar(&cfg.HarnessMaxAttempts, "max-attempts", cfg.HarnessMaxAttempts, "largest load harness run accepted")
	fs.IntVar(&cfg.SimulationSize, "n", cfg.SimulationSize, "transfers per direction in the simulation")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("couldn't parse flags: %w", err)
	}

	if cfg.HarnessTimeout <= 0 {
		return nil, fmt.Errorf("harness timeout must be positive, got %s", cfg.HarnessTimeout)
	}
	if cfg.HarnessWorkers < 0 {
		return nil, fmt.Errorf("harness workers cannot be negative, got %d", cfg.HarnessWorkers)
	}
	if cfg.HarnessMaxAttempts <= 0 {
		return nil, fmt.Errorf("harness max attempts must be positive, got %d", cfg.HarnessMaxAttempts)
	}

	if cfg.SimulationSize <= 0 {
		return nil, fmt.Errorf("simulation size must be positive, got %d", cfg.SimulationSize)
	}

	return cfg, nil
}
