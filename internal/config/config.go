package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"

	"github.com/vysogota0399/transactions_api/internal/validation"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DatabaseClientSQLite   = "sqlite"
	DatabaseClientPostgres = "pg"
)

type Config struct {
	Env            string `json:"node_env" env:"NODE_ENV" envDefault:"production" validate:"oneof=development production test"`
	DatabaseClient string `json:"database_client" env:"DATABASE_CLIENT" validate:"required,oneof=sqlite pg"`
	DatabaseURL    string `json:"-" env:"DATABASE_URL" validate:"required"`
	Host           string `json:"host" env:"HOST" envDefault:"0.0.0.0"`
	Port           string `json:"port" env:"PORT" envDefault:"3333" validate:"numeric"`

	LogLevel         int `json:"log_level" env:"LOG_LEVEL" envDefault:"0"`
	DatabaseMaxConns int `json:"database_max_conns" env:"DATABASE_MAX_CONNS" envDefault:"10"`

	HealthServerAddress string `json:"health_server_address" env:"HEALTH_SERVER_ADDRESS" envDefault:"127.0.0.1:8050"`
	HealthProbeInterval int    `json:"health_probe_interval" env:"HEALTH_PROBE_INTERVAL" envDefault:"5000"`

	KafkaBrokers  []string `json:"kafka_brokers" env:"KAFKA_BROKERS" envDefault:"127.0.0.1:9092" envSeparator:","`
	KafkaLogLevel int      `json:"kafka_log_level" env:"KAFKA_LOG_LEVEL" envDefault:"0"`
}

// HTTPAddress is the listen address of the transactions API.
func (c *Config) HTTPAddress() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads dotenv files, reads the environment and validates it.
// Validation failures are returned as *validation.Error with one issue per
// failing variable.
func NewConfig() (*Config, error) {
	loadDotenv()

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("config: parse environment error %w", err)
	}

	if err := validation.ValidateStruct(c); err != nil {
		return nil, err
	}

	return c, nil
}

// MustNewConfig reports invalid configuration to stderr and exits.
func MustNewConfig() *Config {
	c, err := NewConfig()
	if err != nil {
		Report(os.Stderr, err)
		os.Exit(1)
	}

	return c
}

// Report writes err as a per-variable list.
func Report(w io.Writer, err error) {
	fmt.Fprintln(w, "❌ Invalid environment variables:")

	var verr *validation.Error
	if !errors.As(err, &verr) {
		fmt.Fprintf(w, "• %s\n", err)
		return
	}

	for _, i := range verr.Issues {
		fmt.Fprintf(w, "• %s: %s\n", i.Path, i.Message)
	}
}

// .env.test replaces .env for test runs; variables already present in the
// process environment always win.
func loadDotenv() {
	file := ".env"
	if os.Getenv("NODE_ENV") == EnvTest {
		file = ".env.test"
	}

	_ = godotenv.Load(file)
}
