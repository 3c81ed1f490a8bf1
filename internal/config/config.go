package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type TransferConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	GRPCServer     `yaml:"grpc_server"`
	HTTPServer     `yaml:"http_server"`
	TransferDB     `yaml:"transfer_db"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka_service"`
	TransferPolicy `yaml:"transfer"`
	Outbox         `yaml:"outbox"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type HTTPServer struct {
	Host        string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port        string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
}

type TransferDB struct {
	// Driver is "postgres" or "memory".
	Driver         string `yaml:"driver" env:"TRANSFER_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"TRANSFER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"TRANSFER_DB_MIGRATIONS_PATH"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
}

type KafkaService struct {
	Host  string `yaml:"host" env:"KAFKA_HOST"`
	Port  string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"transfer-events"`
}

type TransferPolicy struct {
	FeeRate           string            `yaml:"fee_rate" env:"TRANSFER_FEE_RATE" env-default:"0.01"`
	LockTimeout       time.Duration     `yaml:"lock_timeout" env:"TRANSFER_LOCK_TIMEOUT" env-default:"5s"`
	ReferenceCurrency string            `yaml:"reference_currency" env:"TRANSFER_REFERENCE_CURRENCY" env-default:"USD"`
	// Rates maps a currency code to the value of one unit of it in the reference currency.
	Rates map[string]string `yaml:"rates"`
	// SeedAccounts are created at startup unless an account with the same id exists.
	SeedAccounts []SeedAccount `yaml:"seed_accounts"`
}

type SeedAccount struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Balance  string `yaml:"balance"`
	Currency string `yaml:"currency"`
}

type Outbox struct {
	Interval  time.Duration `yaml:"interval" env:"OUTBOX_INTERVAL" env-default:"2s"`
	BatchSize int           `yaml:"batch_size" env:"OUTBOX_BATCH_SIZE" env-default:"100"`
}

func MustLoad() *TransferConfig {
	// Processing env config variable and file
	configPath := os.Getenv("TRANSFER_CONFIG_PATH")

	if configPath == "" {
		slog.Error("TRANSFER_CONFIG_PATH was not found")
		os.Exit(1)
	}

	cfg, err := Load(configPath)
	if err != nil {
		slog.Error("failed to read config file", "path", configPath, "error", err.Error())
		os.Exit(1)
	}
	return cfg
}

func Load(configPath string) (*TransferConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, err
	}

	// YAML to struct object, env overrides on top
	var cfg TransferConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
