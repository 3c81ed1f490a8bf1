package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-transfer-service/internal/config"
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	infrastructure "github.com/LavaJover/shvark-transfer-service/internal/infrastructure/exchange_providers"
	publisher "github.com/LavaJover/shvark-transfer-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Dependencies struct {
	Config     *config.TransferConfig
	DB         *gorm.DB
	UnitOfWork domain.UnitOfWork
	Outbox     domain.OutboxRepository
	Publisher  domain.PublisherPort
	Rates      *infrastructure.StaticRateProvider
	FeeRate    decimal.Decimal
	Registry   *prometheus.Registry
	Metrics    *metrics.TransferMetrics

	closers []func() error
}

func InitializeDependencies(cfg *config.TransferConfig) (*Dependencies, error) {
	rates, err := initRateProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("rate provider: %w", err)
	}
	feeRate, err := decimal.NewFromString(cfg.TransferPolicy.FeeRate)
	if err != nil {
		return nil, fmt.Errorf("fee rate %q: %w", cfg.TransferPolicy.FeeRate, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		Rates:    rates,
		FeeRate:  feeRate,
		Registry: registry,
		Metrics:  metrics.NewTransferMetrics(registry),
	}

	switch cfg.TransferDB.Driver {
	case DriverMemory:
		store := memory.NewStore(cfg.TransferPolicy.LockTimeout)
		deps.UnitOfWork = store
		deps.Outbox = store.Outbox()
	case DriverPostgres, "":
		db := postgres.MustInitDB(cfg)
		deps.DB = db
		deps.UnitOfWork = repository.NewUnitOfWork(db, cfg.TransferPolicy.LockTimeout)
		deps.Outbox = repository.NewRepositories(db).Outbox
		if sqlDB, err := db.DB(); err == nil {
			deps.closers = append(deps.closers, sqlDB.Close)
		}
	default:
		return nil, fmt.Errorf("unknown transfer_db driver %q", cfg.TransferDB.Driver)
	}

	deps.Publisher = initPublisher(cfg, deps)
	return deps, nil
}

// initRateProvider builds the immutable rate table once from config. An empty
// rates section falls back to the built-in table.
func initRateProvider(cfg *config.TransferConfig) (*infrastructure.StaticRateProvider, error) {
	reference, err := domain.ParseCurrency(cfg.TransferPolicy.ReferenceCurrency)
	if err != nil {
		return nil, err
	}
	if len(cfg.TransferPolicy.Rates) == 0 {
		return infrastructure.NewStaticRateProvider(reference, infrastructure.DefaultRates())
	}

	values := make(map[domain.Currency]decimal.Decimal, len(cfg.TransferPolicy.Rates))
	for code, raw := range cfg.TransferPolicy.Rates {
		currency, err := domain.ParseCurrency(code)
		if err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("rate %s: %w", code, err)
		}
		values[currency] = value
	}
	return infrastructure.NewStaticRateProvider(reference, values)
}

func initPublisher(cfg *config.TransferConfig, deps *Dependencies) domain.PublisherPort {
	if cfg.KafkaService.Host == "" {
		slog.Warn("kafka host not configured, transfer events are only logged")
		return publisher.LogPublisher{Logf: func(format string, args ...any) {
			slog.Info(fmt.Sprintf(format, args...))
		}}
	}
	brokers := strings.Split(cfg.KafkaService.Host, ",")
	for i, host := range brokers {
		brokers[i] = fmt.Sprintf("%s:%s", strings.TrimSpace(host), cfg.KafkaService.Port)
	}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	deps.closers = append(deps.closers, pub.Close)
	return pub
}

// SeedAccounts creates the configured accounts. Accounts that already exist
// are left untouched.
func SeedAccounts(ctx context.Context, cfg *config.TransferConfig, uc AccountCreator) error {
	for _, seed := range cfg.TransferPolicy.SeedAccounts {
		balance, err := decimal.NewFromString(seed.Balance)
		if err != nil {
			return fmt.Errorf("seed account %d balance %q: %w", seed.ID, seed.Balance, err)
		}
		_, err = uc.CreateAccount(ctx, seedInput(seed, balance))
		switch {
		case errors.Is(err, domain.ErrAccountExists):
			slog.Debug("seed account already exists", "account_id", seed.ID)
		case err != nil:
			return fmt.Errorf("seed account %d: %w", seed.ID, err)
		}
	}
	return nil
}

func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}
