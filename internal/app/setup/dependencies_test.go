package setup

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/config"
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	publisher "github.com/LavaJover/shvark-transfer-service/internal/infrastructure/kafka"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.TransferConfig {
	cfg := &config.TransferConfig{}
	cfg.TransferDB.Driver = DriverMemory
	cfg.TransferPolicy = config.TransferPolicy{
		FeeRate:           "0.01",
		LockTimeout:       time.Second,
		ReferenceCurrency: "usd",
		Rates:             map[string]string{"aud": "0.50", "JPY": "0.0069"},
		SeedAccounts: []config.SeedAccount{
			{ID: 1, Name: "Alice", Balance: "1000.00", Currency: "USD"},
			{ID: 2, Name: "Bob", Balance: "500.00", Currency: "JPY"},
		},
	}
	return cfg
}

func TestInitializeDependencies_Memory(t *testing.T) {
	cfg := memoryConfig()

	deps, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.Nil(t, deps.DB)
	assert.IsType(t, publisher.LogPublisher{}, deps.Publisher)
	assert.True(t, decimal.RequireFromString("0.01").Equal(deps.FeeRate))
	assert.Equal(t, []domain.Currency{domain.AUD, domain.JPY, domain.USD}, deps.Rates.Supported())

	ucs, err := InitializeUseCases(deps)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, SeedAccounts(ctx, cfg, ucs.AccountUsecase))
	// Seeding again is a no-op.
	require.NoError(t, SeedAccounts(ctx, cfg, ucs.AccountUsecase))

	bob, err := ucs.AccountUsecase.GetAccount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.JPY, bob.Currency)
	assert.True(t, decimal.NewFromInt(500).Equal(bob.Balance))
}

func TestInitializeDependencies_DefaultRates(t *testing.T) {
	cfg := memoryConfig()
	cfg.TransferPolicy.Rates = nil

	deps, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	assert.Len(t, deps.Rates.Supported(), 4)
}

func TestInitializeDependencies_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.TransferConfig)
	}{
		{name: "unknown driver", mutate: func(cfg *config.TransferConfig) { cfg.TransferDB.Driver = "sqlite" }},
		{name: "bad fee rate", mutate: func(cfg *config.TransferConfig) { cfg.TransferPolicy.FeeRate = "one percent" }},
		{name: "bad rate value", mutate: func(cfg *config.TransferConfig) { cfg.TransferPolicy.Rates["CNY"] = "x" }},
		{name: "non-positive rate", mutate: func(cfg *config.TransferConfig) { cfg.TransferPolicy.Rates["CNY"] = "0" }},
		{name: "bad reference", mutate: func(cfg *config.TransferConfig) { cfg.TransferPolicy.ReferenceCurrency = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memoryConfig()
			tt.mutate(cfg)
			_, err := InitializeDependencies(cfg)
			assert.Error(t, err)
		})
	}
}

func TestSeedAccounts_RejectsBadBalance(t *testing.T) {
	cfg := memoryConfig()
	cfg.TransferPolicy.SeedAccounts = []config.SeedAccount{{ID: 9, Name: "x", Balance: "lots", Currency: "USD"}}

	deps, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	ucs, err := InitializeUseCases(deps)
	require.NoError(t, err)

	assert.Error(t, SeedAccounts(context.Background(), cfg, ucs.AccountUsecase))
}
