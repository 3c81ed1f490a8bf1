package usecase

import (
	"testing"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	infrastructure "github.com/LavaJover/shvark-transfer-service/internal/infrastructure/exchange_providers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExchangeService(t *testing.T) *DefaultExchangeRateService {
	t.Helper()
	provider, err := infrastructure.NewStaticRateProvider(domain.USD, infrastructure.DefaultRates())
	require.NoError(t, err)
	return NewDefaultExchangeRateService(provider, decimal.RequireFromString("0.01"))
}

func TestQuote(t *testing.T) {
	s := newExchangeService(t)

	quote, err := s.Quote(decimal.NewFromInt(50), "aud", "USD")
	require.NoError(t, err)
	assert.Equal(t, domain.AUD, quote.From)
	assert.True(t, decimal.RequireFromString("0.5").Equal(quote.Rate))
	assert.True(t, decimal.NewFromInt(25).Equal(quote.Converted))
	assert.True(t, decimal.RequireFromString("0.5").Equal(quote.Fee))
	assert.True(t, decimal.RequireFromString("50.5").Equal(quote.TotalDebited))
}

func TestQuote_Errors(t *testing.T) {
	s := newExchangeService(t)

	_, err := s.Quote(decimal.NewFromInt(1), "EUR", "USD")
	assert.ErrorIs(t, err, domain.ErrMissingExchangeRate)

	_, err = s.Quote(decimal.Zero, "USD", "JPY")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = s.Quote(decimal.NewFromInt(1), "??", "JPY")
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	_, err = s.Quote(decimal.RequireFromString("1.00005"), "USD", "JPY")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestQuote_FeeAtBalanceScale(t *testing.T) {
	s := newExchangeService(t)

	quote, err := s.Quote(decimal.RequireFromString("1.005"), "USD", "USD")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.0101").Equal(quote.Fee))
	assert.True(t, decimal.RequireFromString("1.0151").Equal(quote.TotalDebited))
}

func TestSupportedCurrencies(t *testing.T) {
	s := newExchangeService(t)
	assert.Equal(t, []domain.Currency{domain.AUD, domain.CNY, domain.JPY, domain.USD}, s.SupportedCurrencies())
}
