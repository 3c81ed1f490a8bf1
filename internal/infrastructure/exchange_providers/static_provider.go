package infrastructure

import (
	"fmt"
	"sort"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// ConvertScale is applied (half-up) to an amount before it is multiplied by a rate.
	ConvertScale int32 = 4
	// RateScale is the precision of every division in cross rate math.
	RateScale int32 = 8
)

// StaticRateProvider serves rates from a fixed table. Each entry is the value
// of one unit of a currency expressed in the reference currency, so with USD
// as reference the entry AUD=0.50 reads "1 AUD = 0.50 USD". A cross rate is
// therefore value(from) / value(to).
//
// The table is copied on construction and never written afterwards, so the
// provider is safe for concurrent use without locking.
type StaticRateProvider struct {
	reference domain.Currency
	values    map[domain.Currency]decimal.Decimal
}

// DefaultRates is the table the service ships with (USD reference).
func DefaultRates() map[domain.Currency]decimal.Decimal {
	return map[domain.Currency]decimal.Decimal{
		domain.AUD: decimal.RequireFromString("0.50"),
		domain.JPY: decimal.RequireFromString("0.0069"),
		domain.CNY: decimal.RequireFromString("0.14"),
	}
}

func NewStaticRateProvider(reference domain.Currency, values map[domain.Currency]decimal.Decimal) (*StaticRateProvider, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty reference currency", domain.ErrInvalidCurrency)
	}

	table := make(map[domain.Currency]decimal.Decimal, len(values))
	for currency, value := range values {
		if currency == reference {
			continue
		}
		if !value.IsPositive() {
			return nil, fmt.Errorf("rate %s/%s must be positive, got %s", reference, currency, value)
		}
		table[currency] = value
	}

	return &StaticRateProvider{
		reference: reference,
		values:    table,
	}, nil
}

func (p *StaticRateProvider) Reference() domain.Currency {
	return p.reference
}

func (p *StaticRateProvider) Rate(from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	fromValue, err := p.valueOf(from)
	if err != nil {
		return decimal.Zero, err
	}
	toValue, err := p.valueOf(to)
	if err != nil {
		return decimal.Zero, err
	}

	if to == p.reference {
		return fromValue, nil
	}
	return fromValue.DivRound(toValue, RateScale), nil
}

func (p *StaticRateProvider) Convert(amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rate, err := p.Rate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Round(ConvertScale).Mul(rate), nil
}

func (p *StaticRateProvider) Supported() []domain.Currency {
	currencies := make([]domain.Currency, 0, len(p.values)+1)
	currencies = append(currencies, p.reference)
	for currency := range p.values {
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })
	return currencies
}

func (p *StaticRateProvider) valueOf(currency domain.Currency) (decimal.Decimal, error) {
	if currency == p.reference {
		return decimal.NewFromInt(1), nil
	}
	value, ok := p.values[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrMissingExchangeRate, p.reference, currency)
	}
	return value, nil
}
