package domain

import "github.com/shopspring/decimal"

type ExchangeRateProvider interface {
	// Rate returns how many units of to one unit of from buys.
	Rate(from, to Currency) (decimal.Decimal, error)
	Convert(amount decimal.Decimal, from, to Currency) (decimal.Decimal, error)
	Supported() []Currency
}
