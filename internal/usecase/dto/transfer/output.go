package transferdto

import (
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/shopspring/decimal"
)

type QuoteOutput struct {
	From         domain.Currency
	To           domain.Currency
	Rate         decimal.Decimal
	Amount       decimal.Decimal
	Converted    decimal.Decimal
	Fee          decimal.Decimal
	TotalDebited decimal.Decimal
}
