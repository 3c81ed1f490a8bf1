package transfer

import (
	"fmt"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

// DefaultFeeRate is charged on top of every transfer amount.
var DefaultFeeRate = decimal.RequireFromString("0.01")

const referenceLength = 15

type DefaultTransferUsecase struct {
	UnitOfWork domain.UnitOfWork
	Rates      domain.ExchangeRateProvider
	Clock      domain.Clock
	FeeRate    decimal.Decimal
	Metrics    *metrics.TransferMetrics

	newReference func() string
}

func NewDefaultTransferUsecase(
	uow domain.UnitOfWork,
	rates domain.ExchangeRateProvider,
	clock domain.Clock,
	feeRate decimal.Decimal,
	transferMetrics *metrics.TransferMetrics,
) (*DefaultTransferUsecase, error) {
	if feeRate.IsNegative() {
		return nil, fmt.Errorf("fee rate must not be negative, got %s", feeRate)
	}
	newReference, err := nanoid.Standard(referenceLength)
	if err != nil {
		return nil, fmt.Errorf("init reference generator: %w", err)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &DefaultTransferUsecase{
		UnitOfWork:   uow,
		Rates:        rates,
		Clock:        clock,
		FeeRate:      feeRate,
		Metrics:      transferMetrics,
		newReference: newReference,
	}, nil
}
