package usecase

import (
	"fmt"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
	"github.com/shopspring/decimal"
)

type ExchangeRateService interface {
	// Quote prices a transfer of amount from -> to without touching any account.
	Quote(amount decimal.Decimal, from, to string) (*transferdto.QuoteOutput, error)
	SupportedCurrencies() []domain.Currency
}

type DefaultExchangeRateService struct {
	Provider domain.ExchangeRateProvider
	FeeRate  decimal.Decimal
}

func NewDefaultExchangeRateService(provider domain.ExchangeRateProvider, feeRate decimal.Decimal) *DefaultExchangeRateService {
	return &DefaultExchangeRateService{
		Provider: provider,
		FeeRate:  feeRate,
	}
}

func (s *DefaultExchangeRateService) Quote(amount decimal.Decimal, from, to string) (*transferdto.QuoteOutput, error) {
	if !amount.IsPositive() || !domain.FitsBalanceScale(amount) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
	}
	fromCur, err := domain.ParseCurrency(from)
	if err != nil {
		return nil, err
	}
	toCur, err := domain.ParseCurrency(to)
	if err != nil {
		return nil, err
	}

	rate, err := s.Provider.Rate(fromCur, toCur)
	if err != nil {
		return nil, err
	}
	converted, err := s.Provider.Convert(amount, fromCur, toCur)
	if err != nil {
		return nil, fmt.Errorf("convert %s %s: %w", amount, fromCur, err)
	}
	fee := amount.Mul(s.FeeRate).Round(domain.BalanceScale)

	return &transferdto.QuoteOutput{
		From:         fromCur,
		To:           toCur,
		Rate:         rate,
		Amount:       amount,
		Converted:    converted.Round(domain.BalanceScale),
		Fee:          fee,
		TotalDebited: amount.Add(fee),
	}, nil
}

func (s *DefaultExchangeRateService) SupportedCurrencies() []domain.Currency {
	return s.Provider.Supported()
}
