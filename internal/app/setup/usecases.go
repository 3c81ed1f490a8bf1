package setup

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-transfer-service/internal/config"
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase/account"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase/transfer"
	"github.com/shopspring/decimal"
)

type AccountCreator interface {
	CreateAccount(ctx context.Context, input *transferdto.CreateAccountInput) (*domain.Account, error)
}

type UseCases struct {
	TransferUsecase     usecase.TransferUsecase
	AccountUsecase      usecase.AccountUsecase
	ExchangeRateService usecase.ExchangeRateService
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	clock := domain.SystemClock{}

	transferUsecase, err := transfer.NewDefaultTransferUsecase(
		deps.UnitOfWork,
		deps.Rates,
		clock,
		deps.FeeRate,
		deps.Metrics,
	)
	if err != nil {
		return nil, fmt.Errorf("transfer usecase: %w", err)
	}

	return &UseCases{
		TransferUsecase:     transferUsecase,
		AccountUsecase:      account.NewDefaultAccountUsecase(deps.UnitOfWork, deps.Rates, clock),
		ExchangeRateService: usecase.NewDefaultExchangeRateService(deps.Rates, deps.FeeRate),
	}, nil
}

func seedInput(seed config.SeedAccount, balance decimal.Decimal) *transferdto.CreateAccountInput {
	return &transferdto.CreateAccountInput{
		ID:       seed.ID,
		Name:     seed.Name,
		Balance:  balance,
		Currency: seed.Currency,
	}
}
