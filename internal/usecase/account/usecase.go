package account

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

type DefaultAccountUsecase struct {
	UnitOfWork domain.UnitOfWork
	Rates      domain.ExchangeRateProvider
	Clock      domain.Clock
}

func NewDefaultAccountUsecase(uow domain.UnitOfWork, rates domain.ExchangeRateProvider, clock domain.Clock) *DefaultAccountUsecase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &DefaultAccountUsecase{
		UnitOfWork: uow,
		Rates:      rates,
		Clock:      clock,
	}
}

// CreateAccount opens an account in one of the currencies the rate table knows.
func (uc *DefaultAccountUsecase) CreateAccount(ctx context.Context, input *transferdto.CreateAccountInput) (*domain.Account, error) {
	currency, err := domain.ParseCurrency(input.Currency)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(uc.Rates.Supported(), currency) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCurrency, currency)
	}
	if input.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance %s", domain.ErrInvalidAmount, input.Balance)
	}

	now := uc.Clock.Now()
	account := &domain.Account{
		ID:        input.ID,
		Name:      input.Name,
		Balance:   input.Balance.Round(domain.BalanceScale),
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.UnitOfWork.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Accounts.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("account created", "account_id", account.ID, "currency", account.Currency)
	return account, nil
}

func (uc *DefaultAccountUsecase) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	var account *domain.Account
	err := uc.UnitOfWork.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		account, err = repos.Accounts.GetByID(ctx, accountID)
		return err
	})
	return account, err
}

func (uc *DefaultAccountUsecase) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	var tx *domain.Transaction
	err := uc.UnitOfWork.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		tx, err = repos.Transactions.GetByID(ctx, transactionID)
		return err
	})
	return tx, err
}

// ListTransactions returns the account's history, newest first.
func (uc *DefaultAccountUsecase) ListTransactions(ctx context.Context, input *transferdto.ListTransactionsInput) ([]*domain.Transaction, error) {
	limit := input.Limit
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	var txs []*domain.Transaction
	err := uc.UnitOfWork.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Accounts.GetByID(ctx, input.AccountID); err != nil {
			return err
		}
		var err error
		txs, err = repos.Transactions.ListByAccount(ctx, input.AccountID, limit)
		return err
	})
	return txs, err
}
