package usecase

import (
	"context"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
)

type TransferUsecase interface {
	// Transfer moves money between two accounts. Business outcomes
	// (INSUFFICIENT_FUNDS, INVALID_CURRENCY, FAILED) come back as a transaction
	// with that status; INVALID_CURRENCY and FAILED also carry an error.
	Transfer(ctx context.Context, input *transferdto.TransferInput) (*domain.Transaction, error)
}

type AccountUsecase interface {
	CreateAccount(ctx context.Context, input *transferdto.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input *transferdto.ListTransactionsInput) ([]*domain.Transaction, error)
}
