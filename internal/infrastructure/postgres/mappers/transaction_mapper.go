package mappers

import (
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	tx := &domain.Transaction{
		ID:             model.ID,
		Reference:      model.Reference,
		FromAccountID:  model.FromAccountID,
		ToAccountID:    model.ToAccountID,
		Amount:         model.Amount,
		SourceCurrency: domain.Currency(model.SourceCurrency),
		TargetCurrency: domain.Currency(model.TargetCurrency),
		ExchangeRate:   model.ExchangeRate,
		Fee:            model.Fee,
		DebitCurrency:  domain.Currency(model.DebitCurrency),
		DebitAmount:    model.DebitAmount,
		CreditAmount:   model.CreditAmount,
		Status:         domain.TransactionStatus(model.Status),
		FailureReason:  model.FailureReason,
		Timestamp:      model.CreatedAt,
	}
	// Associations are only present when preloaded.
	if model.FromAccount.ID != 0 {
		tx.FromAccount = ToDomainAccount(&model.FromAccount)
	}
	if model.ToAccount.ID != 0 {
		tx.ToAccount = ToDomainAccount(&model.ToAccount)
	}
	return tx
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:             tx.ID,
		Reference:      tx.Reference,
		FromAccountID:  tx.FromAccountID,
		ToAccountID:    tx.ToAccountID,
		Amount:         tx.Amount,
		SourceCurrency: string(tx.SourceCurrency),
		TargetCurrency: string(tx.TargetCurrency),
		ExchangeRate:   tx.ExchangeRate,
		Fee:            tx.Fee,
		DebitCurrency:  string(tx.DebitCurrency),
		DebitAmount:    tx.DebitAmount,
		CreditAmount:   tx.CreditAmount,
		Status:         string(tx.Status),
		FailureReason:  tx.FailureReason,
		CreatedAt:      tx.Timestamp,
	}
}
