package mappers

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDomainTransaction_PreloadedAccounts(t *testing.T) {
	now := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	model := &models.TransactionModel{
		ID:             7,
		Reference:      "ref",
		FromAccountID:  1,
		FromAccount:    models.AccountModel{ID: 1, Name: "Alice", Currency: "USD", Balance: decimal.NewFromInt(10)},
		ToAccountID:    2,
		Amount:         decimal.RequireFromString("50.00"),
		SourceCurrency: "USD",
		TargetCurrency: "JPY",
		Status:         string(domain.StatusCompleted),
		CreatedAt:      now,
	}

	tx := ToDomainTransaction(model)

	assert.Equal(t, int64(7), tx.ID)
	assert.Equal(t, domain.JPY, tx.TargetCurrency)
	assert.Equal(t, domain.StatusCompleted, tx.Status)
	assert.Equal(t, now, tx.Timestamp)
	if assert.NotNil(t, tx.FromAccount) {
		assert.Equal(t, "Alice", tx.FromAccount.Name)
		assert.Equal(t, domain.USD, tx.FromAccount.Currency)
	}
	assert.Nil(t, tx.ToAccount)
}

func TestToGORMTransaction_CopiesAmounts(t *testing.T) {
	tx := &domain.Transaction{
		FromAccountID:  2,
		ToAccountID:    1,
		Amount:         decimal.RequireFromString("50.00"),
		Fee:            decimal.RequireFromString("0.50"),
		ExchangeRate:   decimal.RequireFromString("2"),
		DebitAmount:    decimal.RequireFromString("7318.8406"),
		CreditAmount:   decimal.RequireFromString("25"),
		SourceCurrency: domain.AUD,
		TargetCurrency: domain.USD,
		DebitCurrency:  domain.JPY,
		Status:         domain.StatusFailed,
		FailureReason:  "db down",
	}

	model := ToGORMTransaction(tx)

	assert.Equal(t, "AUD", model.SourceCurrency)
	assert.Equal(t, "JPY", model.DebitCurrency)
	assert.Equal(t, "FAILED", model.Status)
	assert.Equal(t, "db down", model.FailureReason)
	assert.True(t, tx.DebitAmount.Equal(model.DebitAmount))
	assert.Zero(t, model.ID)
}
