package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending           TransactionStatus = "PENDING"
	StatusCompleted         TransactionStatus = "COMPLETED"
	StatusFailed            TransactionStatus = "FAILED"
	StatusInsufficientFunds TransactionStatus = "INSUFFICIENT_FUNDS"
	StatusInvalidCurrency   TransactionStatus = "INVALID_CURRENCY"
)

func (s TransactionStatus) IsFinal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusInsufficientFunds, StatusInvalidCurrency:
		return true
	}
	return false
}

// CanTransition reports whether s may move to next. A transaction leaves
// PENDING exactly once and never changes after that.
func (s TransactionStatus) CanTransition(next TransactionStatus) bool {
	return s == StatusPending && next.IsFinal()
}

// Transaction is the audit record of one transfer attempt. Amount and Fee are
// denominated in SourceCurrency (the currency the caller named). DebitAmount is
// what left the source account in DebitCurrency, CreditAmount is what reached
// the destination account in TargetCurrency.
type Transaction struct {
	ID             int64
	Reference      string
	FromAccountID  int64
	ToAccountID    int64
	FromAccount    *Account
	ToAccount      *Account
	Amount         decimal.Decimal
	SourceCurrency Currency
	TargetCurrency Currency
	ExchangeRate   decimal.Decimal
	Fee            decimal.Decimal
	DebitCurrency  Currency
	DebitAmount    decimal.Decimal
	CreditAmount   decimal.Decimal
	Status         TransactionStatus
	FailureReason  string
	Timestamp      time.Time
}

func (t *Transaction) SetStatus(next TransactionStatus) error {
	if !t.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, next)
	}
	t.Status = next
	return nil
}

// TotalDeduction is amount plus fee in the transfer currency.
func (t *Transaction) TotalDeduction() decimal.Decimal {
	return t.Amount.Add(t.Fee)
}
