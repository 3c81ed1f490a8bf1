package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account balances are kept at BalanceScale fractional digits.
const BalanceScale int32 = 4

type Account struct {
	ID        int64
	Name      string
	Balance   decimal.Decimal
	Currency  Currency
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FitsBalanceScale reports whether amount can be booked without rounding.
func FitsBalanceScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(BalanceScale))
}

func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Snapshot returns a copy that is safe to hand out after the account lock is released.
func (a *Account) Snapshot() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
