package transferdto

import "github.com/shopspring/decimal"

type TransferInput struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	// Currency the amount is expressed in. Usually the source account's currency.
	Currency string
}

type CreateAccountInput struct {
	// ID is optional. Zero lets the store assign the next id.
	ID       int64
	Name     string
	Balance  decimal.Decimal
	Currency string
}

type ListTransactionsInput struct {
	AccountID int64
	Limit     int
}
