package response

import (
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

type TransactionResponse struct {
	ID             int64            `json:"id"`
	Reference      string           `json:"reference"`
	FromAccountID  int64            `json:"from_account_id"`
	ToAccountID    int64            `json:"to_account_id"`
	FromAccount    *AccountResponse `json:"from_account,omitempty"`
	ToAccount      *AccountResponse `json:"to_account,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	Fee            decimal.Decimal  `json:"fee"`
	SourceCurrency string           `json:"source_currency"`
	TargetCurrency string           `json:"target_currency"`
	ExchangeRate   decimal.Decimal  `json:"exchange_rate"`
	DebitCurrency  string           `json:"debit_currency"`
	DebitAmount    decimal.Decimal  `json:"debit_amount"`
	CreditAmount   decimal.Decimal  `json:"credit_amount"`
	Status         string           `json:"status"`
	FailureReason  string           `json:"failure_reason,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

type TransactionsResponse struct {
	Count        int                    `json:"count"`
	Transactions []*TransactionResponse `json:"transactions"`
}

type QuoteResponse struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	Converted    decimal.Decimal `json:"converted"`
	Fee          decimal.Decimal `json:"fee"`
	TotalDebited decimal.Decimal `json:"total_debited"`
}

type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

type ErrorResponse struct {
	Error       string               `json:"error"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

func NewAccountResponse(account *domain.Account) *AccountResponse {
	if account == nil {
		return nil
	}
	return &AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
		Currency:  account.Currency.String(),
		CreatedAt: account.CreatedAt,
	}
}

func NewTransactionResponse(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:             tx.ID,
		Reference:      tx.Reference,
		FromAccountID:  tx.FromAccountID,
		ToAccountID:    tx.ToAccountID,
		FromAccount:    NewAccountResponse(tx.FromAccount),
		ToAccount:      NewAccountResponse(tx.ToAccount),
		Amount:         tx.Amount,
		Fee:            tx.Fee,
		SourceCurrency: tx.SourceCurrency.String(),
		TargetCurrency: tx.TargetCurrency.String(),
		ExchangeRate:   tx.ExchangeRate,
		DebitCurrency:  tx.DebitCurrency.String(),
		DebitAmount:    tx.DebitAmount,
		CreditAmount:   tx.CreditAmount,
		Status:         string(tx.Status),
		FailureReason:  tx.FailureReason,
		Timestamp:      tx.Timestamp,
	}
}

func NewTransactionsResponse(txs []*domain.Transaction) *TransactionsResponse {
	out := &TransactionsResponse{
		Count:        len(txs),
		Transactions: make([]*TransactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, NewTransactionResponse(tx))
	}
	return out
}
