package publisher

import (
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
)

const EventTransferCompleted = "transfer.completed"

type TransferEvent struct {
	TransactionID  int64     `json:"transaction_id"`
	Reference      string    `json:"reference"`
	FromAccountID  int64     `json:"from_account_id"`
	ToAccountID    int64     `json:"to_account_id"`
	Amount         string    `json:"amount"`
	Fee            string    `json:"fee"`
	SourceCurrency string    `json:"source_currency"`
	TargetCurrency string    `json:"target_currency"`
	ExchangeRate   string    `json:"exchange_rate"`
	DebitAmount    string    `json:"debit_amount"`
	DebitCurrency  string    `json:"debit_currency"`
	CreditAmount   string    `json:"credit_amount"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewTransferEvent(tx *domain.Transaction) TransferEvent {
	return TransferEvent{
		TransactionID:  tx.ID,
		Reference:      tx.Reference,
		FromAccountID:  tx.FromAccountID,
		ToAccountID:    tx.ToAccountID,
		Amount:         tx.Amount.String(),
		Fee:            tx.Fee.String(),
		SourceCurrency: tx.SourceCurrency.String(),
		TargetCurrency: tx.TargetCurrency.String(),
		ExchangeRate:   tx.ExchangeRate.String(),
		DebitAmount:    tx.DebitAmount.String(),
		DebitCurrency:  tx.DebitCurrency.String(),
		CreditAmount:   tx.CreditAmount.String(),
		Status:         string(tx.Status),
		Timestamp:      tx.Timestamp,
	}
}

func (e TransferEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
