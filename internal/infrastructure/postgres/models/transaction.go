package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Reference      string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	FromAccountID  int64           `gorm:"index:idx_transactions_from;not null"`
	FromAccount    AccountModel    `gorm:"foreignKey:FromAccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	ToAccountID    int64           `gorm:"index:idx_transactions_to;not null"`
	ToAccount      AccountModel    `gorm:"foreignKey:ToAccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Amount         decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	SourceCurrency string          `gorm:"type:varchar(3);not null"`
	TargetCurrency string          `gorm:"type:varchar(3);not null"`
	ExchangeRate   decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Fee            decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	DebitCurrency  string          `gorm:"type:varchar(3);not null"`
	DebitAmount    decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	CreditAmount   decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Status         string          `gorm:"type:varchar(32);index;not null"`
	FailureReason  string
	CreatedAt      time.Time `gorm:"not null"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}
