package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Name      string          `gorm:"not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string {
	return "accounts"
}
