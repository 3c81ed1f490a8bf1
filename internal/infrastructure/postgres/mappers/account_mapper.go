package mappers

import (
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/models"
)

func ToDomainAccount(model *models.AccountModel) *domain.Account {
	return &domain.Account{
		ID:        model.ID,
		Name:      model.Name,
		Balance:   model.Balance,
		Currency:  domain.Currency(model.Currency),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMAccount(account *domain.Account) *models.AccountModel {
	return &models.AccountModel{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
		Currency:  string(account.Currency),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
