package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	model := mappers.ToGORMTransaction(tx)
	db := r.DB.WithContext(ctx).Omit(clause.Associations)

	var err error
	if model.ID == 0 {
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		return fmt.Errorf("save transaction: %w", translateError(err))
	}

	tx.ID = model.ID
	return nil
}

func (r *DefaultTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	var model models.TransactionModel
	err := r.DB.WithContext(ctx).
		Preload("FromAccount").
		Preload("ToAccount").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", domain.ErrTransactionNotFound, id)
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*domain.Transaction, error) {
	var transactionModels []models.TransactionModel

	query := r.DB.WithContext(ctx).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = mappers.ToDomainTransaction(&transactionModels[i])
	}
	return transactions, nil
}
