package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAccountRepository struct {
	DB *gorm.DB
}

func NewDefaultAccountRepository(db *gorm.DB) *DefaultAccountRepository {
	return &DefaultAccountRepository{DB: db}
}

// GetForUpdate issues SELECT ... FOR UPDATE; the row lock lives as long as
// the surrounding database transaction.
func (r *DefaultAccountRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	var account models.AccountModel
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, "id = ?", id).Error
	if err != nil {
		return nil, accountError(id, err)
	}
	return mappers.ToDomainAccount(&account), nil
}

func (r *DefaultAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account models.AccountModel
	if err := r.DB.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, accountError(id, err)
	}
	return mappers.ToDomainAccount(&account), nil
}

const syncAccountSequence = `SELECT setval(pg_get_serial_sequence('accounts', 'id'), (SELECT MAX(id) FROM accounts))`

func (r *DefaultAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	model := mappers.ToGORMAccount(account)
	db := r.DB.WithContext(ctx)
	if err := db.Create(model).Error; err != nil {
		return fmt.Errorf("create account: %w", translateError(err))
	}
	if account.ID != 0 {
		// An explicit id bypasses the sequence; move it past the highest id.
		if err := db.Exec(syncAccountSequence).Error; err != nil {
			return fmt.Errorf("sync account id sequence: %w", translateError(err))
		}
	}
	account.ID = model.ID
	account.CreatedAt = model.CreatedAt
	account.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultAccountRepository) Save(ctx context.Context, account *domain.Account) error {
	result := r.DB.WithContext(ctx).
		Model(&models.AccountModel{ID: account.ID}).
		Updates(map[string]interface{}{
			"name":       account.Name,
			"balance":    account.Balance,
			"currency":   string(account.Currency),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("save account %d: %w", account.ID, translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", domain.ErrAccountNotFound, account.ID)
	}
	return nil
}

func accountError(id int64, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", domain.ErrAccountNotFound, id)
	}
	return translateError(err)
}
