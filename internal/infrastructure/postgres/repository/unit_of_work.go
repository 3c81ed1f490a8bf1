package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"gorm.io/gorm"
)

// UnitOfWork runs a callback inside one database transaction. Row locks taken
// with SELECT ... FOR UPDATE are released on commit or rollback.
type UnitOfWork struct {
	DB          *gorm.DB
	LockTimeout time.Duration
}

func NewUnitOfWork(db *gorm.DB, lockTimeout time.Duration) *UnitOfWork {
	return &UnitOfWork{DB: db, LockTimeout: lockTimeout}
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	err := u.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.LockTimeout > 0 {
			// SET LOCAL does not accept bind parameters.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.LockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(ctx, NewRepositories(tx))
	})
	return translateTxError(ctx, err)
}

func NewRepositories(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Accounts:     NewDefaultAccountRepository(db),
		Transactions: NewDefaultTransactionRepository(db),
		Outbox:       NewDefaultOutboxRepository(db),
	}
}
