package memory

import (
	"context"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
)

// auto* repositories wrap each call in its own unit of work, the way a
// database session in autocommit mode behaves.

type autoAccounts struct {
	store *Store
}

func (r *autoAccounts) GetForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	var out *domain.Account
	err := r.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		a, err := repos.Accounts.GetForUpdate(ctx, id)
		out = a
		return err
	})
	return out, err
}

func (r *autoAccounts) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var out *domain.Account
	err := r.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		a, err := repos.Accounts.GetByID(ctx, id)
		out = a
		return err
	})
	return out, err
}

func (r *autoAccounts) Create(ctx context.Context, account *domain.Account) error {
	return r.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Accounts.Create(ctx, account)
	})
}

func (r *autoAccounts) Save(ctx context.Context, account *domain.Account) error {
	return r.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Accounts.GetForUpdate(ctx, account.ID); err != nil {
			return err
		}
		return repos.Accounts.Save(ctx, account)
	})
}

type autoTransactions struct {
	store *Store
}

func (r *autoTransactions) Save(ctx context.Context, tx *domain.Transaction) error {
	return r.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Transactions.Save(ctx, tx)
	})
}

func (r *autoTransactions) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		t, err := repos.Transactions.GetByID(ctx, id)
		out = t
		return err
	})
	return out, err
}

func (r *autoTransactions) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*domain.Transaction, error) {
	return r.store.listByAccount(accountID, limit), nil
}

type autoOutbox struct {
	store *Store
}

func (r *autoOutbox) Enqueue(ctx context.Context, msg domain.OutboxMessage) error {
	return r.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Outbox.Enqueue(ctx, msg)
	})
}

func (r *autoOutbox) DequeueBatch(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	return r.store.pending(limit), nil
}

func (r *autoOutbox) MarkPublished(ctx context.Context, ids ...string) error {
	r.store.markPublished(ids)
	return nil
}
