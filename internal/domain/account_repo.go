package domain

import (
	"context"
	"time"
)

type AccountRepository interface {
	// GetForUpdate reads the account and holds an exclusive lock on it until
	// the enclosing unit of work commits or rolls back.
	GetForUpdate(ctx context.Context, id int64) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	Create(ctx context.Context, account *Account) error
	Save(ctx context.Context, account *Account) error
}

type TransactionRepository interface {
	// Save assigns ID on first save.
	Save(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*Transaction, error)
}

type OutboxMessage struct {
	ID          string
	EventType   string
	AggregateID string
	Payload     []byte
	CreatedAt   time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) error
	DequeueBatch(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkPublished(ctx context.Context, ids ...string) error
}

// Repositories bound to one unit of work.
type Repositories struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
	Outbox       OutboxRepository
}

// UnitOfWork runs fn atomically: every write done through repos is committed
// when fn returns nil and discarded otherwise. Account locks taken through
// repos.Accounts.GetForUpdate are released when WithinTx returns.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
