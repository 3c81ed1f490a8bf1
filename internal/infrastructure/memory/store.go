package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
)

// Store is an in-process Account/Transaction/Outbox store. Every account owns
// a one-slot channel used as its row lock; a unit of work keeps the locks it
// took until WithinTx returns. Writes are staged per unit of work and applied
// on commit only.
type Store struct {
	mu           sync.Mutex
	accounts     map[int64]*domain.Account
	locks        map[int64]chan struct{}
	transactions map[int64]*domain.Transaction
	outbox       []*outboxEntry

	nextAccountID     int64
	nextTransactionID int64

	lockTimeout time.Duration
}

type outboxEntry struct {
	msg         domain.OutboxMessage
	publishedAt time.Time
}

// NewStore returns an empty store. A zero lockTimeout waits for locks until
// the context is done.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:     make(map[int64]*domain.Account),
		locks:        make(map[int64]chan struct{}),
		transactions: make(map[int64]*domain.Transaction),
		lockTimeout:  lockTimeout,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	u := &unit{
		store:    s,
		held:     make(map[int64]chan struct{}),
		accounts: make(map[int64]*domain.Account),
	}
	defer u.release()

	if err := fn(ctx, u.repositories()); err != nil {
		return err
	}
	u.commit()
	return nil
}

// Accounts returns a repository that runs every call in its own unit of work.
func (s *Store) Accounts() domain.AccountRepository {
	return &autoAccounts{store: s}
}

func (s *Store) Transactions() domain.TransactionRepository {
	return &autoTransactions{store: s}
}

func (s *Store) Outbox() domain.OutboxRepository {
	return &autoOutbox{store: s}
}

func (s *Store) lockFor(id int64) (chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	return l, ok
}

func (s *Store) acquire(ctx context.Context, id int64, l chan struct{}) error {
	var timeout <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case l <- struct{}{}:
		return nil
	case <-timeout:
		return fmt.Errorf("%w: account %d after %s", domain.ErrLockTimeout, id, s.lockTimeout)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: account %d: %v", domain.ErrLockTimeout, id, ctx.Err())
		}
		return ctx.Err()
	}
}

func (s *Store) committedAccount(id int64) (*domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	return a.Snapshot(), true
}

func (s *Store) committedTransaction(id int64) (*domain.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

func (s *Store) listByAccount(accountID int64, limit int) []*domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Transaction
	for _, t := range s.transactions {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) reserveAccountID(requested int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requested == 0 {
		s.nextAccountID++
		for s.locks[s.nextAccountID] != nil {
			s.nextAccountID++
		}
		requested = s.nextAccountID
	} else if s.locks[requested] != nil {
		return 0, fmt.Errorf("%w: %d", domain.ErrAccountExists, requested)
	}
	if requested > s.nextAccountID {
		s.nextAccountID = requested
	}
	// The lock exists from reservation on so two creators cannot claim the same id.
	s.locks[requested] = make(chan struct{}, 1)
	return requested, nil
}

func (s *Store) reserveTransactionID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTransactionID++
	return s.nextTransactionID
}

// unit is one unit of work.
type unit struct {
	store *Store

	held         map[int64]chan struct{}
	accounts     map[int64]*domain.Account
	created      []int64
	transactions []*domain.Transaction
	outbox       []domain.OutboxMessage
}

func (u *unit) repositories() domain.Repositories {
	return domain.Repositories{
		Accounts:     &unitAccounts{u: u},
		Transactions: &unitTransactions{u: u},
		Outbox:       &unitOutbox{u: u},
	}
}

func (u *unit) commit() {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, a := range u.accounts {
		cp := *a
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = now
		}
		cp.UpdatedAt = now
		s.accounts[id] = &cp
	}
	for _, t := range u.transactions {
		cp := *t
		s.transactions[cp.ID] = &cp
	}
	for _, m := range u.outbox {
		s.outbox = append(s.outbox, &outboxEntry{msg: m})
	}
	u.created = nil
}

func (u *unit) release() {
	// Ids reserved by a rolled back unit are dropped together with their lock.
	if len(u.created) > 0 {
		u.store.mu.Lock()
		for _, id := range u.created {
			delete(u.store.locks, id)
		}
		u.store.mu.Unlock()
	}
	for id, l := range u.held {
		<-l
		delete(u.held, id)
	}
}

type unitAccounts struct {
	u *unit
}

func (r *unitAccounts) GetForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	if a, ok := r.u.accounts[id]; ok {
		if _, locked := r.u.held[id]; locked {
			return a.Snapshot(), nil
		}
	}

	l, ok := r.u.store.lockFor(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrAccountNotFound, id)
	}
	if err := r.u.store.acquire(ctx, id, l); err != nil {
		return nil, err
	}
	r.u.held[id] = l

	a, ok := r.u.store.committedAccount(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrAccountNotFound, id)
	}
	r.u.accounts[id] = a.Snapshot()
	return a, nil
}

func (r *unitAccounts) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if a, ok := r.u.accounts[id]; ok {
		return a.Snapshot(), nil
	}
	a, ok := r.u.store.committedAccount(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrAccountNotFound, id)
	}
	return a, nil
}

func (r *unitAccounts) Create(ctx context.Context, account *domain.Account) error {
	id, err := r.u.store.reserveAccountID(account.ID)
	if err != nil {
		return err
	}
	account.ID = id
	r.u.created = append(r.u.created, id)
	r.u.accounts[id] = account.Snapshot()
	return nil
}

func (r *unitAccounts) Save(ctx context.Context, account *domain.Account) error {
	if _, locked := r.u.held[account.ID]; !locked {
		if _, created := r.u.accounts[account.ID]; !created {
			return fmt.Errorf("account %d must be locked before it is saved", account.ID)
		}
	}
	r.u.accounts[account.ID] = account.Snapshot()
	return nil
}

type unitTransactions struct {
	u *unit
}

func (r *unitTransactions) Save(ctx context.Context, tx *domain.Transaction) error {
	if tx.ID == 0 {
		tx.ID = r.u.store.reserveTransactionID()
	}
	cp := *tx
	for i, staged := range r.u.transactions {
		if staged.ID == cp.ID {
			r.u.transactions[i] = &cp
			return nil
		}
	}
	r.u.transactions = append(r.u.transactions, &cp)
	return nil
}

func (r *unitTransactions) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	for _, staged := range r.u.transactions {
		if staged.ID == id {
			cp := *staged
			return &cp, nil
		}
	}
	t, ok := r.u.store.committedTransaction(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrTransactionNotFound, id)
	}
	return t, nil
}

func (r *unitTransactions) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*domain.Transaction, error) {
	return r.u.store.listByAccount(accountID, limit), nil
}

type unitOutbox struct {
	u *unit
}

func (r *unitOutbox) Enqueue(ctx context.Context, msg domain.OutboxMessage) error {
	r.u.outbox = append(r.u.outbox, msg)
	return nil
}

func (r *unitOutbox) DequeueBatch(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	return r.u.store.pending(limit), nil
}

func (r *unitOutbox) MarkPublished(ctx context.Context, ids ...string) error {
	r.u.store.markPublished(ids)
	return nil
}

func (s *Store) pending(limit int) []domain.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.OutboxMessage
	for _, e := range s.outbox {
		if !e.publishedAt.IsZero() {
			continue
		}
		out = append(out, e.msg)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (s *Store) markPublished(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for _, e := range s.outbox {
		if _, ok := want[e.msg.ID]; ok && e.publishedAt.IsZero() {
			e.publishedAt = now
		}
	}
}
