package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/domain/mocks"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mockDeps struct {
	uow          *mocks.MockUnitOfWork
	accounts     *mocks.MockAccountRepository
	transactions *mocks.MockTransactionRepository
	outbox       *mocks.MockOutboxRepository
	rates        *mocks.MockExchangeRateProvider
	clock        *mocks.MockClock
}

func newMockDeps(t *testing.T) (*mockDeps, *DefaultTransferUsecase) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &mockDeps{
		uow:          mocks.NewMockUnitOfWork(ctrl),
		accounts:     mocks.NewMockAccountRepository(ctrl),
		transactions: mocks.NewMockTransactionRepository(ctrl),
		outbox:       mocks.NewMockOutboxRepository(ctrl),
		rates:        mocks.NewMockExchangeRateProvider(ctrl),
		clock:        mocks.NewMockClock(ctrl),
	}
	d.clock.EXPECT().Now().Return(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).AnyTimes()

	uc, err := NewDefaultTransferUsecase(d.uow, d.rates, d.clock, DefaultFeeRate, nil)
	require.NoError(t, err)
	return d, uc
}

func (d *mockDeps) runUnits(times int) {
	repos := domain.Repositories{
		Accounts:     d.accounts,
		Transactions: d.transactions,
		Outbox:       d.outbox,
	}
	d.uow.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, domain.Repositories) error) error {
			return fn(ctx, repos)
		}).
		Times(times)
}

func (d *mockDeps) sameCurrencyRates() {
	d.rates.EXPECT().Rate(domain.USD, domain.USD).Return(decimal.NewFromInt(1), nil).AnyTimes()
	d.rates.EXPECT().
		Convert(gomock.Any(), domain.USD, domain.USD).
		DoAndReturn(func(amount decimal.Decimal, _, _ domain.Currency) (decimal.Decimal, error) {
			return amount, nil
		}).
		AnyTimes()
}

func usdAccount(id int64, balance string) *domain.Account {
	return &domain.Account{ID: id, Balance: decimal.RequireFromString(balance), Currency: domain.USD}
}

func TestTransfer_LocksLowerIDFirst(t *testing.T) {
	d, uc := newMockDeps(t)
	d.runUnits(1)
	d.sameCurrencyRates()

	gomock.InOrder(
		d.accounts.EXPECT().GetForUpdate(gomock.Any(), int64(3)).Return(usdAccount(3, "10"), nil),
		d.accounts.EXPECT().GetForUpdate(gomock.Any(), int64(9)).Return(usdAccount(9, "100"), nil),
	)
	d.accounts.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.transactions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *domain.Transaction) error {
			assert.Equal(t, domain.StatusCompleted, tx.Status)
			tx.ID = 11
			return nil
		})
	d.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

	tx, err := uc.Transfer(context.Background(), &transferdto.TransferInput{
		FromAccountID: 9,
		ToAccountID:   3,
		Amount:        decimal.NewFromInt(10),
		Currency:      "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, tx.Status)
	assert.Equal(t, int64(11), tx.ID)
	assert.True(t, decimal.RequireFromString("89.9").Equal(tx.FromAccount.Balance))
	assert.True(t, decimal.NewFromInt(20).Equal(tx.ToAccount.Balance))
}

func TestTransfer_PersistenceFailureIsRecordedAsFailed(t *testing.T) {
	d, uc := newMockDeps(t)
	d.runUnits(2)
	d.sameCurrencyRates()

	diskFull := errors.New("disk full")
	d.accounts.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(usdAccount(1, "100"), nil)
	d.accounts.EXPECT().GetForUpdate(gomock.Any(), int64(2)).Return(usdAccount(2, "0"), nil)
	d.accounts.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	gomock.InOrder(
		d.transactions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(diskFull),
		d.transactions.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *domain.Transaction) error {
				assert.Equal(t, domain.StatusFailed, tx.Status)
				assert.Zero(t, tx.ID)
				tx.ID = 77
				return nil
			}),
	)

	tx, err := uc.Transfer(context.Background(), &transferdto.TransferInput{
		FromAccountID: 1,
		ToAccountID:   2,
		Amount:        decimal.NewFromInt(10),
		Currency:      "USD",
	})
	require.ErrorIs(t, err, domain.ErrTransferFailed)
	require.ErrorIs(t, err, diskFull)
	require.NotNil(t, tx)
	assert.Equal(t, domain.StatusFailed, tx.Status)
	assert.Equal(t, int64(77), tx.ID)
	assert.Contains(t, tx.FailureReason, "disk full")
	// Snapshots still show the balances from before the rollback.
	assert.True(t, decimal.NewFromInt(100).Equal(tx.FromAccount.Balance))
	assert.True(t, decimal.Zero.Equal(tx.ToAccount.Balance))
}

func TestTransfer_FailedRecordIsBestEffort(t *testing.T) {
	d, uc := newMockDeps(t)
	d.sameCurrencyRates()

	outage := errors.New("connection reset")
	d.uow.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, domain.Repositories) error) error {
			return fn(ctx, domain.Repositories{Accounts: d.accounts, Transactions: d.transactions, Outbox: d.outbox})
		})
	d.uow.EXPECT().WithinTx(gomock.Any(), gomock.Any()).Return(outage)

	d.accounts.EXPECT().GetForUpdate(gomock.Any(), gomock.Any()).Return(usdAccount(1, "100"), nil)
	d.accounts.EXPECT().GetForUpdate(gomock.Any(), gomock.Any()).Return(usdAccount(2, "0"), nil)
	d.accounts.EXPECT().Save(gomock.Any(), gomock.Any()).Return(outage)

	tx, err := uc.Transfer(context.Background(), &transferdto.TransferInput{
		FromAccountID: 1,
		ToAccountID:   2,
		Amount:        decimal.NewFromInt(10),
		Currency:      "USD",
	})
	require.ErrorIs(t, err, domain.ErrTransferFailed)
	assert.Equal(t, domain.StatusFailed, tx.Status)
	assert.Zero(t, tx.ID)
}

func TestTransfer_LockTimeoutAttemptsNothing(t *testing.T) {
	d, uc := newMockDeps(t)
	d.runUnits(1)

	d.accounts.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(nil, domain.ErrLockTimeout)

	tx, err := uc.Transfer(context.Background(), &transferdto.TransferInput{
		FromAccountID: 2,
		ToAccountID:   1,
		Amount:        decimal.NewFromInt(10),
		Currency:      "USD",
	})
	require.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.Nil(t, tx)
}

func TestTransfer_ProviderErrorFailsTransfer(t *testing.T) {
	d, uc := newMockDeps(t)
	d.runUnits(2)

	d.accounts.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(usdAccount(1, "100"), nil)
	d.accounts.EXPECT().GetForUpdate(gomock.Any(), int64(2)).Return(usdAccount(2, "0"), nil)
	d.rates.EXPECT().Rate(domain.USD, domain.USD).Return(decimal.Zero, errors.New("rates unavailable"))
	d.transactions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	tx, err := uc.Transfer(context.Background(), &transferdto.TransferInput{
		FromAccountID: 1,
		ToAccountID:   2,
		Amount:        decimal.NewFromInt(10),
		Currency:      "USD",
	})
	require.ErrorIs(t, err, domain.ErrTransferFailed)
	assert.Equal(t, domain.StatusFailed, tx.Status)
}

func TestNewDefaultTransferUsecase_RejectsNegativeFee(t *testing.T) {
	_, err := NewDefaultTransferUsecase(nil, nil, nil, decimal.RequireFromString("-0.01"), nil)
	assert.Error(t, err)
}

func TestLockOrder(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want []int64
	}{
		{name: "already ordered", ids: []int64{1, 2}, want: []int64{1, 2}},
		{name: "reversed", ids: []int64{9, 3}, want: []int64{3, 9}},
		{name: "duplicates", ids: []int64{5, 5}, want: []int64{5}},
		{name: "many", ids: []int64{7, 1, 7, 4}, want: []int64{1, 4, 7}},
		{name: "empty", ids: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LockOrder(tt.ids...))
		})
	}
}

func TestLockOrder_DoesNotModifyInput(t *testing.T) {
	ids := []int64{2, 1}
	_ = LockOrder(ids...)
	assert.Equal(t, []int64{2, 1}, ids)
}
