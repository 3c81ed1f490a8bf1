package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	publisher "github.com/LavaJover/shvark-transfer-service/internal/infrastructure/kafka"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
	"github.com/google/uuid"
)

func (uc *DefaultTransferUsecase) Transfer(ctx context.Context, input *transferdto.TransferInput) (*domain.Transaction, error) {
	started := time.Now()

	currency, err := validateTransferInput(input)
	if err != nil {
		uc.recordErrorMetrics(err)
		return nil, err
	}

	var (
		tx        *domain.Transaction
		committed *domain.Transaction
		outcome   domain.TransactionStatus
	)
	err = uc.UnitOfWork.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		accounts, err := lockAccounts(ctx, repos.Accounts, input.FromAccountID, input.ToAccountID)
		if err != nil {
			return err
		}
		from, to := accounts[input.FromAccountID], accounts[input.ToAccountID]
		slog.Debug("accounts locked", "from", from.ID, "to", to.ID, "order", LockOrder(from.ID, to.ID))

		tx = uc.newTransaction(input, currency, from, to)
		if err := uc.price(tx); err != nil {
			if errors.Is(err, domain.ErrMissingExchangeRate) || errors.Is(err, domain.ErrInvalidCurrency) {
				outcome = domain.StatusInvalidCurrency
			}
			return err
		}
		if !from.CanDebit(tx.DebitAmount) {
			outcome = domain.StatusInsufficientFunds
			return nil
		}

		from.Balance = from.Balance.Sub(tx.DebitAmount)
		from.UpdatedAt = tx.Timestamp
		to.Balance = to.Balance.Add(tx.CreditAmount)
		to.UpdatedAt = tx.Timestamp
		if err := repos.Accounts.Save(ctx, from); err != nil {
			return fmt.Errorf("save account %d: %w", from.ID, err)
		}
		if err := repos.Accounts.Save(ctx, to); err != nil {
			return fmt.Errorf("save account %d: %w", to.ID, err)
		}

		// The stored record is COMPLETED; tx itself only leaves PENDING once
		// the commit has gone through.
		record := *tx
		record.FromAccount, record.ToAccount = from.Snapshot(), to.Snapshot()
		record.Status = domain.StatusCompleted
		if err := repos.Transactions.Save(ctx, &record); err != nil {
			return fmt.Errorf("save transaction %s: %w", record.Reference, err)
		}
		if err := enqueueCompleted(ctx, repos.Outbox, &record); err != nil {
			return err
		}
		committed = &record
		outcome = domain.StatusCompleted
		return nil
	})

	if tx == nil {
		// Nothing was attempted: an account is missing, a lock timed out or
		// the context ended.
		uc.recordErrorMetrics(err)
		slog.Warn("transfer rejected",
			"from", input.FromAccountID,
			"to", input.ToAccountID,
			"error", err,
		)
		return nil, err
	}

	switch {
	case outcome == domain.StatusInvalidCurrency:
		tx.FailureReason = err.Error()
		settle(tx, domain.StatusInvalidCurrency)
		uc.recordErrorMetrics(err)
		slog.Warn("transfer rejected: no exchange rate",
			"reference", tx.Reference,
			"source_currency", tx.SourceCurrency,
			"target_currency", tx.TargetCurrency,
			"error", err,
		)
	case err != nil:
		err = fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
		tx.ID = 0
		tx.FailureReason = err.Error()
		settle(tx, domain.StatusFailed)
		uc.persistFailed(ctx, tx)
		uc.recordErrorMetrics(err)
		slog.Error("transfer failed, changes rolled back",
			"reference", tx.Reference,
			"from", tx.FromAccountID,
			"to", tx.ToAccountID,
			"error", err,
		)
	case outcome == domain.StatusInsufficientFunds:
		settle(tx, domain.StatusInsufficientFunds)
		slog.Info("transfer declined: insufficient funds",
			"reference", tx.Reference,
			"from", tx.FromAccountID,
			"balance", tx.FromAccount.Balance.String(),
			"required", tx.DebitAmount.String(),
		)
	default:
		tx.ID = committed.ID
		tx.FromAccount, tx.ToAccount = committed.FromAccount, committed.ToAccount
		settle(tx, domain.StatusCompleted)
		slog.Info("transfer completed",
			"transaction_id", tx.ID,
			"reference", tx.Reference,
			"from", tx.FromAccountID,
			"to", tx.ToAccountID,
			"amount", tx.Amount.String(),
			"currency", tx.SourceCurrency,
			"fee", tx.Fee.String(),
			"credited", tx.CreditAmount.String(),
		)
	}

	uc.recordTransferMetrics(tx, started)
	return tx, err
}

func validateTransferInput(input *transferdto.TransferInput) (domain.Currency, error) {
	if input == nil {
		return "", fmt.Errorf("%w: empty transfer request", domain.ErrInvalidAmount)
	}
	if input.FromAccountID == input.ToAccountID {
		return "", fmt.Errorf("%w: account %d", domain.ErrSameAccount, input.FromAccountID)
	}
	if !input.Amount.IsPositive() {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidAmount, input.Amount)
	}
	if !domain.FitsBalanceScale(input.Amount) {
		return "", fmt.Errorf("%w: %s has more than %d decimal places", domain.ErrInvalidAmount, input.Amount, domain.BalanceScale)
	}
	return domain.ParseCurrency(input.Currency)
}

func (uc *DefaultTransferUsecase) newTransaction(
	input *transferdto.TransferInput,
	currency domain.Currency,
	from, to *domain.Account,
) *domain.Transaction {
	return &domain.Transaction{
		Reference:      uc.newReference(),
		FromAccountID:  from.ID,
		ToAccountID:    to.ID,
		FromAccount:    from.Snapshot(),
		ToAccount:      to.Snapshot(),
		Amount:         input.Amount,
		SourceCurrency: currency,
		TargetCurrency: to.Currency,
		DebitCurrency:  from.Currency,
		Fee:            input.Amount.Mul(uc.FeeRate).Round(domain.BalanceScale),
		Status:         domain.StatusPending,
		Timestamp:      uc.Clock.Now(),
	}
}

// price fills the exchange rate and the debit and credit legs. The debit
// covers amount plus fee in the source account currency, the credit is the
// bare amount in the destination account currency.
func (uc *DefaultTransferUsecase) price(tx *domain.Transaction) error {
	rate, err := uc.Rates.Rate(tx.SourceCurrency, tx.TargetCurrency)
	if err != nil {
		return err
	}
	debit, err := uc.Rates.Convert(tx.TotalDeduction(), tx.SourceCurrency, tx.DebitCurrency)
	if err != nil {
		return err
	}
	credit, err := uc.Rates.Convert(tx.Amount, tx.SourceCurrency, tx.TargetCurrency)
	if err != nil {
		return err
	}
	tx.ExchangeRate = rate
	tx.DebitAmount = debit.Round(domain.BalanceScale)
	tx.CreditAmount = credit.Round(domain.BalanceScale)
	return nil
}

func enqueueCompleted(ctx context.Context, outbox domain.OutboxRepository, record *domain.Transaction) error {
	payload, err := publisher.NewTransferEvent(record).Marshal()
	if err != nil {
		return fmt.Errorf("marshal transfer event: %w", err)
	}
	return outbox.Enqueue(ctx, domain.OutboxMessage{
		ID:          uuid.NewString(),
		EventType:   publisher.EventTransferCompleted,
		AggregateID: record.Reference,
		Payload:     payload,
		CreatedAt:   record.Timestamp,
	})
}

// persistFailed stores the FAILED record in a unit of work of its own. The
// attempt is best effort: the caller already has the outcome.
func (uc *DefaultTransferUsecase) persistFailed(ctx context.Context, tx *domain.Transaction) {
	record := *tx
	err := uc.UnitOfWork.WithinTx(context.WithoutCancel(ctx), func(ctx context.Context, repos domain.Repositories) error {
		return repos.Transactions.Save(ctx, &record)
	})
	if err != nil {
		slog.Error("failed to record failed transfer", "reference", tx.Reference, "error", err)
		return
	}
	tx.ID = record.ID
}

// settle moves a PENDING transaction to its final status.
func settle(tx *domain.Transaction, status domain.TransactionStatus) {
	if err := tx.SetStatus(status); err != nil {
		slog.Error("unexpected status transition", "reference", tx.Reference, "error", err)
	}
}
