package transfer

import (
	"errors"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
)

func (uc *DefaultTransferUsecase) recordTransferMetrics(tx *domain.Transaction, started time.Time) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordTransfer(
		string(tx.Status),
		tx.SourceCurrency.String(),
		tx.TargetCurrency.String(),
		time.Since(started).Seconds(),
	)
	if tx.Status == domain.StatusCompleted {
		amount, _ := tx.Amount.Float64()
		fee, _ := tx.Fee.Float64()
		uc.Metrics.RecordCompletedAmounts(tx.SourceCurrency.String(), amount, fee)
	}
}

func (uc *DefaultTransferUsecase) recordErrorMetrics(err error) {
	if uc.Metrics == nil || err == nil {
		return
	}
	uc.Metrics.RecordError(errorReason(err))
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrMissingExchangeRate):
		return "missing_exchange_rate"
	case errors.Is(err, domain.ErrInvalidCurrency):
		return "invalid_currency"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrTransferFailed):
		return "persistence"
	}
	return "other"
}
