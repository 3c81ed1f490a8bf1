package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// translateError maps driver level failures onto domain errors. Anything it
// does not recognise is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.LockNotAvailable:
			return fmt.Errorf("%w: %s", domain.ErrLockTimeout, pgErr.Message)
		case pgerrcode.UniqueViolation:
			if pgErr.TableName == "accounts" {
				return fmt.Errorf("%w: %s", domain.ErrAccountExists, pgErr.Detail)
			}
		}
	}
	return err
}

// translateTxError reports a unit of work that ended with its context as
// cancelled or expired. Postgres answers a cancelled statement with
// query_canceled, which says nothing about locks.
func translateTxError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return translateError(err)
}
