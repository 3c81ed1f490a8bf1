package transfer

import (
	"context"
	"slices"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
)

// LockOrder returns ids sorted ascending with duplicates removed. Any code
// that locks more than one account must request the locks in this order,
// otherwise two opposite transfers can wait on each other forever.
func LockOrder(ids ...int64) []int64 {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	return slices.Compact(ordered)
}

// lockAccounts takes the row lock on every id in LockOrder and returns the
// locked accounts keyed by id.
func lockAccounts(ctx context.Context, repo domain.AccountRepository, ids ...int64) (map[int64]*domain.Account, error) {
	locked := make(map[int64]*domain.Account, len(ids))
	for _, id := range LockOrder(ids...) {
		account, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = account
	}
	return locked, nil
}
