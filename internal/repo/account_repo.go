package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/gopher-rewards/internal/repo/internal/db"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

type AccountRepository struct {
	DB
}

func NewAccountRepository(pool connectionPool, log *slog.Logger) *AccountRepository {
	return &AccountRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

// LinkPaymentAccount binds a gateway payment account to the account,
// replacing any previous link of the same account.
func (r *AccountRepository) LinkPaymentAccount(ctx context.Context, accountID, paymentRef string) error {
	linkLogic := func(ctx context.Context, tx connectionPool) (any, error) {
		q := db.New(tx)
		if err := q.EnsureAccount(ctx, accountID); err != nil {
			return struct{}{}, fmt.Errorf("failed to create account %s: %w", accountID, err)
		}
		if err := q.UpsertPaymentAccount(ctx, accountID, paymentRef); err != nil {
			return struct{}{}, fmt.Errorf("failed to link %s to %s: %w", paymentRef, accountID, err)
		}
		return struct{}{}, nil
	}
	runWithTX := func() (struct{}, error) {
		return WithTX[struct{}](ctx, r.pool, r.log, linkLogic)
	}

	_, err := WithRetry[struct{}](runWithTX, 0)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: payment account %s is linked to another account",
			serviceerrs.ErrConflict, paymentRef)
	}
	return err //nolint: wrapcheck // error from wrapped function
}

func (r *AccountRepository) FindAccountByPaymentRef(ctx context.Context, paymentRef string) (string, error) {
	findLogic := func() (string, error) {
		accountID, err := db.New(r.pool).FindAccountByPaymentRef(ctx, paymentRef)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", serviceerrs.ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to find account by payment ref %s: %w", paymentRef, err)
		}
		return accountID, nil
	}

	return WithRetry[string](findLogic, 0) //nolint: wrapcheck // error from wrapped function
}
