package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/repo/internal/db"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

type LedgerRepository struct {
	DB
}

func NewLedgerRepository(pool connectionPool, log *slog.Logger) *LedgerRepository {
	return &LedgerRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

func (r *LedgerRepository) Balance(ctx context.Context, accountID string) (model.Amount, error) {
	balanceLogic := func() (model.Amount, error) {
		raw, err := db.New(r.pool).GetBalance(ctx, accountID)
		if err != nil {
			return model.Amount{}, fmt.Errorf("failed to sum entries of %s: %w", accountID, err)
		}
		return model.ParseAmount(raw) //nolint: wrapcheck // error from model
	}

	return WithRetry[model.Amount](balanceLogic, 0) //nolint: wrapcheck // error from wrapped function
}

type appendResult struct {
	entry     entry.Entry
	duplicate bool
}

func (r *LedgerRepository) Append(ctx context.Context, p entry.Params) (entry.Entry, error) {
	appendLogic := func(ctx context.Context, tx connectionPool) (any, error) {
		return appendTX(ctx, tx, p)
	}
	runWithTX := func() (appendResult, error) {
		return WithTX[appendResult](ctx, r.pool, r.log, appendLogic)
	}

	res, err := WithRetry[appendResult](runWithTX, 0)
	if err != nil {
		if isUniqueViolation(err) {
			return entry.Entry{}, serviceerrs.ErrDuplicateReference
		}
		return entry.Entry{}, err //nolint: wrapcheck // error from wrapped function
	}
	if res.duplicate {
		return res.entry, serviceerrs.ErrDuplicateReference
	}
	return res.entry, nil
}

// appendTX locks the account row for the rest of the transaction, so the
// balance read below can not change before the insert.
func appendTX(ctx context.Context, tx connectionPool, p entry.Params) (appendResult, error) {
	q := db.New(tx)
	if err := q.EnsureAccount(ctx, p.AccountID); err != nil {
		return appendResult{}, fmt.Errorf("failed to create account %s: %w", p.AccountID, err)
	}
	if err := q.LockAccount(ctx, p.AccountID); err != nil {
		return appendResult{}, fmt.Errorf("failed to lock account %s: %w", p.AccountID, err)
	}

	if p.Reason == entry.ReasonSpend && p.ExternalRef != "" {
		existing, err := q.FindSpendByRef(ctx, p.ExternalRef)
		if err == nil {
			e, convErr := toEntry(existing)
			return appendResult{entry: e, duplicate: true}, convErr
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return appendResult{}, fmt.Errorf("failed to look up spend %s: %w", p.ExternalRef, err)
		}
	}

	if p.IsDebit() {
		raw, err := q.GetBalance(ctx, p.AccountID)
		if err != nil {
			return appendResult{}, fmt.Errorf("failed to sum entries of %s: %w", p.AccountID, err)
		}
		balance, err := model.ParseAmount(raw)
		if err != nil {
			return appendResult{}, fmt.Errorf("invalid balance %q in DB: %w", raw, err)
		}
		if balance.Add(p.Amount).IsNegative() {
			return appendResult{}, &serviceerrs.InsufficientFundsError{
				Balance:  balance,
				Required: p.Amount.Neg(),
			}
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return appendResult{}, fmt.Errorf("failed to generate entry id: %w", err)
	}
	e := entry.Entry{
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		ID:          id.String(),
		AccountID:   p.AccountID,
		Reason:      p.Reason,
		ExternalRef: p.ExternalRef,
		Category:    p.Category,
		Metadata:    p.Metadata,
		Amount:      p.Amount,
	}
	var metadata *string
	if len(p.Metadata) > 0 {
		metadata = optional(string(p.Metadata))
	}
	if err = q.InsertEntry(ctx, db.InsertEntryParams{
		CreatedAt:   e.CreatedAt,
		ExternalRef: optional(e.ExternalRef),
		Category:    optional(e.Category),
		Metadata:    metadata,
		ID:          e.ID,
		AccountID:   e.AccountID,
		Amount:      e.Amount.String(),
		Reason:      string(e.Reason),
	}); err != nil {
		return appendResult{}, fmt.Errorf("failed to insert entry: %w", err)
	}

	return appendResult{entry: e}, nil
}

func (r *LedgerRepository) History(ctx context.Context,
	accountID string, limit, offset int,
) ([]entry.Entry, error) {
	listLogic := func() ([]entry.Entry, error) {
		rows, err := db.New(r.pool).ListEntries(ctx, db.ListEntriesParams{
			AccountID: accountID,
			Limit:     int32(limit),  //nolint: gosec // bounded by the ledger
			Offset:    int32(offset), //nolint: gosec // bounded by the ledger
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list entries of %s: %w", accountID, err)
		}

		entries := make([]entry.Entry, 0, len(rows))
		for _, row := range rows {
			e, err := toEntry(row)
			if err != nil {
				r.log.LogAttrs(ctx,
					slog.LevelError,
					"invalid ledger entry in DB",
					slog.String("entry_id", row.ID),
					slog.Any(model.KeyLoggerError, err),
				)
				return nil, err
			}
			entries = append(entries, e)
		}
		return entries, nil
	}

	return WithRetry[[]entry.Entry](listLogic, 0) //nolint: wrapcheck // error from wrapped function
}

func (r *LedgerRepository) CountEntries(ctx context.Context, accountID string) (int, error) {
	countLogic := func() (int, error) {
		n, err := db.New(r.pool).CountEntries(ctx, accountID)
		if err != nil {
			return 0, fmt.Errorf("failed to count entries of %s: %w", accountID, err)
		}
		return int(n), nil
	}

	return WithRetry[int](countLogic, 0) //nolint: wrapcheck // error from wrapped function
}

func toEntry(row db.LedgerEntry) (entry.Entry, error) {
	amount, err := model.ParseAmount(row.Amount)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("invalid amount %q: %w", row.Amount, err)
	}
	var metadata json.RawMessage
	if row.Metadata != nil {
		metadata = json.RawMessage(*row.Metadata)
	}
	return entry.Entry{
		CreatedAt:   row.CreatedAt.UTC(),
		ID:          row.ID,
		AccountID:   row.AccountID,
		Reason:      entry.Reason(row.Reason),
		ExternalRef: deref(row.ExternalRef),
		Category:    deref(row.Category),
		Metadata:    metadata,
		Amount:      amount,
	}, nil
}
