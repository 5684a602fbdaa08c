// Package ledger guards the append-only entry log of reward accounts.
//
// Balances are never stored: they are the sum of an account's entries as
// computed by the Store. Debits are checked against that sum inside the
// store's transaction, so the balance can not go negative under concurrent
// appends.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

type Store interface {
	Balance(ctx context.Context, accountID string) (model.Amount, error)
	Append(ctx context.Context, p entry.Params) (entry.Entry, error)
	History(ctx context.Context, accountID string, limit, offset int) ([]entry.Entry, error)
	CountEntries(ctx context.Context, accountID string) (int, error)
}

type Ledger struct {
	store Store
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Ledger {
	return &Ledger{store: store, log: log}
}

func (l *Ledger) Balance(ctx context.Context, accountID string) (model.Amount, error) {
	if strings.TrimSpace(accountID) == "" {
		return model.Amount{}, fmt.Errorf("%w: empty account", serviceerrs.ErrInvalidInput)
	}
	balance, err := l.store.Balance(ctx, accountID)
	if err != nil {
		return model.Amount{}, fmt.Errorf("failed to get balance for %s: %w", accountID, err)
	}
	return balance, nil
}

func Validate(p entry.Params) error {
	if strings.TrimSpace(p.AccountID) == "" {
		return fmt.Errorf("%w: empty account", serviceerrs.ErrInvalidInput)
	}
	if !p.Reason.IsValid() {
		return fmt.Errorf("%w %q", serviceerrs.ErrInvalidReason, p.Reason)
	}
	if p.Amount.IsZero() {
		return serviceerrs.ErrZeroAmount
	}
	if err := p.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: %w", serviceerrs.ErrInvalidInput, err)
	}
	return nil
}

// Append stores a new entry. A debit that would overdraw the account fails
// with *serviceerrs.InsufficientFundsError. A second spend for the same
// external reference returns the stored entry with ErrDuplicateReference.
func (l *Ledger) Append(ctx context.Context, p entry.Params) (entry.Entry, error) {
	if err := Validate(p); err != nil {
		return entry.Entry{}, err
	}

	e, err := l.store.Append(ctx, p)
	if err != nil {
		return e, fmt.Errorf("failed to append %s entry: %w", p.Reason, err)
	}

	l.log.LogAttrs(ctx,
		slog.LevelDebug,
		"ledger entry appended",
		slog.String("entry_id", e.ID),
		slog.String("reason", string(e.Reason)),
		slog.String("amount", e.Amount.String()),
	)
	return e, nil
}

type Page struct {
	Entries []entry.Entry
	Total   int
	Limit   int
	Offset  int
}

// History lists entries newest first. A zero limit selects the default page size.
func (l *Ledger) History(ctx context.Context, accountID string, limit, offset int) (Page, error) {
	if strings.TrimSpace(accountID) == "" {
		return Page{}, fmt.Errorf("%w: empty account", serviceerrs.ErrInvalidInput)
	}
	if limit < 0 || offset < 0 {
		return Page{}, fmt.Errorf("%w: negative limit or offset", serviceerrs.ErrInvalidInput)
	}
	if limit == 0 {
		limit = model.DefaultHistoryLimit
	}
	limit = min(limit, model.MaxHistoryLimit)

	entries, err := l.store.History(ctx, accountID, limit, offset)
	if err != nil {
		return Page{}, fmt.Errorf("failed to list history for %s: %w", accountID, err)
	}
	total, err := l.store.CountEntries(ctx, accountID)
	if err != nil {
		return Page{}, fmt.Errorf("failed to count entries for %s: %w", accountID, err)
	}

	return Page{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}
