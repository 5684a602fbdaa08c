package db

import (
	"context"
	"time"
)

const ensureAccount = `
INSERT INTO accounts (id) VALUES ($1)
ON CONFLICT (id) DO NOTHING`

func (q *Queries) EnsureAccount(ctx context.Context, accountID string) error {
	_, err := q.db.Exec(ctx, ensureAccount, accountID)
	return err
}

const lockAccount = `
SELECT id FROM accounts WHERE id = $1 FOR UPDATE`

func (q *Queries) LockAccount(ctx context.Context, accountID string) error {
	var id string
	return q.db.QueryRow(ctx, lockAccount, accountID).Scan(&id)
}

const getBalance = `
SELECT COALESCE(SUM(amount), 0)::text FROM ledger_entries WHERE account_id = $1`

func (q *Queries) GetBalance(ctx context.Context, accountID string) (string, error) {
	var balance string
	err := q.db.QueryRow(ctx, getBalance, accountID).Scan(&balance)
	return balance, err
}

const entryColumns = `id::text, account_id, amount::text, reason, external_ref, category, metadata, created_at`

type InsertEntryParams struct {
	CreatedAt   time.Time
	ExternalRef *string
	Category    *string
	Metadata    *string
	ID          string
	AccountID   string
	Amount      string
	Reason      string
}

const insertEntry = `
INSERT INTO ledger_entries (id, account_id, amount, reason, external_ref, category, metadata, created_at)
VALUES ($1::uuid, $2, $3::numeric, $4, $5, $6, $7, $8)`

func (q *Queries) InsertEntry(ctx context.Context, arg InsertEntryParams) error {
	_, err := q.db.Exec(ctx, insertEntry,
		arg.ID,
		arg.AccountID,
		arg.Amount,
		arg.Reason,
		arg.ExternalRef,
		arg.Category,
		arg.Metadata,
		arg.CreatedAt,
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (LedgerEntry, error) {
	var e LedgerEntry
	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.Amount,
		&e.Reason,
		&e.ExternalRef,
		&e.Category,
		&e.Metadata,
		&e.CreatedAt,
	)
	return e, err
}

const findSpendByRef = `
SELECT ` + entryColumns + ` FROM ledger_entries
WHERE reason = 'spend' AND external_ref = $1`

func (q *Queries) FindSpendByRef(ctx context.Context, externalRef string) (LedgerEntry, error) {
	return scanEntry(q.db.QueryRow(ctx, findSpendByRef, externalRef))
}

type ListEntriesParams struct {
	AccountID string
	Limit     int32
	Offset    int32
}

const listEntries = `
SELECT ` + entryColumns + ` FROM ledger_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

func (q *Queries) ListEntries(ctx context.Context, arg ListEntriesParams) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, listEntries, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const countEntries = `
SELECT count(*) FROM ledger_entries WHERE account_id = $1`

func (q *Queries) CountEntries(ctx context.Context, accountID string) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countEntries, accountID).Scan(&n)
	return n, err
}

const findProcessedEvent = `
SELECT event_id, event_type, outcome, processed_at FROM processed_events WHERE event_id = $1`

func (q *Queries) FindProcessedEvent(ctx context.Context, eventID string) (ProcessedEvent, error) {
	var ev ProcessedEvent
	err := q.db.QueryRow(ctx, findProcessedEvent, eventID).Scan(
		&ev.EventID,
		&ev.EventType,
		&ev.Outcome,
		&ev.ProcessedAt,
	)
	return ev, err
}

type InsertProcessedEventParams struct {
	EventID   string
	EventType string
	Outcome   []byte
}

const insertProcessedEvent = `
INSERT INTO processed_events (event_id, event_type, outcome)
VALUES ($1, $2, $3::jsonb)
ON CONFLICT (event_id) DO NOTHING`

// InsertProcessedEvent reports false when the event id is already taken.
func (q *Queries) InsertProcessedEvent(ctx context.Context, arg InsertProcessedEventParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertProcessedEvent, arg.EventID, arg.EventType, string(arg.Outcome))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const upsertPaymentAccount = `
INSERT INTO payment_accounts (account_id, payment_ref) VALUES ($1, $2)
ON CONFLICT (account_id) DO UPDATE SET payment_ref = EXCLUDED.payment_ref`

func (q *Queries) UpsertPaymentAccount(ctx context.Context, accountID, paymentRef string) error {
	_, err := q.db.Exec(ctx, upsertPaymentAccount, accountID, paymentRef)
	return err
}

const findAccountByPaymentRef = `
SELECT account_id FROM payment_accounts WHERE payment_ref = $1`

func (q *Queries) FindAccountByPaymentRef(ctx context.Context, paymentRef string) (string, error) {
	var accountID string
	err := q.db.QueryRow(ctx, findAccountByPaymentRef, paymentRef).Scan(&accountID)
	return accountID, err
}
