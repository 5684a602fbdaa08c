// Package sqlitestore keeps the ledger, processed events and payment
// account links in a single SQLite file. It is the storage of choice for
// single-node deployments and local development.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dsnOptions = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" +
	"&_pragma=foreign_keys(1)&_txlock=immediate"

var errEventTaken = errors.New("event recorded by a concurrent delivery")

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store serializes writers through a single connection; every transaction
// is opened with BEGIN IMMEDIATE so other processes sharing the file wait
// on the busy timeout instead of failing mid-transaction.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens the database file at path and applies pending migrations.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite DB: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite DB: %w", err)
	}
	if err = runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.LogAttrs(ctx, slog.LevelInfo, "sqlite DB ready", slog.String("path", path))
	return New(db, log), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// New wraps an already migrated database.
func New(db *sql.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) CheckHealth(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping sqlite DB: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		s.log.LogAttrs(context.TODO(),
			slog.LevelError,
			"failed to close sqlite DB",
			slog.Any(model.KeyLoggerError, err),
		)
		return
	}
	s.log.LogAttrs(context.TODO(), slog.LevelInfo, "connection to DB closed")
}

func (s *Store) withTX(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin TX: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.LogAttrs(ctx,
				slog.LevelError,
				"failed to rollback TX",
				slog.Any(model.KeyLoggerError, rbErr),
			)
		}
	}()

	if err = f(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit TX: %w", err)
	}
	return nil
}

func (s *Store) Balance(ctx context.Context, accountID string) (model.Amount, error) {
	return balance(ctx, s.db, accountID)
}

func balance(ctx context.Context, q querier, accountID string) (model.Amount, error) {
	var cents int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM ledger_entries WHERE account_id = ?`,
		accountID,
	).Scan(&cents)
	if err != nil {
		return model.Amount{}, fmt.Errorf("failed to sum entries of %s: %w", accountID, err)
	}
	return model.FromCents(cents), nil
}

func (s *Store) Append(ctx context.Context, p entry.Params) (entry.Entry, error) {
	var res appendResult
	err := s.withTX(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = appendTX(ctx, tx, p)
		return err
	})
	if isUniqueViolation(err) {
		return entry.Entry{}, serviceerrs.ErrDuplicateReference
	}
	if err != nil {
		return entry.Entry{}, err
	}
	if res.duplicate {
		return res.entry, serviceerrs.ErrDuplicateReference
	}
	return res.entry, nil
}

type appendResult struct {
	entry     entry.Entry
	duplicate bool
}

func appendTX(ctx context.Context, tx querier, p entry.Params) (appendResult, error) {
	if err := ensureAccount(ctx, tx, p.AccountID); err != nil {
		return appendResult{}, err
	}

	if p.Reason == entry.ReasonSpend && p.ExternalRef != "" {
		row := tx.QueryRowContext(ctx,
			selectEntry+` WHERE reason = 'spend' AND external_ref = ?`, p.ExternalRef)
		existing, err := scanEntry(row)
		if err == nil {
			return appendResult{entry: existing, duplicate: true}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return appendResult{}, fmt.Errorf("failed to look up spend %s: %w", p.ExternalRef, err)
		}
	}

	if p.IsDebit() {
		current, err := balance(ctx, tx, p.AccountID)
		if err != nil {
			return appendResult{}, err
		}
		if current.Add(p.Amount).IsNegative() {
			return appendResult{}, &serviceerrs.InsufficientFundsError{
				Balance:  current,
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
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries
		(id, account_id, amount_cents, reason, external_ref, category, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, e.Amount.Cents(), string(e.Reason),
		nullable(e.ExternalRef), nullable(e.Category), nullable(string(e.Metadata)),
		e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return appendResult{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	return appendResult{entry: e}, nil
}

func ensureAccount(ctx context.Context, q querier, accountID string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO accounts (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`,
		accountID, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", accountID, err)
	}
	return nil
}

const selectEntry = `SELECT id, account_id, amount_cents, reason, external_ref,
	category, metadata, created_at FROM ledger_entries`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (entry.Entry, error) {
	var (
		e                               entry.Entry
		cents, createdAt                int64
		reason                          string
		externalRef, category, metadata sql.NullString
	)
	if err := row.Scan(&e.ID, &e.AccountID, &cents, &reason,
		&externalRef, &category, &metadata, &createdAt); err != nil {
		return entry.Entry{}, err //nolint: wrapcheck // callers check sql.ErrNoRows
	}
	e.Amount = model.FromCents(cents)
	e.Reason = entry.Reason(reason)
	e.ExternalRef = externalRef.String
	e.Category = category.String
	if metadata.Valid {
		e.Metadata = json.RawMessage(metadata.String)
	}
	e.CreatedAt = time.Unix(0, createdAt).UTC()
	return e, nil
}

func (s *Store) History(ctx context.Context,
	accountID string, limit, offset int,
) ([]entry.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		selectEntry+` WHERE account_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of %s: %w", accountID, err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]entry.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry of %s: %w", accountID, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries of %s: %w", accountID, err)
	}
	return entries, nil
}

func (s *Store) CountEntries(ctx context.Context, accountID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE account_id = ?`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries of %s: %w", accountID, err)
	}
	return n, nil
}

func (s *Store) FindOutcome(ctx context.Context, eventID string) (event.Outcome, bool, error) {
	return findOutcome(ctx, s.db, eventID)
}

func findOutcome(ctx context.Context, q querier, eventID string) (event.Outcome, bool, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT outcome FROM processed_events WHERE event_id = ?`, eventID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Outcome{}, false, nil
	}
	if err != nil {
		return event.Outcome{}, false, fmt.Errorf("failed to find event %s: %w", eventID, err)
	}

	var o event.Outcome
	if err = json.Unmarshal([]byte(raw), &o); err != nil {
		return event.Outcome{}, false, fmt.Errorf("invalid outcome of event %s: %w", eventID, err)
	}
	return o, true, nil
}

// ApplyEvent appends the entry caused by the event, if any, and records the
// outcome in the same transaction. A redelivered event gets the stored
// outcome back untouched.
func (s *Store) ApplyEvent(ctx context.Context,
	outcome event.Outcome, p *entry.Params,
) (event.Outcome, error) {
	var res event.Outcome
	err := s.withTX(ctx, func(tx *sql.Tx) error {
		stored, ok, err := findOutcome(ctx, tx, outcome.EventID)
		if err != nil {
			return err
		}
		if ok {
			res = stored
			return nil
		}

		res = outcome
		if p != nil {
			appended, err := appendTX(ctx, tx, *p)
			var fundsErr *serviceerrs.InsufficientFundsError
			switch {
			case errors.As(err, &fundsErr):
				res.Status = event.StatusRejected
				res.Detail = fundsErr.Error()
			case err != nil:
				return err
			case appended.duplicate:
				res.Status = event.StatusAlreadyRecorded
				res.EntryID = appended.entry.ID
			default:
				res.Status = event.StatusApplied
				res.EntryID = appended.entry.ID
			}
		}

		raw, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("failed to encode outcome: %w", err)
		}
		r, err := tx.ExecContext(ctx,
			`INSERT INTO processed_events (event_id, event_type, outcome, processed_at)
			VALUES (?, ?, ?, ?) ON CONFLICT (event_id) DO NOTHING`,
			res.EventID, res.EventType, string(raw), time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("failed to record event %s: %w", res.EventID, err)
		}
		if n, err := r.RowsAffected(); err != nil || n == 0 {
			return errors.Join(errEventTaken, err)
		}
		return nil
	})
	if errors.Is(err, errEventTaken) {
		stored, ok, findErr := s.FindOutcome(ctx, outcome.EventID)
		if findErr != nil || !ok {
			return event.Outcome{}, fmt.Errorf("failed to read outcome of event %s: %w",
				outcome.EventID, errors.Join(err, findErr))
		}
		return stored, nil
	}
	if err != nil {
		return event.Outcome{}, err
	}
	return res, nil
}

func (s *Store) LinkPaymentAccount(ctx context.Context, accountID, paymentRef string) error {
	err := s.withTX(ctx, func(tx *sql.Tx) error {
		if err := ensureAccount(ctx, tx, accountID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payment_accounts (account_id, payment_ref, created_at) VALUES (?, ?, ?)
			ON CONFLICT (account_id) DO UPDATE SET payment_ref = excluded.payment_ref`,
			accountID, paymentRef, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("failed to link %s to %s: %w", paymentRef, accountID, err)
		}
		return nil
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: payment account %s is linked to another account",
			serviceerrs.ErrConflict, paymentRef)
	}
	return err
}

func (s *Store) FindAccountByPaymentRef(ctx context.Context, paymentRef string) (string, error) {
	var accountID string
	err := s.db.QueryRowContext(ctx,
		`SELECT account_id FROM payment_accounts WHERE payment_ref = ?`, paymentRef,
	).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", serviceerrs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find account by payment ref %s: %w", paymentRef, err)
	}
	return accountID, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
