package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/repo/internal/db"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

var errEventTaken = errors.New("event recorded by a concurrent delivery")

type EventRepository struct {
	DB
}

func NewEventRepository(pool connectionPool, log *slog.Logger) *EventRepository {
	return &EventRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

// FindOutcome returns the stored outcome of an already processed event.
func (r *EventRepository) FindOutcome(ctx context.Context, eventID string) (event.Outcome, bool, error) {
	type found struct {
		outcome event.Outcome
		ok      bool
	}
	findLogic := func() (found, error) {
		o, ok, err := findOutcome(ctx, db.New(r.pool), eventID)
		return found{outcome: o, ok: ok}, err
	}

	res, err := WithRetry[found](findLogic, 0)
	if err != nil {
		return event.Outcome{}, false, err //nolint: wrapcheck // error from wrapped function
	}
	return res.outcome, res.ok, nil
}

func findOutcome(ctx context.Context, q *db.Queries, eventID string) (event.Outcome, bool, error) {
	row, err := q.FindProcessedEvent(ctx, eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return event.Outcome{}, false, nil
	}
	if err != nil {
		return event.Outcome{}, false, fmt.Errorf("failed to find event %s: %w", eventID, err)
	}

	var o event.Outcome
	if err = json.Unmarshal(row.Outcome, &o); err != nil {
		return event.Outcome{}, false, fmt.Errorf("invalid outcome of event %s: %w", eventID, err)
	}
	return o, true, nil
}

// ApplyEvent appends the entry caused by the event, if any, and records the
// outcome in the same transaction. Whoever records the event id first wins;
// every other delivery gets the winner's stored outcome.
func (r *EventRepository) ApplyEvent(ctx context.Context,
	outcome event.Outcome, p *entry.Params,
) (event.Outcome, error) {
	applyLogic := func(ctx context.Context, tx connectionPool) (any, error) {
		q := db.New(tx)
		if stored, ok, err := findOutcome(ctx, q, outcome.EventID); err != nil || ok {
			return stored, err
		}

		res := outcome
		if p != nil {
			appended, err := appendTX(ctx, tx, *p)
			var fundsErr *serviceerrs.InsufficientFundsError
			switch {
			case errors.As(err, &fundsErr):
				res.Status = event.StatusRejected
				res.Detail = fundsErr.Error()
			case err != nil:
				return nil, err
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
			return nil, fmt.Errorf("failed to encode outcome: %w", err)
		}
		inserted, err := q.InsertProcessedEvent(ctx, db.InsertProcessedEventParams{
			EventID:   res.EventID,
			EventType: res.EventType,
			Outcome:   raw,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record event %s: %w", res.EventID, err)
		}
		if !inserted {
			return nil, errEventTaken
		}
		return res, nil
	}
	runWithTX := func() (event.Outcome, error) {
		return WithTX[event.Outcome](ctx, r.pool, r.log, applyLogic)
	}

	res, err := WithRetry[event.Outcome](runWithTX, 0)
	if errors.Is(err, errEventTaken) {
		stored, ok, findErr := r.FindOutcome(ctx, outcome.EventID)
		if findErr != nil || !ok {
			return event.Outcome{}, fmt.Errorf("failed to read outcome of event %s: %w",
				outcome.EventID, errors.Join(err, findErr))
		}
		return stored, nil
	}
	if err != nil {
		return event.Outcome{}, err //nolint: wrapcheck // error from wrapped function
	}
	return res, nil
}
