// Package reconciler applies verified payment gateway webhooks to the
// ledger exactly once per event id.
package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talx-hub/gopher-rewards/internal/audit"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
	"github.com/talx-hub/gopher-rewards/internal/telemetry"
)

type Verifier interface {
	Verify(payload []byte, signature string) (event.Event, error)
}

// EventStore records an outcome together with the entry it caused in one
// transaction. ApplyEvent returns the stored outcome when the event id was
// already recorded.
type EventStore interface {
	FindOutcome(ctx context.Context, eventID string) (event.Outcome, bool, error)
	ApplyEvent(ctx context.Context, outcome event.Outcome, p *entry.Params) (event.Outcome, error)
}

type AccountResolver interface {
	FindAccountByPaymentRef(ctx context.Context, paymentRef string) (string, error)
}

type Reconciler struct {
	verifier Verifier
	events   EventStore
	accounts AccountResolver
	audit    *audit.Logger
	metrics  *telemetry.Metrics
	log      *slog.Logger
}

func New(verifier Verifier, events EventStore, accounts AccountResolver,
	log *slog.Logger, opts ...Option,
) *Reconciler {
	r := &Reconciler{
		verifier: verifier,
		events:   events,
		accounts: accounts,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type Option func(*Reconciler)

func WithAudit(a *audit.Logger) Option {
	return func(r *Reconciler) { r.audit = a }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Reconciler) { r.metrics = m }
}

// Ingest verifies a delivery and applies it. Redeliveries of a processed
// event return the stored outcome without touching the ledger.
func (r *Reconciler) Ingest(ctx context.Context, payload []byte, signature string) (event.Outcome, error) {
	if signature == "" {
		return event.Outcome{}, serviceerrs.ErrBadSignature
	}

	evt, err := r.verifier.Verify(payload, signature)
	if err != nil {
		return event.Outcome{}, err //nolint: wrapcheck // verifier reports service errors
	}
	if evt.ID == "" {
		return event.Outcome{}, fmt.Errorf("%w: event without id", serviceerrs.ErrInvalidInput)
	}

	stored, ok, err := r.events.FindOutcome(ctx, evt.ID)
	if err != nil {
		return event.Outcome{}, fmt.Errorf("failed to look up event %s: %w", evt.ID, err)
	}
	if ok {
		r.log.LogAttrs(ctx,
			slog.LevelInfo,
			"webhook already processed",
			slog.String("event_id", evt.ID),
			slog.String("status", string(stored.Status)),
		)
		return stored, nil
	}

	outcome, params, err := r.plan(ctx, evt)
	if err != nil {
		return event.Outcome{}, err
	}
	if params != nil {
		if err = params.Amount.Validate(); err != nil {
			outcome.Status = event.StatusRejected
			outcome.Detail = err.Error()
			params = nil
		}
	}

	res, err := r.events.ApplyEvent(ctx, outcome, params)
	if err != nil {
		return event.Outcome{}, fmt.Errorf("failed to apply event %s: %w", evt.ID, err)
	}

	r.report(ctx, evt, res, params)
	return res, nil
}

// plan decides what the event does to the ledger. A nil Params means the
// outcome is recorded without an entry.
func (r *Reconciler) plan(ctx context.Context, evt event.Event) (event.Outcome, *entry.Params, error) {
	outcome := event.Outcome{
		EventID:   evt.ID,
		EventType: evt.Type,
		Status:    event.StatusNoEffect,
	}

	switch evt.Kind {
	case event.KindSettlementSucceeded:
		if evt.AccountID == "" {
			outcome.Status = event.StatusUnresolvedAccount
			outcome.Detail = "settlement carries no account"
			return outcome, nil, nil
		}
		if !evt.Amount.IsPositive() {
			return outcome, nil, nil
		}
		return outcome, &entry.Params{
			AccountID:   evt.AccountID,
			Reason:      entry.ReasonSpend,
			ExternalRef: evt.ExternalRef,
			Category:    entry.CategoryMixed,
			Metadata:    eventMetadata(evt),
			Amount:      evt.Amount.Neg(),
		}, nil

	case event.KindTransferCreated:
		unresolved := outcome
		unresolved.Status = event.StatusUnresolvedAccount
		unresolved.Detail = "no account linked to the transfer destination"
		if evt.PaymentRef == "" {
			return unresolved, nil, nil
		}
		accountID, err := r.accounts.FindAccountByPaymentRef(ctx, evt.PaymentRef)
		if errors.Is(err, serviceerrs.ErrNotFound) {
			return unresolved, nil, nil
		}
		if err != nil {
			return outcome, nil, fmt.Errorf("failed to resolve transfer destination %s: %w",
				evt.PaymentRef, err)
		}
		if !evt.Amount.IsPositive() {
			return outcome, nil, nil
		}
		return outcome, &entry.Params{
			AccountID:   accountID,
			Reason:      entry.ReasonEarn,
			ExternalRef: evt.ExternalRef,
			Metadata:    eventMetadata(evt),
			Amount:      evt.Amount,
		}, nil

	case event.KindSettlementFailed, event.KindAccountStatusChanged:
		return outcome, nil, nil

	default:
		outcome.Status = event.StatusIgnored
		return outcome, nil, nil
	}
}

func eventMetadata(evt event.Event) json.RawMessage {
	raw, err := json.Marshal(map[string]string{
		"event_id":   evt.ID,
		"event_type": evt.Type,
	})
	if err != nil {
		return nil
	}
	return raw
}

func (r *Reconciler) report(ctx context.Context, evt event.Event, res event.Outcome, p *entry.Params) {
	var accountID string
	if p != nil {
		accountID = p.AccountID
	}

	level := slog.LevelInfo
	switch res.Status {
	case event.StatusRejected:
		level = slog.LevelError
	case event.StatusUnresolvedAccount:
		level = slog.LevelWarn
	}
	r.log.LogAttrs(ctx,
		level,
		"webhook processed",
		slog.String("event_id", res.EventID),
		slog.String("event_type", res.EventType),
		slog.String("kind", evt.Kind.String()),
		slog.String("status", string(res.Status)),
		slog.String("entry_id", res.EntryID),
		slog.String("detail", res.Detail),
	)

	r.audit.Webhook(ctx, accountID, res, audit.RemoteAddr(ctx))
	r.metrics.RecordWebhook(ctx, res.EventType, string(res.Status))
}
