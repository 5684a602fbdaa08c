// Package spend runs a purchase paid with reward balance: balance check,
// basket eligibility, payment authorization and the ledger debit, in that
// order.
package spend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/talx-hub/gopher-rewards/internal/audit"
	"github.com/talx-hub/gopher-rewards/internal/gateway"
	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/policy"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
	"github.com/talx-hub/gopher-rewards/internal/telemetry"
)

const (
	resultApproved = "approved"
	resultDenied   = "denied"
	resultFailed   = "failed"
)

type Ledger interface {
	Balance(ctx context.Context, accountID string) (model.Amount, error)
	Append(ctx context.Context, p entry.Params) (entry.Entry, error)
}

type Evaluator interface {
	Evaluate(items []policy.Item) (policy.Evaluation, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, req gateway.AuthorizeRequest) (string, error)
	Cancel(ctx context.Context, ref string) error
}

type Request struct {
	AccountID  string
	MerchantID string
	// RequestID is the gateway idempotency key; a random one is used when empty.
	RequestID string
	Items     []policy.Item
	Amount    model.Amount
}

type Result struct {
	Entry       entry.Entry
	Evaluation  policy.Evaluation
	ExternalRef string
	Charged     model.Amount
}

type Orchestrator struct {
	ledger     Ledger
	policy     Evaluator
	authorizer Authorizer
	audit      *audit.Logger
	metrics    *telemetry.Metrics
	log        *slog.Logger
}

func New(l Ledger, e Evaluator, a Authorizer, log *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ledger:     l,
		policy:     e,
		authorizer: a,
		log:        log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*Orchestrator)

func WithAudit(a *audit.Logger) Option {
	return func(o *Orchestrator) { o.audit = a }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func Validate(req Request) error {
	if strings.TrimSpace(req.AccountID) == "" {
		return fmt.Errorf("%w: empty account", serviceerrs.ErrInvalidInput)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", serviceerrs.ErrInvalidInput)
	}
	if err := req.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: %w", serviceerrs.ErrInvalidInput, err)
	}
	if len(req.Items) == 0 {
		return serviceerrs.ErrEmptyBasket
	}
	for i, item := range req.Items {
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %d has a negative price", serviceerrs.ErrInvalidInput, i)
		}
		if item.Quantity <= 0 || item.Quantity > model.MaxQuantity {
			return fmt.Errorf("%w: item %d quantity must be between 1 and %d",
				serviceerrs.ErrInvalidInput, i, model.MaxQuantity)
		}
	}
	return nil
}

// Spend charges the basket against the account. The debit is recorded only
// after the gateway authorized it; once authorized, cancelling ctx no
// longer stops the flow, and a failed debit releases the authorization.
func (o *Orchestrator) Spend(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	balance, err := o.ledger.Balance(ctx, req.AccountID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check balance: %w", err)
	}
	if balance.LessThan(req.Amount) {
		o.metrics.RecordSpend(ctx, resultDenied, model.Amount{})
		return Result{}, &serviceerrs.InsufficientFundsError{Balance: balance, Required: req.Amount}
	}

	eval, err := o.policy.Evaluate(req.Items)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidInput, err)
	}
	o.audit.PolicyDecision(ctx, req.AccountID, eval, audit.RemoteAddr(ctx))
	o.metrics.RecordDecision(ctx, string(eval.Decision.Kind()))

	charge, err := chargeFor(req.Amount, eval.Decision)
	if err != nil {
		o.metrics.RecordSpend(ctx, resultDenied, model.Amount{})
		return Result{Evaluation: eval}, err
	}
	if balance.LessThan(charge) {
		o.metrics.RecordSpend(ctx, resultDenied, model.Amount{})
		return Result{Evaluation: eval}, &serviceerrs.InsufficientFundsError{Balance: balance, Required: charge}
	}

	ref, err := o.authorizer.Authorize(ctx, gateway.AuthorizeRequest{
		RequestID:  req.RequestID,
		AccountID:  req.AccountID,
		MerchantID: req.MerchantID,
		Amount:     charge,
		ItemCount:  len(req.Items),
	})
	if err != nil {
		o.metrics.RecordSpend(ctx, resultFailed, model.Amount{})
		if !errors.Is(err, serviceerrs.ErrAuthorizationFailed) {
			err = fmt.Errorf("%w: %w", serviceerrs.ErrAuthorizationFailed, err)
		}
		return Result{Evaluation: eval}, err
	}

	ctx = context.WithoutCancel(ctx)
	e, err := o.ledger.Append(ctx, entry.Params{
		AccountID:   req.AccountID,
		Reason:      entry.ReasonSpend,
		ExternalRef: ref,
		Category:    entry.CategoryMixed,
		Metadata:    spendMetadata(req, eval),
		Amount:      charge.Neg(),
	})
	if err != nil && !errors.Is(err, serviceerrs.ErrDuplicateReference) {
		o.release(ctx, ref, err)
		o.metrics.RecordSpend(ctx, resultFailed, model.Amount{})
		return Result{Evaluation: eval}, fmt.Errorf("failed to record spend %s: %w", ref, err)
	}

	o.audit.Transaction(ctx, e, audit.RemoteAddr(ctx))
	o.metrics.RecordSpend(ctx, resultApproved, charge)
	o.log.LogAttrs(ctx,
		slog.LevelInfo,
		"spend recorded",
		slog.String("entry_id", e.ID),
		slog.String("payment_intent", ref),
		slog.String("amount", charge.String()),
		slog.String("decision", string(eval.Decision.Kind())),
	)

	return Result{
		Entry:       e,
		Evaluation:  eval,
		ExternalRef: ref,
		Charged:     charge,
	}, nil
}

// chargeFor maps the decision to the amount to authorize. A partial basket
// is charged its eligible subtotal once that covers the requested amount.
func chargeFor(requested model.Amount, d policy.Decision) (model.Amount, error) {
	switch d := d.(type) {
	case policy.Deny:
		return model.Amount{}, &serviceerrs.PolicyError{
			Kind:     serviceerrs.PolicyAllItemsIneligible,
			Decision: string(d.Kind()),
		}
	case policy.Partial:
		if d.Amount.LessThan(requested) {
			return model.Amount{}, &serviceerrs.PolicyError{
				Kind:     serviceerrs.PolicyPartiallyIneligible,
				Decision: string(d.Kind()),
				Approved: d.Amount,
			}
		}
		return d.Amount, nil
	default:
		return requested, nil
	}
}

func (o *Orchestrator) release(ctx context.Context, ref string, cause error) {
	o.log.LogAttrs(ctx,
		slog.LevelError,
		"spend authorized but not recorded, cancelling authorization",
		slog.String("payment_intent", ref),
		slog.Any(model.KeyLoggerError, cause),
	)
	if err := o.authorizer.Cancel(ctx, ref); err != nil {
		o.log.LogAttrs(ctx,
			slog.LevelError,
			"failed to cancel orphaned authorization",
			slog.String("payment_intent", ref),
			slog.Any(model.KeyLoggerError, err),
		)
	}
}

func spendMetadata(req Request, eval policy.Evaluation) json.RawMessage {
	raw, err := json.Marshal(struct {
		MerchantID     string       `json:"merchant_id,omitempty"`
		Decision       policy.Kind  `json:"decision"`
		ItemCount      int          `json:"item_count"`
		ApprovedAmount model.Amount `json:"approved_amount"`
	}{
		MerchantID:     req.MerchantID,
		Decision:       eval.Decision.Kind(),
		ItemCount:      len(req.Items),
		ApprovedAmount: eval.Decision.ApprovedAmount(),
	})
	if err != nil {
		return nil
	}
	return raw
}
