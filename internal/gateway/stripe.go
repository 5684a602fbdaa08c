// Package gateway talks to the payment processor: it authorizes and cancels
// charges and turns signed webhook deliveries into ledger events.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
	"github.com/talx-hub/gopher-rewards/internal/utils/semaphore"
)

const (
	metadataAccountID  = "account_id"
	metadataUserID     = "user_id"
	metadataMerchantID = "merchant_id"
	metadataItemCount  = "item_count"
	unknownMerchant    = "unknown"
	maxNetworkRetries  = 2
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	// APIURL overrides the Stripe API base, e.g. for an emulator.
	APIURL      string
	Tolerance   time.Duration
	Timeout     time.Duration
	Concurrency uint64
}

type AuthorizeRequest struct {
	RequestID  string
	AccountID  string
	MerchantID string
	Amount     model.Amount
	ItemCount  int
}

type Stripe struct {
	log           *slog.Logger
	sema          *semaphore.Semaphore
	intents       *paymentintent.Client
	webhookSecret string
	tolerance     time.Duration
	timeout       time.Duration
}

func NewStripe(cfg Config, log *slog.Logger) *Stripe {
	if cfg.Timeout <= 0 {
		cfg.Timeout = model.DefaultTimeout
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = webhook.DefaultTolerance
	}
	apiURL := stripe.APIURL
	if cfg.APIURL != "" {
		apiURL = cfg.APIURL
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		URL:               stripe.String(apiURL),
		MaxNetworkRetries: stripe.Int64(maxNetworkRetries),
	})

	return &Stripe{
		log:           log,
		sema:          semaphore.New(cfg.Concurrency),
		intents:       &paymentintent.Client{B: backend, Key: cfg.SecretKey},
		webhookSecret: cfg.WebhookSecret,
		tolerance:     cfg.Tolerance,
		timeout:       cfg.Timeout,
	}
}

// Authorize places a hold for the amount and returns the payment intent id.
// Retried requests with the same RequestID resolve to the same intent.
func (s *Stripe) Authorize(ctx context.Context, req AuthorizeRequest) (string, error) {
	if !req.Amount.IsPositive() {
		return "", fmt.Errorf("%w: authorization amount must be positive", serviceerrs.ErrInvalidInput)
	}
	if err := s.sema.AcquireWithTimeout(ctx, s.timeout); err != nil {
		return "", fmt.Errorf("%w: gateway is busy: %w", serviceerrs.ErrAuthorizationFailed, err)
	}
	defer s.sema.Release()

	merchant := req.MerchantID
	if merchant == "" {
		merchant = unknownMerchant
	}
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount.Cents()),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Description:   stripe.String(fmt.Sprintf("Rewards redemption - %d items", req.ItemCount)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.RequestID)
	params.AddMetadata(metadataAccountID, req.AccountID)
	params.AddMetadata(metadataUserID, req.AccountID)
	params.AddMetadata(metadataMerchantID, merchant)
	params.AddMetadata(metadataItemCount, strconv.Itoa(req.ItemCount))

	pi, err := s.intents.New(params)
	if err != nil {
		s.log.LogAttrs(ctx,
			slog.LevelError,
			"payment authorization failed",
			slog.String("request_id", req.RequestID),
			slog.Any(model.KeyLoggerError, err),
		)
		return "", fmt.Errorf("%w: %w", serviceerrs.ErrAuthorizationFailed, err)
	}
	if pi.Status == stripe.PaymentIntentStatusCanceled {
		return "", fmt.Errorf("%w: payment intent %s is canceled", serviceerrs.ErrAuthorizationFailed, pi.ID)
	}

	s.log.LogAttrs(ctx,
		slog.LevelInfo,
		"payment authorized",
		slog.String("request_id", req.RequestID),
		slog.String("payment_intent", pi.ID),
		slog.String("amount", req.Amount.String()),
	)
	return pi.ID, nil
}

// Cancel releases a hold placed by Authorize.
func (s *Stripe) Cancel(ctx context.Context, ref string) error {
	if err := s.sema.AcquireWithTimeout(ctx, s.timeout); err != nil {
		return fmt.Errorf("failed to cancel %s: %w", ref, err)
	}
	defer s.sema.Release()

	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx
	if _, err := s.intents.Cancel(ref, params); err != nil {
		return fmt.Errorf("failed to cancel %s: %w", ref, err)
	}
	return nil
}

// Verify checks the Stripe-Signature header against the payload and decodes
// the event. Any verification failure is reported as ErrBadSignature.
func (s *Stripe) Verify(payload []byte, signature string) (event.Event, error) {
	if signature == "" {
		return event.Event{}, serviceerrs.ErrBadSignature
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{
			Tolerance:                s.tolerance,
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		s.log.LogAttrs(context.TODO(),
			slog.LevelWarn,
			"webhook signature rejected",
			slog.Any(model.KeyLoggerError, err),
		)
		return event.Event{}, serviceerrs.ErrBadSignature
	}

	return decode(evt)
}

func decode(evt stripe.Event) (event.Event, error) {
	res := event.Event{
		ID:   evt.ID,
		Type: string(evt.Type),
	}
	if evt.ID == "" {
		return res, fmt.Errorf("%w: event without id", serviceerrs.ErrInvalidInput)
	}

	var raw json.RawMessage
	if evt.Data != nil {
		raw = evt.Data.Raw
	}

	switch evt.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := unmarshalObject(raw, &pi); err != nil {
			return res, err
		}
		res.Kind = event.KindSettlementSucceeded
		if evt.Type == stripe.EventTypePaymentIntentPaymentFailed {
			res.Kind = event.KindSettlementFailed
		}
		res.ExternalRef = pi.ID
		res.AccountID = pi.Metadata[metadataAccountID]
		if res.AccountID == "" {
			res.AccountID = pi.Metadata[metadataUserID]
		}
		cents := pi.AmountReceived
		if cents == 0 {
			cents = pi.Amount
		}
		res.Amount = model.FromCents(cents)

	case stripe.EventTypeTransferCreated:
		var tr stripe.Transfer
		if err := unmarshalObject(raw, &tr); err != nil {
			return res, err
		}
		res.Kind = event.KindTransferCreated
		res.ExternalRef = tr.ID
		if tr.Destination != nil {
			res.PaymentRef = tr.Destination.ID
		}
		res.Amount = model.FromCents(tr.Amount)

	case stripe.EventTypeAccountUpdated:
		var acct stripe.Account
		if err := unmarshalObject(raw, &acct); err != nil {
			return res, err
		}
		res.Kind = event.KindAccountStatusChanged
		res.PaymentRef = acct.ID

	default:
		res.Kind = event.KindUnknown
	}
	return res, nil
}

func unmarshalObject(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: event without data object", serviceerrs.ErrInvalidInput)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(serviceerrs.ErrInvalidInput, fmt.Errorf("failed to decode event object: %w", err))
	}
	return nil
}
