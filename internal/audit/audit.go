// Package audit writes the audit trail of ledger writes, policy decisions
// and webhook deliveries. Records go to the service log tagged audit=true;
// account ids are replaced by their SHA-256 digest.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/policy"
)

const systemActor = "system"

type Logger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Logger {
	return &Logger{log: log.With(slog.Bool("audit", true))}
}

// WithRemoteAddr stores the client address recorded by audit records.
func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, model.KeyContextRemoteAddr, addr)
}

func RemoteAddr(ctx context.Context) string {
	addr, _ := ctx.Value(model.KeyContextRemoteAddr).(string)
	return addr
}

// HashAccount returns the digest recorded in place of an account id.
func HashAccount(accountID string) string {
	if accountID == "" {
		return systemActor
	}
	sum := sha256.Sum256([]byte(accountID))
	return hex.EncodeToString(sum[:])
}

func (a *Logger) Transaction(ctx context.Context, e entry.Entry, remoteAddr string) {
	if a == nil {
		return
	}
	a.log.LogAttrs(ctx,
		slog.LevelInfo,
		"ledger entry recorded",
		slog.String("action", "transaction"),
		slog.String("account_hash", HashAccount(e.AccountID)),
		slog.String("event_type", string(e.Reason)),
		slog.String("entry_id", e.ID),
		slog.String("amount", e.Amount.String()),
		slog.String("external_ref", e.ExternalRef),
		slog.String("remote_addr", remoteAddr),
	)
}

func (a *Logger) PolicyDecision(ctx context.Context,
	accountID string, eval policy.Evaluation, remoteAddr string,
) {
	if a == nil || eval.Decision == nil {
		return
	}

	denied := make([]string, 0)
	for _, item := range eval.Items {
		if !item.Eligible {
			denied = append(denied, item.Category)
		}
	}
	a.log.LogAttrs(ctx,
		slog.LevelInfo,
		"policy decision",
		slog.String("action", "policy_decision"),
		slog.String("account_hash", HashAccount(accountID)),
		slog.String("event_type", string(eval.Decision.Kind())),
		slog.String("approved_amount", eval.Decision.ApprovedAmount().String()),
		slog.String("total", eval.Total.String()),
		slog.Int("item_count", len(eval.Items)),
		slog.Any("denied_categories", denied),
		slog.String("remote_addr", remoteAddr),
	)
}

func (a *Logger) Webhook(ctx context.Context, accountID string, o event.Outcome, remoteAddr string) {
	if a == nil {
		return
	}
	a.log.LogAttrs(ctx,
		slog.LevelInfo,
		"webhook processed",
		slog.String("action", "webhook"),
		slog.String("account_hash", HashAccount(accountID)),
		slog.String("event_type", o.EventType),
		slog.String("event_id", o.EventID),
		slog.String("status", string(o.Status)),
		slog.String("entry_id", o.EntryID),
		slog.String("remote_addr", remoteAddr),
	)
}
