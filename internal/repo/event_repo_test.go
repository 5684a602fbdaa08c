package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

func TestEventRepository_ApplyEvent(t *testing.T) {
	events, ctx, cancel, pool := setupRepo(t, NewEventRepository)
	defer cancel()
	ledger := NewLedgerRepository(pool, events.log)

	const account = "event-acct"
	credit := &entry.Params{
		AccountID: account, Reason: entry.ReasonEarn, Amount: model.NewAmount(40, 0),
		ExternalRef: "tr_evt_1",
	}

	_, found, err := events.FindOutcome(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, found)

	first, err := events.ApplyEvent(ctx,
		event.Outcome{EventID: "evt_1", EventType: "transfer.created"}, credit)
	require.NoError(t, err)
	assert.Equal(t, event.StatusApplied, first.Status)
	assert.NotEmpty(t, first.EntryID)

	again, err := events.ApplyEvent(ctx,
		event.Outcome{EventID: "evt_1", EventType: "transfer.created"}, credit)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	stored, found, err := events.FindOutcome(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first, stored)

	balance, err := ledger.Balance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, model.NewAmount(40, 0), balance)
}

func TestEventRepository_ApplyEvent_outcomes(t *testing.T) {
	events, ctx, cancel, pool := setupRepo(t, NewEventRepository)
	defer cancel()
	ledger := NewLedgerRepository(pool, events.log)

	const account = "outcome-acct"
	_, err := ledger.Append(ctx, entry.Params{
		AccountID: account, Reason: entry.ReasonEarn, Amount: model.NewAmount(10, 0),
	})
	require.NoError(t, err)
	recorded, err := ledger.Append(ctx, entry.Params{
		AccountID: account, Reason: entry.ReasonSpend, Amount: model.NewAmount(-5, 0),
		ExternalRef: "pi_known",
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		outcome     event.Outcome
		params      *entry.Params
		wantStatus  event.Status
		wantEntryID string
	}{
		{
			name:       "no ledger effect",
			outcome:    event.Outcome{EventID: "evt_noop", EventType: "account.updated", Status: event.StatusNoEffect},
			wantStatus: event.StatusNoEffect,
		},
		{
			name:    "settlement already recorded by spend",
			outcome: event.Outcome{EventID: "evt_known", EventType: "payment_intent.succeeded"},
			params: &entry.Params{
				AccountID: account, Reason: entry.ReasonSpend, Amount: model.NewAmount(-5, 0),
				ExternalRef: "pi_known",
			},
			wantStatus:  event.StatusAlreadyRecorded,
			wantEntryID: recorded.ID,
		},
		{
			name:    "settlement larger than balance",
			outcome: event.Outcome{EventID: "evt_big", EventType: "payment_intent.succeeded"},
			params: &entry.Params{
				AccountID: account, Reason: entry.ReasonSpend, Amount: model.NewAmount(-500, 0),
				ExternalRef: "pi_big",
			},
			wantStatus: event.StatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := events.ApplyEvent(ctx, tt.outcome, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantEntryID, got.EntryID)
		})
	}

	balance, err := ledger.Balance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, model.NewAmount(5, 0), balance)
}

func TestEventRepository_ConcurrentDeliveries(t *testing.T) {
	events, ctx, cancel, pool := setupRepo(t, NewEventRepository)
	defer cancel()
	ledger := NewLedgerRepository(pool, events.log)

	const (
		account    = "concurrent-event-acct"
		deliveries = 8
	)
	credit := &entry.Params{
		AccountID: account, Reason: entry.ReasonEarn, Amount: model.NewAmount(12, 34),
	}

	outcomes := make([]event.Outcome, deliveries)
	errs := make([]error, deliveries)
	var wg sync.WaitGroup
	for i := range deliveries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i], errs[i] = events.ApplyEvent(context.Background(),
				event.Outcome{EventID: "evt_concurrent", EventType: "transfer.created"}, credit)
		}()
	}
	wg.Wait()

	for i := range deliveries {
		require.NoError(t, errs[i])
		assert.Equal(t, outcomes[0], outcomes[i])
	}

	n, err := ledger.CountEntries(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAccountRepository_PaymentAccounts(t *testing.T) {
	accounts, ctx, cancel, _ := setupRepo(t, NewAccountRepository)
	defer cancel()

	_, err := accounts.FindAccountByPaymentRef(ctx, "acct_missing")
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)

	require.NoError(t, accounts.LinkPaymentAccount(ctx, "link-acct-1", "acct_stripe_1"))
	got, err := accounts.FindAccountByPaymentRef(ctx, "acct_stripe_1")
	require.NoError(t, err)
	assert.Equal(t, "link-acct-1", got)

	require.NoError(t, accounts.LinkPaymentAccount(ctx, "link-acct-1", "acct_stripe_2"))
	_, err = accounts.FindAccountByPaymentRef(ctx, "acct_stripe_1")
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)

	err = accounts.LinkPaymentAccount(ctx, "link-acct-2", "acct_stripe_2")
	require.ErrorIs(t, err, serviceerrs.ErrConflict)
}
