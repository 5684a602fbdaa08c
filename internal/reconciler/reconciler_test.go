package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/reconciler/mocks"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

const testSignature = "t=1,v1=abc"

func TestReconciler_Ingest_rejected(t *testing.T) {
	errStore := errors.New("store is down")

	tests := []struct {
		name      string
		signature string
		setup     func(v *mocks.MockVerifier, s *mocks.MockEventStore)
		wantErr   error
	}{
		{
			name:      "missing signature",
			signature: "",
			setup:     func(_ *mocks.MockVerifier, _ *mocks.MockEventStore) {},
			wantErr:   serviceerrs.ErrBadSignature,
		},
		{
			name:      "bad signature",
			signature: testSignature,
			setup: func(v *mocks.MockVerifier, _ *mocks.MockEventStore) {
				v.EXPECT().Verify(mock.Anything, testSignature).
					Return(event.Event{}, serviceerrs.ErrBadSignature).Once()
			},
			wantErr: serviceerrs.ErrBadSignature,
		},
		{
			name:      "missing event id",
			signature: testSignature,
			setup: func(v *mocks.MockVerifier, _ *mocks.MockEventStore) {
				v.EXPECT().Verify(mock.Anything, testSignature).
					Return(event.Event{Type: "transfer.created"}, nil).Once()
			},
			wantErr: serviceerrs.ErrInvalidInput,
		},
		{
			name:      "store failure",
			signature: testSignature,
			setup: func(v *mocks.MockVerifier, s *mocks.MockEventStore) {
				v.EXPECT().Verify(mock.Anything, testSignature).
					Return(event.Event{ID: "evt_1", Kind: event.KindSettlementFailed}, nil).Once()
				s.EXPECT().FindOutcome(mock.Anything, "evt_1").
					Return(event.Outcome{}, false, errStore).Once()
			},
			wantErr: errStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := mocks.NewMockVerifier(t)
			store := mocks.NewMockEventStore(t)
			tt.setup(verifier, store)

			r := New(verifier, store, mocks.NewMockAccountResolver(t), slog.Default())
			_, err := r.Ingest(context.Background(), []byte(`{}`), tt.signature)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReconciler_Ingest_alreadyProcessed(t *testing.T) {
	verifier := mocks.NewMockVerifier(t)
	store := mocks.NewMockEventStore(t)

	stored := event.Outcome{
		EventID: "evt_1", EventType: "payment_intent.succeeded",
		Status: event.StatusApplied, EntryID: "entry-1",
	}
	verifier.EXPECT().Verify(mock.Anything, testSignature).
		Return(event.Event{ID: "evt_1", Kind: event.KindSettlementSucceeded}, nil).Once()
	store.EXPECT().FindOutcome(mock.Anything, "evt_1").Return(stored, true, nil).Once()

	r := New(verifier, store, mocks.NewMockAccountResolver(t), slog.Default())
	got, err := r.Ingest(context.Background(), []byte(`{}`), testSignature)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	store.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciler_Ingest_dispatch(t *testing.T) {
	tests := []struct {
		name       string
		evt        event.Event
		resolve    func(a *mocks.MockAccountResolver)
		wantStatus event.Status
		wantParams *entry.Params
	}{
		{
			name: "settlement debits the account",
			evt: event.Event{
				ID: "evt_s", Type: "payment_intent.succeeded", Kind: event.KindSettlementSucceeded,
				ExternalRef: "pi_1", AccountID: "user-1", Amount: model.NewAmount(20, 0),
			},
			wantStatus: event.StatusApplied,
			wantParams: &entry.Params{
				AccountID: "user-1", Reason: entry.ReasonSpend, ExternalRef: "pi_1",
				Category: entry.CategoryMixed, Amount: model.NewAmount(-20, 0),
			},
		},
		{
			name: "settlement without account",
			evt: event.Event{
				ID: "evt_s2", Type: "payment_intent.succeeded", Kind: event.KindSettlementSucceeded,
				ExternalRef: "pi_2", Amount: model.NewAmount(20, 0),
			},
			wantStatus: event.StatusUnresolvedAccount,
		},
		{
			name: "settlement failed",
			evt: event.Event{
				ID: "evt_f", Type: "payment_intent.payment_failed", Kind: event.KindSettlementFailed,
				ExternalRef: "pi_3", AccountID: "user-1", Amount: model.NewAmount(5, 0),
			},
			wantStatus: event.StatusNoEffect,
		},
		{
			name: "transfer credits the linked account",
			evt: event.Event{
				ID: "evt_t", Type: "transfer.created", Kind: event.KindTransferCreated,
				ExternalRef: "tr_1", PaymentRef: "acct_1", Amount: model.NewAmount(15, 0),
			},
			resolve: func(a *mocks.MockAccountResolver) {
				a.EXPECT().FindAccountByPaymentRef(mock.Anything, "acct_1").Return("user-7", nil).Once()
			},
			wantStatus: event.StatusApplied,
			wantParams: &entry.Params{
				AccountID: "user-7", Reason: entry.ReasonEarn, ExternalRef: "tr_1",
				Amount: model.NewAmount(15, 0),
			},
		},
		{
			name: "transfer to unknown destination",
			evt: event.Event{
				ID: "evt_t2", Type: "transfer.created", Kind: event.KindTransferCreated,
				ExternalRef: "tr_2", PaymentRef: "acct_404", Amount: model.NewAmount(15, 0),
			},
			resolve: func(a *mocks.MockAccountResolver) {
				a.EXPECT().FindAccountByPaymentRef(mock.Anything, "acct_404").
					Return("", serviceerrs.ErrNotFound).Once()
			},
			wantStatus: event.StatusUnresolvedAccount,
		},
		{
			name: "account status changed",
			evt: event.Event{
				ID: "evt_a", Type: "account.updated", Kind: event.KindAccountStatusChanged,
				PaymentRef: "acct_1",
			},
			wantStatus: event.StatusNoEffect,
		},
		{
			name: "settlement beyond the ledger range",
			evt: event.Event{
				ID: "evt_big", Type: "payment_intent.succeeded", Kind: event.KindSettlementSucceeded,
				ExternalRef: "pi_big", AccountID: "user-1", Amount: model.FromCents(model.MaxAmountCents + 1),
			},
			wantStatus: event.StatusRejected,
		},
		{
			name:       "unknown event type",
			evt:        event.Event{ID: "evt_u", Type: "customer.created"},
			wantStatus: event.StatusIgnored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := mocks.NewMockVerifier(t)
			store := mocks.NewMockEventStore(t)
			accounts := mocks.NewMockAccountResolver(t)
			if tt.resolve != nil {
				tt.resolve(accounts)
			}

			verifier.EXPECT().Verify(mock.Anything, testSignature).Return(tt.evt, nil).Once()
			store.EXPECT().FindOutcome(mock.Anything, tt.evt.ID).Return(event.Outcome{}, false, nil).Once()

			var captured *entry.Params
			store.EXPECT().ApplyEvent(mock.Anything, mock.Anything, mock.Anything).
				RunAndReturn(func(_ context.Context, o event.Outcome, p *entry.Params) (event.Outcome, error) {
					captured = p
					if p != nil {
						o.Status = event.StatusApplied
						o.EntryID = "entry-1"
					}
					return o, nil
				}).Once()

			r := New(verifier, store, accounts, slog.Default())
			got, err := r.Ingest(context.Background(), []byte(`{}`), testSignature)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.evt.ID, got.EventID)
			assert.Equal(t, tt.evt.Type, got.EventType)

			if tt.wantParams == nil {
				assert.Nil(t, captured)
				return
			}
			require.NotNil(t, captured)
			assert.JSONEq(t,
				`{"event_id":"`+tt.evt.ID+`","event_type":"`+tt.evt.Type+`"}`,
				string(captured.Metadata))
			captured.Metadata = nil
			assert.Equal(t, tt.wantParams, captured)
		})
	}
}

func TestReconciler_Ingest_resolverFailure(t *testing.T) {
	verifier := mocks.NewMockVerifier(t)
	store := mocks.NewMockEventStore(t)
	accounts := mocks.NewMockAccountResolver(t)
	errDB := errors.New("connection reset")

	verifier.EXPECT().Verify(mock.Anything, testSignature).Return(event.Event{
		ID: "evt_t", Type: "transfer.created", Kind: event.KindTransferCreated,
		PaymentRef: "acct_1", Amount: model.NewAmount(1, 0),
	}, nil).Once()
	store.EXPECT().FindOutcome(mock.Anything, "evt_t").Return(event.Outcome{}, false, nil).Once()
	accounts.EXPECT().FindAccountByPaymentRef(mock.Anything, "acct_1").Return("", errDB).Once()

	r := New(verifier, store, accounts, slog.Default())
	_, err := r.Ingest(context.Background(), []byte(`{}`), testSignature)
	require.ErrorIs(t, err, errDB)
}

// memoryEvents keeps outcomes and entries the way the SQL stores do: the
// first ApplyEvent for an id wins.
type memoryEvents struct {
	outcomes map[string]event.Outcome
	entries  []entry.Params
	mu       sync.Mutex
}

func (m *memoryEvents) FindOutcome(_ context.Context, id string) (event.Outcome, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.outcomes[id]
	return o, ok, nil
}

func (m *memoryEvents) ApplyEvent(_ context.Context, o event.Outcome, p *entry.Params) (event.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.outcomes[o.EventID]; ok {
		return stored, nil
	}
	if p != nil {
		m.entries = append(m.entries, *p)
		o.Status = event.StatusApplied
	}
	m.outcomes[o.EventID] = o
	return o, nil
}

func TestReconciler_Ingest_redelivery(t *testing.T) {
	verifier := mocks.NewMockVerifier(t)
	verifier.EXPECT().Verify(mock.Anything, testSignature).Return(event.Event{
		ID: "evt_dup", Type: "payment_intent.succeeded", Kind: event.KindSettlementSucceeded,
		ExternalRef: "pi_dup", AccountID: "user-1", Amount: model.NewAmount(3, 0),
	}, nil)

	store := &memoryEvents{outcomes: make(map[string]event.Outcome)}
	r := New(verifier, store, mocks.NewMockAccountResolver(t), slog.Default())

	const deliveries = 10
	outcomes := make([]event.Outcome, deliveries)
	var wg sync.WaitGroup
	for i := range deliveries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := r.Ingest(context.Background(), []byte(`{}`), testSignature)
			assert.NoError(t, err)
			outcomes[i] = o
		}()
	}
	wg.Wait()

	assert.Len(t, store.entries, 1)
	for _, o := range outcomes {
		assert.Equal(t, outcomes[0], o)
	}
	assert.Equal(t, event.StatusApplied, outcomes[0].Status)
}
