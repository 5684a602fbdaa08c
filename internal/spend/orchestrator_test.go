package spend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/gopher-rewards/internal/classifier"
	"github.com/talx-hub/gopher-rewards/internal/gateway"
	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/policy"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
	"github.com/talx-hub/gopher-rewards/internal/spend/mocks"
)

const account = "user-1"

func newEngine(t *testing.T) *policy.Engine {
	t.Helper()
	cat, err := classifier.DefaultCatalog()
	require.NoError(t, err)
	return policy.NewEngine(classifier.New(cat, classifier.NewLRUCache(100)))
}

func item(category string, dollars, cents int64) policy.Item {
	return policy.Item{Category: category, Price: model.NewAmount(dollars, cents), Quantity: 1}
}

func TestValidate(t *testing.T) {
	valid := Request{
		AccountID: account,
		Items:     []policy.Item{item("dairy", 1, 0)},
		Amount:    model.NewAmount(1, 0),
	}

	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr error
	}{
		{"valid", func(_ *Request) {}, nil},
		{"empty account", func(r *Request) { r.AccountID = " " }, serviceerrs.ErrInvalidInput},
		{"zero amount", func(r *Request) { r.Amount = model.Amount{} }, serviceerrs.ErrInvalidInput},
		{"negative amount", func(r *Request) { r.Amount = model.NewAmount(-1, 0) }, serviceerrs.ErrInvalidInput},
		{"empty basket", func(r *Request) { r.Items = nil }, serviceerrs.ErrEmptyBasket},
		{"negative price", func(r *Request) {
			r.Items = []policy.Item{item("dairy", -1, 0)}
		}, serviceerrs.ErrInvalidInput},
		{"zero quantity", func(r *Request) {
			r.Items = []policy.Item{{Category: "dairy", Price: model.NewAmount(1, 0)}}
		}, serviceerrs.ErrInvalidInput},
		{"quantity above the line limit", func(r *Request) {
			r.Items = []policy.Item{{Category: "dairy", Price: model.NewAmount(1, 0), Quantity: model.MaxQuantity + 1}}
		}, serviceerrs.ErrInvalidInput},
		{"amount beyond ledger range", func(r *Request) {
			r.Amount = model.FromCents(model.MaxAmountCents + 1)
		}, model.ErrAmountOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			err := Validate(req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrchestrator_Spend_approved(t *testing.T) {
	ledger := mocks.NewMockLedger(t)
	authorizer := mocks.NewMockAuthorizer(t)

	ledger.EXPECT().Balance(mock.Anything, account).Return(model.NewAmount(50, 0), nil).Once()
	authorizer.EXPECT().Authorize(mock.Anything, gateway.AuthorizeRequest{
		RequestID:  "req-1",
		AccountID:  account,
		MerchantID: "m-1",
		Amount:     model.NewAmount(5, 50),
		ItemCount:  2,
	}).Return("pi_1", nil).Once()
	ledger.EXPECT().Append(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, p entry.Params) (entry.Entry, error) {
			assert.Equal(t, entry.ReasonSpend, p.Reason)
			assert.Equal(t, model.NewAmount(-5, -50), p.Amount)
			assert.Equal(t, "pi_1", p.ExternalRef)
			assert.Equal(t, entry.CategoryMixed, p.Category)
			assert.JSONEq(t,
				`{"merchant_id":"m-1","decision":"approve","item_count":2,"approved_amount":5.50}`,
				string(p.Metadata))
			return entry.Entry{ID: "entry-1", AccountID: p.AccountID, Amount: p.Amount}, nil
		}).Once()

	o := New(ledger, newEngine(t), authorizer, slog.Default())
	res, err := o.Spend(context.Background(), Request{
		AccountID:  account,
		MerchantID: "m-1",
		RequestID:  "req-1",
		Items:      []policy.Item{item("dairy", 3, 50), item("bakery", 2, 0)},
		Amount:     model.NewAmount(5, 50),
	})
	require.NoError(t, err)
	assert.Equal(t, "entry-1", res.Entry.ID)
	assert.Equal(t, "pi_1", res.ExternalRef)
	assert.Equal(t, model.NewAmount(5, 50), res.Charged)
	assert.Equal(t, policy.KindApprove, res.Evaluation.Decision.Kind())
}

func TestOrchestrator_Spend_basketOverflow(t *testing.T) {
	ledger := mocks.NewMockLedger(t)
	authorizer := mocks.NewMockAuthorizer(t)
	ledger.EXPECT().Balance(mock.Anything, account).Return(model.NewAmount(100, 0), nil).Once()

	price := model.FromCents(model.MaxAmountCents / 2)
	o := New(ledger, newEngine(t), authorizer, slog.Default())
	_, err := o.Spend(context.Background(), Request{
		AccountID: account,
		Items: []policy.Item{
			{Category: "dairy", Price: price, Quantity: 2},
			{Category: "dairy", Price: price, Quantity: 2},
			{Category: "alcohol", Price: model.NewAmount(1, 0), Quantity: 1},
		},
		Amount: model.NewAmount(10, 0),
	})
	require.ErrorIs(t, err, serviceerrs.ErrInvalidInput)
	require.ErrorIs(t, err, model.ErrAmountOverflow)
	authorizer.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOrchestrator_Spend_rejected(t *testing.T) {
	tests := []struct {
		name        string
		balance     model.Amount
		items       []policy.Item
		amount      model.Amount
		wantErr     error
		checkErr    func(t *testing.T, err error)
		wantRequest *gateway.AuthorizeRequest
	}{
		{
			name:    "insufficient balance",
			balance: model.NewAmount(1, 0),
			items:   []policy.Item{item("dairy", 3, 0)},
			amount:  model.NewAmount(3, 0),
			checkErr: func(t *testing.T, err error) {
				var fundsErr *serviceerrs.InsufficientFundsError
				require.ErrorAs(t, err, &fundsErr)
				assert.Equal(t, model.NewAmount(1, 0), fundsErr.Balance)
				assert.Equal(t, model.NewAmount(3, 0), fundsErr.Required)
			},
		},
		{
			name:    "all items ineligible",
			balance: model.NewAmount(50, 0),
			items:   []policy.Item{item("alcohol", 5, 0), item("tobacco", 9, 0)},
			amount:  model.NewAmount(14, 0),
			checkErr: func(t *testing.T, err error) {
				var policyErr *serviceerrs.PolicyError
				require.ErrorAs(t, err, &policyErr)
				assert.Equal(t, serviceerrs.PolicyAllItemsIneligible, policyErr.Kind)
				assert.Equal(t, "deny", policyErr.Decision)
				assert.True(t, policyErr.Approved.IsZero())
			},
		},
		{
			name:    "partial below requested",
			balance: model.NewAmount(50, 0),
			items:   []policy.Item{item("dairy", 3, 50), item("alcohol", 5, 0)},
			amount:  model.NewAmount(8, 50),
			checkErr: func(t *testing.T, err error) {
				var policyErr *serviceerrs.PolicyError
				require.ErrorAs(t, err, &policyErr)
				assert.Equal(t, serviceerrs.PolicyPartiallyIneligible, policyErr.Kind)
				assert.Equal(t, model.NewAmount(3, 50), policyErr.Approved)
			},
		},
		{
			name:    "approved amount above balance",
			balance: model.NewAmount(6, 0),
			items:   []policy.Item{item("dairy", 10, 0), item("alcohol", 5, 0)},
			amount:  model.NewAmount(5, 0),
			checkErr: func(t *testing.T, err error) {
				var fundsErr *serviceerrs.InsufficientFundsError
				require.ErrorAs(t, err, &fundsErr)
				assert.Equal(t, model.NewAmount(10, 0), fundsErr.Required)
			},
		},
		{
			name:    "authorization refused",
			balance: model.NewAmount(50, 0),
			items:   []policy.Item{item("dairy", 3, 0)},
			amount:  model.NewAmount(3, 0),
			wantErr: serviceerrs.ErrAuthorizationFailed,
			wantRequest: &gateway.AuthorizeRequest{
				AccountID: account, Amount: model.NewAmount(3, 0), ItemCount: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := mocks.NewMockLedger(t)
			authorizer := mocks.NewMockAuthorizer(t)
			ledger.EXPECT().Balance(mock.Anything, account).Return(tt.balance, nil).Once()
			if tt.wantRequest != nil {
				authorizer.EXPECT().Authorize(mock.Anything, mock.Anything).
					RunAndReturn(func(_ context.Context, req gateway.AuthorizeRequest) (string, error) {
						assert.NotEmpty(t, req.RequestID)
						req.RequestID = ""
						assert.Equal(t, *tt.wantRequest, req)
						return "", errors.New("card declined")
					}).Once()
			}

			o := New(ledger, newEngine(t), authorizer, slog.Default())
			_, err := o.Spend(context.Background(), Request{
				AccountID: account,
				Items:     tt.items,
				Amount:    tt.amount,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.checkErr != nil {
				tt.checkErr(t, err)
			}
			ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestOrchestrator_Spend_partialCharge(t *testing.T) {
	ledger := mocks.NewMockLedger(t)
	authorizer := mocks.NewMockAuthorizer(t)

	ledger.EXPECT().Balance(mock.Anything, account).Return(model.NewAmount(50, 0), nil).Once()
	authorizer.EXPECT().Authorize(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, req gateway.AuthorizeRequest) (string, error) {
			assert.Equal(t, model.NewAmount(10, 0), req.Amount)
			return "pi_partial", nil
		}).Once()
	ledger.EXPECT().Append(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, p entry.Params) (entry.Entry, error) {
			return entry.Entry{ID: "entry-2", Amount: p.Amount, ExternalRef: p.ExternalRef}, nil
		}).Once()

	o := New(ledger, newEngine(t), authorizer, slog.Default())
	res, err := o.Spend(context.Background(), Request{
		AccountID: account,
		Items:     []policy.Item{item("dairy", 10, 0), item("alcohol", 5, 0)},
		Amount:    model.NewAmount(4, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, model.NewAmount(10, 0), res.Charged)
	assert.Equal(t, model.NewAmount(-10, 0), res.Entry.Amount)
	assert.Equal(t, policy.KindPartial, res.Evaluation.Decision.Kind())
}

func TestOrchestrator_Spend_recordFailure(t *testing.T) {
	drained := &serviceerrs.InsufficientFundsError{
		Balance:  model.Amount{},
		Required: model.NewAmount(3, 0),
	}

	tests := []struct {
		name       string
		appendErr  error
		wantCancel bool
		wantErr    error
	}{
		{"balance drained concurrently", drained, true, drained},
		{"store failure", errors.New("connection reset"), true, nil},
		{"already recorded by webhook", serviceerrs.ErrDuplicateReference, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := mocks.NewMockLedger(t)
			authorizer := mocks.NewMockAuthorizer(t)

			ledger.EXPECT().Balance(mock.Anything, account).Return(model.NewAmount(3, 0), nil).Once()
			authorizer.EXPECT().Authorize(mock.Anything, mock.Anything).Return("pi_9", nil).Once()
			ledger.EXPECT().Append(mock.Anything, mock.Anything).
				Return(entry.Entry{ID: "entry-9"}, tt.appendErr).Once()
			if tt.wantCancel {
				authorizer.EXPECT().Cancel(mock.Anything, "pi_9").Return(nil).Once()
			}

			o := New(ledger, newEngine(t), authorizer, slog.Default())
			res, err := o.Spend(context.Background(), Request{
				AccountID: account,
				Items:     []policy.Item{item("dairy", 3, 0)},
				Amount:    model.NewAmount(3, 0),
			})
			if !tt.wantCancel {
				require.NoError(t, err)
				assert.Equal(t, "entry-9", res.Entry.ID)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestOrchestrator_Spend_cancelledAfterAuthorization(t *testing.T) {
	ledger := mocks.NewMockLedger(t)
	authorizer := mocks.NewMockAuthorizer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger.EXPECT().Balance(mock.Anything, account).Return(model.NewAmount(3, 0), nil).Once()
	authorizer.EXPECT().Authorize(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ gateway.AuthorizeRequest) (string, error) {
			cancel()
			return "pi_c", nil
		}).Once()
	ledger.EXPECT().Append(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, p entry.Params) (entry.Entry, error) {
			assert.NoError(t, ctx.Err())
			return entry.Entry{ID: "entry-c", Amount: p.Amount}, nil
		}).Once()

	o := New(ledger, newEngine(t), authorizer, slog.Default())
	res, err := o.Spend(ctx, Request{
		AccountID: account,
		Items:     []policy.Item{item("dairy", 3, 0)},
		Amount:    model.NewAmount(3, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, "entry-c", res.Entry.ID)
}

// guardedLedger debits under a mutex, like the SQL stores do under a row lock.
type guardedLedger struct {
	entries []entry.Params
	mu      sync.Mutex
	balance model.Amount
}

func (l *guardedLedger) Balance(_ context.Context, _ string) (model.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance, nil
}

func (l *guardedLedger) Append(_ context.Context, p entry.Params) (entry.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance.Add(p.Amount).IsNegative() {
		return entry.Entry{}, &serviceerrs.InsufficientFundsError{Balance: l.balance, Required: p.Amount.Neg()}
	}
	l.balance = l.balance.Add(p.Amount)
	l.entries = append(l.entries, p)
	return entry.Entry{ID: fmt.Sprintf("entry-%d", len(l.entries)), Amount: p.Amount}, nil
}

type countingAuthorizer struct {
	authorized atomic.Int32
	cancelled  atomic.Int32
}

func (a *countingAuthorizer) Authorize(_ context.Context, _ gateway.AuthorizeRequest) (string, error) {
	n := a.authorized.Add(1)
	return fmt.Sprintf("pi_%d", n), nil
}

func (a *countingAuthorizer) Cancel(_ context.Context, _ string) error {
	a.cancelled.Add(1)
	return nil
}

func TestOrchestrator_Spend_concurrent(t *testing.T) {
	const workers = 20
	ledger := &guardedLedger{balance: model.NewAmount(10, 0)}
	authorizer := &countingAuthorizer{}
	o := New(ledger, newEngine(t), authorizer, slog.Default())

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.Spend(context.Background(), Request{
				AccountID: account,
				Items:     []policy.Item{item("dairy", 10, 0)},
				Amount:    model.NewAmount(10, 0),
			})
			var fundsErr *serviceerrs.InsufficientFundsError
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.As(err, &fundsErr):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), rejected.Load())
	assert.Len(t, ledger.entries, 1)
	assert.True(t, ledger.balance.IsZero())
	assert.Equal(t, authorizer.authorized.Load()-1, authorizer.cancelled.Load())
}
