package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/policy"
)

const statusApproved = "approved"

// EntryRequest is the body of /earn and /redeem. Amount is always positive;
// the endpoint decides the sign.
type EntryRequest struct {
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Reason      entry.Reason    `json:"reason,omitempty"`
	ExternalRef string          `json:"external_ref,omitempty"`
	Category    string          `json:"category,omitempty"`
	Amount      model.Amount    `json:"amount"`
}

// IsValid checks the request against the reason served by the endpoint.
// An omitted reason is taken from the endpoint.
func (r *EntryRequest) IsValid(want entry.Reason) error {
	var amountErr, reasonErr, metadataErr error
	if !r.Amount.IsPositive() {
		amountErr = errors.New("amount must be positive")
	}
	if r.Reason != "" && r.Reason != want {
		reasonErr = fmt.Errorf("reason must be %q", want)
	}
	if len(r.Metadata) != 0 && !strings.HasPrefix(strings.TrimSpace(string(r.Metadata)), "{") {
		metadataErr = errors.New("metadata must be an object")
	}
	return errors.Join(amountErr, reasonErr, metadataErr)
}

func (r *EntryRequest) ToParams(accountID string, reason entry.Reason) entry.Params {
	amount := r.Amount
	if reason != entry.ReasonEarn {
		amount = amount.Neg()
	}
	return entry.Params{
		AccountID:   accountID,
		Reason:      reason,
		ExternalRef: r.ExternalRef,
		Category:    r.Category,
		Metadata:    r.Metadata,
		Amount:      amount,
	}
}

type ItemRequest struct {
	Quantity   *int64       `json:"quantity,omitempty"`
	UPC        string       `json:"upc,omitempty"`
	SKU        string       `json:"sku,omitempty"`
	Identifier string       `json:"identifier,omitempty"`
	Name       string       `json:"name,omitempty"`
	Category   string       `json:"category,omitempty"`
	Price      model.Amount `json:"price"`
}

type SpendRequest struct {
	MerchantID string        `json:"merchant_id,omitempty"`
	Items      []ItemRequest `json:"items"`
	Amount     model.Amount  `json:"amount"`
}

func (r *SpendRequest) IsValid() error {
	var itemsErr, amountErr error
	if len(r.Items) == 0 {
		itemsErr = errors.New("items must not be empty")
	}
	if !r.Amount.IsPositive() {
		amountErr = errors.New("amount must be positive")
	}

	itemErrs := make([]error, 0)
	for i, item := range r.Items {
		if item.Price.IsNegative() {
			itemErrs = append(itemErrs, fmt.Errorf("item %d: price must not be negative", i))
		}
		if item.Quantity != nil && (*item.Quantity <= 0 || *item.Quantity > model.MaxQuantity) {
			itemErrs = append(itemErrs,
				fmt.Errorf("item %d: quantity must be between 1 and %d", i, model.MaxQuantity))
		}
	}
	return errors.Join(itemsErr, amountErr, errors.Join(itemErrs...))
}

// ToItems converts the basket; a missing quantity counts as one.
func (r *SpendRequest) ToItems() []policy.Item {
	items := make([]policy.Item, 0, len(r.Items))
	for _, item := range r.Items {
		var quantity int64 = 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		items = append(items, policy.Item{
			UPC:        item.UPC,
			SKU:        item.SKU,
			Identifier: item.Identifier,
			Name:       item.Name,
			Category:   item.Category,
			Price:      item.Price,
			Quantity:   quantity,
		})
	}
	return items
}

type PaymentAccountRequest struct {
	PaymentRef string `json:"payment_ref"`
}

func (r *PaymentAccountRequest) IsValid() error {
	if strings.TrimSpace(r.PaymentRef) == "" {
		return errors.New("payment_ref is empty")
	}
	return nil
}

type BalanceResponse struct {
	AccountID string       `json:"account_id"`
	Currency  string       `json:"currency"`
	Balance   model.Amount `json:"balance"`
}

type HistoryResponse struct {
	Transactions []entry.Entry `json:"transactions"`
	Total        int           `json:"total"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}

type SpendResponse struct {
	EntryID        string       `json:"entry_id"`
	Status         string       `json:"status"`
	ExternalRef    string       `json:"external_ref"`
	Decision       policy.Kind  `json:"decision"`
	Amount         model.Amount `json:"amount"`
	ApprovedAmount model.Amount `json:"approved_amount"`
}

func NewSpendResponse(e entry.Entry, d policy.Decision, charged model.Amount, ref string) SpendResponse {
	return SpendResponse{
		EntryID:        e.ID,
		Status:         statusApproved,
		ExternalRef:    ref,
		Decision:       d.Kind(),
		Amount:         charged,
		ApprovedAmount: d.ApprovedAmount(),
	}
}

type WebhookResponse struct {
	event.Outcome
	Received bool `json:"received"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries the fields a client needs to react to a failure:
// the balance for insufficient funds, the decision for a policy refusal.
type ErrorResponse struct {
	Balance        *model.Amount `json:"balance,omitempty"`
	Required       *model.Amount `json:"required,omitempty"`
	ApprovedAmount *model.Amount `json:"approved_amount,omitempty"`
	Error          string        `json:"error"`
	Detail         string        `json:"detail,omitempty"`
	Decision       string        `json:"decision,omitempty"`
}
