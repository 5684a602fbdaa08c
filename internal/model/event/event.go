package event

import (
	"github.com/talx-hub/gopher-rewards/internal/model"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindSettlementSucceeded
	KindSettlementFailed
	KindTransferCreated
	KindAccountStatusChanged
)

func (k Kind) String() string {
	switch k {
	case KindSettlementSucceeded:
		return "settlement_succeeded"
	case KindSettlementFailed:
		return "settlement_failed"
	case KindTransferCreated:
		return "transfer_created"
	case KindAccountStatusChanged:
		return "account_status_changed"
	default:
		return "unknown"
	}
}

// Event is a verified gateway notification translated to ledger terms.
type Event struct {
	ID          string
	Type        string
	ExternalRef string
	// AccountID is set by settlement events that carry it in metadata.
	AccountID string
	// PaymentRef is the destination payment account of a transfer.
	PaymentRef string
	Amount     model.Amount
	Kind       Kind
}

type Status string

const (
	StatusApplied           Status = "applied"
	StatusAlreadyRecorded   Status = "already_recorded"
	StatusNoEffect          Status = "no_effect"
	StatusUnresolvedAccount Status = "unresolved_account"
	StatusIgnored           Status = "ignored"
	StatusRejected          Status = "rejected"
)

// Outcome is stored once per event id and returned verbatim on redelivery.
type Outcome struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Status    Status `json:"status"`
	EntryID   string `json:"entry_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}
