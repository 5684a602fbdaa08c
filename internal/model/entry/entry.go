package entry

import (
	"encoding/json"
	"time"

	"github.com/talx-hub/gopher-rewards/internal/model"
)

type Reason string

const (
	ReasonEarn   Reason = "earn"
	ReasonSpend  Reason = "spend"
	ReasonRedeem Reason = "redeem"
)

func (r Reason) IsValid() bool {
	switch r {
	case ReasonEarn, ReasonSpend, ReasonRedeem:
		return true
	}
	return false
}

// CategoryMixed tags spend entries that cover a whole basket.
const CategoryMixed = "mixed"

// Params is an entry that has not been stored yet.
type Params struct {
	AccountID   string
	Reason      Reason
	ExternalRef string
	Category    string
	Metadata    json.RawMessage
	Amount      model.Amount
}

func (p Params) IsDebit() bool {
	return p.Amount.IsNegative()
}

type Entry struct {
	CreatedAt   time.Time       `json:"created_at"`
	ID          string          `json:"entry_id"`
	AccountID   string          `json:"account_id"`
	Reason      Reason          `json:"reason"`
	ExternalRef string          `json:"external_ref,omitempty"`
	Category    string          `json:"category,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Amount      model.Amount    `json:"amount"`
}
