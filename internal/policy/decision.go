package policy

import (
	"github.com/talx-hub/gopher-rewards/internal/model"
)

type Kind string

const (
	KindApprove Kind = "approve"
	KindDeny    Kind = "deny"
	KindPartial Kind = "partial"
)

// Decision is one of Approve, Deny or Partial.
type Decision interface {
	Kind() Kind
	ApprovedAmount() model.Amount
	isDecision()
}

type Approve struct {
	Amount model.Amount
}

func (Approve) Kind() Kind                     { return KindApprove }
func (d Approve) ApprovedAmount() model.Amount { return d.Amount }
func (Approve) isDecision()                    {}

type Deny struct{}

func (Deny) Kind() Kind                   { return KindDeny }
func (Deny) ApprovedAmount() model.Amount { return model.Amount{} }
func (Deny) isDecision()                  {}

// Partial approves the eligible subtotal; Denied lists the excluded items.
type Partial struct {
	Denied []ItemResult
	Amount model.Amount
}

func (Partial) Kind() Kind                     { return KindPartial }
func (d Partial) ApprovedAmount() model.Amount { return d.Amount }
func (Partial) isDecision()                    {}
