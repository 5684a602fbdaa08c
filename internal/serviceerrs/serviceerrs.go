package serviceerrs

import (
	"errors"
	"fmt"

	"github.com/talx-hub/gopher-rewards/internal/model"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidReason       = fmt.Errorf("%w: unknown reason", ErrInvalidInput)
	ErrZeroAmount          = fmt.Errorf("%w: amount must not be zero", ErrInvalidInput)
	ErrEmptyBasket         = fmt.Errorf("%w: no items", ErrInvalidInput)
	ErrAuthorizationFailed = errors.New("payment authorization failed")
	ErrBadSignature        = errors.New("invalid signature")
	ErrDuplicateReference  = errors.New("entry with this external reference already exists")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnexpected          = errors.New("unexpected error")
	ErrTokenExpired        = errors.New("token expired")
)

type InsufficientFundsError struct {
	Balance  model.Amount
	Required model.Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, required %s",
		e.Balance, e.Required)
}

type PolicyKind string

const (
	PolicyAllItemsIneligible  PolicyKind = "all_items_ineligible"
	PolicyPartiallyIneligible PolicyKind = "partially_ineligible"
)

type PolicyError struct {
	Kind     PolicyKind
	Decision string
	Approved model.Amount
}

func (e *PolicyError) Error() string {
	if e.Kind == PolicyAllItemsIneligible {
		return "no items eligible for purchase"
	}
	return fmt.Sprintf("only %s of the basket is eligible", e.Approved)
}
