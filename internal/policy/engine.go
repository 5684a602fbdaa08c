package policy

import (
	"fmt"

	"github.com/talx-hub/gopher-rewards/internal/classifier"
	"github.com/talx-hub/gopher-rewards/internal/model"
)

type Item struct {
	UPC        string
	SKU        string
	Identifier string
	Name       string
	Category   string
	Price      model.Amount
	Quantity   int64
}

func (i Item) Identifiers() classifier.Identifiers {
	return classifier.Identifiers{UPC: i.UPC, SKU: i.SKU, Other: i.Identifier}
}

type ItemResult struct {
	Name     string       `json:"name,omitempty"`
	Category string       `json:"category"`
	Subtotal model.Amount `json:"subtotal"`
	Index    int          `json:"index"`
	Eligible bool         `json:"eligible"`
}

type Evaluation struct {
	Decision Decision
	Items    []ItemResult
	Total    model.Amount
}

type itemClassifier interface {
	Classify(ids classifier.Identifiers, name, declared string) string
	IsEligible(category string) bool
}

type Engine struct {
	classifier itemClassifier
}

func NewEngine(c itemClassifier) *Engine {
	return &Engine{classifier: c}
}

func (e *Engine) CheckItem(item Item) (ItemResult, error) {
	subtotal, err := item.Price.Mul(item.Quantity)
	if err != nil {
		return ItemResult{}, fmt.Errorf("subtotal of %s x %d: %w", item.Price, item.Quantity, err)
	}
	category := e.classifier.Classify(item.Identifiers(), item.Name, item.Category)
	return ItemResult{
		Name:     item.Name,
		Category: category,
		Subtotal: subtotal,
		Eligible: e.classifier.IsEligible(category),
	}, nil
}

// Evaluate partitions the basket into eligible and denied items. Results keep
// the input order. An empty basket is approved for zero. A basket whose
// value leaves the ledger's range fails with model.ErrAmountOverflow.
func (e *Engine) Evaluate(items []Item) (Evaluation, error) {
	results := make([]ItemResult, len(items))
	var approved, total model.Amount
	var denied []ItemResult

	for i, item := range items {
		res, err := e.CheckItem(item)
		if err != nil {
			return Evaluation{}, fmt.Errorf("item %d: %w", i, err)
		}
		res.Index = i
		results[i] = res

		if total, err = total.CheckedAdd(res.Subtotal); err != nil {
			return Evaluation{}, fmt.Errorf("basket total: %w", err)
		}
		if res.Eligible {
			if approved, err = approved.CheckedAdd(res.Subtotal); err != nil {
				return Evaluation{}, fmt.Errorf("approved amount: %w", err)
			}
		} else {
			denied = append(denied, res)
		}
	}

	var decision Decision
	switch {
	case len(denied) == 0:
		decision = Approve{Amount: approved}
	case len(denied) == len(items):
		decision = Deny{}
	default:
		decision = Partial{Amount: approved, Denied: denied}
	}

	return Evaluation{
		Decision: decision,
		Items:    results,
		Total:    total,
	}, nil
}
