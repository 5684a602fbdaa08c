package model

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const centsInDollar = 100
const amountScale = 2

// MaxAmountCents is the largest magnitude the ledger column NUMERIC(14,2) holds.
const MaxAmountCents int64 = 99_999_999_999_999

// MaxQuantity bounds a single basket line.
const MaxQuantity int64 = 10_000

var (
	ErrAmountPrecision = errors.New("amount must have at most two fractional digits")
	ErrAmountOverflow  = errors.New("amount overflow")
	ErrAmountFormat    = errors.New("amount is not a decimal number")
)

// Amount is a fixed-point USD value stored as whole cents.
type Amount struct {
	cents int64
}

func NewAmount(dollars, cents int64) Amount {
	return Amount{cents: dollars*centsInDollar + cents}
}

func FromCents(cents int64) Amount {
	return Amount{cents: cents}
}

func FromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(amountScale)) {
		return Amount{}, ErrAmountPrecision
	}
	shifted := d.Shift(amountScale).BigInt()
	if !shifted.IsInt64() {
		return Amount{}, ErrAmountOverflow
	}
	a := Amount{cents: shifted.Int64()}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmountFormat, s)
	}
	return FromDecimal(d)
}

func (a Amount) Cents() int64 {
	return a.cents
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.cents, -amountScale)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(amountScale)
}

// Validate reports whether the amount fits the ledger's range.
func (a Amount) Validate() error {
	if a.cents > MaxAmountCents || a.cents < -MaxAmountCents {
		return fmt.Errorf("%w: %s exceeds %s", ErrAmountOverflow, a, FromCents(MaxAmountCents))
	}
	return nil
}

func (a Amount) Add(b Amount) Amount {
	return Amount{cents: a.cents + b.cents}
}

// CheckedAdd is Add that fails instead of leaving the ledger's range.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := a.cents + b.cents
	if (b.cents > 0 && sum < a.cents) || (b.cents < 0 && sum > a.cents) {
		return Amount{}, ErrAmountOverflow
	}
	res := Amount{cents: sum}
	if err := res.Validate(); err != nil {
		return Amount{}, err
	}
	return res, nil
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{cents: a.cents - b.cents}
}

func (a Amount) Neg() Amount {
	return Amount{cents: -a.cents}
}

func (a Amount) Abs() Amount {
	if a.cents < 0 {
		return a.Neg()
	}
	return a
}

// Mul multiplies by a quantity and fails instead of leaving the ledger's range.
func (a Amount) Mul(quantity int64) (Amount, error) {
	if a.cents == 0 || quantity == 0 {
		return Amount{}, nil
	}
	product := a.cents * quantity
	if product/quantity != a.cents {
		return Amount{}, ErrAmountOverflow
	}
	res := Amount{cents: product}
	if err := res.Validate(); err != nil {
		return Amount{}, err
	}
	return res, nil
}

func (a Amount) IsZero() bool {
	return a.cents == 0
}

func (a Amount) IsPositive() bool {
	return a.cents > 0
}

func (a Amount) IsNegative() bool {
	return a.cents < 0
}

func (a Amount) LessThan(b Amount) bool {
	return a.cents < b.cents
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(bytes.Trim(data, `"`))
	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
