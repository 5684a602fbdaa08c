package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   error
	}{
		{"zero", "0", 0, nil},
		{"integer", "12", 1200, nil},
		{"one fraction digit", "12.5", 1250, nil},
		{"two fraction digits", "12.34", 1234, nil},
		{"trailing zeros", "12.3400", 1234, nil},
		{"negative", "-7.05", -705, nil},
		{"three fraction digits", "0.001", 0, ErrAmountPrecision},
		{"garbage", "12,00", 0, ErrAmountFormat},
		{"empty", "", 0, ErrAmountFormat},
		{"overflow", "999999999999999999999", 0, ErrAmountOverflow},
		{"largest ledger amount", "999999999999.99", MaxAmountCents, nil},
		{"above ledger range", "1000000000000.00", 0, ErrAmountOverflow},
		{"below ledger range", "-1000000000000", 0, ErrAmountOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, got.Cents())
		})
	}
}

func TestAmount_String(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		want   string
	}{
		{"zero", NewAmount(0, 0), "0.00"},
		{"cents only", NewAmount(0, 7), "0.07"},
		{"dollars only", NewAmount(20, 0), "20.00"},
		{"mixed", NewAmount(5, 50), "5.50"},
		{"negative", NewAmount(-5, -50), "-5.50"},
		{"cents overflow into dollars", NewAmount(0, 1234), "12.34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.amount.String())
		})
	}
}

func TestAmount_Arithmetic(t *testing.T) {
	a := NewAmount(10, 0)
	b := NewAmount(3, 50)

	assert.Equal(t, NewAmount(13, 50), a.Add(b))
	assert.Equal(t, NewAmount(6, 50), a.Sub(b))
	assert.Equal(t, NewAmount(-10, 0), a.Neg())
	assert.Equal(t, NewAmount(10, 0), a.Neg().Abs())
	product, err := b.Mul(3)
	require.NoError(t, err)
	assert.Equal(t, NewAmount(10, 50), product)
	assert.True(t, b.LessThan(a))
	assert.False(t, a.LessThan(a))
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, b.Sub(a).IsNegative())
	assert.True(t, a.IsPositive())
}

func TestAmount_CheckedArithmetic(t *testing.T) {
	limit := FromCents(MaxAmountCents)

	tests := []struct {
		name    string
		op      func() (Amount, error)
		want    Amount
		wantErr bool
	}{
		{"mul within range", func() (Amount, error) { return NewAmount(2, 50).Mul(4) }, NewAmount(10, 0), false},
		{"mul by zero", func() (Amount, error) { return limit.Mul(0) }, Amount{}, false},
		{"mul beyond range", func() (Amount, error) { return limit.Mul(2) }, Amount{}, true},
		{"mul wraps int64", func() (Amount, error) { return NewAmount(1, 0).Mul(math.MaxInt64) }, Amount{}, true},
		{"mul min int64", func() (Amount, error) { return FromCents(math.MinInt64).Mul(-1) }, Amount{}, true},
		{"add up to the limit", func() (Amount, error) { return limit.Sub(NewAmount(1, 0)).CheckedAdd(NewAmount(1, 0)) }, limit, false},
		{"add beyond range", func() (Amount, error) { return limit.CheckedAdd(FromCents(1)) }, Amount{}, true},
		{"add wraps int64", func() (Amount, error) { return FromCents(math.MaxInt64).CheckedAdd(FromCents(1)) }, Amount{}, true},
		{"add negative beyond range", func() (Amount, error) { return limit.Neg().CheckedAdd(FromCents(-1)) }, Amount{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrAmountOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_JSON(t *testing.T) {
	type payload struct {
		Amount Amount `json:"amount"`
	}

	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{"number", `{"amount": 12.5}`, 1250, false},
		{"string", `{"amount": "12.50"}`, 1250, false},
		{"integer", `{"amount": 40}`, 4000, false},
		{"null keeps zero", `{"amount": null}`, 0, false},
		{"too precise", `{"amount": 1.005}`, 0, true},
		{"not a number", `{"amount": "ten"}`, 0, true},
		{"beyond ledger range", `{"amount": 5e16}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := json.Unmarshal([]byte(tt.input), &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, p.Amount.Cents())
		})
	}

	out, err := json.Marshal(payload{Amount: NewAmount(5, 0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 5.00}`, string(out))
}

func TestAmount_DecimalRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("FromDecimal(Decimal()) is identity", prop.ForAll(
		func(cents int64) bool {
			a := FromCents(cents)
			back, err := FromDecimal(a.Decimal())
			return err == nil && back == a
		},
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
	))

	properties.Property("String parses back to the same amount", prop.ForAll(
		func(cents int64) bool {
			a := FromCents(cents)
			back, err := ParseAmount(a.String())
			return err == nil && back == a
		},
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
	))

	properties.TestingRun(t)
}

func TestFromDecimal_RejectsSubCent(t *testing.T) {
	_, err := FromDecimal(decimal.RequireFromString("1.234"))
	require.ErrorIs(t, err, ErrAmountPrecision)
}
