package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in        string
		wantCents int64
		wantErr   bool
	}{
		{"50", 5000, false},
		{"50.00", 5000, false},
		{"12.34", 1234, false},
		{"0", 0, false},
		{"0.05", 5, false},
		{"0.5", 50, false},
		{".5", 50, false},
		{"-3.20", -320, false},
		{"+7", 700, false},
		{"12.345", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1,50", 0, true},
		// A sign or dot without any digit is not an amount, and must never
		// be read as zero.
		{"-", 0, true},
		{"+", 0, true},
		{".", 0, true},
		{"-.", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.wantCents, got.Cents(), "input %q", tt.in)
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "50.00", MoneyFromCents(5000).String())
	assert.Equal(t, "0.05", MoneyFromCents(5).String())
	assert.Equal(t, "-3.20", MoneyFromCents(-320).String())
	assert.Equal(t, "0.00", MoneyFromCents(0).String())
}

func TestMoneyArithmetic(t *testing.T) {
	sum := MoneyFromCents(1234).Add(MoneyFromCents(866))
	assert.True(t, sum.Equal(MoneyFromCents(2100)))
	assert.False(t, sum.IsNegative())
	assert.False(t, sum.IsZero())
	assert.True(t, MoneyFromCents(-1).IsNegative())
	assert.True(t, Money{}.IsZero())
}

func TestMoneyEqualIgnoresRepresentation(t *testing.T) {
	whole, err := ParseMoney("50")
	require.NoError(t, err)
	fixed, err := ParseMoney("50.00")
	require.NoError(t, err)
	assert.True(t, whole.Equal(fixed))
	assert.Equal(t, whole.Cents(), fixed.Cents())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	type doc struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(doc{Amount: MoneyFromCents(1234)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":12.34}`, string(out))

	var in doc
	require.NoError(t, json.Unmarshal([]byte(`{"amount":50}`), &in))
	assert.True(t, in.Amount.Equal(MoneyFromCents(5000)))

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"19.99"}`), &in))
	assert.True(t, in.Amount.Equal(MoneyFromCents(1999)))

	err = json.Unmarshal([]byte(`{"amount":1.999}`), &in)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"amount":"-"}`), &in)
	assert.Error(t, err)
}
