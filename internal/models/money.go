package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a currency amount with at most two decimal places, backed by an
// exact decimal value. The database stores amounts as integer cents, so SQL
// SUM aggregation stays exact too; no floating point is involved anywhere.
type Money struct {
	d decimal.Decimal
}

// MoneyFromCents converts an integer cent count read from storage.
func MoneyFromCents(c int64) Money {
	return Money{decimal.New(c, -2)}
}

// ParseMoney converts a decimal string like "12.34". At least one digit must
// be present and at most two fraction digits are accepted.
func ParseMoney(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Money{}, Invalid("amount is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, Invalid(fmt.Sprintf("invalid amount %q", raw))
	}
	if d.Exponent() < -2 {
		return Money{}, Invalid("amount has more than two decimal places")
	}
	return Money{d}, nil
}

// Cents returns the amount scaled to integer cents for storage.
func (m Money) Cents() int64 {
	return m.d.Shift(2).IntPart()
}

// Add returns the exact sum of the two amounts.
func (m Money) Add(o Money) Money {
	return Money{m.d.Add(o.d)}
}

// Equal reports whether two amounts have the same value, regardless of
// representation ("50" vs "50.00").
func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// String formats the amount with exactly two decimal places.
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// MarshalJSON renders Money as a plain JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(2)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := ParseMoney(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
