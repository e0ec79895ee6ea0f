// Package money provides an immutable monetary value type with currency-aware
// arithmetic. Amounts in different currencies are combined by converting the
// right-hand operand into the left-hand operand's currency through the USD
// exchange-rate table; the result always carries the left operand's currency.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents an immutable monetary amount with currency.
// Fields are unexported to enforce immutability.
type Money struct {
	amount   decimal.Decimal
	currency Code
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Code) Money {
	return Money{amount: amount, currency: currency}
}

// NewFromString parses an amount string and currency code into a Money value.
func NewFromString(amount string, currency string) (Money, error) {
	code, err := ParseCode(currency)
	if err != nil {
		return Money{}, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	return Money{amount: d, currency: code}, nil
}

// Zero returns a Money value of zero in the given currency.
func Zero(currency Code) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() Code {
	return m.currency
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Convert returns a new Money value expressed in the target currency. The
// amount is routed through USD: amount * rate(source) / rate(target).
// Converting to the currency the value already carries is the identity.
func (m Money) Convert(to Code) (Money, error) {
	if m.currency == to {
		return m, nil
	}

	from, err := ExchangeRate(m.currency)
	if err != nil {
		return Money{}, err
	}
	target, err := ExchangeRate(to)
	if err != nil {
		return Money{}, err
	}

	inUSD := m.amount.Mul(from)
	return Money{amount: inUSD.Div(target), currency: to}, nil
}

// Add returns the sum of m and other. If the currencies differ, other is
// converted into m's currency first; the result carries m's currency. The
// left-operand-wins rule is deliberate and load-bearing: it keeps "whose
// currency the result carries" unambiguous.
func (m Money) Add(other Money) (Money, error) {
	converted, err := other.Convert(m.currency)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(converted.amount), currency: m.currency}, nil
}

// Sub returns m minus other, under the same conversion rule as Add.
func (m Money) Sub(other Money) (Money, error) {
	converted, err := other.Convert(m.currency)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(converted.amount), currency: m.currency}, nil
}

// Equal returns true if both amount and currency are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns the amount followed by the currency code, e.g. "104.42 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}
