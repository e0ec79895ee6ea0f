package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code.
type Code string

// Supported currencies.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	INR Code = "INR"
	AUD Code = "AUD"
	CAD Code = "CAD"
	SGD Code = "SGD"
	CHF Code = "CHF"
	JPY Code = "JPY"
	CNY Code = "CNY"
)

// ErrUnknownCurrency is returned for a currency code absent from the rate
// table.
var ErrUnknownCurrency = errors.New("unknown currency")

// ratesToUSD holds one unit of each currency expressed in USD.
// Snapshot of 2016-12-28; conversions are deterministic, not live.
var ratesToUSD = map[Code]decimal.Decimal{
	USD: decimal.NewFromInt(1),
	EUR: decimal.RequireFromString("1.0442232039"),
	GBP: decimal.RequireFromString("1.2241724577"),
	INR: decimal.RequireFromString("0.0146787779"),
	AUD: decimal.RequireFromString("0.7193469358"),
	CAD: decimal.RequireFromString("0.7370899493"),
	SGD: decimal.RequireFromString("0.6892326550"),
	CHF: decimal.RequireFromString("0.9724892260"),
	JPY: decimal.RequireFromString("0.0084973593"),
	CNY: decimal.RequireFromString("0.1437105571"),
}

// ParseCode validates a currency code string against the rate table.
func ParseCode(text string) (Code, error) {
	code := Code(text)
	if _, ok := ratesToUSD[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, text)
	}
	return code, nil
}

// ExchangeRate returns the USD value of one unit of the given currency.
func ExchangeRate(code Code) (decimal.Decimal, error) {
	rate, ok := ratesToUSD[code]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return rate, nil
}
