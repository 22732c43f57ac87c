// Package money converts between the decimal amounts used on the wire and
// the integer minor units used everywhere inside the service. Balances are
// never handled as floats; a transfer of "500.00" IDR is the int64 50000.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Exponent is the number of fractional digits carried by supported
// currencies. Two covers IDR, USD and every other currency the wallet
// service issues.
const Exponent = 2

var (
	ErrMalformedAmount = errors.New("malformed amount")
	ErrTooPrecise      = errors.New("amount has too many decimal places")
	ErrNegativeAmount  = errors.New("amount must not be negative")
)

var unitScale = decimal.New(1, Exponent)

// Parse converts a decimal string into minor units. It rejects negative
// values and values with more fractional digits than the currency carries,
// so "10.005" is an error rather than a silent rounding.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return fromDecimal(d)
}

// FromFloat converts a float64 amount into minor units. Only used at the
// boundary with collaborators that still speak float JSON; internal code
// never goes through floats.
func FromFloat(f float64) (int64, error) {
	return fromDecimal(decimal.NewFromFloat(f))
}

func fromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	scaled := d.Mul(unitScale)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	return scaled.IntPart(), nil
}

// Format renders minor units as a fixed-point decimal string, e.g. 50000 -> "500.00".
func Format(minor int64) string {
	return decimal.New(minor, -Exponent).StringFixed(Exponent)
}
