package domain

import (
	"fmt"
	"strings"
)

type Currency string

const (
	USD Currency = "USD"
	AUD Currency = "AUD"
	JPY Currency = "JPY"
	CNY Currency = "CNY"
)

// ParseCurrency normalizes a caller supplied ISO-4217 style code. It only
// checks the shape of the code; whether a rate exists for it is decided by
// the ExchangeRateProvider.
func ParseCurrency(code string) (Currency, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}
	return Currency(c), nil
}

func (c Currency) String() string {
	return string(c)
}
