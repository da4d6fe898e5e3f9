package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidAmount = errors.New("money: invalid amount")
	ErrTooPrecise    = errors.New("money: more than two fractional digits")
)

// Amount is a price in minor units (cents). The zero value is zero cents.
type Amount int64

// FromCents builds an Amount from a raw minor-unit count.
func FromCents(c int64) Amount { return Amount(c) }

// Parse converts a decimal string such as "29.99", "30" or "-4.50" into an
// Amount. At most two fractional digits are accepted; the storefront API
// never emits sub-cent precision.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	var cents int64
	if hasFrac {
		if len(frac) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrTooPrecise, s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Amount(total), nil
}

// MustParse is Parse that panics; for tests and literals.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Cents returns the raw minor-unit count.
func (a Amount) Cents() int64 { return int64(a) }

// Add returns a+b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Mul returns the amount multiplied by an integer quantity.
func (a Amount) Mul(qty int) Amount { return a * Amount(qty) }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a == 0 }

// String renders the amount as a plain decimal, e.g. "29.99" or "-0.50".
func (a Amount) String() string {
	c := int64(a)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON emits the amount as a decimal string, matching what the
// storefront API expects in request bodies.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON accepts both decimal strings ("29.99") and bare JSON
// numbers (29.99, 30), since the API mixes the two across endpoints.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	// Bare numbers may carry float noise (e.g. 59.980000000000004 from the
	// guest-cart aggregation); round to the nearest cent in that case.
	parsed, err := Parse(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		if f < 0 {
			parsed = Amount(f*100 - 0.5)
		} else {
			parsed = Amount(f*100 + 0.5)
		}
	}
	*a = parsed
	return nil
}
