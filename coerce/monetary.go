package coerce

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Money is a parsed monetary value. Currency is an ISO 4217 code, or empty
// when the raw string carried no recognizable currency token — the caller
// decides whether a source-level default applies.
type Money struct {
	Amount   float64
	Currency string
}

// String renders the canonical "<amount> <CUR>" form used by the unified
// tender_value field. The amount keeps no thousands separators and drops a
// trailing ".00".
func (m Money) String() string {
	amount := strconv.FormatFloat(m.Amount, 'f', -1, 64)
	if m.Currency == "" {
		return amount
	}
	return amount + " " + m.Currency
}

// MonetaryParseError reports a raw value with no parseable numeric part.
type MonetaryParseError struct {
	Raw string
}

func (e *MonetaryParseError) Error() string {
	return fmt.Sprintf("no numeric value in monetary string: %q", e.Raw)
}

// currencySymbols maps the common currency symbols to ISO 4217 codes.
var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

var (
	currencyCodeRe = regexp.MustCompile(`(?:^|[^A-Za-z])([A-Z]{3})(?:[^A-Za-z]|$)`)
	numericPartRe  = regexp.MustCompile(`\d(?:[\d,.' ]*\d)?`)
)

// ParseMonetary splits a raw monetary string into amount and currency.
// Thousands separators (comma, space, apostrophe) are stripped; a leading
// or trailing three-letter code or one of the $ € £ ¥ symbols determines
// the currency. A missing currency is not an error.
func ParseMonetary(raw string) (Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Money{}, &MonetaryParseError{Raw: raw}
	}

	currency := ""
	for symbol, code := range currencySymbols {
		if strings.Contains(trimmed, symbol) {
			currency = code
			break
		}
	}
	if currency == "" {
		if m := currencyCodeRe.FindStringSubmatch(trimmed); m != nil {
			currency = m[1]
		}
	}

	numeric := numericPartRe.FindString(trimmed)
	if numeric == "" {
		return Money{}, &MonetaryParseError{Raw: raw}
	}

	cleaned := strings.NewReplacer(",", "", "'", "", " ", "").Replace(numeric)
	// A value like "1.000.000" uses dots as thousands separators. When the
	// final dot is followed by exactly three digits every dot is a
	// separator; otherwise the last dot is the decimal point.
	if n := strings.Count(cleaned, "."); n > 1 {
		last := strings.LastIndex(cleaned, ".")
		if len(cleaned)-last-1 == 3 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
		}
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Money{}, &MonetaryParseError{Raw: raw}
	}

	return Money{Amount: amount, Currency: currency}, nil
}
