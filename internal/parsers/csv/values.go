package csv

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var currencySuffixRe = regexp.MustCompile(`\s*(RON|LEI|EUR|USD)\s*$`)

// ParseDecimal parses a number written with either decimal separator.
// Handles "12.99", "12,99", "1.299,00" and "3,49 RON".
func ParseDecimal(value string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '€' || r == '$' || r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, strings.TrimSpace(value))
	cleaned = currencySuffixRe.ReplaceAllString(strings.ToUpper(cleaned), "")

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty numeric value")
	}

	// The separator that appears last is the decimal separator.
	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastDot > lastComma:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", value)
	}
	return d, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"02/01/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a calendar date in one of the layouts found in retailer exports.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
