package model

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatCurrency renders an amount as US dollars, e.g. $1,234.50
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-" + usPrinter.Sprintf("$%.2f", math.Abs(amount))
	}
	return usPrinter.Sprintf("$%.2f", amount)
}

// ParseDate accepts the date shapes the backend emits
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date as "Jun 11, 2025", or "-" when it cannot be parsed
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return "-"
	}
	return t.Format("Jan 02, 2006")
}

// FormatDateTime renders a timestamp as "Jun 11, 2025, 05:30 PM"
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 02, 2006, 03:04 PM")
}
