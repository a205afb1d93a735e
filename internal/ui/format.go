package ui

import (
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DescriptionLimit is the card description length in characters
	DescriptionLimit = 200

	InvalidDate        = "Invalid Date"
	NoSalary           = "Salary not specified"
	NoDescription      = "No description available"
	NotSpecified       = "Not specified"
	DefaultCompanySite = "Company Site"

	shortDateLayout = "2 Jan 2006"
	longDateLayout  = "2 January 2006"
)

var printer = message.NewPrinter(language.BritishEnglish)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatAmount renders v with en-GB grouping and at most three decimals
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int) string {
	return printer.Sprint(number.Decimal(n))
}

// FormatSalary renders a salary range; zero and missing bounds are both absent
func FormatSalary(lo, hi *float64) string {
	hasLo := lo != nil && *lo != 0
	hasHi := hi != nil && *hi != 0

	switch {
	case hasLo && hasHi:
		return "£" + FormatAmount(*lo) + " - £" + FormatAmount(*hi)
	case hasLo:
		return "£" + FormatAmount(*lo) + "+"
	case hasHi:
		return "Up to £" + FormatAmount(*hi)
	default:
		return NoSalary
	}
}

// ShortDate renders an upstream timestamp as "15 Jan 2024"
func ShortDate(s string) string {
	return formatDate(s, shortDateLayout)
}

// LongDate renders an upstream timestamp as "15 January 2024"
func LongDate(s string) string {
	return formatDate(s, longDateLayout)
}

func formatDate(s, layout string) string {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(layout)
		}
	}
	return InvalidDate
}

// Truncate shortens s to limit UTF-16 code units, the unit browsers count
// string length in, and appends "..." when cut. A surrogate pair split at
// the limit renders as U+FFFD. Empty input yields the no-description
// placeholder.
func Truncate(s string, limit int) string {
	if s == "" {
		return NoDescription
	}
	units := utf16.Encode([]rune(s))
	if len(units) <= limit {
		return s
	}
	return string(utf16.Decode(units[:limit])) + "..."
}
