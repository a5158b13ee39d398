package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order. The day-first layouts come before the
// month-first ones because the upstream exports are predominantly
// European formatted.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04",
}

// ParseDate parses a cell into a date, trying each known layout in order.
// Returns nil when the cell is blank or matches no layout.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseDecimal parses a cell into a decimal, tolerating thousands
// separators, stray spaces and a percent suffix. Returns nil when the
// cell is blank or not numeric.
func ParseDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, "%")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// ParseInt parses a cell into an integer. Fractional values such as
// "12.0" are truncated toward zero, matching how the source system
// exports integer columns. Returns nil when the cell is blank or not
// numeric.
func ParseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

// TruncateString trims a cell and cuts it to at most max runes.
// Returns nil when the trimmed cell is empty.
func TruncateString(s string, max int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return &s
}
