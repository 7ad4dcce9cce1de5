package dinsar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/common"
)

// ErrInvalidDate is returned when a date cell matches none of the accepted layouts.
var ErrInvalidDate = errors.New("invalid date")

// placeholderPrefixes mark header cells written by spreadsheet exports for
// columns that never had a name.
var placeholderPrefixes = []string{"unnamed"}

var (
	isoLayouts = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"2006/01/02 15:04:05",
	}

	dayFirstLayouts = []string{
		"2/1/2006",
		"2/1/2006 15:04:05",
		"2/1/2006 15:04",
		"2-1-2006",
		"2-1-2006 15:04:05",
		"2.1.2006",
		"2/1/06",
		"2-1-06",
	}

	monthFirstLayouts = []string{
		"1/2/2006",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1-2-2006",
		"1/2/06",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
)

// NormalizeHeader lower-cases and trims a header cell.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// IsPlaceholderHeader reports whether a normalized header is empty or an
// "unnamed" placeholder.
func IsPlaceholderHeader(h string) bool {
	return h == "" || common.HasAnyPrefix(h, placeholderPrefixes...)
}

// ParseDecimal converts a numeric cell written with either a decimal comma or
// a decimal point. Empty, non-numeric and non-finite cells yield nil.
func ParseDecimal(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseRunID parses a run identifier. Integral decimals ("2.0", "2,0") are accepted.
func ParseRunID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v := ParseDecimal(s)
	if v == nil || *v != math.Trunc(*v) {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return int(*v), nil
}

// ParseDayFirstDate parses a date where ambiguous numeric forms are read as
// day/month/year. ISO dates are accepted as well.
func ParseDayFirstDate(s string) (time.Time, error) {
	return parseDate(s, isoLayouts, dayFirstLayouts)
}

// ParseFlexibleDate parses a date trying ISO layouts, then month/day/year,
// then day/month/year.
func ParseFlexibleDate(s string) (time.Time, error) {
	return parseDate(s, isoLayouts, monthFirstLayouts, dayFirstLayouts)
}

func parseDate(s string, layoutSets ...[]string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layouts := range layoutSets {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Day(t), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of t's month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func pluralRows(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
