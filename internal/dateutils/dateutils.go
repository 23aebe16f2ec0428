// Package dateutils normalizes the many date spellings found in budget
// spreadsheets into the canonical DD-MMM-YYYY form used by every record.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout constants for the formats accepted by Normalize.
const (
	DateLayoutCanonical = "02-Jan-2006"
	DateLayoutISO       = "2006-01-02"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutSlashISO  = "2006/01/02"
	DateLayoutWithMonth = "2-Jan-2006"
)

// Months is the fixed month-abbreviation table used for formatting and for
// the dashboard's monthly buckets.
var Months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// CommonFormats lists the layouts tried, in order, before the explicit
// slash-separated fallback.
var CommonFormats = []string{
	DateLayoutISO,
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayoutFull,
	DateLayoutSlashISO,
	DateLayoutWithMonth,
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon, 02 Jan 2006",
}

var (
	canonicalPattern = regexp.MustCompile(`^\d{2}-[A-Za-z]{3}-\d{4}$`)
	slashPattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// Normalize returns raw in DD-MMM-YYYY form, or raw unchanged when it cannot
// be parsed. Empty input yields "".
func Normalize(raw string) string {
	out, _ := NormalizeDate(raw)
	return out
}

// NormalizeDate is Normalize plus a flag reporting whether the result is
// canonical. ok is false only when a non-empty value was left as typed.
func NormalizeDate(raw string) (string, bool) {
	s := CleanDateString(raw)
	if s == "" {
		return "", true
	}
	if IsCanonical(s) {
		return s, true
	}
	if t, err := ParseDate(s); err == nil {
		return Format(t), true
	}
	if t, ok := parseSlashDate(s); ok {
		return Format(t), true
	}
	return raw, false
}

// IsCanonical reports whether s already has the DD-MMM-YYYY shape.
func IsCanonical(s string) bool {
	return canonicalPattern.MatchString(s)
}

// ParseDate tries every layout in CommonFormats.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = CleanDateString(dateStr)
	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// parseSlashDate reads MM/DD/YYYY. When the first field cannot be a month
// but the second can, the value is read day-first instead.
func parseSlashDate(s string) (time.Time, bool) {
	m := slashPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if t, ok := buildDate(year, first, second); ok {
		return t, true
	}
	return buildDate(year, second, first)
}

func buildDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date rolls 31/04 over into May; reject that.
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// Format renders t as DD-MMM-YYYY using the Months table.
func Format(t time.Time) string {
	return fmt.Sprintf("%02d-%s-%04d", t.Day(), Months[t.Month()-1], t.Year())
}

// MonthIndex returns the zero-based month of a canonical date, or -1 when
// the middle segment is not one of the Months abbreviations.
func MonthIndex(date string) int {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return -1
	}
	for i, m := range Months {
		if parts[1] == m {
			return i
		}
	}
	return -1
}

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return spacePattern.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
