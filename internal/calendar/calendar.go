// internal/calendar/calendar.go

// Package calendar implements the date arithmetic behind expiry tracking:
// month-aware addition with end-of-month clamping, signed day and month/day
// intervals, PAO-derived expiry dates and display formatting.
//
// Every function is pure: "today" is always an explicit argument, and missing
// or unparseable input yields ok=false rather than an error. Callers must
// treat ok=false as "unknown", never as zero.
package calendar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const dateLayout = "2006-01-02"

// DisplayPlaceholder is rendered wherever a date is absent or unparseable.
const DisplayPlaceholder = "—"

// ParseDate parses a calendar date. The canonical input is YYYY-MM-DD;
// full timestamps (RFC3339 and friends, as found in persisted createdAt
// fields) are accepted and truncated to their calendar day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return StartOfDay(t), true
}

// StartOfDay strips the time-of-day component, keeping the calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months (n may be negative), preserving the
// day-of-month. When the source day does not exist in the target month
// (Jan 31 + 1 month), the result clamps to the last day of the target month
// instead of rolling over.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, time.Month(int(m)+n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the signed day count from the start of now's calendar
// day to the target date: today is 0, tomorrow +1, yesterday -1.
func DaysBetween(now time.Time, target string) (int, bool) {
	t, ok := ParseDate(target)
	if !ok {
		return 0, false
	}
	return DaysUntil(now, t), true
}

// DaysUntil is DaysBetween over an already-parsed date.
func DaysUntil(now, target time.Time) int {
	diff := StartOfDay(target).Sub(StartOfDay(now))
	return int(math.Ceil(diff.Hours() / 24))
}

// MonthsDays is a signed month/day interval. Both components carry the same
// sign.
type MonthsDays struct {
	Months int `json:"months"`
	Days   int `json:"days"`
}

// MonthsDaysBetween decomposes the interval between two dates into whole
// months plus remaining days. The month count is anchored so the day
// remainder is never negative independent of the overall sign.
func MonthsDaysBetween(from, to time.Time) MonthsDays {
	from, to = StartOfDay(from), StartOfDay(to)
	sign := 1
	if to.Before(from) {
		from, to = to, from
		sign = -1
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	anchor := AddMonths(from, months)
	if anchor.After(to) {
		months--
		anchor = AddMonths(from, months)
	}
	days := int(math.Round(to.Sub(anchor).Hours() / 24))
	return MonthsDays{Months: months * sign, Days: days * sign}
}

// PAOExpiryDate derives the expiry implied by a Period After Opening: the
// opening date plus the stated month count. Requires a parseable opening
// date and a strictly positive integer month count.
func PAOExpiryDate(openingDate, paoMonths string) (time.Time, bool) {
	open, ok := ParseDate(openingDate)
	if !ok {
		return time.Time{}, false
	}
	months, err := strconv.Atoi(strings.TrimSpace(paoMonths))
	if err != nil || months <= 0 {
		return time.Time{}, false
	}
	return AddMonths(open, months), true
}

// TimeSinceOpening returns whole days elapsed since the product was opened,
// comparing calendar days so the opening day itself reads as 0.
func TimeSinceOpening(now time.Time, openingDate string) (int, bool) {
	open, ok := ParseDate(openingDate)
	if !ok {
		return 0, false
	}
	diff := StartOfDay(now).Sub(open)
	return int(math.Floor(diff.Hours() / 24)), true
}

// FormatRelativeTime renders the distance to a date as "{Y}y {M}m {D}d"
// with a "past" or "left" suffix. Zero-valued year and month components are
// omitted; the day component always appears when it is the only one, so the
// result is never empty.
func FormatRelativeTime(now time.Time, target string) (string, bool) {
	t, ok := ParseDate(target)
	if !ok {
		return "", false
	}
	return FormatRelativeDate(now, t), true
}

// FormatRelativeDate is FormatRelativeTime over an already-parsed date.
func FormatRelativeDate(now, target time.Time) string {
	diff := DaysUntil(now, target)
	total := diff
	if total < 0 {
		total = -total
	}
	years := total / 365
	months := (total % 365) / 30
	days := total % 30

	parts := make([]string, 0, 3)
	if years > 0 {
		parts = append(parts, fmt.Sprintf("%dy", years))
	}
	if months > 0 {
		parts = append(parts, fmt.Sprintf("%dm", months))
	}
	if days > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}

	suffix := "left"
	if diff < 0 {
		suffix = "past"
	}
	return strings.Join(parts, " ") + " " + suffix
}

// FormatDisplayDate renders a date as DD/MM/YYYY, or the placeholder dash
// for the zero value.
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return DisplayPlaceholder
	}
	return t.Format("02/01/2006")
}

// FormatDisplayDateString renders a raw date string as DD/MM/YYYY, or the
// placeholder dash when absent or unparseable.
func FormatDisplayDateString(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return DisplayPlaceholder
	}
	return FormatDisplayDate(t)
}
