// internal/expiry/expiry.go

// Package expiry resolves the single expiry date used for sorting and
// alerting from a record's competing signals.
package expiry

import (
	"sort"
	"time"

	"github.com/beautyshelf/beautyshelf-backend/internal/calendar"
	"github.com/beautyshelf/beautyshelf-backend/internal/models"
)

// EffectiveExpiry resolves a record's expiry. An explicit label always wins
// over the PAO-derived date, even when the PAO date would be earlier; with
// neither signal there is no expiry to resolve.
func EffectiveExpiry(p models.Product) (time.Time, bool) {
	if !p.HasExpirySignal() {
		return time.Time{}, false
	}
	if t, ok := calendar.ParseDate(p.ExpiryDate); ok {
		return t, true
	}
	return calendar.PAOExpiryDate(p.OpeningDate, p.PAOMonths)
}

// SortByEffectiveExpiry orders records ascending by effective expiry for
// display. Records without a resolvable expiry sort after all records that
// have one; relative order is otherwise stable.
func SortByEffectiveExpiry(records []models.Product) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, iok := EffectiveExpiry(records[i])
		tj, jok := EffectiveExpiry(records[j])
		if iok && jok {
			return ti.Before(tj)
		}
		return iok && !jok
	})
}

// Countdown is the day distance to a record's effective expiry.
type Countdown struct {
	Days int  `json:"days"` // absolute day count
	Past bool `json:"past"`
}

// ExpiryCountdown computes the countdown to the effective expiry relative to
// the given clock. ok=false when the record has no resolvable expiry.
func ExpiryCountdown(now time.Time, p models.Product) (Countdown, bool) {
	target, ok := EffectiveExpiry(p)
	if !ok {
		return Countdown{}, false
	}
	days := calendar.DaysUntil(now, target)
	if days < 0 {
		return Countdown{Days: -days, Past: true}, true
	}
	return Countdown{Days: days}, true
}
