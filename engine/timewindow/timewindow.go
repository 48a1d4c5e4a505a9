// Package timewindow converts timestamps into the day-granular countdowns shown to coordinators.
//
// Every calculation counts whole calendar days at local-midnight boundaries in the location of `now`,
// so an offer created today always shows the full window and ticks down once per midnight.
package timewindow

import (
	"fmt"
	"strings"
	"time"
)

const AID_VALIDITY_DAYS = 10   // Days an aid offer occupies a slot on both sides.
const EXPIRING_WITHIN_DAYS = 1 // A window with this many days or fewer left is considered expiring.

type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
	StatusInvalid  Status = "invalid" // The source date was missing or unparsable.
)

type Window struct {
	Expiration    time.Time `json:"expiration"`
	DaysRemaining int       `json:"daysRemaining"`
	IsExpired     bool      `json:"isExpired"`
	Status        Status    `json:"status"`
}

// Whether the window can be relied on by anything requiring freshness.
// Invalid windows are never current.
func (w Window) Current() bool {
	return w.Status == StatusActive || w.Status == StatusExpiring
}

var invalidWindow = Window{IsExpired: true, Status: StatusInvalid}

// Returns the local midnight that starts the calendar day of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Whole calendar days from `from` to `to` in loc. Negative if `to` is on an earlier day.
// Computed from the date parts alone so DST transitions never produce 23 or 25 hour "days".
func DaysBetween(from, to time.Time, loc *time.Location) int {
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()

	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(b.Sub(a).Hours() / 24)
}

// Computes the window for something created at `created` that stays valid for `validityDays` calendar days.
//
// The window expires at the local midnight `validityDays` days after the creation day, meaning:
//
//	created today       -> DaysRemaining = validityDays
//	created N days ago  -> DaysRemaining = validityDays - N
//	created validityDays (or more) days ago -> IsExpired
//
// A zero `created` yields an invalid, expired window instead of an error.
func FromCreation(created time.Time, validityDays int, now time.Time) Window {
	if created.IsZero() {
		return invalidWindow
	}

	loc := now.Location()
	elapsed := max(DaysBetween(created, now, loc), 0) // created "in the future" counts as today
	remaining := max(validityDays-elapsed, 0)

	return Window{
		Expiration:    StartOfDay(created, loc).AddDate(0, 0, validityDays),
		DaysRemaining: remaining,
		IsExpired:     elapsed >= validityDays,
		Status:        statusFor(elapsed >= validityDays, remaining),
	}
}

// Shorthand for FromCreation with the aid offer validity.
func ForAidOffer(created time.Time, now time.Time) Window {
	return FromCreation(created, AID_VALIDITY_DAYS, now)
}

// Computes the window for something that ends at a known instant, such as a war.
// The window is expired once `now` reaches `end`. DaysRemaining counts calendar days until the end day.
func UntilEnd(end time.Time, now time.Time) Window {
	if end.IsZero() {
		return invalidWindow
	}

	expired := !now.Before(end)
	remaining := max(DaysBetween(now, end, now.Location()), 0)
	if expired {
		remaining = 0
	}

	return Window{
		Expiration:    end,
		DaysRemaining: remaining,
		IsExpired:     expired,
		Status:        statusFor(expired, remaining),
	}
}

func statusFor(expired bool, remaining int) Status {
	switch {
	case expired:
		return StatusExpired
	case remaining <= EXPIRING_WITHIN_DAYS:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// Layouts the game has been seen exporting dates in, most specific first.
var DATE_LAYOUTS = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// Parses a date string in any of DATE_LAYOUTS. Dates without a zone are interpreted in loc.
//
// Callers should log the error and keep going with a zero time, which every window func treats as invalid.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range DATE_LAYOUTS {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date format: %q", raw)
}
